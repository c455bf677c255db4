package chip8rt

// AddVxVy implements ADD Vx, Vy (8XY4): Vx += Vy, VF = carry.
//
// The sum is computed and stored before VF is touched, so that when
// x == 0xF the flag write is the value that survives, not the arithmetic.
func AddVxVy(ctx *Context, x, y uint8) {
	sum := uint16(ctx.V[x]) + uint16(ctx.V[y])
	ctx.V[x] = byte(sum & 0xFF)
	ctx.V[0xF] = boolToByte(sum > 255)
}

// SubVxVy implements SUB Vx, Vy (8XY5): Vx -= Vy, VF = NOT borrow.
func SubVxVy(ctx *Context, x, y uint8) {
	vx, vy := ctx.V[x], ctx.V[y]
	ctx.V[x] = vx - vy
	ctx.V[0xF] = boolToByte(vx >= vy)
}

// SubnVxVy implements SUBN Vx, Vy (8XY7): Vx = Vy - Vx, VF = NOT borrow.
func SubnVxVy(ctx *Context, x, y uint8) {
	vx, vy := ctx.V[x], ctx.V[y]
	ctx.V[x] = vy - vx
	ctx.V[0xF] = boolToByte(vy >= vx)
}

// ShrVx implements SHR Vx (8XY6) in the modern-interpreter convention:
// VF = LSB of Vx before the shift, Vx >>= 1.
func ShrVx(ctx *Context, x uint8) {
	vx := ctx.V[x]
	ctx.V[x] = vx >> 1
	ctx.V[0xF] = vx & 0x01
}

// ShrVxVy implements SHR Vx, Vy in the original COSMAC VIP convention
// (quirk shift_uses_vy enabled): VF = LSB of Vy, Vx = Vy >> 1.
func ShrVxVy(ctx *Context, x, y uint8) {
	vy := ctx.V[y]
	ctx.V[x] = vy >> 1
	ctx.V[0xF] = vy & 0x01
}

// ShlVx implements SHL Vx (8XYE) in the modern-interpreter convention:
// VF = MSB of Vx before the shift, Vx <<= 1.
func ShlVx(ctx *Context, x uint8) {
	vx := ctx.V[x]
	ctx.V[x] = vx << 1
	ctx.V[0xF] = (vx & 0x80) >> 7
}

// ShlVxVy implements SHL Vx, Vy in the original COSMAC VIP convention.
func ShlVxVy(ctx *Context, x, y uint8) {
	vy := ctx.V[y]
	ctx.V[x] = vy << 1
	ctx.V[0xF] = (vy & 0x80) >> 7
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ClearScreen implements CLS (00E0).
func ClearScreen(ctx *Context) {
	ctx.Display = [DisplaySize]byte{}
	ctx.DisplayDirty = true
}

// DrawSprite implements DRW Vx, Vy, N (DXYN).
//
// The sprite's origin wraps modulo the display dimensions, but the draw
// itself clips: rows or columns that would fall off the display are
// simply not drawn rather than wrapping to the opposite edge. VF is set
// if any already-lit pixel gets erased by the XOR.
func DrawSprite(ctx *Context, vx, vy, height uint8) {
	x := ctx.V[vx] % DisplayWidth
	y := ctx.V[vy] % DisplayHeight

	ctx.V[0xF] = 0

	for row := uint8(0); row < height; row++ {
		spriteByte := ctx.Memory[ctx.I+uint16(row)]

		if int(y)+int(row) >= DisplayHeight {
			break
		}

		for col := uint8(0); col < 8; col++ {
			if int(x)+int(col) >= DisplayWidth {
				break
			}

			if spriteByte&(0x80>>col) == 0 {
				continue
			}

			pixelIdx := (int(y)+int(row))*DisplayWidth + (int(x) + int(col))
			if ctx.Display[pixelIdx] != 0 {
				ctx.V[0xF] = 1
			}
			ctx.Display[pixelIdx] ^= 1
		}
	}

	ctx.DisplayDirty = true
}

// KeyPressed implements the key-state check backing SKP/SKNP (EX9E/EXA1).
func KeyPressed(ctx *Context, key uint8) bool {
	if key > 0xF {
		return false
	}
	return ctx.Keys[key]
}

// WaitKey implements LD Vx, K (FX0A). It only arms the wait; the actual
// key value is written into V[reg] by the main loop once a key release
// is observed, mirroring the original's split between instruction and
// runtime loop.
func WaitKey(ctx *Context, reg uint8) {
	ctx.WaitingForKey = true
	ctx.KeyWaitRegister = reg
}

// StoreBCD implements LD B, Vx (FX33): writes the hundreds, tens, and
// ones digits of V[x] to memory at I, I+1, I+2.
func StoreBCD(ctx *Context, x uint8) {
	value := ctx.V[x]
	ctx.Memory[ctx.I] = value / 100
	ctx.Memory[ctx.I+1] = (value / 10) % 10
	ctx.Memory[ctx.I+2] = value % 10
}

// StoreRegisters implements LD [I], Vx (FX55): stores V0..V[x] to memory
// starting at I. If incrementI is set (memory_increment_i quirk), I is
// advanced by x+1 afterward, matching the original COSMAC VIP behavior.
func StoreRegisters(ctx *Context, x uint8, incrementI bool) {
	for i := uint8(0); i <= x; i++ {
		ctx.Memory[ctx.I+uint16(i)] = ctx.V[i]
	}
	if incrementI {
		ctx.I += uint16(x) + 1
	}
}

// LoadRegisters implements LD Vx, [I] (FX65): loads V0..V[x] from memory
// starting at I, with the same increment_i quirk as StoreRegisters.
func LoadRegisters(ctx *Context, x uint8, incrementI bool) {
	for i := uint8(0); i <= x; i++ {
		ctx.V[i] = ctx.Memory[ctx.I+uint16(i)]
	}
	if incrementI {
		ctx.I += uint16(x) + 1
	}
}

// TickTimers decrements the delay and sound timers if they are nonzero.
// Called once per 60Hz tick from the main loop, never from generated code.
func TickTimers(ctx *Context) {
	if ctx.DelayTimer > 0 {
		ctx.DelayTimer--
	}
	if ctx.SoundTimer > 0 {
		ctx.SoundTimer--
	}
}

// SoundActive reports whether the sound timer is currently nonzero.
func SoundActive(ctx *Context) bool {
	return ctx.SoundTimer > 0
}

// rngState is the xorshift32 generator's state, process-wide like the
// original's static rng_state so every recompiled ROM shares one RNG.
var rngState uint32 = 0x12345678

// RandomByte implements RND Vx, NN's random source: a xorshift32
// generator truncated to a byte.
func RandomByte() byte {
	rngState ^= rngState << 13
	rngState ^= rngState >> 17
	rngState ^= rngState << 5
	return byte(rngState & 0xFF)
}

// RandomSeed reseeds the generator. A zero seed is replaced with the
// generator's default seed, since xorshift never escapes the zero state.
func RandomSeed(seed uint32) {
	rngState = seed
	if rngState == 0 {
		rngState = 0x12345678
	}
}

// Yield decrements the context's per-frame cycle budget and reports
// whether the caller should stop executing and return immediately,
// having first recorded resumeAddr as where the next call should pick
// up. Generated loop bodies call this after every instruction.
func Yield(ctx *Context, resumeAddr uint16) bool {
	ctx.CyclesRemaining--
	if ctx.CyclesRemaining <= 0 {
		ctx.ResumePC = resumeAddr
		ctx.ShouldYield = true
		return true
	}
	return false
}

// ResumeCheck reports whether execution should jump straight to addr
// because the previous call yielded from there, clearing the flag if so.
// Emitted code does not call it: generated prologues switch on
// ctx.ResumePC directly and leave ShouldYield set.
func ResumeCheck(ctx *Context, addr uint16) bool {
	if ctx.ShouldYield && ctx.ResumePC == addr {
		ctx.ShouldYield = false
		return true
	}
	return false
}
