// Package chip8rt is the runtime library linked into every recompiled
// CHIP-8 program. It supplies the machine context, the ALU and sprite
// helpers emitted code calls into, the platform abstraction, and the
// main loop that drives a recompiled entry point frame by frame.
package chip8rt

// Machine constants shared by the context, the decoder and the emitter.
const (
	MemorySize    = 4096
	StackSize     = 16
	NumRegisters  = 16
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight
	NumKeys       = 16

	ProgramStart  = 0x200
	FontStart     = 0x050
	FontCharSize  = 5
	FontNumChars  = 16

	TimerFreqHz = 60
	CPUFreqHz   = 700
)

// font holds the built-in 4x5 hexadecimal digit sprites, loaded into
// memory at FontStart on every context reset.
var font = [FontNumChars * FontCharSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Context holds the complete machine state of a running CHIP-8 program.
// Every function generated from a ROM takes a *Context as its receiver
// argument, reads and writes registers and memory on it, and cooperates
// with the main loop through the yield fields at the bottom.
type Context struct {
	V  [NumRegisters]byte
	I  uint16
	PC uint16 // unused by recompiled code, kept for debug/panic messages
	SP uint8

	DelayTimer byte
	SoundTimer byte

	Memory [MemorySize]byte
	Stack  [StackSize]uint16

	Display      [DisplaySize]byte
	DisplayDirty bool

	Keys             [NumKeys]bool
	KeysPrev         [NumKeys]bool
	LastKeyReleased  int8 // -1 means none

	Running         bool
	WaitingForKey   bool
	KeyWaitRegister uint8

	// Cooperative yield support: every generated loop body decrements
	// CyclesRemaining and returns once it hits zero, recording where to
	// resume so the next call into the entry point picks up mid-loop.
	CyclesRemaining int
	ResumePC        uint16
	ShouldYield     bool

	// PlatformData is an opaque slot a Platform implementation may use
	// to stash its own state across calls; chip8rt never reads it.
	PlatformData any

	InstructionCount uint64
	FrameCount       uint64
}

// NewContext allocates a context with the font loaded and the program
// counter set to ProgramStart, mirroring chip8_context_create.
func NewContext() *Context {
	ctx := &Context{
		PC:              ProgramStart,
		Running:         true,
		LastKeyReleased: -1,
	}
	copy(ctx.Memory[FontStart:], font[:])
	return ctx
}

// Reset restores a context to its initial state while preserving
// whatever program is already loaded in memory.
func (c *Context) Reset() {
	c.V = [NumRegisters]byte{}
	c.I = 0
	c.PC = ProgramStart
	c.SP = 0

	c.DelayTimer = 0
	c.SoundTimer = 0

	c.Stack = [StackSize]uint16{}

	c.Display = [DisplaySize]byte{}
	c.DisplayDirty = true

	c.Keys = [NumKeys]bool{}
	c.KeysPrev = [NumKeys]bool{}
	c.LastKeyReleased = -1

	c.Running = true
	c.WaitingForKey = false
	c.KeyWaitRegister = 0

	c.CyclesRemaining = 0
	c.ResumePC = 0
	c.ShouldYield = false

	c.InstructionCount = 0
	c.FrameCount = 0
}

// LoadProgram copies program data into memory starting at ProgramStart.
// It reports false if the program does not fit in the remaining address
// space, mirroring chip8_context_load_program's bounds check.
func (c *Context) LoadProgram(data []byte) bool {
	if len(data) > MemorySize-ProgramStart {
		return false
	}
	copy(c.Memory[ProgramStart:], data)
	return true
}

// ReadByte reads memory at addr, masked to the 12-bit address space.
func (c *Context) ReadByte(addr uint16) byte {
	return c.Memory[addr&0x0FFF]
}

// WriteByte writes memory at addr, masked to the 12-bit address space.
func (c *Context) WriteByte(addr uint16, value byte) {
	c.Memory[addr&0x0FFF] = value
}

// ReadWord reads a big-endian 16-bit value at addr.
func (c *Context) ReadWord(addr uint16) uint16 {
	return uint16(c.ReadByte(addr))<<8 | uint16(c.ReadByte(addr+1))
}
