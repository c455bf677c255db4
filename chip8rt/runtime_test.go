package chip8rt

import "testing"

// runHeadless registers entry at ProgramStart, runs it for frames
// frames through Run with a headless platform, and returns the
// resulting context for assertions. Tests in this file exercise
// end-to-end scenarios directly against chip8rt, without generating
// any code.
func runHeadless(t *testing.T, entry EntryPoint, frames int, cpuHz int) *Context {
	t.Helper()

	headless := NewHeadlessPlatform(frames)
	SetPlatform(headless)
	defer SetPlatform(nil)

	var capturedCtx *Context

	RegisterFunction(ProgramStart, func(c *Context) {
		capturedCtx = c
		entry(c)
	})

	cfg := DefaultRunConfig("test")
	cfg.CPUFreqHz = cpuHz
	cfg.MaxFrames = frames

	if err := Run(EntryPoint(LookupFunction(ProgramStart)), cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	return capturedCtx
}

// TestInfiniteLoopYields reproduces scenario 1: a tight "JP self" loop
// must yield every frame without ever overrunning its cycle budget,
// and must never touch the display.
func TestInfiniteLoopYields(t *testing.T) {
	cpuHz := 700
	frames := 60

	entry := func(ctx *Context) {
		for {
			if Yield(ctx, ProgramStart) {
				return
			}
		}
	}

	ctx := runHeadless(t, entry, frames, cpuHz)

	minExpected := uint64(frames*(cpuHz/60) - frames)
	if ctx.InstructionCount < minExpected {
		t.Errorf("InstructionCount = %d, want >= %d", ctx.InstructionCount, minExpected)
	}
	for _, pixel := range ctx.Display {
		if pixel != 0 {
			t.Fatal("display should remain all zero")
		}
	}
}

// TestClsAndSetRegister reproduces scenario 2: CLS followed by LD
// Vx,NN, run for a single frame.
func TestClsAndSetRegister(t *testing.T) {
	entry := func(ctx *Context) {
		ClearScreen(ctx)
		ctx.V[0xA] = 0x05
		Yield(ctx, ProgramStart)
	}

	ctx := runHeadless(t, entry, 1, 700)

	for _, pixel := range ctx.Display {
		if pixel != 0 {
			t.Fatal("display should be all zero after CLS")
		}
	}
	if ctx.V[0xA] != 0x05 {
		t.Errorf("V[A] = 0x%02X, want 0x05", ctx.V[0xA])
	}
}

// TestAddCarryIntoVF reproduces scenario 3.
func TestAddCarryIntoVF(t *testing.T) {
	entry := func(ctx *Context) {
		ctx.V[0] = 0xFF
		ctx.V[1] = 0x01
		AddVxVy(ctx, 0, 1)
		Yield(ctx, ProgramStart)
	}

	ctx := runHeadless(t, entry, 1, 700)

	if ctx.V[0] != 0x00 {
		t.Errorf("V[0] = 0x%02X, want 0x00", ctx.V[0])
	}
	if ctx.V[0xF] != 1 {
		t.Errorf("V[F] = %d, want 1", ctx.V[0xF])
	}
}

// TestAddWhereXIsF reproduces scenario 4: ADD VF,V1 must leave the
// carry flag, not the wrapped arithmetic, as VF's final value.
func TestAddWhereXIsF(t *testing.T) {
	entry := func(ctx *Context) {
		ctx.V[0xF] = 0xFF
		ctx.V[1] = 0x01
		AddVxVy(ctx, 0xF, 1)
		Yield(ctx, ProgramStart)
	}

	ctx := runHeadless(t, entry, 1, 700)

	if ctx.V[0xF] != 1 {
		t.Errorf("V[F] = %d, want 1", ctx.V[0xF])
	}
}

// TestDrawOriginWrapAndToggle reproduces scenario 5.
func TestDrawOriginWrapAndToggle(t *testing.T) {
	entry := func(ctx *Context) {
		ctx.I = 0x300
		ctx.Memory[0x300] = 0xFF
		ctx.V[0] = 64
		ctx.V[1] = 0
		DrawSprite(ctx, 0, 1, 1)
		firstVF := ctx.V[0xF]
		DrawSprite(ctx, 0, 1, 1)
		ctx.V[2] = firstVF // stash for the assertion below
		Yield(ctx, ProgramStart)
	}

	ctx := runHeadless(t, entry, 1, 700)

	if ctx.V[2] != 0 {
		t.Errorf("first draw VF = %d, want 0", ctx.V[2])
	}
	if ctx.V[0xF] != 1 {
		t.Errorf("second draw VF = %d, want 1", ctx.V[0xF])
	}
	for x := 0; x < 8; x++ {
		if ctx.Display[x] != 0 {
			t.Errorf("pixel (%d,0) = %d, want 0 after the second (erasing) draw", x, ctx.Display[x])
		}
	}
}

// TestComputedJumpDispatch reproduces scenario 6: JP V0 resolves
// base+V[0] through the dispatch table.
func TestComputedJumpDispatch(t *testing.T) {
	headless := NewHeadlessPlatform(1)
	SetPlatform(headless)
	defer SetPlatform(nil)

	var reached bool
	RegisterFunction(0x304, func(ctx *Context) {
		reached = true
		Yield(ctx, 0x304)
	})

	ctx := NewContext()
	ctx.V[0] = 4
	ComputedJump(ctx, 0x300)

	if !reached {
		t.Error("computed jump did not reach the registered function at 0x304")
	}
}

// TestComputedJumpPanicsOnUnregistered covers the runtime-panic error
// taxonomy: a computed jump to an address nothing registered must
// panic rather than silently continuing.
func TestComputedJumpPanicsOnUnregistered(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unregistered computed jump target")
		}
	}()

	ClearDispatchTable()
	ctx := NewContext()
	ctx.V[0] = 1
	ComputedJump(ctx, 0x999)
}
