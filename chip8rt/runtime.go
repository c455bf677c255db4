package chip8rt

import (
	"fmt"
	"os"
)

// EntryPoint is the signature of a recompiled ROM's program entry
// routine, registered at ProgramStart.
type EntryPoint FuncPtr

// RunConfig configures a single invocation of Run.
type RunConfig struct {
	Title     string
	Scale     int
	CPUFreqHz int // instructions per second; 0 uses CPUFreqHz
	RomData   []byte
	MaxFrames int // 0 means unbounded; only meaningful with a headless platform
	Debug     bool
}

// DefaultRunConfig returns a RunConfig with the reference defaults:
// 700Hz CPU, scale 10, no frame limit.
func DefaultRunConfig(title string) RunConfig {
	return RunConfig{
		Title:     title,
		Scale:     10,
		CPUFreqHz: CPUFreqHz,
	}
}

// debugf prints to stderr when cfg.Debug is set, mirroring the
// reference runtime's gated chip8_debug.
func debugf(cfg RunConfig, format string, args ...any) {
	if cfg.Debug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}

// Run drives entry frame by frame until the platform (set globally via
// SetPlatform before calling Run) reports it should quit. Each frame:
// polls input, completes any pending key-wait, executes one cycle
// budget of instructions, ticks timers at the 60Hz boundary, renders,
// and paces to the timer period. This ordering is the contract
// emitted code's yield protocol depends on.
func Run(entry EntryPoint, cfg RunConfig) error {
	platform := GetPlatform()
	if platform == nil {
		return fmt.Errorf("chip8rt: no platform set, call SetPlatform before Run")
	}
	if entry == nil {
		return fmt.Errorf("chip8rt: nil entry point")
	}

	ctx := NewContext()
	if len(cfg.RomData) > 0 {
		if !ctx.LoadProgram(cfg.RomData) {
			return fmt.Errorf("chip8rt: ROM of %d bytes does not fit in memory", len(cfg.RomData))
		}
	}

	cpuHz := cfg.CPUFreqHz
	if cpuHz <= 0 {
		cpuHz = CPUFreqHz
	}
	cyclesPerFrame := cpuHz / TimerFreqHz
	if cyclesPerFrame <= 0 {
		cyclesPerFrame = 1
	}

	if err := platform.Init(cfg.Title, cfg.Scale); err != nil {
		return fmt.Errorf("chip8rt: platform init: %w", err)
	}
	if hp, ok := platform.(*HeadlessPlatform); ok && cfg.MaxFrames > 0 {
		hp.SetMaxFrames(cfg.MaxFrames)
	}

	const timerPeriodMicros = 1_000_000 / TimerFreqHz
	lastTimerTick := platform.NowMicros()
	soundWasActive := false

	for ctx.Running && !platform.ShouldQuit(ctx) {
		frameStart := platform.NowMicros()

		platform.PollInput(ctx)
		if cmd := platform.PollMenuEvents(); cmd == MenuQuit {
			ctx.Running = false
			break
		}

		if ctx.WaitingForKey && ctx.LastKeyReleased >= 0 {
			ctx.V[ctx.KeyWaitRegister] = byte(ctx.LastKeyReleased)
			ctx.WaitingForKey = false
			ctx.LastKeyReleased = -1
		}

		if !ctx.WaitingForKey {
			ctx.CyclesRemaining = cyclesPerFrame
			entry(ctx)
			ctx.InstructionCount += uint64(cyclesPerFrame - ctx.CyclesRemaining)
		}

		now := platform.NowMicros()
		if now-lastTimerTick >= timerPeriodMicros {
			TickTimers(ctx)
			ctx.FrameCount++
			lastTimerTick = now

			soundActive := SoundActive(ctx)
			if soundActive && !soundWasActive {
				platform.BeepStart()
			} else if !soundActive && soundWasActive {
				platform.BeepStop()
			}
			soundWasActive = soundActive
		}

		platform.Render(ctx)
		ctx.DisplayDirty = false

		elapsed := platform.NowMicros() - frameStart
		if elapsed < timerPeriodMicros {
			platform.SleepMicros(timerPeriodMicros - elapsed)
		}
	}

	debugf(cfg, "stopped after %d frames, %d instructions", ctx.FrameCount, ctx.InstructionCount)
	platform.BeepStop()
	platform.Shutdown()
	return nil
}

// RunSimple is a convenience wrapper around Run using DefaultRunConfig.
func RunSimple(entry EntryPoint, title string, romData []byte) error {
	cfg := DefaultRunConfig(title)
	cfg.RomData = romData
	return Run(entry, cfg)
}
