package chip8rt

// MenuCommand is a navigation result from Platform.PollMenuEvents. The
// real overlay/settings UI and persistent configuration files these
// commands would drive are out of scope; a Platform only needs to
// report the handful of transitions the main loop's ordering
// guarantees depend on.
type MenuCommand int

const (
	// MenuNone means no menu-relevant input occurred this frame.
	MenuNone MenuCommand = iota
	// MenuOpen requests the menu be opened (e.g. a pause key edge).
	MenuOpen
	// MenuReturnToGame requests the menu close and gameplay resume.
	MenuReturnToGame
	// MenuQuit requests the whole process exit.
	MenuQuit
	// MenuResetROM requests the active ROM be reset in place, without
	// returning to the batch launcher's selection screen.
	MenuResetROM
)

// Settings is the minimal set of live-tunable audio values a Platform
// receives through ApplySettings; the struct itself carries no lock.
// Persisting these across runs is explicitly out of scope;
// Platform.ApplySettings only has to honor them for the current
// process.
type Settings struct {
	Volume    float64
	Frequency float64
	Waveform  string
	Muted     bool
}

// Platform is the boundary the runtime relies on and the display,
// audio, input, and menu-overlay backend implements. chip8rt never
// reaches into OS or GUI APIs directly; every effect crosses through
// this interface, which is set globally before Run is called.
type Platform interface {
	// Init prepares the backend (opening a window, audio device, etc.)
	// with the given title and an integer pixel-scale hint.
	Init(title string, scale int) error
	// Shutdown releases everything Init acquired.
	Shutdown()

	// Render consumes ctx's display buffer. Callers are expected to
	// clear ctx.DisplayDirty themselves once rendering completes.
	Render(ctx *Context)

	// BeepStart and BeepStop bracket the sound timer's nonzero/zero
	// edges; a backend with no audio device may no-op both.
	BeepStart()
	BeepStop()

	// PollInput refreshes ctx.Keys/KeysPrev/LastKeyReleased and may set
	// ctx.Running to false on an OS-level quit request.
	PollInput(ctx *Context)
	// PollMenuEvents reports any menu-relevant navigation this frame.
	PollMenuEvents() MenuCommand
	// ShouldQuit reports whether the platform has independently
	// decided the run should end (e.g. a headless frame budget).
	ShouldQuit(ctx *Context) bool

	// RenderMenu draws the (possibly nonexistent) overlay while the
	// menu is open; a backend with no overlay UI may no-op.
	RenderMenu()
	// ApplySettings pushes s to wherever the backend's audio/video
	// state lives.
	ApplySettings(s Settings)

	// NowMicros returns a monotonic microsecond clock.
	NowMicros() uint64
	// SleepMicros pauses for approximately d microseconds, used for
	// frame pacing.
	SleepMicros(d uint64)
}

// globalPlatform is the single active backend, set by SetPlatform
// before Run is called. Run and the CHIP8_COMPUTED_JUMP-style helpers
// never accept a Platform as a parameter because it is process-wide
// state the generated entry point never has to thread through: the
// platform is set once, long before any generated code runs, and
// generated code never calls into it directly anyway (only
// chip8rt.Run does).
var globalPlatform Platform

// SetPlatform installs p as the active backend.
func SetPlatform(p Platform) {
	globalPlatform = p
}

// GetPlatform returns the currently installed backend, or nil if none
// has been set.
func GetPlatform() Platform {
	return globalPlatform
}
