package chip8rt

import (
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// chip8Keys maps the 16-key hex keypad onto the conventional 4x4 block
// of a QWERTY keyboard used by most CHIP-8 emulators.
var chip8Keys = [NumKeys]ebiten.Key{
	0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

const sampleRate = 44100

// EbitenPlatform is the real windowed GUI/audio backend, grounded on
// ebiten's Game interface rather than opening an OS window directly.
// chip8rt.Run drives the machine on its own goroutine exactly as it
// would for any other backend; a small mutex-guarded snapshot is the
// only state shared with ebiten's own Update/Draw goroutine, a single
// lightweight lock per state update rather than per-field atomics.
type EbitenPlatform struct {
	scale int
	title string

	mu           sync.Mutex
	display      [DisplaySize]byte
	keysPressed  [NumKeys]bool
	quitRequested bool

	audioCtx    *audio.Context
	player      *audio.Player
	beepPlaying bool
}

// NewEbitenPlatform returns a GUI backend. RunWindow starts the ebiten
// window; Run's caller is expected to have launched Run on its own
// goroutine, since ebiten.RunGame blocks the calling goroutine until
// the window closes.
func NewEbitenPlatform() *EbitenPlatform {
	return &EbitenPlatform{}
}

// Init records the title/scale for the eventual RunGame call. ebiten
// itself is started lazily by RunGame (see the Game wrapper below);
// Init does not block.
func (e *EbitenPlatform) Init(title string, scale int) error {
	e.title = title
	if scale <= 0 {
		scale = 10
	}
	e.scale = scale
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(DisplayWidth*scale, DisplayHeight*scale)
	e.audioCtx = audio.NewContext(sampleRate)
	return nil
}

// Shutdown stops any playing tone; ebiten's window is torn down by
// RunGame returning, not by this call.
func (e *EbitenPlatform) Shutdown() {
	e.BeepStop()
}

// Render copies ctx's display buffer into the snapshot ebiten's Draw
// callback reads.
func (e *EbitenPlatform) Render(ctx *Context) {
	e.mu.Lock()
	e.display = ctx.Display
	e.mu.Unlock()
}

// BeepStart plays a continuous square wave for as long as the sound
// timer is nonzero.
func (e *EbitenPlatform) BeepStart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.beepPlaying || e.audioCtx == nil {
		return
	}
	e.player = audio.NewPlayerFromBytes(e.audioCtx, squareWave(440, time.Second))
	e.player.SetVolume(0.25)
	e.player.Play()
	e.beepPlaying = true
}

// BeepStop silences the tone started by BeepStart.
func (e *EbitenPlatform) BeepStop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.beepPlaying {
		return
	}
	if e.player != nil {
		e.player.Pause()
	}
	e.beepPlaying = false
}

// PollInput refreshes ctx.Keys/KeysPrev/LastKeyReleased from the
// keysPressed snapshot ebiten's Update callback fills in, and carries a
// pending window-close request into ctx.Running.
func (e *EbitenPlatform) PollInput(ctx *Context) {
	e.mu.Lock()
	pressed := e.keysPressed
	quit := e.quitRequested
	e.mu.Unlock()

	ctx.KeysPrev = ctx.Keys
	ctx.LastKeyReleased = -1
	for i := 0; i < NumKeys; i++ {
		ctx.Keys[i] = pressed[i]
		if ctx.KeysPrev[i] && !ctx.Keys[i] {
			ctx.LastKeyReleased = int8(i)
		}
	}
	if quit {
		ctx.Running = false
	}
}

// PollMenuEvents reports an Escape press as MenuOpen and never reports
// any other command; there is no real overlay to navigate.
func (e *EbitenPlatform) PollMenuEvents() MenuCommand {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return MenuOpen
	}
	return MenuNone
}

// ShouldQuit reports whether the ebiten window has requested closing.
func (e *EbitenPlatform) ShouldQuit(ctx *Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quitRequested
}

// RenderMenu is a no-op; there is no overlay UI to draw.
func (e *EbitenPlatform) RenderMenu() {}

// ApplySettings is a no-op beyond what BeepStart/BeepStop already
// drive; persistent settings are out of scope.
func (e *EbitenPlatform) ApplySettings(s Settings) {}

// NowMicros returns a real monotonic clock.
func (e *EbitenPlatform) NowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

// SleepMicros pauses the calling goroutine for approximately d
// microseconds.
func (e *EbitenPlatform) SleepMicros(d uint64) {
	time.Sleep(time.Duration(d) * time.Microsecond)
}

// ebitenGame adapts EbitenPlatform to ebiten.Game; RunGame drives it on
// the main goroutine while the emitted program's entry point runs on
// whatever goroutine called chip8rt.Run.
type ebitenGame struct {
	platform *EbitenPlatform
}

func (g *ebitenGame) Update() error {
	var pressed [NumKeys]bool
	for i, key := range chip8Keys {
		pressed[i] = ebiten.IsKeyPressed(key)
	}

	g.platform.mu.Lock()
	g.platform.keysPressed = pressed
	g.platform.mu.Unlock()
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	g.platform.mu.Lock()
	display := g.platform.display
	g.platform.mu.Unlock()

	screen.Fill(color.Black)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if display[y*DisplayWidth+x] == 0 {
				continue
			}
			scale := g.platform.scale
			ebitenutil.DrawRect(screen, float64(x*scale), float64(y*scale), float64(scale), float64(scale), color.White)
		}
	}
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := g.platform.scale
	if scale <= 0 {
		scale = 10
	}
	return DisplayWidth * scale, DisplayHeight * scale
}

// RunWindow blocks the calling goroutine running ebiten's window loop
// until the window closes, at which point it marks a quit request for
// chip8rt.Run (running on another goroutine) to observe. Callers start
// chip8rt.Run on its own goroutine first, then call RunWindow on the
// main goroutine, matching ebiten's requirement that RunGame own the
// thread it's called from.
func (e *EbitenPlatform) RunWindow() error {
	err := ebiten.RunGame(&ebitenGame{platform: e})
	e.mu.Lock()
	e.quitRequested = true
	e.mu.Unlock()
	return err
}

// squareWave renders a stereo 16-bit PCM square wave at freqHz for the
// given duration, the minimal tone needed to back BeepStart/BeepStop.
func squareWave(freqHz float64, d time.Duration) []byte {
	samples := int(float64(sampleRate) * d.Seconds())
	period := float64(sampleRate) / freqHz
	out := make([]byte, samples*4) // stereo, 16-bit

	for i := 0; i < samples; i++ {
		var sample int16 = 8000
		if float64(i) < period/2 {
			sample = -8000
		}
		phase := float64(int(float64(i)) % int(period))
		if phase >= period/2 {
			sample = 8000
		} else {
			sample = -8000
		}

		out[i*4] = byte(sample)
		out[i*4+1] = byte(sample >> 8)
		out[i*4+2] = byte(sample)
		out[i*4+3] = byte(sample >> 8)
	}
	return out
}
