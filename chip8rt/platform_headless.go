package chip8rt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// frameMicros is the simulated frame period the headless clock advances
// by on every call, matching the 60Hz timer cadence the main loop paces
// to.
const frameMicros = 16667

// HeadlessPlatform is the mandatory dependency-free backend: it drives
// a fixed number of frames with a simulated monotonic clock and no real
// window, audio device, or input source, so recompiled ROMs can be
// exercised in automated tests.
type HeadlessPlatform struct {
	MaxFrames   int
	FramesRun   int
	ticks       uint64
	quitPending bool
}

// NewHeadlessPlatform returns a backend that runs for maxFrames frames
// (0 means unbounded; ShouldQuit then never fires on its own).
func NewHeadlessPlatform(maxFrames int) *HeadlessPlatform {
	return &HeadlessPlatform{MaxFrames: maxFrames}
}

// Init is a no-op; there is no window to open.
func (h *HeadlessPlatform) Init(title string, scale int) error { return nil }

// Shutdown is a no-op.
func (h *HeadlessPlatform) Shutdown() {}

// Render clears the dirty flag without drawing anything.
func (h *HeadlessPlatform) Render(ctx *Context) {
	ctx.DisplayDirty = false
}

// BeepStart and BeepStop are no-ops; headless runs have no audio device.
func (h *HeadlessPlatform) BeepStart() {}
func (h *HeadlessPlatform) BeepStop()  {}

// PollInput advances the frame counter and requests a stop once
// MaxFrames is reached. There is no real input source, so Keys never
// change.
func (h *HeadlessPlatform) PollInput(ctx *Context) {
	h.FramesRun++
	if h.MaxFrames > 0 && h.FramesRun >= h.MaxFrames {
		ctx.Running = false
	}
}

// PollMenuEvents always reports no input.
func (h *HeadlessPlatform) PollMenuEvents() MenuCommand { return MenuNone }

// ShouldQuit reports whether the frame budget has been exhausted.
func (h *HeadlessPlatform) ShouldQuit(ctx *Context) bool {
	return h.MaxFrames > 0 && h.FramesRun >= h.MaxFrames
}

// RenderMenu and ApplySettings are no-ops; there is no overlay UI.
func (h *HeadlessPlatform) RenderMenu()              {}
func (h *HeadlessPlatform) ApplySettings(s Settings) {}

// NowMicros returns a simulated clock that advances by exactly
// frameMicros on every call, so timing-sensitive tests are
// deterministic regardless of how fast the test host actually runs.
func (h *HeadlessPlatform) NowMicros() uint64 {
	h.ticks += frameMicros
	return h.ticks
}

// SleepMicros is a no-op; headless runs proceed as fast as possible.
func (h *HeadlessPlatform) SleepMicros(d uint64) {}

// SetMaxFrames overrides the frame budget, letting a test harness
// shorten or lengthen a run after construction.
func (h *HeadlessPlatform) SetMaxFrames(n int) {
	h.MaxFrames = n
}

// DumpDisplayASCII renders ctx's display buffer as '#'/'.' rows, handy
// for quick assertions in test failure messages without a reference
// PBM file.
func DumpDisplayASCII(ctx *Context) string {
	out := make([]byte, 0, DisplaySize+DisplayHeight)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if ctx.Display[y*DisplayWidth+x] != 0 {
				out = append(out, '#')
			} else {
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}

// DisplayHash returns a cheap rolling hash of the display buffer for
// fast equality assertions that don't need a reference PBM file.
func DisplayHash(ctx *Context) uint32 {
	var hash uint32
	for _, pixel := range ctx.Display {
		hash = hash*31 + uint32(pixel)
	}
	return hash
}

// DumpDisplayPBM writes ctx's display buffer to w in PBM P1 (ASCII
// bitmap) format, one '1'/'0' per pixel, matching the reference
// runtime's headless display-dump format bit-for-bit.
func DumpDisplayPBM(w io.Writer, ctx *Context) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P1\n")
	fmt.Fprintf(bw, "# CHIP-8 Display Dump\n")
	fmt.Fprintf(bw, "%d %d\n", DisplayWidth, DisplayHeight)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			pixel := 0
			if ctx.Display[y*DisplayWidth+x] != 0 {
				pixel = 1
			}
			fmt.Fprintf(bw, "%d ", pixel)
		}
		fmt.Fprintf(bw, "\n")
	}
	return bw.Flush()
}

// DumpDisplayPBMFile is a convenience wrapper around DumpDisplayPBM
// that writes directly to a named file.
func DumpDisplayPBMFile(path string, ctx *Context) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return DumpDisplayPBM(f, ctx)
}

// ComparePBM reports whether the PBM bitmap read from r matches ctx's
// display buffer pixel-for-pixel. Both dimensions must be exactly
// DisplayWidth x DisplayHeight.
func ComparePBM(r io.Reader, ctx *Context) (bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	// Tokens are read line by line so a '#' comment, such as the one
	// DumpDisplayPBM writes, is dropped through to the end of its line.
	var pending []string
	next := func() (string, bool) {
		for len(pending) == 0 {
			if !scanner.Scan() {
				return "", false
			}
			line := scanner.Text()
			if hash := strings.IndexByte(line, '#'); hash >= 0 {
				line = line[:hash]
			}
			pending = strings.Fields(line)
		}
		tok := pending[0]
		pending = pending[1:]
		return tok, true
	}

	magic, ok := next()
	if !ok || magic != "P1" {
		return false, fmt.Errorf("chip8rt: not a P1 PBM file")
	}

	widthTok, ok := next()
	if !ok {
		return false, fmt.Errorf("chip8rt: truncated PBM header")
	}
	heightTok, ok := next()
	if !ok {
		return false, fmt.Errorf("chip8rt: truncated PBM header")
	}
	width, err := strconv.Atoi(widthTok)
	if err != nil {
		return false, fmt.Errorf("chip8rt: bad PBM width: %w", err)
	}
	height, err := strconv.Atoi(heightTok)
	if err != nil {
		return false, fmt.Errorf("chip8rt: bad PBM height: %w", err)
	}
	if width != DisplayWidth || height != DisplayHeight {
		return false, fmt.Errorf("chip8rt: PBM dimensions %dx%d do not match display %dx%d",
			width, height, DisplayWidth, DisplayHeight)
	}

	for i := 0; i < DisplaySize; i++ {
		tok, ok := next()
		if !ok {
			return false, fmt.Errorf("chip8rt: truncated PBM pixel data")
		}
		pixel, err := strconv.Atoi(tok)
		if err != nil {
			return false, fmt.Errorf("chip8rt: bad PBM pixel: %w", err)
		}
		want := pixel != 0
		got := ctx.Display[i] != 0
		if want != got {
			return false, nil
		}
	}

	return true, nil
}
