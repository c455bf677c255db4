package chip8rt

import "fmt"

// RomEntry is one row of a batch catalog: everything the launcher
// needs to register and run a single bundled ROM.
type RomEntry struct {
	Name              string // derived identifier, must be unique within a catalog
	Title             string
	Data              []byte
	Size              int
	Entry             EntryPoint
	RegisterFunctions func()
	RecommendedCPUHz  int
	Description       string
	Authors           string
	Release           string
}

// Catalog is an ordered, immutable list of bundled ROMs, produced by
// batch emission and linked into the multi-ROM launcher.
type Catalog []RomEntry

// Validate checks the invariant that no two entries share a name, since
// prefixed function/label names derived from it would otherwise
// collide at link time.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, entry := range c {
		if seen[entry.Name] {
			return fmt.Errorf("chip8rt: duplicate catalog entry name %q", entry.Name)
		}
		seen[entry.Name] = true
	}
	return nil
}

// SelectROM is a single atomic transaction switching the dispatch table
// and machine state over to entry, per the runtime contract's ROM
// switching invariant: clear the table, register the new ROM's
// functions, reset the context, and load the new ROM's bytes. The font
// at FontStart is untouched by Reset, so it survives the switch intact.
func SelectROM(ctx *Context, entry RomEntry) error {
	ClearDispatchTable()
	if entry.RegisterFunctions != nil {
		entry.RegisterFunctions()
	}
	ctx.Reset()
	if !ctx.LoadProgram(entry.Data) {
		return fmt.Errorf("chip8rt: ROM %q of %d bytes does not fit in memory", entry.Name, len(entry.Data))
	}
	return nil
}

// RunWithMenu drives a multi-ROM launcher: it validates catalog, picks
// catalog[selected] (index 0 when selected is out of range), clears the
// dispatch table, installs that ROM's functions, and runs it through Run
// at its recommended CPU rate until the platform quits. It shows no
// selection screen and does not act on MenuReturnToGame or MenuResetROM,
// so one call runs exactly one ROM.
func RunWithMenu(catalog Catalog, selected int) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	if len(catalog) == 0 {
		return fmt.Errorf("chip8rt: empty catalog")
	}
	if selected < 0 || selected >= len(catalog) {
		selected = 0
	}

	platform := GetPlatform()
	if platform == nil {
		return fmt.Errorf("chip8rt: no platform set, call SetPlatform before RunWithMenu")
	}

	entry := catalog[selected]
	cfg := DefaultRunConfig(entry.Title)
	if entry.RecommendedCPUHz > 0 {
		cfg.CPUFreqHz = entry.RecommendedCPUHz
	}
	cfg.RomData = entry.Data

	ClearDispatchTable()
	if entry.RegisterFunctions != nil {
		entry.RegisterFunctions()
	}

	return Run(entry.Entry, cfg)
}
