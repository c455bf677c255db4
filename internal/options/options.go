// Package options contains the immutable configuration records threaded
// through the recompiler pipeline: CLI-level program options and the
// emitter's quirk flags and manual overrides.
package options

import "fmt"

// Positional contains the recompiler's positional argument.
type Positional struct {
	File string `arg:"positional" usage:"ROM file to recompile"`
}

// Program holds CLI-level options: paths and the mode switches that
// pick single-ROM vs. batch recompilation.
type Program struct {
	Input    string // positional ROM path (single-ROM mode)
	Output   string // -o: output directory
	Name     string // -n: identifier override
	BatchDir string // --batch: directory to scan (batch mode)
	Metadata string // --metadata: optional JSON metadata file (batch mode)
	Disasm   bool   // --disasm: print analysis instead of emitting
	Debug    bool   // --debug: verbose pipeline logging
}

// AddrRange is an inclusive-exclusive [Start, End) address range used to
// annotate ROM regions the analyzer should treat specially.
type AddrRange struct {
	Start uint16
	End   uint16
}

// Contains reports whether addr falls within the range.
func (r AddrRange) Contains(addr uint16) bool {
	return addr >= r.Start && addr < r.End
}

// Emitter holds the emission-time configuration: interpreter quirk
// flags and the manual overrides supplementing analysis heuristics,
// grounded on original_source/recompiler/include/recompiler/config.h.
type Emitter struct {
	// EmitComments includes a disassembly comment on every generated
	// statement.
	EmitComments bool
	// EmitAddressComments includes the source address in comments.
	EmitAddressComments bool
	// SingleFunctionMode forces single-function emission for every ROM,
	// rather than only as an automatic fallback.
	SingleFunctionMode bool
	// NoAutoFallback disables needsSingleFunctionFallback's automatic
	// detection; per-function emission is attempted even for ROMs that
	// would otherwise be judged unsafe for it. Overridden by
	// SingleFunctionMode, which still forces single-function mode.
	NoAutoFallback bool
	// EmbedROMData controls whether the ROM bytes are embedded as a Go
	// byte slice constant; required whenever DRW, LD F, or LD B run, so
	// disabling it is only useful for ROMs proven not to need them.
	EmbedROMData bool

	// Quirks, matching the reference interpreter's documented behavior.
	VFReset          bool // OR/AND/XOR also zero VF
	ShiftUsesVy      bool // SHR/SHL read Vy instead of Vx
	MemoryIncrementI bool // FX55/FX65 advance I by x+1
	SpriteWrap       bool // not implemented, see Validate
	JumpUsesVx       bool // not implemented, see Validate
	DisplayWait      bool // not implemented, see Validate

	// ComputedJumpTableSize overrides analyze.DefaultComputedJumpTableSize
	// for JP V0 target-set resolution; 0 uses the default.
	ComputedJumpTableSize int

	// ForcedFunctionEntries seeds additional function/block-start
	// addresses the analyzer would not otherwise discover (e.g. entry
	// points only reached through a JP V0 table the heuristic missed).
	ForcedFunctionEntries []uint16

	// DataRegions marks address ranges the emitter must never treat as
	// reachable code, even if the decoder's linear scan produced
	// instruction records for them.
	DataRegions []AddrRange

	Prefix string // namespace prefix for batch mode; empty in single-ROM mode
}

// DefaultEmitter returns the reference runtime's default quirk set:
// VF is reset by bitwise ops, shifts use Vx, and register block
// load/store increments I - assumed unless overridden.
func DefaultEmitter() Emitter {
	return Emitter{
		EmitComments:          true,
		EmitAddressComments:   true,
		EmbedROMData:          true,
		VFReset:               true,
		ShiftUsesVy:           false,
		MemoryIncrementI:      true,
		ComputedJumpTableSize: 0,
	}
}

// Validate rejects quirk combinations this implementation cannot
// faithfully emit rather than silently guessing at their semantics:
// no corpus source defines full sprite-wrap semantics for SpriteWrap,
// and JumpUsesVx/DisplayWait are likewise absent from every corpus
// source this was grounded on.
func (e Emitter) Validate() error {
	if e.SpriteWrap {
		return fmt.Errorf("options: sprite_wrap quirk is not implemented: no corpus source defines full sprite wrap semantics")
	}
	if e.JumpUsesVx {
		return fmt.Errorf("options: jump_uses_vx quirk is not implemented")
	}
	if e.DisplayWait {
		return fmt.Errorf("options: display_wait quirk is not implemented")
	}
	return nil
}
