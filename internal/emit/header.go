package emit

import (
	"fmt"
	"strings"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
	"github.com/chip8recomp/chip8recomp/internal/options"
	"github.com/chip8recomp/chip8recomp/internal/rom"
)

// packageName returns the generated file's package clause: "main" in
// single-ROM mode (the file is its own buildable program), or the ROM's
// prefix in batch mode (the file is a library package the batch
// launcher's package main imports alongside every other ROM's).
func packageName(opts options.Emitter) string {
	if opts.Prefix == "" {
		return "main"
	}
	return opts.Prefix
}

// generateHeader writes the generated Go file's header comment
// summarizing the analysis, its package clause, and its chip8rt import,
// mirroring a "; CHIP-8 ROM Disassembly" / "$%04X" header block ahead of
// a ROM's disassembly.
func generateHeader(r *rom.Rom, result analyze.Result, opts options.Emitter, singleFunction bool, fallbackAddr uint16) string {
	var out strings.Builder

	fmt.Fprintf(&out, "// Code generated by chip8recomp from %q. DO NOT EDIT.\n", r.Name)
	out.WriteString("//\n")
	fmt.Fprintf(&out, "// Entry point: 0x%03X\n", result.EntryPoint)
	fmt.Fprintf(&out, "// Functions: %d, blocks: %d, instructions: %d (%d unreachable)\n",
		result.Stats.TotalFunctions, result.Stats.TotalBlocks,
		result.Stats.TotalInstructions, result.Stats.UnreachableInstructions)
	if singleFunction && opts.SingleFunctionMode {
		out.WriteString("// Emission mode: single-function (requested)\n")
	} else if singleFunction {
		fmt.Fprintf(&out, "// Emission mode: single-function (forced by block/loop ownership at 0x%03X)\n", fallbackAddr)
	} else {
		out.WriteString("// Emission mode: per-function\n")
	}
	fmt.Fprintf(&out, "\npackage %s\n\n", packageName(opts))
	out.WriteString("import (\n\t\"github.com/chip8recomp/chip8recomp/chip8rt\"\n)\n\n")

	return out.String()
}
