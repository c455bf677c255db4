package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/options"
)

// generatePerFunction renders one Go function per analyze.Function,
// the "per-function mode" emission strategy. CALL becomes a direct
// Go call to the callee's routine, RET a native return, and JP either
// a goto within the same function or a tail call into another. Both
// are sound here because the caller has already ruled out cross-
// function block sharing and non-entry loops (see
// needsSingleFunctionFallback).
func generatePerFunction(result analyze.Result, opts options.Emitter) (string, error) {
	var out strings.Builder
	back := backEdgeBlocks(result)

	entries := make([]uint16, 0, len(result.Functions))
	for entry := range result.Functions {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })

	for _, entry := range entries {
		fn := result.Functions[entry]
		body, err := generateFunctionBody(fn, result, opts, back)
		if err != nil {
			return "", fmt.Errorf("emit: function at 0x%03X: %w", entry, err)
		}
		out.WriteString(body)
		out.WriteString("\n")
	}

	out.WriteString(generateRegisterHook(result, opts, entries))
	return out.String(), nil
}

// generateFunctionBody emits a single Go function for fn: a resume
// dispatch prologue (only if fn owns any back-edge block - only the
// entry function can, per the fallback rule) followed by every owned
// block's instructions in address order.
func generateFunctionBody(fn *analyze.Function, result analyze.Result, opts options.Emitter, back map[uint16]bool) (string, error) {
	blockAddrs := sortedUint16(fn.BlockAddresses)

	blockSet := make(map[uint16]bool, len(blockAddrs))
	for _, a := range blockAddrs {
		blockSet[a] = true
	}

	requiredLabels := map[uint16]bool{}
	resumeAddrs := map[uint16]bool{}

	for _, addr := range blockAddrs {
		block := result.Blocks[addr]
		if !block.IsReachable {
			continue
		}
		isLoop := back[addr]

		for _, idx := range block.InstructionIndices {
			instr := result.Instructions[idx]

			if isLoop {
				resumeAddrs[instr.Address] = true
			}

			switch {
			case branchKinds[instr.Kind]:
				requiredLabels[instr.Address+4] = true
			case instr.Kind == decode.KindJP && blockSet[instr.NNN]:
				requiredLabels[instr.NNN] = true
			}
		}
	}

	var body strings.Builder
	for _, addr := range blockAddrs {
		block := result.Blocks[addr]
		if !block.IsReachable {
			continue
		}
		isLoop := back[addr]

		for _, idx := range block.InstructionIndices {
			instr := result.Instructions[idx]
			needLabel := requiredLabels[instr.Address] || (isLoop && resumeAddrs[instr.Address])
			writeInstructionLine(&body, instr, needLabel, isLoop, result, opts)
		}
	}

	var prologue strings.Builder
	if len(resumeAddrs) > 0 {
		prologue.WriteString("\tif ctx.ShouldYield {\n")
		prologue.WriteString("\t\tswitch ctx.ResumePC {\n")
		for _, addr := range sortedUint16(keysOf(resumeAddrs)) {
			fmt.Fprintf(&prologue, "\t\tcase 0x%03X:\n\t\t\tgoto %s\n", addr, labelName(addr))
		}
		prologue.WriteString("\t\t}\n")
		prologue.WriteString("\t}\n\n")
	}

	var fnOut strings.Builder
	if opts.EmitComments {
		fmt.Fprintf(&fnOut, "// %s is the recompiled routine starting at 0x%03X.\n", funcName(fn.EntryAddress, opts.Prefix), fn.EntryAddress)
	}
	fmt.Fprintf(&fnOut, "func %s(ctx *chip8rt.Context) {\n", funcName(fn.EntryAddress, opts.Prefix))
	fnOut.WriteString(prologue.String())
	fnOut.WriteString(body.String())
	fnOut.WriteString("}\n")

	return fnOut.String(), nil
}

// writeInstructionLine appends one instruction's translation to body,
// handling the control-flow kinds (branch/JP/CALL/RET/JP_V0) that
// depend on per-function mode's goto/call/return semantics, and
// delegating every other kind to translate.go's shared table.
func writeInstructionLine(body *strings.Builder, instr decode.Instruction, needLabel, isLoop bool, result analyze.Result, opts options.Emitter) {
	if needLabel {
		fmt.Fprintf(body, "%s:\n", labelName(instr.Address))
	}

	comment := commentFor(instr, opts)

	switch {
	case branchKinds[instr.Kind]:
		fmt.Fprintf(body, "\tif %s {%s\n", branchCondition(instr), comment)
		if isLoop {
			fmt.Fprintf(body, "\t\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\t\treturn\n\t\t}\n", instr.Address+4)
		}
		fmt.Fprintf(body, "\t\tgoto %s\n\t}\n", labelName(instr.Address+4))
		if isLoop {
			fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\treturn\n\t}\n", instr.Address+2)
		}

	case instr.Kind == decode.KindJP:
		_, sameFunction := result.Blocks[instr.NNN]
		ownedHere := sameFunction && belongsToFunction(result, instr.Address, instr.NNN)
		if ownedHere {
			if isLoop {
				fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {%s\n\t\treturn\n\t}\n", instr.NNN, comment)
			}
			fmt.Fprintf(body, "\tgoto %s\n", labelName(instr.NNN))
		} else {
			fmt.Fprintf(body, "\t%s(ctx) //%s tail call\n\treturn\n", funcName(instr.NNN, opts.Prefix), comment)
		}

	case instr.Kind == decode.KindJPV0:
		fmt.Fprintf(body, "\tchip8rt.ComputedJump(ctx, 0x%03X)%s\n\treturn\n", instr.NNN, comment)

	case instr.Kind == decode.KindCALL:
		fmt.Fprintf(body, "\t%s(ctx)%s\n", funcName(instr.NNN, opts.Prefix), comment)

	case instr.Kind == decode.KindRET:
		body.WriteString("\treturn\n")

	default:
		for _, stmt := range instructionStatements(instr, opts) {
			fmt.Fprintf(body, "\t%s%s\n", stmt, comment)
			comment = "" // only the first statement gets the disassembly comment
		}
		if isLoop {
			fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\treturn\n\t}\n", instr.NextAddress())
		}
	}
}

// belongsToFunction reports whether target is inside the same function
// that owns the block containing fromAddr, used to distinguish an
// intra-function JP (emits a goto) from a cross-function one (emits a
// tail call).
func belongsToFunction(result analyze.Result, fromAddr, target uint16) bool {
	var owner uint16
	found := false
	for entry, fn := range result.Functions {
		for _, b := range fn.BlockAddresses {
			block := result.Blocks[b]
			if block == nil {
				continue
			}
			for _, idx := range block.InstructionIndices {
				if result.Instructions[idx].Address == fromAddr {
					owner = entry
					found = true
				}
			}
		}
	}
	if !found {
		return false
	}
	fn := result.Functions[owner]
	for _, b := range fn.BlockAddresses {
		if b == target {
			return true
		}
	}
	return false
}

// generateRegisterHook emits the exported function that installs every
// call target into chip8rt's dispatch table, used by JP_V0 resolution
// and by the batch launcher when switching ROMs.
func generateRegisterHook(result analyze.Result, opts options.Emitter, entries []uint16) string {
	var out strings.Builder
	if opts.EmitComments {
		fmt.Fprintf(&out, "// %s registers every call target with chip8rt's dispatch table.\n", registerHookName(opts.Prefix))
	}
	fmt.Fprintf(&out, "func %s() {\n", registerHookName(opts.Prefix))
	for _, entry := range entries {
		fmt.Fprintf(&out, "\tchip8rt.RegisterFunction(0x%03X, %s)\n", entry, funcName(entry, opts.Prefix))
	}
	out.WriteString("}\n")
	return out.String()
}

func sortedUint16(in []uint16) []uint16 {
	out := append([]uint16(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func keysOf(m map[uint16]bool) []uint16 {
	out := make([]uint16, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
