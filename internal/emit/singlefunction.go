package emit

import (
	"fmt"
	"strings"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/options"
)

// generateSingleFunction renders the whole ROM as one Go function, per
// the single-function fallback mode. Every reachable instruction gets a
// label (the resume dispatch and every goto target must resolve), and
// CALL/RET are implemented as explicit pushes/pops against
// ctx.Stack/ctx.SP - the same 16-level stack the CHIP-8 VM itself uses
// for CALL/RET, reused here as the software resume-token stack rather
// than inventing a second one.
func generateSingleFunction(result analyze.Result, opts options.Emitter) (string, error) {
	addrs := sortedBlockAddrs(result)
	instrAddrs := reachableInstructionAddrs(result)

	var body strings.Builder
	for _, addr := range addrs {
		block := result.Blocks[addr]
		for _, idx := range block.InstructionIndices {
			instr := result.Instructions[idx]
			writeSingleFunctionInstruction(&body, instr, result, opts)
		}
	}

	var out strings.Builder
	if opts.EmitComments {
		fmt.Fprintf(&out, "// %s is the entire recompiled program, run as one function because\n", funcName(result.EntryPoint, opts.Prefix))
		if opts.SingleFunctionMode {
			out.WriteString("// single-function mode was requested.\n")
		} else {
			out.WriteString("// the control-flow analysis found either a shared block or a loop\n")
			out.WriteString("// outside the entry function (see the accompanying log output).\n")
		}
	}
	fmt.Fprintf(&out, "func %s(ctx *chip8rt.Context) {\n", funcName(result.EntryPoint, opts.Prefix))
	out.WriteString("\tif ctx.ShouldYield {\n")
	out.WriteString("\t\tgoto resumeDispatch\n")
	out.WriteString("\t}\n")
	fmt.Fprintf(&out, "\tgoto %s\n\n", labelName(result.EntryPoint))
	out.WriteString("resumeDispatch:\n")
	out.WriteString("\tswitch ctx.ResumePC {\n")
	for _, addr := range instrAddrs {
		fmt.Fprintf(&out, "\tcase 0x%03X:\n\t\tgoto %s\n", addr, labelName(addr))
	}
	out.WriteString("\tdefault:\n")
	out.WriteString("\t\tchip8rt.Panic(ctx.ResumePC, \"resume to unknown address\")\n")
	out.WriteString("\t}\n\n")
	out.WriteString(body.String())
	out.WriteString("}\n")

	// The launcher and the batch catalog both call the register hook, so
	// it exists in this mode too, installing only the one function.
	if opts.EmitComments {
		fmt.Fprintf(&out, "\n// %s registers the program entry with chip8rt's dispatch table.\n", registerHookName(opts.Prefix))
	} else {
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "func %s() {\n\tchip8rt.RegisterFunction(0x%03X, %s)\n}\n",
		registerHookName(opts.Prefix), result.EntryPoint, funcName(result.EntryPoint, opts.Prefix))

	return out.String(), nil
}

// reachableInstructionAddrs returns every reachable instruction's
// address in order, the universe resumeDispatch must be able to land
// on since writeSingleFunctionInstruction labels each one and the
// default per-instruction yield in writeSingleFunctionInstruction's
// default case can record any of them as the resume point.
func reachableInstructionAddrs(result analyze.Result) []uint16 {
	var addrs []uint16
	for _, blockAddr := range sortedBlockAddrs(result) {
		block := result.Blocks[blockAddr]
		for _, idx := range block.InstructionIndices {
			addrs = append(addrs, result.Instructions[idx].Address)
		}
	}
	return addrs
}

// writeSingleFunctionInstruction is the single-function-mode analogue
// of writeInstructionLine: every instruction gets a label (single-
// function mode has no "required labels" optimization, since the one
// function's resume dispatch must be able to land anywhere), and
// control flow resolves via goto (JP), a Stack/SP push before goto
// (CALL), a Stack/SP pop and switch (RET), or a dense switch over the
// analyzer's candidate targets (JP V0).
func writeSingleFunctionInstruction(body *strings.Builder, instr decode.Instruction, result analyze.Result, opts options.Emitter) {
	fmt.Fprintf(body, "%s:\n", labelName(instr.Address))
	comment := commentFor(instr, opts)

	switch {
	case branchKinds[instr.Kind]:
		fmt.Fprintf(body, "\tif %s {%s\n", branchCondition(instr), comment)
		fmt.Fprintf(body, "\t\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\t\treturn\n\t\t}\n", instr.Address+4)
		fmt.Fprintf(body, "\t\tgoto %s\n\t}\n", labelName(instr.Address+4))
		fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\treturn\n\t}\n", instr.Address+2)

	case instr.Kind == decode.KindJP:
		fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {%s\n\t\treturn\n\t}\n", instr.NNN, comment)
		fmt.Fprintf(body, "\tgoto %s\n", labelName(instr.NNN))

	case instr.Kind == decode.KindJPV0:
		writeComputedJumpSwitch(body, instr, result, opts, comment)

	case instr.Kind == decode.KindCALL:
		fmt.Fprintf(body, "\tif ctx.SP >= chip8rt.StackSize {%s\n", comment)
		fmt.Fprintf(body, "\t\tchip8rt.Panic(0x%03X, \"stack overflow\")\n\t}\n", instr.Address)
		fmt.Fprintf(body, "\tctx.Stack[ctx.SP] = 0x%03X\n", instr.NextAddress())
		body.WriteString("\tctx.SP++\n")
		fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\treturn\n\t}\n", instr.NNN)
		fmt.Fprintf(body, "\tgoto %s\n", labelName(instr.NNN))

	case instr.Kind == decode.KindRET:
		fmt.Fprintf(body, "\tif ctx.SP == 0 {%s\n", comment)
		fmt.Fprintf(body, "\t\tchip8rt.Panic(0x%03X, \"stack underflow\")\n\t}\n", instr.Address)
		body.WriteString("\tctx.SP--\n")
		body.WriteString("\tswitch ctx.Stack[ctx.SP] {\n")
		for _, addr := range callReturnSites(result) {
			fmt.Fprintf(body, "\tcase 0x%03X:\n\t\tgoto %s\n", addr, labelName(addr))
		}
		body.WriteString("\tdefault:\n")
		body.WriteString("\t\tchip8rt.Panic(ctx.Stack[ctx.SP], \"return to unknown address\")\n")
		body.WriteString("\t}\n")

	default:
		for _, stmt := range instructionStatements(instr, opts) {
			fmt.Fprintf(body, "\t%s%s\n", stmt, comment)
			comment = ""
		}
		fmt.Fprintf(body, "\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\treturn\n\t}\n", instr.NextAddress())
	}
}

// writeComputedJumpSwitch emits a dense switch over every address the
// analyzer found reachable from this JP V0's base, the single-function-
// mode resolution of computed jumps (the
// per-function-mode equivalent instead calls chip8rt.ComputedJump
// against the process-wide dispatch table, which single-function mode
// has no use for since everything lives in one function already).
func writeComputedJumpSwitch(body *strings.Builder, instr decode.Instruction, result analyze.Result, opts options.Emitter, comment string) {
	targetSet := analyze.FindComputedJumpTargets(instr.NNN, opts.ComputedJumpTableSize)
	targets := make([]uint16, 0, len(targetSet))
	for t := range targetSet {
		targets = append(targets, t)
	}
	targets = sortedUint16(targets)
	fmt.Fprintf(body, "\tswitch uint16(ctx.V[0x0]) + 0x%03X {%s\n", instr.NNN, comment)
	for _, t := range targets {
		if _, ok := result.Blocks[t]; !ok {
			continue
		}
		fmt.Fprintf(body, "\tcase 0x%03X:\n", t)
		fmt.Fprintf(body, "\t\tif chip8rt.Yield(ctx, 0x%03X) {\n\t\t\treturn\n\t\t}\n", t)
		fmt.Fprintf(body, "\t\tgoto %s\n", labelName(t))
	}
	body.WriteString("\tdefault:\n")
	fmt.Fprintf(body, "\t\tchip8rt.Panic(uint16(ctx.V[0x0])+0x%03X, \"computed jump to unknown address\")\n", instr.NNN)
	body.WriteString("\t}\n")
}

// callReturnSites collects every address immediately following a CALL
// instruction, the universe of valid RET targets in single-function
// mode since that's exactly what CALL pushes onto ctx.Stack.
func callReturnSites(result analyze.Result) []uint16 {
	seen := map[uint16]bool{}
	var sites []uint16
	for _, instr := range result.Instructions {
		if instr.Kind == decode.KindCALL && !seen[instr.NextAddress()] {
			seen[instr.NextAddress()] = true
			sites = append(sites, instr.NextAddress())
		}
	}
	return sortedUint16(sites)
}
