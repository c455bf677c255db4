package emit

import (
	"fmt"

	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/options"
)

// branchKinds lists every conditional-skip instruction kind, shared by
// both emission modes since the "if cond goto label(addr+4)" shape
// never depends on which function the block belongs to.
var branchKinds = map[decode.Kind]bool{
	decode.KindSEVxNN: true, decode.KindSNEVxNN: true,
	decode.KindSEVxVy: true, decode.KindSNEVxVy: true,
	decode.KindSKP: true, decode.KindSKNP: true,
}

// branchCondition returns the Go boolean expression that is true when
// instr's skip should happen, i.e. control should jump to addr+4
// rather than falling through to addr+2.
func branchCondition(instr decode.Instruction) string {
	switch instr.Kind {
	case decode.KindSEVxNN:
		return fmt.Sprintf("ctx.V[0x%X] == 0x%02X", instr.X, instr.NN)
	case decode.KindSNEVxNN:
		return fmt.Sprintf("ctx.V[0x%X] != 0x%02X", instr.X, instr.NN)
	case decode.KindSEVxVy:
		return fmt.Sprintf("ctx.V[0x%X] == ctx.V[0x%X]", instr.X, instr.Y)
	case decode.KindSNEVxVy:
		return fmt.Sprintf("ctx.V[0x%X] != ctx.V[0x%X]", instr.X, instr.Y)
	case decode.KindSKP:
		return fmt.Sprintf("chip8rt.KeyPressed(ctx, ctx.V[0x%X])", instr.X)
	case decode.KindSKNP:
		return fmt.Sprintf("!chip8rt.KeyPressed(ctx, ctx.V[0x%X])", instr.X)
	default:
		return "false"
	}
}

// instructionStatements renders instr as the Go statements it lowers
// to, for every instruction kind that behaves identically regardless
// of emission mode. Control-flow kinds (JP, CALL, RET, JP_V0, and the
// branch kinds' goto) are handled by the caller, since their
// translation depends on per-function vs. single-function mode.
func instructionStatements(instr decode.Instruction, opts options.Emitter) []string {
	x, y, nn := instr.X, instr.Y, instr.NN

	switch instr.Kind {
	case decode.KindCLS:
		return []string{"chip8rt.ClearScreen(ctx)"}

	case decode.KindLDVxNN:
		return []string{fmt.Sprintf("ctx.V[0x%X] = 0x%02X", x, nn)}

	case decode.KindLDVxVy:
		return []string{fmt.Sprintf("ctx.V[0x%X] = ctx.V[0x%X]", x, y)}

	case decode.KindORVxVy:
		stmts := []string{fmt.Sprintf("ctx.V[0x%X] |= ctx.V[0x%X]", x, y)}
		if opts.VFReset {
			stmts = append(stmts, "ctx.V[0xF] = 0")
		}
		return stmts

	case decode.KindANDVxVy:
		stmts := []string{fmt.Sprintf("ctx.V[0x%X] &= ctx.V[0x%X]", x, y)}
		if opts.VFReset {
			stmts = append(stmts, "ctx.V[0xF] = 0")
		}
		return stmts

	case decode.KindXORVxVy:
		stmts := []string{fmt.Sprintf("ctx.V[0x%X] ^= ctx.V[0x%X]", x, y)}
		if opts.VFReset {
			stmts = append(stmts, "ctx.V[0xF] = 0")
		}
		return stmts

	case decode.KindADDVxNN:
		return []string{fmt.Sprintf("ctx.V[0x%X] += 0x%02X", x, nn)}

	case decode.KindADDVxVy:
		return []string{fmt.Sprintf("chip8rt.AddVxVy(ctx, 0x%X, 0x%X)", x, y)}

	case decode.KindSUBVxVy:
		return []string{fmt.Sprintf("chip8rt.SubVxVy(ctx, 0x%X, 0x%X)", x, y)}

	case decode.KindSUBNVxVy:
		return []string{fmt.Sprintf("chip8rt.SubnVxVy(ctx, 0x%X, 0x%X)", x, y)}

	case decode.KindSHRVx:
		if opts.ShiftUsesVy {
			return []string{fmt.Sprintf("chip8rt.ShrVxVy(ctx, 0x%X, 0x%X)", x, y)}
		}
		return []string{fmt.Sprintf("chip8rt.ShrVx(ctx, 0x%X)", x)}

	case decode.KindSHLVx:
		if opts.ShiftUsesVy {
			return []string{fmt.Sprintf("chip8rt.ShlVxVy(ctx, 0x%X, 0x%X)", x, y)}
		}
		return []string{fmt.Sprintf("chip8rt.ShlVx(ctx, 0x%X)", x)}

	case decode.KindLDINNN:
		return []string{fmt.Sprintf("ctx.I = 0x%X", instr.NNN)}

	case decode.KindADDIVx:
		return []string{fmt.Sprintf("ctx.I += uint16(ctx.V[0x%X])", x)}

	case decode.KindLDVxDT:
		return []string{fmt.Sprintf("ctx.V[0x%X] = ctx.DelayTimer", x)}

	case decode.KindLDDTVx:
		return []string{fmt.Sprintf("ctx.DelayTimer = ctx.V[0x%X]", x)}

	case decode.KindLDSTVx:
		return []string{fmt.Sprintf("ctx.SoundTimer = ctx.V[0x%X]", x)}

	case decode.KindLDVxK:
		return []string{fmt.Sprintf("chip8rt.WaitKey(ctx, 0x%X)", x)}

	case decode.KindLDFVx:
		return []string{fmt.Sprintf("ctx.I = 0x50 + uint16(ctx.V[0x%X]&0x0F)*5", x)}

	case decode.KindLDBVx:
		return []string{fmt.Sprintf("chip8rt.StoreBCD(ctx, 0x%X)", x)}

	case decode.KindLDIVx:
		return []string{fmt.Sprintf("chip8rt.StoreRegisters(ctx, 0x%X, %t)", x, opts.MemoryIncrementI)}

	case decode.KindLDVxI:
		return []string{fmt.Sprintf("chip8rt.LoadRegisters(ctx, 0x%X, %t)", x, opts.MemoryIncrementI)}

	case decode.KindRND:
		return []string{fmt.Sprintf("ctx.V[0x%X] = chip8rt.RandomByte() & 0x%02X", x, nn)}

	case decode.KindDRW:
		return []string{fmt.Sprintf("chip8rt.DrawSprite(ctx, 0x%X, 0x%X, %d)", x, y, instr.N)}

	case decode.KindSYS, decode.KindUnknown:
		return []string{fmt.Sprintf("// %s: unreachable if the ROM is well-formed", instr.Kind.Mnemonic())}

	default:
		return nil
	}
}

// commentFor returns the trailing "// <disassembly>" comment for instr,
// or "" if comments are disabled.
func commentFor(instr decode.Instruction, opts options.Emitter) string {
	if !opts.EmitComments {
		return ""
	}
	if opts.EmitAddressComments {
		return " // " + instr.Disassemble()
	}
	return " // " + instr.Kind.Mnemonic()
}
