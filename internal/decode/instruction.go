// Package decode turns raw CHIP-8 ROM bytes into structured instructions.
package decode

import "fmt"

// Kind identifies a decoded CHIP-8 instruction's operation.
type Kind int

// Instruction kinds, one per opcode family the decoder recognizes.
const (
	KindSYS Kind = iota // 0NNN - system call, ignored on modern interpreters
	KindCLS             // 00E0 - clear screen
	KindRET             // 00EE - return from subroutine

	KindJP    // 1NNN - jump to address
	KindCALL  // 2NNN - call subroutine
	KindJPV0  // BNNN - jump to V0 + address

	KindSEVxNN  // 3XNN - skip if Vx == NN
	KindSNEVxNN // 4XNN - skip if Vx != NN
	KindSEVxVy  // 5XY0 - skip if Vx == Vy
	KindSNEVxVy // 9XY0 - skip if Vx != Vy
	KindSKP     // EX9E - skip if key Vx pressed
	KindSKNP    // EXA1 - skip if key Vx not pressed

	KindLDVxNN // 6XNN - load immediate
	KindLDVxVy // 8XY0 - copy register
	KindLDINNN // ANNN - load I register
	KindLDVxDT // FX07 - load Vx from delay timer
	KindLDVxK  // FX0A - wait for key press
	KindLDDTVx // FX15 - set delay timer
	KindLDSTVx // FX18 - set sound timer
	KindLDFVx  // FX29 - set I to font sprite address
	KindLDBVx  // FX33 - store BCD representation
	KindLDIVx  // FX55 - store registers to memory
	KindLDVxI  // FX65 - load registers from memory

	KindADDVxNN  // 7XNN - add immediate
	KindADDVxVy  // 8XY4 - add with carry
	KindSUBVxVy  // 8XY5 - subtract with borrow
	KindSUBNVxVy // 8XY7 - reverse subtract with borrow
	KindADDIVx   // FX1E - add Vx to I

	KindORVxVy  // 8XY1
	KindANDVxVy // 8XY2
	KindXORVxVy // 8XY3
	KindSHRVx   // 8XY6 - shift right
	KindSHLVx   // 8XYE - shift left

	KindRND // CXNN - random AND
	KindDRW // DXYN - draw sprite

	KindUnknown
)

var mnemonics = map[Kind]string{
	KindSYS: "SYS", KindCLS: "CLS", KindRET: "RET",
	KindJP: "JP", KindCALL: "CALL", KindJPV0: "JP",
	KindSEVxNN: "SE", KindSNEVxNN: "SNE", KindSEVxVy: "SE", KindSNEVxVy: "SNE",
	KindSKP: "SKP", KindSKNP: "SKNP",
	KindLDVxNN: "LD", KindLDVxVy: "LD", KindLDINNN: "LD", KindLDVxDT: "LD",
	KindLDVxK: "LD", KindLDDTVx: "LD", KindLDSTVx: "LD", KindLDFVx: "LD",
	KindLDBVx: "LD", KindLDIVx: "LD", KindLDVxI: "LD",
	KindADDVxNN: "ADD", KindADDVxVy: "ADD", KindADDIVx: "ADD",
	KindSUBVxVy: "SUB", KindSUBNVxVy: "SUBN",
	KindORVxVy: "OR", KindANDVxVy: "AND", KindXORVxVy: "XOR",
	KindSHRVx: "SHR", KindSHLVx: "SHL",
	KindRND: "RND", KindDRW: "DRW", KindUnknown: "???",
}

// Mnemonic returns the assembly mnemonic for k.
func (k Kind) Mnemonic() string {
	if m, ok := mnemonics[k]; ok {
		return m
	}
	return "???"
}

// Instruction is a single decoded CHIP-8 opcode together with the flow
// analysis flags later stages consume, mirroring the decoder's own
// struct so the analyzer never needs to re-inspect raw opcode bits.
type Instruction struct {
	Address uint16
	Opcode  uint16
	Kind    Kind

	X  uint8  // register X, opcode nibble 2
	Y  uint8  // register Y, opcode nibble 3
	N  uint8  // 4-bit immediate, opcode nibble 4
	NN uint8  // 8-bit immediate, low byte
	NNN uint16 // 12-bit address, low 12 bits

	IsJump       bool // unconditional control-flow change
	IsBranch     bool // conditional skip
	IsCall       bool // subroutine call
	IsReturn     bool // subroutine return
	IsTerminator bool // ends a basic block
}

// NextAddress returns the address immediately following this instruction.
func (i Instruction) NextAddress() uint16 {
	return i.Address + 2
}

// Disassemble renders a human-readable form, e.g. "1A2: 6005  LD   V0, 0x05".
func (i Instruction) Disassemble() string {
	operands := i.operandString()
	if operands == "" {
		return fmt.Sprintf("%03X: %04X  %s", i.Address, i.Opcode, i.Kind.Mnemonic())
	}
	return fmt.Sprintf("%03X: %04X  %-5s%s", i.Address, i.Opcode, i.Kind.Mnemonic(), operands)
}

func (i Instruction) operandString() string {
	switch i.Kind {
	case KindCLS, KindRET:
		return ""
	case KindJP, KindCALL:
		return fmt.Sprintf("0x%X", i.NNN)
	case KindJPV0:
		return fmt.Sprintf("V0, 0x%X", i.NNN)
	case KindSEVxNN, KindSNEVxNN, KindLDVxNN, KindADDVxNN, KindRND:
		return fmt.Sprintf("V%X, 0x%02X", i.X, i.NN)
	case KindSEVxVy, KindSNEVxVy, KindLDVxVy, KindORVxVy, KindANDVxVy,
		KindXORVxVy, KindADDVxVy, KindSUBVxVy, KindSUBNVxVy:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case KindSHRVx, KindSHLVx, KindSKP, KindSKNP:
		return fmt.Sprintf("V%X", i.X)
	case KindLDINNN:
		return fmt.Sprintf("I, 0x%X", i.NNN)
	case KindDRW:
		return fmt.Sprintf("V%X, V%X, %d", i.X, i.Y, i.N)
	case KindLDVxDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case KindLDVxK:
		return fmt.Sprintf("V%X, K", i.X)
	case KindLDDTVx:
		return fmt.Sprintf("DT, V%X", i.X)
	case KindLDSTVx:
		return fmt.Sprintf("ST, V%X", i.X)
	case KindLDFVx:
		return fmt.Sprintf("F, V%X", i.X)
	case KindLDBVx:
		return fmt.Sprintf("B, V%X", i.X)
	case KindLDIVx:
		return fmt.Sprintf("[I], V%X", i.X)
	case KindLDVxI:
		return fmt.Sprintf("V%X, [I]", i.X)
	case KindADDIVx:
		return fmt.Sprintf("I, V%X", i.X)
	case KindSYS:
		return fmt.Sprintf("0x%X (ignored)", i.NNN)
	default:
		return "(unknown)"
	}
}
