package decode

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestOne(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		want   Kind
	}{
		{"CLS", 0x00E0, KindCLS},
		{"RET", 0x00EE, KindRET},
		{"SYS", 0x0123, KindSYS},
		{"JP", 0x1200, KindJP},
		{"CALL", 0x2200, KindCALL},
		{"SE_VX_NN", 0x3A05, KindSEVxNN},
		{"SNE_VX_NN", 0x4A05, KindSNEVxNN},
		{"SE_VX_VY", 0x5AB0, KindSEVxVy},
		{"SE_VX_VY bad nibble", 0x5AB1, KindUnknown},
		{"LD_VX_NN", 0x6A05, KindLDVxNN},
		{"ADD_VX_NN", 0x7A05, KindADDVxNN},
		{"LD_VX_VY", 0x8AB0, KindLDVxVy},
		{"OR_VX_VY", 0x8AB1, KindORVxVy},
		{"AND_VX_VY", 0x8AB2, KindANDVxVy},
		{"XOR_VX_VY", 0x8AB3, KindXORVxVy},
		{"ADD_VX_VY", 0x8AB4, KindADDVxVy},
		{"SUB_VX_VY", 0x8AB5, KindSUBVxVy},
		{"SHR_VX", 0x8AB6, KindSHRVx},
		{"SUBN_VX_VY", 0x8AB7, KindSUBNVxVy},
		{"SHL_VX", 0x8ABE, KindSHLVx},
		{"SHx unknown n", 0x8AB8, KindUnknown},
		{"SNE_VX_VY", 0x9AB0, KindSNEVxVy},
		{"SNE_VX_VY bad nibble", 0x9AB1, KindUnknown},
		{"LD_I_NNN", 0xA123, KindLDINNN},
		{"JP_V0", 0xB123, KindJPV0},
		{"RND", 0xCA05, KindRND},
		{"DRW", 0xDAB5, KindDRW},
		{"SKP", 0xEA9E, KindSKP},
		{"SKNP", 0xEAA1, KindSKNP},
		{"SKx unknown", 0xEA00, KindUnknown},
		{"LD_VX_DT", 0xFA07, KindLDVxDT},
		{"LD_VX_K", 0xFA0A, KindLDVxK},
		{"LD_DT_VX", 0xFA15, KindLDDTVx},
		{"LD_ST_VX", 0xFA18, KindLDSTVx},
		{"ADD_I_VX", 0xFA1E, KindADDIVx},
		{"LD_F_VX", 0xFA29, KindLDFVx},
		{"LD_B_VX", 0xFA33, KindLDBVx},
		{"LD_I_VX", 0xFA55, KindLDIVx},
		{"LD_VX_I", 0xFA65, KindLDVxI},
		{"Fx unknown", 0xFA99, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr := One(tt.opcode, 0x200)
			assert.Equal(t, tt.want, instr.Kind)
			assert.Equal(t, uint16(0x200), instr.Address)
			assert.Equal(t, tt.opcode, instr.Opcode)
		})
	}
}

func TestOne_OperandExtraction(t *testing.T) {
	instr := One(0xDAB5, 0x300)
	assert.Equal(t, uint8(0xA), instr.X)
	assert.Equal(t, uint8(0xB), instr.Y)
	assert.Equal(t, uint8(0x5), instr.N)
	assert.Equal(t, uint8(0xB5), instr.NN)
	assert.Equal(t, uint16(0xAB5), instr.NNN)
}

func TestOne_ControlFlowFlags(t *testing.T) {
	tests := []struct {
		name         string
		opcode       uint16
		isJump       bool
		isBranch     bool
		isCall       bool
		isReturn     bool
		isTerminator bool
	}{
		{"JP", 0x1200, true, false, false, false, true},
		{"JP_V0", 0xB200, true, false, false, false, true},
		{"CALL", 0x2200, false, false, true, false, false},
		{"RET", 0x00EE, false, false, false, true, true},
		{"SE_VX_NN", 0x3A05, false, true, false, false, false},
		{"SKP", 0xEA9E, false, true, false, false, false},
		{"CLS", 0x00E0, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr := One(tt.opcode, 0x200)
			assert.Equal(t, tt.isJump, instr.IsJump)
			assert.Equal(t, tt.isBranch, instr.IsBranch)
			assert.Equal(t, tt.isCall, instr.IsCall)
			assert.Equal(t, tt.isReturn, instr.IsReturn)
			assert.Equal(t, tt.isTerminator, instr.IsTerminator)
		})
	}
}

func TestROM(t *testing.T) {
	data := []byte{0x00, 0xE0, 0x12, 0x00}
	instructions := ROM(data, 0x200)

	assert.Equal(t, 2, len(instructions))
	assert.Equal(t, KindCLS, instructions[0].Kind)
	assert.Equal(t, uint16(0x200), instructions[0].Address)
	assert.Equal(t, KindJP, instructions[1].Kind)
	assert.Equal(t, uint16(0x202), instructions[1].Address)
}

func TestInstruction_Disassemble(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "200: 00E0  CLS"},
		{0x1ABC, "200: 1ABC  JP   0xABC"},
		{0x6A05, "200: 6A05  LD   VA, 0x05"},
		{0xDAB5, "200: DAB5  DRW  VA, VB, 5"},
	}

	for _, tt := range tests {
		got := One(tt.opcode, 0x200).Disassemble()
		assert.Equal(t, tt.want, got)
	}
}
