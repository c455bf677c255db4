package analyze

import (
	"testing"

	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

// program encodes:
//   0x200: LD V0, 0x05
//   0x202: CALL 0x206
//   0x204: JP 0x204        (self-loop halt)
//   0x206: RET
func program() []decode.Instruction {
	data := []byte{0x60, 0x05, 0x22, 0x06, 0x12, 0x04, 0x00, 0xEE}
	return decode.ROM(data, 0x200)
}

func TestAnalyze_BlockSplitting(t *testing.T) {
	result := Analyze(program(), 0x200, options.DefaultEmitter())

	assert.Equal(t, 4, result.Stats.TotalInstructions)
	assert.Equal(t, 3, len(result.Blocks))

	block200, ok := result.Blocks[0x200]
	assert.True(t, ok)
	assert.Equal(t, 2, len(block200.InstructionIndices))
	assert.Equal(t, uint16(0x204), block200.EndAddress)
	assert.Equal(t, []uint16{0x204}, block200.Successors)

	block204, ok := result.Blocks[0x204]
	assert.True(t, ok)
	assert.Equal(t, []uint16{0x204}, block204.Successors)

	block206, ok := result.Blocks[0x206]
	assert.True(t, ok)
	assert.Equal(t, 0, len(block206.Successors))
}

func TestAnalyze_CallTargetsAndFunctions(t *testing.T) {
	result := Analyze(program(), 0x200, options.DefaultEmitter())

	assert.True(t, result.CallTargets[0x200])
	assert.True(t, result.CallTargets[0x206])
	assert.Equal(t, 2, len(result.Functions))

	entryFn, ok := result.Functions[0x200]
	assert.True(t, ok)
	assert.Equal(t, []uint16{0x200, 0x204}, entryFn.BlockAddresses)

	calleeFn, ok := result.Functions[0x206]
	assert.True(t, ok)
	assert.Equal(t, []uint16{0x206}, calleeFn.BlockAddresses)
}

func TestAnalyze_Reachability(t *testing.T) {
	result := Analyze(program(), 0x200, options.DefaultEmitter())

	for addr, block := range result.Blocks {
		assert.True(t, block.IsReachable)
		_ = addr
	}
	assert.Equal(t, 0, result.Stats.UnreachableInstructions)
}

func TestAnalyze_EmptyInstructions(t *testing.T) {
	result := Analyze(nil, 0x200, options.DefaultEmitter())
	assert.Equal(t, 0, result.Stats.TotalInstructions)
	assert.Equal(t, 0, len(result.Blocks))
}

func TestGenerateNames(t *testing.T) {
	assert.Equal(t, "func_0x200", GenerateFunctionName(0x200, ""))
	assert.Equal(t, "pong_func_0x200", GenerateFunctionName(0x200, "pong"))
	assert.Equal(t, "label_0x206", GenerateLabelName(0x206))
}

func TestFindComputedJumpTargets(t *testing.T) {
	targets := FindComputedJumpTargets(0x300, 0)
	assert.Equal(t, DefaultComputedJumpTableSize, len(targets))
	assert.True(t, targets[0x300])
	assert.True(t, targets[0x302])
	assert.False(t, targets[0x301])

	targets = FindComputedJumpTargets(0x300, 4)
	assert.Equal(t, 4, len(targets))
}

func TestIsLikelyData(t *testing.T) {
	result := Analyze(program(), 0x200, options.DefaultEmitter())
	assert.False(t, IsLikelyData(result, 0x200))
	assert.True(t, IsLikelyData(result, 0x500))
}

// jpV0Program encodes a JP V0 dispatch at 0x200 whose table base is
// 0x300, followed by two candidate targets at 0x300 and 0x302 that are
// otherwise never called or jumped to directly.
func jpV0Program() []decode.Instruction {
	data := make([]byte, 0x104)
	copy(data[0x000:], []byte{0xB3, 0x00}) // 0x200: JP V0, 0x300
	copy(data[0x002:], []byte{0x00, 0xEE}) // 0x202: RET (unreached filler so the block above terminates)
	copy(data[0x100:], []byte{0x00, 0xEE}) // 0x300: RET
	copy(data[0x102:], []byte{0x00, 0xEE}) // 0x302: RET
	return decode.ROM(data, 0x200)
}

func TestAnalyze_ComputedJumpWindowPromotedToFunctions(t *testing.T) {
	opts := options.DefaultEmitter()
	opts.ComputedJumpTableSize = 2
	result := Analyze(jpV0Program(), 0x200, opts)

	assert.True(t, result.ComputedJumpBases[0x300])
	assert.True(t, result.CallTargets[0x300])
	assert.True(t, result.CallTargets[0x302])

	_, ok := result.Functions[0x300]
	assert.True(t, ok)
	_, ok = result.Functions[0x302]
	assert.True(t, ok)
}

func TestAnalyze_ForcedFunctionEntries(t *testing.T) {
	opts := options.DefaultEmitter()
	opts.ForcedFunctionEntries = []uint16{0x206}
	result := Analyze(program(), 0x200, opts)

	assert.True(t, result.CallTargets[0x206])
	_, ok := result.Functions[0x206]
	assert.True(t, ok)
}

func TestAnalyze_DataRegionsExcludedFromCode(t *testing.T) {
	opts := options.DefaultEmitter()
	opts.DataRegions = []options.AddrRange{{Start: 0x204, End: 0x206}}
	result := Analyze(program(), 0x200, opts)

	_, ok := result.Blocks[0x204]
	assert.False(t, ok)

	block200, ok := result.Blocks[0x200]
	assert.True(t, ok)
	for _, succ := range block200.Successors {
		assert.True(t, succ != 0x204)
	}
}
