// Package analyze builds a control-flow graph of basic blocks and
// functions from a decoded instruction stream.
package analyze

import (
	"fmt"
	"sort"

	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/options"
)

// BasicBlock is a maximal straight-line run of instructions, keyed by its
// start address rather than a pointer so the graph stays serializable and
// its block references remain stable across emission.
type BasicBlock struct {
	StartAddress       uint16
	EndAddress          uint16 // exclusive
	InstructionIndices []int
	Successors          []uint16
	Predecessors        []uint16
	InternalLabels      map[uint16]bool
	IsFunctionEntry      bool
	IsReachable          bool
}

// Function is a set of basic blocks reachable from a single call target
// without crossing into another function's entry block.
type Function struct {
	Name             string
	EntryAddress     uint16
	BlockAddresses   []uint16
	NeedsEntryLabel  bool
	IsComputedTarget bool
}

// Stats summarizes the shape of an analyzed ROM.
type Stats struct {
	TotalInstructions       int
	TotalBlocks              int
	TotalFunctions           int
	UnreachableInstructions int
}

// Result is the complete output of analyzing an instruction stream.
type Result struct {
	Instructions       []decode.Instruction
	Blocks              map[uint16]*BasicBlock
	Functions           map[uint16]*Function
	LabelAddresses      map[uint16]bool
	CallTargets         map[uint16]bool
	ComputedJumpBases   map[uint16]bool
	EntryPoint          uint16
	Stats               Stats
}

// GenerateFunctionName returns the canonical name for a function starting
// at address, optionally namespaced by prefix (used by batch emission to
// keep multiple ROMs' symbols distinct in one binary).
func GenerateFunctionName(address uint16, prefix string) string {
	if prefix != "" {
		return fmt.Sprintf("%s_func_0x%03X", prefix, address)
	}
	return fmt.Sprintf("func_0x%03X", address)
}

// GenerateLabelName returns the canonical label name for address.
func GenerateLabelName(address uint16) string {
	return fmt.Sprintf("label_0x%03X", address)
}

// Analyze builds the full control-flow graph for instructions, treating
// entryPoint as the ROM's initial function. opts supplies the manual
// overrides from the configuration layer: ForcedFunctionEntries seeds
// extra function/block starts the heuristics below would not otherwise
// discover, DataRegions marks address ranges that must never be treated
// as reachable code, and ComputedJumpTableSize sizes the JP V0 window
// promoted into functions below.
func Analyze(instructions []decode.Instruction, entryPoint uint16, opts options.Emitter) Result {
	result := Result{
		Instructions:      instructions,
		Blocks:            map[uint16]*BasicBlock{},
		Functions:         map[uint16]*Function{},
		LabelAddresses:    map[uint16]bool{},
		CallTargets:       map[uint16]bool{},
		ComputedJumpBases: map[uint16]bool{},
		EntryPoint:        entryPoint,
	}
	result.Stats.TotalInstructions = len(instructions)

	if len(instructions) == 0 {
		return result
	}

	addrToIdx := make(map[uint16]int, len(instructions))
	for i, instr := range instructions {
		if isDataAddress(opts, instr.Address) {
			continue
		}
		addrToIdx[instr.Address] = i
	}

	// Pass 1: collect jump/branch/call targets. The entry point is always
	// a function, even if nothing ever calls it, and so is every address
	// ForcedFunctionEntries names.
	result.CallTargets[entryPoint] = true
	for _, addr := range opts.ForcedFunctionEntries {
		result.CallTargets[addr] = true
	}

	for _, instr := range instructions {
		if isDataAddress(opts, instr.Address) {
			continue
		}
		switch instr.Kind {
		case decode.KindJP:
			result.LabelAddresses[instr.NNN] = true

		case decode.KindCALL:
			result.CallTargets[instr.NNN] = true
			result.LabelAddresses[instr.NNN] = true

		case decode.KindJPV0:
			result.ComputedJumpBases[instr.NNN] = true
			// Every window entry that is itself a real instruction
			// address is promoted to a function entry, so JP V0's
			// runtime dispatch table has something registered to
			// resolve to.
			for target := range FindComputedJumpTargets(instr.NNN, opts.ComputedJumpTableSize) {
				if _, ok := addrToIdx[target]; ok {
					result.CallTargets[target] = true
					result.LabelAddresses[target] = true
				}
			}

		case decode.KindSEVxNN, decode.KindSNEVxNN, decode.KindSEVxVy,
			decode.KindSNEVxVy, decode.KindSKP, decode.KindSKNP:
			result.LabelAddresses[instr.Address+2] = true
			result.LabelAddresses[instr.Address+4] = true
		}
	}

	// Pass 2: basic block starts are the entry point, every label, every
	// call target, and every address right after a terminator.
	blockStarts := map[uint16]bool{entryPoint: true}
	for addr := range result.LabelAddresses {
		blockStarts[addr] = true
	}
	for addr := range result.CallTargets {
		blockStarts[addr] = true
	}
	for _, instr := range instructions {
		if instr.IsTerminator && !isDataAddress(opts, instr.Address) {
			if _, ok := addrToIdx[instr.Address+2]; ok {
				blockStarts[instr.Address+2] = true
			}
		}
	}

	for _, startAddr := range sortedKeys(blockStarts) {
		idx, ok := addrToIdx[startAddr]
		if !ok {
			continue // address not present in the decoded ROM, or marked as data
		}

		block := &BasicBlock{
			StartAddress:    startAddr,
			IsFunctionEntry: result.CallTargets[startAddr],
			InternalLabels:  map[uint16]bool{},
		}

		for idx < len(instructions) {
			instr := instructions[idx]

			if instr.Address != startAddr && blockStarts[instr.Address] {
				break
			}
			if instr.Address != startAddr && isDataAddress(opts, instr.Address) {
				break
			}

			block.InstructionIndices = append(block.InstructionIndices, idx)
			block.EndAddress = instr.Address + 2

			switch {
			case instr.IsJump:
				if instr.Kind == decode.KindJP {
					block.Successors = append(block.Successors, instr.NNN)
				}
				// JP_V0 targets are resolved separately via computed jumps.
				idx = len(instructions) // break outer loop
			case instr.IsReturn:
				idx = len(instructions)
			case instr.IsBranch:
				block.Successors = append(block.Successors, instr.Address+2, instr.Address+4)
				block.InternalLabels[instr.Address+4] = true
				idx = len(instructions)
			case instr.IsTerminator:
				idx = len(instructions)
			default:
				idx++
			}
		}

		if len(block.InstructionIndices) > 0 {
			lastInstr := instructions[block.InstructionIndices[len(block.InstructionIndices)-1]]
			if !lastInstr.IsTerminator && !lastInstr.IsReturn {
				if _, ok := addrToIdx[block.EndAddress]; ok {
					block.Successors = append(block.Successors, block.EndAddress)
				}
			}
		}

		result.Blocks[startAddr] = block
	}

	result.Stats.TotalBlocks = len(result.Blocks)

	// Pass 3: predecessor transpose.
	for addr, block := range result.Blocks {
		for _, succ := range block.Successors {
			if target, ok := result.Blocks[succ]; ok {
				target.Predecessors = append(target.Predecessors, addr)
			}
		}
	}

	// Pass 4: reachability via BFS seeded from the entry point and every
	// call target (a callee may never fall through from another block).
	worklist := []uint16{entryPoint}
	for target := range result.CallTargets {
		worklist = append(worklist, target)
	}

	for len(worklist) > 0 {
		addr := worklist[0]
		worklist = worklist[1:]

		block, ok := result.Blocks[addr]
		if !ok || block.IsReachable {
			continue
		}
		block.IsReachable = true

		worklist = append(worklist, block.Successors...)
	}

	// Pass 5: partition reachable blocks into functions, one per call
	// target, stopping the flood fill at any other function's entry.
	for _, target := range sortedKeys(result.CallTargets) {
		if _, ok := result.Blocks[target]; !ok {
			continue
		}

		fn := &Function{
			Name:         GenerateFunctionName(target, ""),
			EntryAddress: target,
		}

		visited := map[uint16]bool{}
		fnWorklist := []uint16{target}

		for len(fnWorklist) > 0 {
			blockAddr := fnWorklist[0]
			fnWorklist = fnWorklist[1:]

			if visited[blockAddr] {
				continue
			}
			block, ok := result.Blocks[blockAddr]
			if !ok {
				continue
			}
			if blockAddr != target && result.CallTargets[blockAddr] {
				continue
			}

			visited[blockAddr] = true
			fn.BlockAddresses = append(fn.BlockAddresses, blockAddr)

			fnWorklist = append(fnWorklist, block.Successors...)
		}

		result.Functions[target] = fn
	}

	result.Stats.TotalFunctions = len(result.Functions)

	for _, block := range result.Blocks {
		if !block.IsReachable {
			result.Stats.UnreachableInstructions += len(block.InstructionIndices)
		}
	}

	return result
}

// IsLikelyData reports whether address falls outside every reachable
// block, i.e. it was never reached by the control-flow walk and is
// probably a data table rather than code.
func IsLikelyData(result Result, address uint16) bool {
	for _, block := range result.Blocks {
		if !block.IsReachable {
			continue
		}
		if address >= block.StartAddress && address < block.EndAddress {
			return false
		}
	}
	return true
}

// DefaultComputedJumpTableSize is the number of two-byte entries assumed
// for a JP V0 jump table when no override is configured.
const DefaultComputedJumpTableSize = 16

// FindComputedJumpTargets returns the candidate targets of a JP V0
// instruction whose table starts at baseAddress, assuming the common
// "V0 in {0, 2, 4, ...}" jump-table idiom. entryCount overrides the
// default table size; pass 0 to use DefaultComputedJumpTableSize.
func FindComputedJumpTargets(baseAddress uint16, entryCount int) map[uint16]bool {
	if entryCount <= 0 {
		entryCount = DefaultComputedJumpTableSize
	}

	targets := make(map[uint16]bool, entryCount)
	for i := 0; i < entryCount; i++ {
		targets[baseAddress+uint16(i*2)] = true
	}
	return targets
}

// isDataAddress reports whether addr falls inside one of opts'
// manually-annotated data regions, and so must never be treated as
// reachable code regardless of what the linear decode produced there.
func isDataAddress(opts options.Emitter, addr uint16) bool {
	for _, region := range opts.DataRegions {
		if region.Contains(addr) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[uint16]bool) []uint16 {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
