package emit

import "github.com/chip8recomp/chip8recomp/internal/analyze"

// backEdgeBlocks returns the set of reachable block addresses that have
// at least one predecessor whose own address is >= the block's start -
// a backward control-flow edge in the linear address space, which for
// CHIP-8's address-addressed jumps is exactly a loop back-edge. Blocks
// in this set are where the yield protocol has to run after every
// instruction.
func backEdgeBlocks(result analyze.Result) map[uint16]bool {
	back := map[uint16]bool{}
	for addr, block := range result.Blocks {
		if !block.IsReachable {
			continue
		}
		for _, pred := range block.Predecessors {
			if pred >= addr {
				back[addr] = true
				break
			}
		}
	}
	return back
}
