package emit

import "github.com/chip8recomp/chip8recomp/internal/analyze"

// blockOwners maps every block address to the set of functions whose
// flood fill reached it, so needsSingleFunctionFallback can tell a block that
// legitimately belongs to one function apart from one two functions
// both fall into.
func blockOwners(result analyze.Result) map[uint16][]uint16 {
	owners := make(map[uint16][]uint16, len(result.Blocks))
	for entry, fn := range result.Functions {
		for _, addr := range fn.BlockAddresses {
			owners[addr] = append(owners[addr], entry)
		}
	}
	return owners
}

// needsSingleFunctionFallback reports whether this ROM's analysis
// requires falling back from per-function to single-function emission,
// and the address that triggered the decision (for the log line the
// caller emits).
//
// Two independent conditions force the fallback:
//
//  1. A reachable block is claimed by more than one function. Per-
//     function mode's tail-call translation of cross-function fall-
//     through is only sound when each block belongs to exactly one
//     function, so an ambiguity here forces a fallback rather than
//     resolving it statically.
//  2. A loop (a block with an incoming back-edge, see backEdgeBlocks)
//     exists in any function other than the program's entry function.
//     Per-function mode's yield protocol returns from the native Go
//     call whenever the cycle budget runs out; Go's call stack is then
//     unwound past every caller up to chip8rt.Run, so a yield inside a
//     called function's loop can only be resumed correctly if nothing
//     else on the call path also needs to resume somewhere specific.
//     The entry function is the only one re-entered directly by
//     chip8rt.Run, so it's the only one whose own prologue can dispatch
//     back into a loop after a yield; a loop anywhere deeper forces an
//     automatic single-function-mode fallback instead.
func needsSingleFunctionFallback(result analyze.Result) (bool, uint16) {
	owners := blockOwners(result)
	for _, addr := range sortedBlockAddrs(result) {
		if len(owners[addr]) > 1 {
			return true, addr
		}
	}

	back := backEdgeBlocks(result)
	for _, addr := range sortedBlockAddrs(result) {
		if !back[addr] {
			continue
		}
		fnOwners := owners[addr]
		if len(fnOwners) == 1 && fnOwners[0] != result.EntryPoint {
			return true, addr
		}
	}

	return false, 0
}

func sortedBlockAddrs(result analyze.Result) []uint16 {
	addrs := make([]uint16, 0, len(result.Blocks))
	for addr, block := range result.Blocks {
		if block.IsReachable {
			addrs = append(addrs, addr)
		}
	}
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j-1] > addrs[j]; j-- {
			addrs[j-1], addrs[j] = addrs[j], addrs[j-1]
		}
	}
	return addrs
}
