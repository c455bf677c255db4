package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
)

// printAnalysis renders the ROM's control-flow graph as plain text
// instead of Go source, for --disasm: a summary line, the label and
// computed-jump-base lists, then per function a header line followed by
// one line per block, a plain summary view alongside the main
// code-generation path.
func printAnalysis(w io.Writer, result analyze.Result) {
	fmt.Fprintf(w, "instructions: %d  blocks: %d  functions: %d  unreachable: %d\n",
		result.Stats.TotalInstructions, result.Stats.TotalBlocks,
		result.Stats.TotalFunctions, result.Stats.UnreachableInstructions)

	fmt.Fprintf(w, "labels: %s\n", formatAddrList(result.LabelAddresses))
	fmt.Fprintf(w, "computed jump bases: %s\n", formatAddrList(result.ComputedJumpBases))

	var entries []uint16
	for addr := range result.Functions {
		entries = append(entries, addr)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })

	for _, addr := range entries {
		fn := result.Functions[addr]
		fmt.Fprintf(w, "\nfunc 0x%03X (%s)\n", addr, fn.Name)
		blocks := append([]uint16(nil), fn.BlockAddresses...)
		sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
		for _, blockAddr := range blocks {
			block := result.Blocks[blockAddr]
			fmt.Fprintf(w, "  block 0x%03X-0x%03X  preds=%v succs=%v\n",
				block.StartAddress, block.EndAddress, block.Predecessors, block.Successors)
		}
	}
}

// formatAddrList renders a set of addresses as a sorted, comma-joined
// hex list, or "none" if addrs is empty.
func formatAddrList(addrs map[uint16]bool) string {
	if len(addrs) == 0 {
		return "none"
	}

	sorted := make([]uint16, 0, len(addrs))
	for addr := range addrs {
		sorted = append(sorted, addr)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, addr := range sorted {
		parts[i] = fmt.Sprintf("0x%03X", addr)
	}
	return strings.Join(parts, ", ")
}
