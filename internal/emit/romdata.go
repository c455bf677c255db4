package emit

import (
	"fmt"
	"strings"

	"github.com/chip8recomp/chip8recomp/internal/options"
	"github.com/chip8recomp/chip8recomp/internal/rom"
)

// romDataBytesPerLine caps how many hex bytes generateROMData packs
// onto one source line, for readability of large generated files.
const romDataBytesPerLine = 16

// generateROMData emits the ROM's raw bytes as a package-level []byte -
// needed so the generated program can still answer "what ROM was
// this" and so a launcher without chip8rt.LoadProgram access to the
// original file can still boot from memory alone. Exported as RomData
// since batch mode's catalog lives in a separate package and needs to
// reach it.
func generateROMData(r *rom.Rom, opts options.Emitter) string {
	if !opts.EmbedROMData {
		return ""
	}

	var out strings.Builder
	if opts.EmitComments {
		fmt.Fprintf(&out, "// RomData holds the %d raw bytes of %q.\n", len(r.Data), r.Name)
	}
	out.WriteString("var RomData = []byte{\n")
	for i := 0; i < len(r.Data); i += romDataBytesPerLine {
		out.WriteString("\t")
		end := i + romDataBytesPerLine
		if end > len(r.Data) {
			end = len(r.Data)
		}
		for _, b := range r.Data[i:end] {
			fmt.Fprintf(&out, "0x%02X, ", b)
		}
		out.WriteString("\n")
	}
	out.WriteString("}\n")

	return out.String()
}
