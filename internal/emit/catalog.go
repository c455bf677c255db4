package emit

import (
	"fmt"
	"strings"
)

// CatalogEntry is one ROM's record in a batch run, supplying
// generateCatalog the fields it needs to build a chip8rt.Catalog
// literal without internal/emit importing internal/batch (batch
// imports emit, not the other way around).
type CatalogEntry struct {
	Identifier       string
	Title            string
	Description      string
	Authors          string
	Release          string
	RecommendedCPUHz int
	PackagePath      string
	EntryPoint       uint16
	Prefix           string
}

// generateCatalog renders the batch launcher's catalog.go: a
// chip8rt.Catalog literal naming every recompiled ROM, grounded on
// original_source/runtime/include/chip8rt/rom_catalog.h's static
// table-of-ROMs idea, expressed here as Go package-level data instead
// of a C struct array.
func generateCatalog(entries []CatalogEntry, emitComments bool) string {
	var out strings.Builder

	out.WriteString("package main\n\n")
	out.WriteString("import (\n\t\"github.com/chip8recomp/chip8recomp/chip8rt\"\n")
	for _, e := range entries {
		fmt.Fprintf(&out, "\t%s \"%s\"\n", e.Prefix, e.PackagePath)
	}
	out.WriteString(")\n\n")

	if emitComments {
		out.WriteString("// catalog lists every ROM recompiled into this batch launcher.\n")
	}
	out.WriteString("var catalog = chip8rt.Catalog{\n")
	for _, e := range entries {
		fmt.Fprintf(&out, "\t{\n\t\tName: %q,\n\t\tTitle: %q,\n\t\tData: %s.RomData,\n\t\tSize: len(%s.RomData),\n\t\tEntry: func(ctx *chip8rt.Context) { %s.%s(ctx) },\n\t\tRegisterFunctions: %s.%s,\n\t\tRecommendedCPUHz: %d,\n\t\tDescription: %q,\n\t\tAuthors: %q,\n\t\tRelease: %q,\n\t},\n",
			e.Identifier, e.Title, e.Prefix, e.Prefix,
			e.Prefix, funcName(e.EntryPoint, e.Prefix),
			e.Prefix, registerHookName(e.Prefix),
			e.RecommendedCPUHz, e.Description, e.Authors, e.Release)
	}
	out.WriteString("}\n")

	return out.String()
}
