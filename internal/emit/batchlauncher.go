package emit

import (
	"strings"
)

// BatchOutput bundles the three files a batch run emits once, after
// every ROM's own package has been rendered by Program: the catalog
// (data, importing every ROM package), the launcher (package main,
// handing the catalog to chip8rt.RunWithMenu), and the shared go.mod.
type BatchOutput struct {
	Files map[string]string
}

// Batch renders the multi-ROM launcher: a catalog.go naming every
// recompiled ROM and a main.go presenting chip8rt's menu/selection
// contract over it, grounded on
// original_source/runtime/include/chip8rt/rom_catalog.h.
func Batch(entries []CatalogEntry, modulePath, chip8recompVersion string) *BatchOutput {
	out := &BatchOutput{Files: map[string]string{}}

	out.Files["catalog.go"] = generateCatalog(entries, true)
	out.Files["main.go"] = generateBatchLauncher()
	out.Files["go.mod"] = generateGoMod(modulePath, chip8recompVersion)

	return out
}

// generateBatchLauncher emits the batch launcher's main: set a
// platform, start at catalog index 0, and hand control to
// chip8rt.RunWithMenu for ROM switching.
func generateBatchLauncher() string {
	var out strings.Builder

	out.WriteString("package main\n\n")
	out.WriteString("import (\n\t\"flag\"\n\n\t\"github.com/charmbracelet/log\"\n\n\t\"github.com/chip8recomp/chip8recomp/chip8rt\"\n)\n\n")
	out.WriteString("// main presents every bundled ROM through chip8rt's menu contract,\n")
	out.WriteString("// starting on the first catalog entry.\n")
	out.WriteString("func main() {\n")
	out.WriteString("\tplatform := flag.String(\"platform\", \"ebiten\", \"headless or ebiten\")\n")
	out.WriteString("\tflag.Parse()\n\n")
	out.WriteString("\tswitch *platform {\n")
	out.WriteString("\tcase \"headless\":\n")
	out.WriteString("\t\tchip8rt.SetPlatform(chip8rt.NewHeadlessPlatform(0))\n")
	out.WriteString("\tdefault:\n")
	out.WriteString("\t\tchip8rt.SetPlatform(chip8rt.NewEbitenPlatform())\n")
	out.WriteString("\t}\n\n")
	out.WriteString("\tif err := chip8rt.RunWithMenu(catalog, 0); err != nil {\n")
	out.WriteString("\t\tlog.Fatal(\"run failed\", \"error\", err)\n")
	out.WriteString("\t}\n")
	out.WriteString("}\n")

	return out.String()
}
