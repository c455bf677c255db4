package emit

import "fmt"

// generateGoMod emits the generated standalone program's go.mod: the
// one generated file that records how to build the rest. Single-ROM
// mode roots modulePath at the ROM's identifier; batch mode writes one
// shared go.mod for every ROM package, rooted at the scanned directory.
func generateGoMod(modulePath, chip8recompVersion string) string {
	return fmt.Sprintf(`module %s

go 1.21

require (
	github.com/chip8recomp/chip8recomp %s
	github.com/charmbracelet/log v0.4.0
	github.com/hajimehoshi/ebiten/v2 v2.6.3
)
`, modulePath, chip8recompVersion)
}
