package emit

import (
	"fmt"
	"strings"

	"github.com/chip8recomp/chip8recomp/internal/options"
)

// generateLauncher emits the generated program's main, wiring the
// ROM's entry routine into chip8rt.Run as the standalone binary's
// contract: construct a Context, load the embedded ROM, register call
// targets, and run to completion or quit.
func generateLauncher(entryPoint uint16, opts options.Emitter) string {
	var out strings.Builder

	if opts.EmitComments {
		out.WriteString("// main boots the embedded ROM on the headless or ebiten platform,\n")
		out.WriteString("// selected with the -platform flag.\n")
	}
	out.WriteString("func main() {\n")
	out.WriteString("\tplatform := flag.String(\"platform\", \"ebiten\", \"headless or ebiten\")\n")
	out.WriteString("\tflag.Parse()\n\n")
	out.WriteString("\tswitch *platform {\n")
	out.WriteString("\tcase \"headless\":\n")
	out.WriteString("\t\tchip8rt.SetPlatform(chip8rt.NewHeadlessPlatform(0))\n")
	out.WriteString("\tdefault:\n")
	out.WriteString("\t\tchip8rt.SetPlatform(chip8rt.NewEbitenPlatform())\n")
	out.WriteString("\t}\n\n")
	out.WriteString("\t" + registerHookName(opts.Prefix) + "()\n\n")
	fmt.Fprintf(&out, "\tentry := func(ctx *chip8rt.Context) { %s(ctx) }\n", funcName(entryPoint, opts.Prefix))
	out.WriteString("\tcfg := chip8rt.DefaultRunConfig(\"" + opts.Prefix + "\")\n")
	out.WriteString("\tcfg.RomData = RomData\n")
	out.WriteString("\tif err := chip8rt.Run(entry, cfg); err != nil {\n")
	out.WriteString("\t\tlog.Fatal(\"run failed\", \"error\", err)\n")
	out.WriteString("\t}\n")
	out.WriteString("}\n")

	return out.String()
}

// generateLauncherImports returns the extra imports the launcher needs
// beyond chip8rt, kept separate from generateHeader's base import block
// so single-ROM and batch emission can each decide whether a launcher
// is even wanted (batch mode has its own, see batchlauncher.go).
func generateLauncherImports() string {
	return "import (\n" +
		"\t\"flag\"\n\n" +
		"\t\"github.com/charmbracelet/log\"\n" +
		")\n\n"
}
