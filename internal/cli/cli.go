// Package cli wires the recompiler's command line interface: a root
// command handling single-ROM mode and a "batch" subcommand handling
// directory mode, each owning its own flag set, with Execute as the
// sole entry point cmd/chip8recomp/main.go calls.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
	"github.com/chip8recomp/chip8recomp/internal/batch"
	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/emit"
	"github.com/chip8recomp/chip8recomp/internal/options"
	"github.com/chip8recomp/chip8recomp/internal/rom"
)

// chip8recompVersion names the chip8recomp release this CLI belongs to.
// Nothing reads it: the generated go.mod require lines come from the
// "v0.1.0" literals in internal/emit and internal/batch.
const chip8recompVersion = "v0.1.0"

// NewRootCommand builds the cobra command tree: the root command for
// single-ROM mode plus the batch subcommand.
func NewRootCommand() *cobra.Command {
	var progOpts options.Program
	emitOpts := options.DefaultEmitter()
	var noComments, noAuto bool

	root := &cobra.Command{
		Use:   "chip8recomp [rom]",
		Short: "Statically recompile a CHIP-8 ROM into a standalone Go program",
		Long: `chip8recomp translates a CHIP-8 ROM's instruction stream into Go
source that links the chip8rt runtime, producing a program that runs the
game without an interpreter fetch-decode-execute loop.`,
		Example: `
  # Recompile a ROM and print the generated Go source to the console
  chip8recomp path/to/game.ch8

  # Recompile into a named output directory, forcing single-function mode
  chip8recomp -o out --single-function path/to/game.ch8
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			progOpts.Input = args[0]
			emitOpts.EmitComments = !noComments
			emitOpts.EmitAddressComments = !noComments
			emitOpts.NoAutoFallback = noAuto
			return runSingle(cmd, progOpts, emitOpts)
		},
	}

	root.Flags().StringVarP(&progOpts.Output, "output", "o", "", "output directory (printed to stdout if not given)")
	root.Flags().StringVarP(&progOpts.Name, "name", "n", "", "identifier override for the generated package")
	root.Flags().BoolVar(&emitOpts.SingleFunctionMode, "single-function", false, "force single-function emission for this ROM")
	root.Flags().BoolVar(&noComments, "no-comments", false, "omit disassembly comments from the generated source")
	root.Flags().BoolVar(&noAuto, "no-auto", false, "disable automatic single-function fallback detection")
	root.Flags().BoolVar(&progOpts.Debug, "debug", false, "enable verbose pipeline logging")
	root.Flags().BoolVar(&progOpts.Disasm, "disasm", false, "print the control-flow analysis instead of emitting Go source")

	root.AddCommand(newBatchCommand())

	return root
}

// newBatchCommand builds the "batch" subcommand: a directory of ROMs
// in, one shared catalog+launcher program out.
func newBatchCommand() *cobra.Command {
	batchOpts := batch.Options{Emitter: options.DefaultEmitter()}
	var noComments bool

	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Recompile every ROM in a directory into one bundled program",
		Long: `batch scans DIR for CHIP-8 ROMs, recompiles each into its own Go
package, then emits a shared catalog and launcher. The launcher runs the
first ROM in the catalog; it has no selection screen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchOpts.Dir = args[0]
			batchOpts.Emitter.EmitComments = !noComments
			batchOpts.Emitter.EmitAddressComments = !noComments
			return runBatch(cmd, batchOpts)
		},
	}

	cmd.Flags().StringVarP(&batchOpts.OutDir, "output", "o", "out", "shared output directory")
	cmd.Flags().StringVar(&batchOpts.Metadata, "metadata", "", "optional JSON metadata file keyed by ROM identifier")
	cmd.Flags().BoolVar(&noComments, "no-comments", false, "omit disassembly comments from the generated source")

	return cmd
}

// runSingle implements the root command's RunE: load, decode, analyze,
// and either print the analysis (--disasm) or emit and write the
// generated program.
func runSingle(cmd *cobra.Command, progOpts options.Program, emitOpts options.Emitter) error {
	if progOpts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	r, err := rom.Load(progOpts.Input)
	if err != nil {
		log.Error("recompile failed", "phase", "load", "err", err)
		return err
	}
	if progOpts.Name != "" {
		r.Name = rom.DeriveIdentifier(progOpts.Name)
	}
	log.Debug("rom variant", "variant", rom.DetectVariant(r))

	instructions := decode.ROM(r.Data, rom.ProgramStart)
	result := analyze.Analyze(instructions, rom.ProgramStart, emitOpts)

	if progOpts.Disasm {
		printAnalysis(cmd.OutOrStdout(), result)
		return nil
	}

	output, err := emit.Program(r, result, emitOpts)
	if err != nil {
		log.Error("recompile failed", "phase", "emit", "err", err)
		return err
	}

	if progOpts.Output == "" {
		for name, content := range output.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "// --- %s ---\n%s\n", name, content)
		}
		return nil
	}

	if err := writeOutput(progOpts.Output, output.Files); err != nil {
		log.Error("recompile failed", "phase", "write", "err", err)
		return err
	}
	log.Info("recompiled ROM", "rom", r.Name, "output", progOpts.Output,
		"single_function", output.SingleFunction)
	return nil
}

// runBatch implements the batch subcommand's RunE.
func runBatch(cmd *cobra.Command, opts batch.Options) error {
	result, err := batch.Run(opts)
	if err != nil {
		log.Error("recompile failed", "phase", "batch", "err", err)
		return err
	}

	for _, skip := range result.Skipped {
		log.Warn("skipped ROM", "path", skip.Path, "reason", skip.Reason)
	}
	log.Info("batch recompiled", "processed", len(result.Processed), "skipped", len(result.Skipped),
		"output", opts.OutDir)
	return nil
}

func writeOutput(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cli: creating output directory %s: %w", dir, err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("cli: writing %s: %w", path, err)
		}
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
