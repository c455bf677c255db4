// Package emit renders an analyze.Result into a runnable Go program
// that links chip8rt, one generator function per output artifact, each
// returning the artifact's rendered source.
package emit

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
	"github.com/chip8recomp/chip8recomp/internal/options"
	"github.com/chip8recomp/chip8recomp/internal/rom"
)

// ErrNoEntryFunction is returned when the analyzer found no function
// starting at the ROM's entry point, which should not happen for a
// well-formed analyze.Result and indicates a bug upstream of emit.
var ErrNoEntryFunction = errors.New("emit: no function at entry point")

// Output is the generated program's rendered source, keyed by the
// file name it should be written under relative to the output
// directory.
type Output struct {
	Files          map[string]string
	SingleFunction bool
	FallbackAddr   uint16
}

// Program renders a single ROM's analysis into a standalone Go program
// under opts.Prefix's namespace: decide per-function vs. single-function
// mode, render every
// source artifact, and return them keyed by file name for the caller
// (internal/cli or internal/batch) to write to disk.
func Program(r *rom.Rom, result analyze.Result, opts options.Emitter) (*Output, error) {
	if _, ok := result.Functions[result.EntryPoint]; !ok {
		return nil, ErrNoEntryFunction
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}

	singleFunction := opts.SingleFunctionMode
	fallbackAddr := uint16(0)
	if !singleFunction && !opts.NoAutoFallback {
		var forced bool
		forced, fallbackAddr = needsSingleFunctionFallback(result)
		if forced {
			singleFunction = true
			log.Warn("falling back to single-function emission",
				"rom", r.Name, "address", fmt.Sprintf("0x%03X", fallbackAddr))
		}
	}

	var body string
	var err error
	if singleFunction {
		body, err = generateSingleFunction(result, opts)
	} else {
		body, err = generatePerFunction(result, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("emit: rendering %s: %w", r.Name, err)
	}

	header := generateHeader(r, result, opts, singleFunction, fallbackAddr)
	romData := generateROMData(r, opts)

	out := &Output{
		Files:          map[string]string{},
		SingleFunction: singleFunction,
		FallbackAddr:   fallbackAddr,
	}

	// Single-ROM mode (no batch prefix): the ROM's package IS package
	// main, so its own launcher and go.mod are emitted alongside it.
	// Batch mode instead gives the ROM its own library package, named
	// after opts.Prefix; internal/batch collects every ROM's package
	// and generates one shared launcher+go.mod (see
	// generateCatalog/generateBatchLauncher) after the whole scan
	// completes, since the launcher needs every ROM's identifier at
	// once to build chip8rt.Catalog.
	if opts.Prefix == "" {
		launcherImports := generateLauncherImports()
		launcher := generateLauncher(result.EntryPoint, opts)
		out.Files["main.go"] = header + launcherImports + romData + body + "\n" + launcher
		out.Files["go.mod"] = generateGoMod(modulePathFor(r.Name), "v0.1.0")
	} else {
		out.Files["rom.go"] = header + romData + body
	}

	return out, nil
}

// modulePathFor derives the generated program's own module path from
// the ROM's identifier, distinct from chip8recomp's own module so the
// generated program can be built and distributed independently.
func modulePathFor(identifier string) string {
	return "github.com/chip8recomp/generated/" + identifier
}
