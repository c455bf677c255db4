// Package batch implements the directory-scan-then-process orchestrator:
// find every ROM in a directory, run each through the recompile
// pipeline into its own package, then emit one shared catalog and
// launcher over the results: "one file at a time, accumulated into a
// shared result".
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/chip8recomp/chip8recomp/internal/analyze"
	"github.com/chip8recomp/chip8recomp/internal/decode"
	"github.com/chip8recomp/chip8recomp/internal/emit"
	"github.com/chip8recomp/chip8recomp/internal/options"
	"github.com/chip8recomp/chip8recomp/internal/rom"
)

// romExtensions lists the file extensions GetFilesToProcess treats as
// CHIP-8 ROMs, mirroring the ".ch8"/".c8"/".rom"/".bin" conventions used
// across the reference corpus's test ROM sets.
var romExtensions = map[string]bool{
	".ch8": true, ".c8": true, ".rom": true, ".bin": true,
}

// Options controls a batch run: the scan directory, the shared output
// directory, and the optional metadata file.
type Options struct {
	Dir      string
	OutDir   string
	Metadata string
	Emitter  options.Emitter
}

// Result summarizes one batch run for the CLI to report.
type Result struct {
	Processed []string
	Skipped   []SkipReason
}

// SkipReason records why a discovered file did not make it into the
// catalog, so a batch run over a directory with a few malformed ROMs
// still completes and reports what it dropped (no silent truncation).
type SkipReason struct {
	Path   string
	Reason string
}

// GetFilesToProcess lists every candidate ROM file directly inside
// dir, matching romExtensions. Batch mode takes a directory, not a
// glob pattern, so this walks one directory level rather than
// expanding a mask.
func GetFilesToProcess(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: reading directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if romExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run scans opts.Dir, recompiles every discovered ROM into its own
// output subpackage, then emits the shared catalog and launcher files
// naming every ROM that succeeded.
func Run(opts Options) (*Result, error) {
	files, err := GetFilesToProcess(opts.Dir)
	if err != nil {
		return nil, err
	}

	metadata, err := loadMetadata(opts.Metadata)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var entries []emit.CatalogEntry
	seenIdentifiers := map[string]bool{}

	for _, path := range files {
		entry, skip, err := processOne(path, opts, metadata, seenIdentifiers)
		if err != nil {
			return nil, fmt.Errorf("batch: processing %s: %w", path, err)
		}
		if skip != nil {
			log.Warn("skipping ROM", "path", skip.Path, "reason", skip.Reason)
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		entries = append(entries, *entry)
		seenIdentifiers[entry.Identifier] = true
		result.Processed = append(result.Processed, path)
	}

	if len(entries) == 0 {
		return result, fmt.Errorf("batch: no valid ROMs found under %s", opts.Dir)
	}

	batchOut := emit.Batch(entries, batchModulePath(opts.Dir), "v0.1.0")
	if err := writeFiles(opts.OutDir, batchOut.Files); err != nil {
		return nil, err
	}

	return result, nil
}

// processOne runs the full per-ROM pipeline (load, decode, analyze,
// emit) for a single discovered file, returning either a catalog entry
// or a non-fatal SkipReason; only I/O and programmer-error conditions
// are returned as errors, so a handful of malformed ROMs does not
// abort an entire batch run.
func processOne(path string, opts Options, metadata map[string]RomMetadata, seen map[string]bool) (*emit.CatalogEntry, *SkipReason, error) {
	r, err := rom.Load(path)
	if err != nil {
		return nil, &SkipReason{Path: path, Reason: err.Error()}, nil
	}

	identifier := r.Name
	if seen[identifier] {
		return nil, &SkipReason{Path: path, Reason: fmt.Sprintf("duplicate identifier %q", identifier)}, nil
	}

	romOpts := opts.Emitter
	romOpts.Prefix = identifier

	instructions := decode.ROM(r.Data, rom.ProgramStart)
	result := analyze.Analyze(instructions, rom.ProgramStart, romOpts)

	output, err := emit.Program(r, result, romOpts)
	if err != nil {
		return nil, &SkipReason{Path: path, Reason: err.Error()}, nil
	}

	pkgDir := filepath.Join(opts.OutDir, identifier)
	if err := writeFiles(pkgDir, output.Files); err != nil {
		return nil, nil, err
	}

	meta := metadata[identifier]
	title := meta.Title
	if title == "" {
		title = identifier
	}
	cpuHz := meta.RecommendedCPUHz

	return &emit.CatalogEntry{
		Identifier:       identifier,
		Title:            title,
		Description:      meta.Description,
		Authors:          meta.Authors,
		Release:          meta.Release,
		RecommendedCPUHz: cpuHz,
		PackagePath:      filepath.ToSlash(filepath.Join(batchModulePath(opts.Dir), identifier)),
		EntryPoint:       result.EntryPoint,
		Prefix:           identifier,
	}, nil, nil
}

// writeFiles writes every rendered file under dir, creating it and any
// parent directories as needed.
func writeFiles(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("batch: creating output directory %s: %w", dir, err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("batch: writing %s: %w", path, err)
		}
	}
	return nil
}

// batchModulePath derives the generated batch program's module path
// from the scanned directory's base name, analogous to emit's
// modulePathFor for single-ROM mode.
func batchModulePath(dir string) string {
	return "github.com/chip8recomp/generated/" + filepath.Base(dir)
}
