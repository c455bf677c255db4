package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/chip8recomp/chip8recomp/internal/options"
)

// minimalROM is a single CLS instruction followed by an infinite
// self-jump, small enough to analyze without a real game ROM.
var minimalROM = []byte{0x00, 0xE0, 0x12, 0x02}

func writeTestROM(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing test ROM: %v", err)
	}
	return path
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	writeTestROM(t, dir, "a.ch8", minimalROM)
	writeTestROM(t, dir, "b.c8", minimalROM)
	writeTestROM(t, dir, "notes.txt", []byte("ignore me"))

	files, err := GetFilesToProcess(dir)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(files))
}

func TestRunProcessesEveryROM(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	writeTestROM(t, dir, "game_one.ch8", minimalROM)
	writeTestROM(t, dir, "game_two.ch8", minimalROM)

	result, err := Run(Options{
		Dir:     dir,
		OutDir:  outDir,
		Emitter: options.DefaultEmitter(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Processed))
	assert.Equal(t, 0, len(result.Skipped))

	if _, err := os.Stat(filepath.Join(outDir, "catalog.go")); err != nil {
		t.Fatalf("expected catalog.go to be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "game_one", "rom.go")); err != nil {
		t.Fatalf("expected game_one/rom.go to be written: %v", err)
	}
}

func TestRunSkipsTooSmallROM(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	writeTestROM(t, dir, "valid.ch8", minimalROM)
	writeTestROM(t, dir, "empty.ch8", []byte{})

	result, err := Run(Options{
		Dir:     dir,
		OutDir:  outDir,
		Emitter: options.DefaultEmitter(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, 1, len(result.Skipped))
}

func TestRunErrorsWhenNoValidROMs(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	writeTestROM(t, dir, "empty.ch8", []byte{})

	_, err := Run(Options{
		Dir:     dir,
		OutDir:  outDir,
		Emitter: options.DefaultEmitter(),
	})
	assert.True(t, err != nil)
}

func TestRunRejectsDuplicateIdentifiers(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	writeTestROM(t, dir, "game.ch8", minimalROM)
	writeTestROM(t, dir, "game.c8", minimalROM)

	result, err := Run(Options{
		Dir:     dir,
		OutDir:  outDir,
		Emitter: options.DefaultEmitter(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, 1, len(result.Skipped))
}
