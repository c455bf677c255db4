package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// minimalROM is a single CLS instruction followed by an infinite
// self-jump, small enough to analyze without a real game ROM.
var minimalROM = []byte{0x00, 0xE0, 0x12, 0x02}

func writeTestROM(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, minimalROM, 0o644); err != nil {
		t.Fatalf("writing test ROM: %v", err)
	}
	return path
}

func TestRootCommandPrintsGeneratedSourceWithoutOutputFlag(t *testing.T) {
	dir := t.TempDir()
	romPath := writeTestROM(t, dir, "game.ch8")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{romPath})

	assert.NoError(t, root.Execute())
	assert.True(t, bytes.Contains(out.Bytes(), []byte("func main()")))
}

func TestRootCommandWritesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	romPath := writeTestROM(t, dir, "game.ch8")
	outDir := filepath.Join(dir, "out")

	root := NewRootCommand()
	root.SetArgs([]string{"-o", outDir, romPath})
	assert.NoError(t, root.Execute())

	if _, err := os.Stat(filepath.Join(outDir, "main.go")); err != nil {
		t.Fatalf("expected main.go to be written: %v", err)
	}
}

func TestRootCommandDisasmPrintsAnalysisNotGoSource(t *testing.T) {
	dir := t.TempDir()
	romPath := writeTestROM(t, dir, "game.ch8")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--disasm", romPath})

	assert.NoError(t, root.Execute())
	assert.True(t, bytes.Contains(out.Bytes(), []byte("instructions:")))
	assert.False(t, bytes.Contains(out.Bytes(), []byte("func main()")))
}

func TestBatchSubcommandWritesSharedCatalog(t *testing.T) {
	dir := t.TempDir()
	writeTestROM(t, dir, "game_one.ch8")
	writeTestROM(t, dir, "game_two.ch8")
	outDir := filepath.Join(dir, "out")

	root := NewRootCommand()
	root.SetArgs([]string{"batch", "-o", outDir, dir})
	assert.NoError(t, root.Execute())

	if _, err := os.Stat(filepath.Join(outDir, "catalog.go")); err != nil {
		t.Fatalf("expected catalog.go to be written: %v", err)
	}
}

func TestRootCommandRequiresExactlyOneArgument(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{})
	assert.True(t, root.Execute() != nil)
}
