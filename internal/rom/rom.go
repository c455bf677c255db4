// Package rom handles CHIP-8 ROM file loading, validation and identifier
// derivation.
package rom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// Size bounds for a valid CHIP-8 ROM, per the CHIP-8 program space
// (0x200-0xFFF, 3584 bytes) and the minimum size of one instruction.
const (
	MinSize = 2
	MaxSize = 3584

	// ProgramStart is the memory address CHIP-8 programs are loaded at.
	ProgramStart = 0x200
)

// Sentinel errors for the loader error taxonomy.
var (
	ErrNotFound = errors.New("rom: file not found")
	ErrTooLarge = errors.New("rom: too large")
	ErrTooSmall = errors.New("rom: too small")
	ErrIOError  = errors.New("rom: i/o error")
)

// Rom is an immutable loaded CHIP-8 ROM and its derived identifier.
type Rom struct {
	Path string
	Name string // derived identifier, see DeriveIdentifier
	Data []byte
}

// Size returns the ROM size in bytes.
func (r *Rom) Size() int {
	return len(r.Data)
}

// Load reads a ROM file from disk and validates it.
func Load(path string) (*Rom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIOError, path, err)
	}

	name := DeriveIdentifier(filepath.Base(path))
	return FromBytes(data, name, path)
}

// FromBytes builds and validates a Rom from an in-memory buffer. path may be
// empty for ROMs that were never backed by a file.
func FromBytes(data []byte, name string, path string) (*Rom, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	// An odd trailing byte is ignored with a warning rather than rejected;
	// trim it so every decoded address is a complete 2-byte instruction.
	if len(data)%2 != 0 {
		log.Warn("rom has odd trailing byte, ignoring it", "name", name, "size", len(data))
		data = data[:len(data)-1]
	}

	return &Rom{
		Path: path,
		Name: DeriveIdentifier(name),
		Data: data,
	}, nil
}

// Validate checks that data is within the legal CHIP-8 ROM size range.
func Validate(data []byte) error {
	switch {
	case len(data) < MinSize:
		return fmt.Errorf("%w: %d bytes, minimum is %d", ErrTooSmall, len(data), MinSize)
	case len(data) > MaxSize:
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrTooLarge, len(data), MaxSize)
	}
	return nil
}

// HasOddTrailingByte reports whether data's length is odd, i.e. it has a
// trailing byte that does not form a complete instruction and will be
// dropped.
func HasOddTrailingByte(data []byte) bool {
	return len(data)%2 != 0
}

var (
	bracketedMetadata = regexp.MustCompile(`[\[(][^\])]*[\])]`)
	nonAlphaNumRun     = regexp.MustCompile(`[^A-Za-z0-9]+`)
	leadingDigit       = regexp.MustCompile(`^[0-9]`)
)

// DeriveIdentifier turns a ROM file name (or any free-form title) into a
// valid Go identifier fragment, per spec:
//
//  1. strip bracketed/parenthesized metadata ("Pong [David Winter].ch8")
//  2. lowercase
//  3. replace non-alphanumeric runs with a single underscore
//  4. trim leading/trailing underscores
//  5. prefix "rom_" if it would start with a digit
//  6. fall back to "rom" if empty
func DeriveIdentifier(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = bracketedMetadata.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	name = nonAlphaNumRun.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "rom"
	}
	if leadingDigit.MatchString(name) {
		name = "rom_" + name
	}
	return name
}

// identifierPattern is the invariant every derived identifier must satisfy.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidIdentifier reports whether s matches the Go/C identifier grammar
// required of derived ROM names.
func IsValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// DetectVariant is a best-effort, non-fatal heuristic that reports whether a
// ROM looks like it uses features beyond standard CHIP-8. SUPER-CHIP and
// XO-CHIP support are out of scope and no opcodes are inspected: it
// returns "unknown" for an empty ROM and "standard chip-8 (assumed)"
// otherwise. It exists only to surface a debug hint, never to change
// recompilation behavior.
func DetectVariant(r *Rom) string {
	// Standard CHIP-8 has no reliable in-band signature for its variants;
	// without decoding (which is the decoder's job, not the loader's) the
	// only thing worth reporting here is ROM size, which rules out nothing
	// conclusively. Keep this honest rather than inventing a heuristic.
	if r.Size() == 0 {
		return "unknown"
	}
	return "standard chip-8 (assumed)"
}
