package rom

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{"too small", 1, ErrTooSmall},
		{"minimum", MinSize, nil},
		{"maximum", MaxSize, nil},
		{"too large", MaxSize + 1, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(make([]byte, tt.size))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestFromBytes_OddTrailingByteTrimmed(t *testing.T) {
	data := []byte{0x00, 0xE0, 0x12}
	assert.True(t, HasOddTrailingByte(data))

	r, err := FromBytes(data, "pong", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(r.Data))
}

func TestDeriveIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips metadata", "Pong [David Winter].ch8", "pong"},
		{"strips parens", "Tetris (Fran Dachille).ch8", "tetris"},
		{"lowercases and underscores", "Space Invaders!.ch8", "space_invaders"},
		{"leading digit prefixed", "15 Puzzle.ch8", "rom_15_puzzle"},
		{"empty falls back", "....ch8", "rom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveIdentifier(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidIdentifier(got))
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/to/rom.ch8")
	assert.True(t, errors.Is(err, ErrNotFound))
}
