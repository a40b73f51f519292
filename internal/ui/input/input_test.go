package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

func TestCellAt(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		want   core.Position
		wantOK bool
	}{
		{"origin", 0, 0, core.NewPosition(0, 0), true},
		{"x is the column", 50, 10, core.NewPosition(0, 2), true},
		{"last cell", 71, 71, core.NewPosition(2, 2), true},
		{"past the grid", 72, 10, core.Position{}, false},
		{"negative", -1, 5, core.Position{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CellAt(tt.x, tt.y, 24, 3)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := CellAt(1, 1, 0, 3)
	assert.False(t, ok)
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, CommandNext, CommandFor(ebiten.KeyArrowRight))
	assert.Equal(t, CommandPrev, CommandFor(ebiten.KeyArrowLeft))
	assert.Equal(t, CommandTogglePlay, CommandFor(ebiten.KeySpace))
	assert.Equal(t, CommandNone, CommandFor(ebiten.KeyQ))
}
