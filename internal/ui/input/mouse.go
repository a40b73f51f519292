package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

func GetCursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// CellAt converts screen pixels into a cell of a dim x dim grid
func CellAt(x, y, tileSize, dim int) (core.Position, bool) {
	if tileSize <= 0 || x < 0 || y < 0 {
		return core.Position{}, false
	}
	pos := core.NewPosition(y/tileSize, x/tileSize)
	if pos.Row >= dim || pos.Col >= dim {
		return core.Position{}, false
	}
	return pos, true
}
