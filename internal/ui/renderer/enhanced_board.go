package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

var (
	SelectionColor = color.RGBA{255, 255, 100, 255} // Yellow highlight
	TargetColor    = color.RGBA{100, 255, 100, 128} // Semi-transparent green
	HoverColor     = color.RGBA{255, 255, 255, 64}  // Semi-transparent white
)

// EnhancedBoardRenderer adds the replay overlays on top of the board: the
// agent's own tank, the target of a GoTo action and the hovered cell.
type EnhancedBoardRenderer struct {
	*BoardRenderer

	hover    core.Position
	hasHover bool
}

func NewEnhancedBoardRenderer(tileSize int, f font.Face) *EnhancedBoardRenderer {
	return &EnhancedBoardRenderer{
		BoardRenderer: NewBoardRenderer(tileSize, f),
	}
}

func (ebr *EnhancedBoardRenderer) SetHover(pos core.Position, ok bool) {
	ebr.hover = pos
	ebr.hasHover = ok
}

// Draw renders the board and the overlays for the agent's action
func (ebr *EnhancedBoardRenderer) Draw(screen *ebiten.Image, s *core.Snapshot, visible [][]bool, action *core.Action) {
	ebr.BoardRenderer.Draw(screen, s, visible)
	if s == nil {
		return
	}

	if own, ok := s.FindTank(s.PlayerID); ok {
		ebr.drawSelectionBorder(screen, own.Pos)
	}
	if target, ok := ActionTarget(action); ok {
		ebr.drawTileOverlay(screen, target, TargetColor)
	}
	if ebr.hasHover {
		ebr.drawTileOverlay(screen, ebr.hover, HoverColor)
	}
}

// ActionTarget returns the destination cell of a GoTo action
func ActionTarget(action *core.Action) (core.Position, bool) {
	if action == nil || action.Kind != core.ActionGoTo || action.GoTo == nil {
		return core.Position{}, false
	}
	return action.GoTo.Target, true
}

func (ebr *EnhancedBoardRenderer) drawTileOverlay(screen *ebiten.Image, pos core.Position, c color.Color) {
	x, y := ebr.cellOrigin(pos)
	size := float32(ebr.tileSize)

	vector.DrawFilledRect(screen, x, y, size, size, c, false)
}

func (ebr *EnhancedBoardRenderer) drawSelectionBorder(screen *ebiten.Image, pos core.Position) {
	x, y := ebr.cellOrigin(pos)
	size := float32(ebr.tileSize)
	thickness := float32(2)

	// Top
	vector.DrawFilledRect(screen, x, y, size, thickness, SelectionColor, false)
	// Bottom
	vector.DrawFilledRect(screen, x, y+size-thickness, size, thickness, SelectionColor, false)
	// Left
	vector.DrawFilledRect(screen, x, y, thickness, size, SelectionColor, false)
	// Right
	vector.DrawFilledRect(screen, x+size-thickness, y, thickness, size, SelectionColor, false)
}
