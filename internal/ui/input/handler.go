package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// Command is a replay control request
type Command int

const (
	CommandNone Command = iota
	CommandNext
	CommandPrev
	CommandTogglePlay
	CommandFirst
	CommandLast
	CommandFaster
	CommandSlower
)

var keyBindings = map[ebiten.Key]Command{
	ebiten.KeyArrowRight: CommandNext,
	ebiten.KeyArrowLeft:  CommandPrev,
	ebiten.KeySpace:      CommandTogglePlay,
	ebiten.KeyHome:       CommandFirst,
	ebiten.KeyEnd:        CommandLast,
	ebiten.KeyEqual:      CommandFaster,
	ebiten.KeyMinus:      CommandSlower,
}

// CommandFor returns the command bound to key
func CommandFor(key ebiten.Key) Command {
	return keyBindings[key]
}

// Handler polls keyboard and mouse once per frame
type Handler struct {
	mouseX, mouseY int

	tileSize int
	dim      int
}

func NewHandler(tileSize, dim int) *Handler {
	return &Handler{tileSize: tileSize, dim: dim}
}

// Update returns the commands triggered this frame
func (h *Handler) Update() []Command {
	h.mouseX, h.mouseY = GetCursorPosition()

	var cmds []Command
	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		if cmd := CommandFor(key); cmd != CommandNone {
			cmds = append(cmds, cmd)
		}
	}
	// holding shift scrubs
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
			cmds = append(cmds, CommandNext)
		} else if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
			cmds = append(cmds, CommandPrev)
		}
	}
	return cmds
}

// GetHoveredTile returns the grid cell under the cursor
func (h *Handler) GetHoveredTile() (core.Position, bool) {
	return CellAt(h.mouseX, h.mouseY, h.tileSize, h.dim)
}
