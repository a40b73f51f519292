// Package ui replays recorded matches: the snapshot the agent saw, its fog of
// war and the action it answered with, one tick at a time.
package ui

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/tankbot/internal/config"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/recording"
	"github.com/mitchelldurbincs/tankbot/internal/ui/input"
	"github.com/mitchelldurbincs/tankbot/internal/ui/renderer"
)

// ErrNoFrames is returned for a recording without ticks
var ErrNoFrames = errors.New("recording has no frames")

const hudLineHeight = 16

// ReplayGame implements ebiten.Game over the frames of one recording
type ReplayGame struct {
	frames        []recording.Frame
	playback      *Playback
	boardRenderer *renderer.EnhancedBoardRenderer
	input         *input.Handler
	defaultFont   font.Face

	dim       int
	tileSize  int
	hudHeight int
}

// NewReplayGame creates a new Ebitengine game instance.
func NewReplayGame(frames []recording.Frame, cfg config.UIConfig) (*ReplayGame, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	dim := gridDim(frames)
	if dim == 0 {
		return nil, core.ErrEmptyGrid
	}

	g := &ReplayGame{
		frames:      frames,
		playback:    NewPlayback(len(frames), cfg.FrameInterval),
		defaultFont: basicfont.Face7x13,
		dim:         dim,
		tileSize:    cfg.TileSize,
		hudHeight:   cfg.HUDHeight,
	}
	g.boardRenderer = renderer.NewEnhancedBoardRenderer(g.tileSize, g.defaultFont)
	g.input = input.NewHandler(g.tileSize, dim)
	return g, nil
}

// ScreenSize returns the window size needed for the board and the HUD
func (g *ReplayGame) ScreenSize() (int, int) {
	return g.dim * g.tileSize, g.dim*g.tileSize + g.hudHeight
}

// Update proceeds the replay.
func (g *ReplayGame) Update() error {
	for _, cmd := range g.input.Update() {
		g.apply(cmd)
	}
	g.playback.Advance()
	g.boardRenderer.SetHover(g.input.GetHoveredTile())
	return nil
}

func (g *ReplayGame) apply(cmd input.Command) {
	switch cmd {
	case input.CommandNext:
		g.playback.Step(1)
	case input.CommandPrev:
		g.playback.Step(-1)
	case input.CommandTogglePlay:
		g.playback.Toggle()
	case input.CommandFirst:
		g.playback.Seek(0)
	case input.CommandLast:
		g.playback.Seek(len(g.frames) - 1)
	case input.CommandFaster:
		g.playback.Faster()
	case input.CommandSlower:
		g.playback.Slower()
	}
}

// Draw renders the replay screen.
func (g *ReplayGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 30, G: 30, B: 30, A: 255})

	frame := g.frames[g.playback.Index()]
	g.boardRenderer.Draw(screen, frame.Snapshot, frame.Visible, frame.Action)

	lines := HUDLines(frame, g.playback.Index(), len(g.frames), g.playback.Playing())
	if pos, ok := g.input.GetHoveredTile(); ok && frame.Snapshot != nil && pos.IsValid(frame.Snapshot.Dim()) {
		lines = append(lines, fmt.Sprintf("%s: %s", pos, renderer.Describe(*frame.Snapshot.Tile(pos))))
	}
	top := g.dim*g.tileSize + 4
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 5, top+i*hudLineHeight)
	}
}

// Layout defines the Ebitengine screen size.
func (g *ReplayGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.ScreenSize()
}

// HUDLines describes frame i of total for the status area
func HUDLines(f recording.Frame, i, total int, playing bool) []string {
	state := "paused"
	if playing {
		state = "playing"
	}
	lines := []string{
		fmt.Sprintf("Tick %d  frame %d/%d  %s", f.Tick, i+1, total, state),
	}

	switch {
	case f.Sent():
		lines = append(lines, fmt.Sprintf("%s via %s in %s", f.Action, f.Rule, f.Duration))
	case f.Skipped != "":
		line := fmt.Sprintf("skipped (%s) after %s", f.Skipped, f.Duration)
		if f.Error != "" {
			line += ": " + f.Error
		}
		lines = append(lines, line)
	default:
		lines = append(lines, "no action")
	}
	return lines
}

func gridDim(frames []recording.Frame) int {
	for _, f := range frames {
		if f.Snapshot != nil && f.Snapshot.Dim() > 0 {
			return f.Snapshot.Dim()
		}
	}
	return 0
}
