package renderer

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/tankbot/internal/common"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// BoardRenderer draws one snapshot as a grid of tiles
type BoardRenderer struct {
	tileSize    int
	defaultFont font.Face
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(tileSize int, f font.Face) *BoardRenderer {
	return &BoardRenderer{tileSize: tileSize, defaultFont: f}
}

// TileSize returns the edge length of a tile in pixels
func (br *BoardRenderer) TileSize() int {
	return br.tileSize
}

// Draw renders s on the supplied Ebiten screen. Cells outside visible are
// covered by fog; a nil mask draws everything in the clear.
func (br *BoardRenderer) Draw(screen *ebiten.Image, s *core.Snapshot, visible [][]bool) {
	if s == nil {
		return
	}
	colors := OwnerColors(s)
	size := float32(br.tileSize)

	for row, tiles := range s.Tiles {
		for col, tile := range tiles {
			x, y := br.cellOrigin(core.NewPosition(row, col))

			// Background pass
			vector.DrawFilledRect(screen, x, y, size, size, tileColor(tile), false)
			vector.StrokeRect(screen, x, y, size, size, 1, common.GridLineColor, false)

			// Entities
			for _, e := range tile.Entities {
				br.drawEntity(screen, x, y, e, colors)
			}

			if !isVisible(visible, row, col) {
				vector.DrawFilledRect(screen, x, y, size, size, common.FogOfWarColor, false)
			}
		}
	}

	br.drawZoneLabels(screen, s.Zones)
}

func (br *BoardRenderer) drawEntity(screen *ebiten.Image, x, y float32, e core.Entity, colors map[string]color.Color) {
	size := float32(br.tileSize)
	center := size / 2

	switch e.Kind {
	case core.EntityTank:
		c, ok := colors[e.Tank.OwnerID]
		if !ok {
			c = common.TeamColors[-1]
		}
		inset := size / 6
		vector.DrawFilledRect(screen, x+inset, y+inset, size-2*inset, size-2*inset, c, false)

		// hull facing as a notch, turret as a barrel
		hx, hy := TurretEnd(e.Tank.Direction, size/3)
		vector.DrawFilledCircle(screen, x+center+hx, y+center+hy, size/10, common.ShiftColor(c, 60), false)
		tx, ty := TurretEnd(e.Tank.Turret.Direction, size/2)
		vector.StrokeLine(screen, x+center, y+center, x+center+tx, y+center+ty, size/8, common.TurretColor, false)

	case core.EntityBullet:
		vector.DrawFilledCircle(screen, x+center, y+center, size/8, bulletColor(e.Bullet.Type), false)
		dx, dy := TurretEnd(e.Bullet.Direction, size/4)
		vector.StrokeLine(screen, x+center, y+center, x+center-dx, y+center-dy, 1, bulletColor(e.Bullet.Type), false)

	case core.EntityMine:
		vector.DrawFilledCircle(screen, x+center, y+center, size/5, common.MineColor, false)

	case core.EntityLaser:
		thickness := size / 5
		if e.Laser.Orientation == core.LaserHorizontal {
			vector.DrawFilledRect(screen, x, y+center-thickness/2, size, thickness, common.LaserColor, false)
		} else {
			vector.DrawFilledRect(screen, x+center-thickness/2, y, thickness, size, common.LaserColor, false)
		}
	}
}

func (br *BoardRenderer) drawZoneLabels(screen *ebiten.Image, zones []core.Zone) {
	if br.defaultFont == nil {
		return
	}
	for _, z := range zones {
		x, y := br.cellOrigin(core.NewPosition(z.Y, z.X))
		label := string(z.Label)
		b := text.BoundString(br.defaultFont, label)
		text.Draw(screen, label, br.defaultFont, int(x)+2, int(y)+b.Dy()+2, common.ZoneLabelColor)
	}
}

func (br *BoardRenderer) cellOrigin(pos core.Position) (float32, float32) {
	return float32(pos.Col * br.tileSize), float32(pos.Row * br.tileSize)
}

// OwnerColors maps every player of the snapshot to its team color
func OwnerColors(s *core.Snapshot) map[string]color.Color {
	colors := make(map[string]color.Color)
	for i, team := range s.Teams {
		c := common.TeamColor(team.Color, i)
		for _, p := range team.Players {
			colors[p.ID] = c
		}
	}
	return colors
}

// TurretEnd returns the offset of a segment of length pointing in d,
// in screen coordinates
func TurretEnd(d core.Direction, length float32) (float32, float32) {
	v := d.Vector()
	return float32(v.Col) * length, float32(v.Row) * length
}

func tileColor(tile core.Tile) color.Color {
	if wall, ok := tile.HasWall(); ok {
		if wall == core.PenetrableWall {
			return common.PenetrableColor
		}
		return common.WallColor
	}
	if tile.Zone != core.NoZone {
		return common.ZoneColor
	}
	return common.FloorColor
}

func bulletColor(t core.BulletType) color.Color {
	switch t {
	case core.HealingBullet:
		return common.HealingBulletColor
	case core.StunBullet:
		return common.StunBulletColor
	default:
		return common.BulletColor
	}
}

func isVisible(visible [][]bool, row, col int) bool {
	if visible == nil {
		return true
	}
	if row >= len(visible) || col >= len(visible[row]) {
		return false
	}
	return visible[row][col]
}

// Describe lists the entities of a tile in a single line
func Describe(tile core.Tile) string {
	if len(tile.Entities) == 0 {
		return "empty"
	}
	parts := make([]string, 0, len(tile.Entities))
	for _, e := range tile.Entities {
		switch e.Kind {
		case core.EntityTank:
			parts = append(parts, e.Tank.OwnerID+" "+e.Tank.Type.String()+" tank facing "+e.Tank.Direction.String())
		case core.EntityBullet:
			parts = append(parts, "bullet heading "+e.Bullet.Direction.String())
		default:
			parts = append(parts, e.Kind.String())
		}
	}
	return strings.Join(parts, ", ")
}
