package testutil

import (
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// FullVisibility returns a dim×dim mask with every cell visible
func FullVisibility(dim int) [][]bool {
	vis := make([][]bool, dim)
	for row := range vis {
		vis[row] = make([]bool, dim)
		for col := range vis[row] {
			vis[row][col] = true
		}
	}
	return vis
}

// NoVisibility returns a dim×dim mask with nothing visible
func NoVisibility(dim int) [][]bool {
	vis := make([][]bool, dim)
	for row := range vis {
		vis[row] = make([]bool, dim)
	}
	return vis
}

// OwnTank creates a friendly tank with full health and the given ammunition
func OwnTank(owner string, tt core.TankType, body, turret core.Direction, bullets int) core.Tank {
	return core.Tank{
		OwnerID:   owner,
		Type:      tt,
		Direction: body,
		Turret: core.Turret{
			Direction:   turret,
			BulletCount: Ptr(bullets),
		},
		Health: Ptr(100),
	}
}

// EnemyTank creates an opposing tank as the server reveals it
func EnemyTank(owner string, body, turret core.Direction) core.Tank {
	return core.Tank{
		OwnerID:   owner,
		Type:      core.LightTank,
		Direction: body,
		Turret:    core.Turret{Direction: turret},
	}
}

// Place appends entities to the tile at pos
func Place(s *core.Snapshot, pos core.Position, entities ...core.Entity) {
	tile := s.Tile(pos)
	tile.Entities = append(tile.Entities, entities...)
}

// OpenSnapshot creates an empty dim×dim snapshot with a single own tank
// that sees the whole grid.
func OpenSnapshot(dim, tick int, self core.Tank, at core.Position) *core.Snapshot {
	s := core.NewEmptySnapshot(dim, tick)
	if self.Visibility == nil {
		self.Visibility = FullVisibility(dim)
	}
	Place(s, at, core.TankEntity(self))
	return s
}

// AddZone appends a zone and refreshes tile labels
func AddZone(s *core.Snapshot, z core.Zone) {
	s.Zones = append(s.Zones, z)
	s.AssignZoneLabels()
}
