package core

import "fmt"

// NoZone is the zone label of a tile outside every zone
const NoZone byte = '?'

// Tile is one cell of a snapshot: co-located entities plus the zone label
type Tile struct {
	Entities []Entity `json:"entities,omitempty"`
	Zone     byte     `json:"zone"`
}

// HasWall reports whether a wall entity is present and returns its type
func (t Tile) HasWall() (WallType, bool) {
	for _, e := range t.Entities {
		if e.Kind == EntityWall {
			return e.Wall.Type, true
		}
	}
	return SolidWall, false
}

// ZoneShares is the control distribution of a zone
type ZoneShares struct {
	Neutral float64            `json:"neutral"`
	Teams   map[string]float64 `json:"teams,omitempty"`
}

// Zone is a capture rectangle. X is the left column, Y the top row.
type Zone struct {
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Label  byte       `json:"label"`
	Shares ZoneShares `json:"shares"`
}

// Contains reports whether pos lies inside the zone rectangle
func (z Zone) Contains(pos Position) bool {
	return pos.Col >= z.X && pos.Col < z.X+z.Width &&
		pos.Row >= z.Y && pos.Row < z.Y+z.Height
}

// Player is a player entry of a snapshot team
type Player struct {
	ID           string `json:"id"`
	Ping         int    `json:"ping"`
	Score        *int   `json:"score,omitempty"`
	TicksToRegen *int   `json:"ticksToRegen,omitempty"`
}

// Team is a team entry of a snapshot
type Team struct {
	Name    string   `json:"name"`
	Color   uint32   `json:"color"`
	Score   *int     `json:"score,omitempty"`
	Players []Player `json:"players"`
}

// Snapshot is the partially observed world state for one tick
type Snapshot struct {
	ID       string   `json:"id"`
	Tick     int      `json:"tick"`
	PlayerID string   `json:"playerId,omitempty"`
	Teams    []Team   `json:"teams"`
	Tiles    [][]Tile `json:"tiles"`
	Zones    []Zone   `json:"zones"`
}

// Dim returns the grid dimension of the snapshot
func (s *Snapshot) Dim() int {
	return len(s.Tiles)
}

// CheckDim verifies that the tile grid is dim×dim
func (s *Snapshot) CheckDim(dim int) error {
	if len(s.Tiles) != dim {
		return fmt.Errorf("snapshot has %d rows, expected %d: %w", len(s.Tiles), dim, ErrGridDimensionMismatch)
	}
	for row, tiles := range s.Tiles {
		if len(tiles) != dim {
			return fmt.Errorf("row %d has %d columns, expected %d: %w", row, len(tiles), dim, ErrGridDimensionMismatch)
		}
	}
	return nil
}

// Tile returns the tile at pos. pos must be valid.
func (s *Snapshot) Tile(pos Position) *Tile {
	return &s.Tiles[pos.Row][pos.Col]
}

// TankAt returns the first tank at pos
func (s *Snapshot) TankAt(pos Position) (*Tank, bool) {
	if !pos.IsValid(s.Dim()) {
		return nil, false
	}
	for _, e := range s.Tiles[pos.Row][pos.Col].Entities {
		if e.Kind == EntityTank {
			return e.Tank, true
		}
	}
	return nil, false
}

// LocatedTank is a tank together with the cell it occupies
type LocatedTank struct {
	Tank *Tank
	Pos  Position
}

// Tanks returns every tank in row-major order
func (s *Snapshot) Tanks() []LocatedTank {
	var out []LocatedTank
	for row := range s.Tiles {
		for col := range s.Tiles[row] {
			for _, e := range s.Tiles[row][col].Entities {
				if e.Kind == EntityTank {
					out = append(out, LocatedTank{Tank: e.Tank, Pos: NewPosition(row, col)})
				}
			}
		}
	}
	return out
}

// FindTank returns the tank owned by ownerID
func (s *Snapshot) FindTank(ownerID string) (LocatedTank, bool) {
	for _, lt := range s.Tanks() {
		if lt.Tank.OwnerID == ownerID {
			return lt, true
		}
	}
	return LocatedTank{}, false
}

// FindTeammate returns the first own tank not owned by ownerID
func (s *Snapshot) FindTeammate(ownerID string) (LocatedTank, bool) {
	for _, lt := range s.Tanks() {
		if lt.Tank.IsOwn() && lt.Tank.OwnerID != ownerID {
			return lt, true
		}
	}
	return LocatedTank{}, false
}

// LocatedBullet is a bullet together with the cell it occupies
type LocatedBullet struct {
	Bullet Bullet
	Pos    Position
}

// BulletsOfType returns every bullet of type bt in row-major order
func (s *Snapshot) BulletsOfType(bt BulletType) []LocatedBullet {
	var out []LocatedBullet
	for row := range s.Tiles {
		for col := range s.Tiles[row] {
			for _, e := range s.Tiles[row][col].Entities {
				if e.Kind == EntityBullet && e.Bullet.Type == bt {
					out = append(out, LocatedBullet{Bullet: *e.Bullet, Pos: NewPosition(row, col)})
				}
			}
		}
	}
	return out
}

// AssignZoneLabels sets every tile's zone label from the zone rectangles.
// The first matching zone wins; tiles outside every zone get NoZone.
func (s *Snapshot) AssignZoneLabels() {
	for row := range s.Tiles {
		for col := range s.Tiles[row] {
			s.Tiles[row][col].Zone = NoZone
			pos := NewPosition(row, col)
			for _, z := range s.Zones {
				if z.Contains(pos) {
					s.Tiles[row][col].Zone = z.Label
					break
				}
			}
		}
	}
}

// NewEmptySnapshot builds an n×n snapshot with no entities and no zones
func NewEmptySnapshot(dim, tick int) *Snapshot {
	tiles := make([][]Tile, dim)
	for row := range tiles {
		tiles[row] = make([]Tile, dim)
		for col := range tiles[row] {
			tiles[row][col].Zone = NoZone
		}
	}
	return &Snapshot{Tick: tick, Tiles: tiles}
}
