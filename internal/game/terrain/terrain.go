// Package terrain holds the static map: wall classes and zone labels,
// computed once from the first snapshot and read-only afterwards.
package terrain

import (
	"fmt"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// WallClass orders walls by how much they block
type WallClass int

const (
	Open WallClass = iota
	Penetrable
	Solid
)

func (w WallClass) String() string {
	switch w {
	case Penetrable:
		return "penetrable"
	case Solid:
		return "solid"
	default:
		return "open"
	}
}

// Map is the immutable terrain of one match
type Map struct {
	dim   int
	walls [][]WallClass
	zones [][]byte
}

// Build classifies every cell of the snapshot
func Build(s *core.Snapshot) (*Map, error) {
	dim := s.Dim()
	if dim == 0 {
		return nil, core.ErrEmptyGrid
	}
	if err := s.CheckDim(dim); err != nil {
		return nil, fmt.Errorf("build terrain: %w", err)
	}

	m := &Map{
		dim:   dim,
		walls: make([][]WallClass, dim),
		zones: make([][]byte, dim),
	}
	for row := 0; row < dim; row++ {
		m.walls[row] = make([]WallClass, dim)
		m.zones[row] = make([]byte, dim)
		for col := 0; col < dim; col++ {
			tile := s.Tiles[row][col]
			if wt, ok := tile.HasWall(); ok {
				m.walls[row][col] = classify(wt)
			}
			m.zones[row][col] = tile.Zone
			if tile.Zone == 0 {
				m.zones[row][col] = core.NoZone
			}
		}
	}
	return m, nil
}

func classify(wt core.WallType) WallClass {
	if wt == core.PenetrableWall {
		return Penetrable
	}
	return Solid
}

// Dim returns the grid dimension
func (m *Map) Dim() int { return m.dim }

// Class returns the wall class at p; out-of-bounds cells are Open
func (m *Map) Class(p core.Position) WallClass {
	if !p.IsValid(m.dim) {
		return Open
	}
	return m.walls[p.Row][p.Col]
}

// IsWall reports whether p holds a wall of any class
func (m *Map) IsWall(p core.Position) bool {
	return m.Class(p) != Open
}

// IsSolid reports whether p holds a wall that blocks every shot
func (m *Map) IsSolid(p core.Position) bool {
	return m.Class(p) == Solid
}

// Passable reports whether a tank may stand on p
func (m *Map) Passable(p core.Position) bool {
	return p.IsValid(m.dim) && !m.IsWall(p)
}

// Zone returns the zone label at p, or core.NoZone
func (m *Map) Zone(p core.Position) byte {
	if !p.IsValid(m.dim) {
		return core.NoZone
	}
	return m.zones[p.Row][p.Col]
}

// InAnyZone reports whether p lies inside some zone
func (m *Map) InAnyZone(p core.Position) bool {
	return m.Zone(p) != core.NoZone
}

// BetweenWalls reports whether both neighbours on one axis are walls or
// off the grid, i.e. the cell is a corridor.
func (m *Map) BetweenWalls(p core.Position) bool {
	blocked := func(q core.Position) bool {
		return !q.IsValid(m.dim) || m.IsWall(q)
	}
	if blocked(p.Neighbor(core.Up)) && blocked(p.Neighbor(core.Down)) {
		return true
	}
	return blocked(p.Neighbor(core.Left)) && blocked(p.Neighbor(core.Right))
}
