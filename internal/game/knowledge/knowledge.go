// Package knowledge keeps the agent's belief about every cell of the grid
// under fog of war: what was last seen where, which cells are visible now,
// where live mines are and where tracked bullets are heading.
package knowledge

import (
	"fmt"

	"github.com/mitchelldurbincs/tankbot/internal/common"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/rs/zerolog"
)

// Config holds the knowledge model constants
type Config struct {
	// RetentionTicks is how long a non-visible entity is remembered
	RetentionTicks int
	// MineDurationTicks is how long a recorded mine stays live
	MineDurationTicks int
	// ProjectionTicks is how far ahead a lost bullet is extrapolated
	ProjectionTicks int
}

// DefaultConfig returns the standard knowledge constants
func DefaultConfig() Config {
	return Config{
		RetentionTicks:    10,
		MineDurationTicks: 500,
		ProjectionTicks:   2,
	}
}

// Entry is one remembered entity with the tick it was last seen
type Entry struct {
	LastSeen int         `json:"lastSeen"`
	Entity   core.Entity `json:"entity"`
}

// Model is the fog-of-war map. It is not safe for concurrent use.
type Model struct {
	dim     int
	cfg     Config
	tick    int
	updated bool

	// tiles[row][col] is ordered by LastSeen, oldest first
	tiles   [][][]Entry
	mines   [][]int
	visible [][]bool

	logger zerolog.Logger
}

// New creates an empty model for an n×n grid
func New(dim int, cfg Config, logger zerolog.Logger) *Model {
	m := &Model{
		dim:     dim,
		cfg:     cfg,
		tiles:   make([][][]Entry, dim),
		mines:   make([][]int, dim),
		visible: make([][]bool, dim),
		logger:  logger.With().Str("component", "KnowledgeModel").Logger(),
	}
	for row := 0; row < dim; row++ {
		m.tiles[row] = make([][]Entry, dim)
		m.mines[row] = make([]int, dim)
		m.visible[row] = make([]bool, dim)
	}
	return m
}

// Dim returns the grid dimension
func (m *Model) Dim() int { return m.dim }

// Tick returns the tick of the last processed snapshot
func (m *Model) Tick() int { return m.tick }

// Update folds a snapshot into the model.
// Visible cells are replaced wholesale, non-visible cells decay, and
// bullets that left visibility are projected along their direction.
func (m *Model) Update(s *core.Snapshot) error {
	if err := s.CheckDim(m.dim); err != nil {
		return fmt.Errorf("knowledge update: %w", err)
	}
	if err := m.recomputeVisibility(s); err != nil {
		return fmt.Errorf("knowledge update: %w", err)
	}

	elapsed := 1
	if m.updated {
		elapsed = s.Tick - m.tick
		if elapsed < 0 {
			elapsed = 0
		}
	}
	m.tick = s.Tick
	m.updated = true
	m.decayMines(elapsed)

	var lost []core.LocatedBullet
	for row := 0; row < m.dim; row++ {
		for col := 0; col < m.dim; col++ {
			if m.visible[row][col] {
				m.replaceVisible(s, row, col)
				continue
			}
			lost = m.decayHidden(row, col, lost)
		}
	}

	for _, lb := range lost {
		m.project(lb)
	}

	if len(lost) > 0 {
		m.logger.Debug().
			Int("tick", s.Tick).
			Int("projected_bullets", len(lost)).
			Msg("Projected bullets that left visibility")
	}
	return nil
}

func (m *Model) recomputeVisibility(s *core.Snapshot) error {
	for row := range m.visible {
		for col := range m.visible[row] {
			m.visible[row][col] = false
		}
	}
	for _, lt := range s.Tanks() {
		vis := lt.Tank.Visibility
		if vis == nil {
			continue
		}
		if len(vis) != m.dim {
			return fmt.Errorf("visibility of %s has %d rows: %w", lt.Tank.OwnerID, len(vis), core.ErrGridDimensionMismatch)
		}
		for row := range vis {
			if len(vis[row]) != m.dim {
				return fmt.Errorf("visibility of %s row %d: %w", lt.Tank.OwnerID, row, core.ErrGridDimensionMismatch)
			}
			for col, seen := range vis[row] {
				if seen {
					m.visible[row][col] = true
				}
			}
		}
	}
	return nil
}

func (m *Model) replaceVisible(s *core.Snapshot, row, col int) {
	entries := m.tiles[row][col][:0]
	for _, e := range s.Tiles[row][col].Entities {
		switch e.Kind {
		case core.EntityWall:
			continue
		case core.EntityMine:
			m.mines[row][col] = m.cfg.MineDurationTicks
		}
		entries = append(entries, Entry{LastSeen: s.Tick, Entity: e})
	}
	m.tiles[row][col] = entries
}

// decayHidden drops stale entries of a non-visible cell and collects
// bullets seen before this tick so they can be projected forward.
func (m *Model) decayHidden(row, col int, lost []core.LocatedBullet) []core.LocatedBullet {
	kept := m.tiles[row][col][:0]
	for _, entry := range m.tiles[row][col] {
		if entry.Entity.Kind == core.EntityBullet && entry.LastSeen < m.tick {
			lost = append(lost, core.LocatedBullet{Bullet: *entry.Entity.Bullet, Pos: core.NewPosition(row, col)})
			continue
		}
		if m.tick-entry.LastSeen > m.cfg.RetentionTicks {
			continue
		}
		kept = append(kept, entry)
	}
	m.tiles[row][col] = kept
	return lost
}

func (m *Model) project(lb core.LocatedBullet) {
	speed := common.CellsPerTick(lb.Bullet.Speed)
	if speed < 1 {
		speed = 1
	}
	steps := speed * m.cfg.ProjectionTicks
	for k := 1; k <= steps; k++ {
		p := lb.Pos.Step(lb.Bullet.Direction, k)
		if !p.IsValid(m.dim) {
			return
		}
		if m.visible[p.Row][p.Col] {
			continue
		}
		m.insertBullet(p, lb.Bullet)
	}
}

func (m *Model) insertBullet(p core.Position, b core.Bullet) {
	for _, entry := range m.tiles[p.Row][p.Col] {
		if entry.LastSeen == m.tick && entry.Entity.Kind == core.EntityBullet && *entry.Entity.Bullet == b {
			return
		}
	}
	// m.tick is the newest tick in the model, so appending keeps the order
	m.tiles[p.Row][p.Col] = append(m.tiles[p.Row][p.Col], Entry{LastSeen: m.tick, Entity: core.BulletEntity(b)})
}

func (m *Model) decayMines(elapsed int) {
	if elapsed == 0 {
		return
	}
	for row := range m.mines {
		for col := range m.mines[row] {
			if m.mines[row][col] > 0 {
				m.mines[row][col] -= elapsed
				if m.mines[row][col] < 0 {
					m.mines[row][col] = 0
				}
			}
		}
	}
}

// RecordMine marks a self-dropped mine as live for the full duration
func (m *Model) RecordMine(p core.Position) {
	if !p.IsValid(m.dim) {
		return
	}
	m.mines[p.Row][p.Col] = m.cfg.MineDurationTicks
}

// MineLive reports whether pos holds a live mine
func (m *Model) MineLive(p core.Position) bool {
	return p.IsValid(m.dim) && m.mines[p.Row][p.Col] > 0
}

// Visible reports whether pos is observed by an own tank this tick
func (m *Model) Visible(p core.Position) bool {
	return p.IsValid(m.dim) && m.visible[p.Row][p.Col]
}

// VisibleMask returns a copy of the current visibility grid
func (m *Model) VisibleMask() [][]bool {
	out := make([][]bool, m.dim)
	for row := range m.visible {
		out[row] = append([]bool(nil), m.visible[row]...)
	}
	return out
}

// Entries returns the remembered entities at pos, oldest first.
// The slice must not be modified.
func (m *Model) Entries(p core.Position) []Entry {
	if !p.IsValid(m.dim) {
		return nil
	}
	return m.tiles[p.Row][p.Col]
}

// IsOnBulletTrajectory reports whether a remembered bullet is heading into
// pos within 2×horizon cells on any axis, or a laser is remembered at pos.
// Healing bullets are not hazards.
func (m *Model) IsOnBulletTrajectory(p core.Position, horizon int) bool {
	if !p.IsValid(m.dim) {
		return false
	}
	for _, entry := range m.tiles[p.Row][p.Col] {
		if entry.Entity.Kind == core.EntityLaser {
			return true
		}
	}
	reach := 2 * horizon
	for _, dir := range core.Directions {
		incoming := dir.Opposite()
		for k := 1; k <= reach; k++ {
			q := p.Step(dir, k)
			if !q.IsValid(m.dim) {
				break
			}
			for _, entry := range m.tiles[q.Row][q.Col] {
				if entry.Entity.Kind != core.EntityBullet {
					continue
				}
				b := entry.Entity.Bullet
				if b.Type != core.HealingBullet && b.Direction == incoming {
					return true
				}
			}
		}
	}
	return false
}

// WillBeHitNextTick is IsOnBulletTrajectory with a one-tick horizon
func (m *Model) WillBeHitNextTick(p core.Position) bool {
	return m.IsOnBulletTrajectory(p, 1)
}
