package bot

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/game/knowledge"
	"github.com/mitchelldurbincs/tankbot/internal/game/terrain"
)

// board is the per-match state shared by every tactical state
type board struct {
	dim        int
	tuning     Tuning
	rng        *rand.Rand
	terrain    *terrain.Map
	knowledge  *knowledge.Model
	snapshot   *core.Snapshot
	shares     Shares
	targetZone byte
}

// blocked rejects search cells holding a wall, a live mine or an incoming bullet
func (b *board) blocked(p core.Position, _ int) bool {
	return b.terrain.IsWall(p) ||
		b.knowledge.MineLive(p) ||
		b.knowledge.IsOnBulletTrajectory(p, b.tuning.SearchHazardHorizon)
}

// TankState is the tactical view of one controlled tank. It reads the
// board it was created with and never outlives it.
type TankState struct {
	b       *board
	ownerID string

	tank    core.Tank
	pos     core.OrientedPosition
	lastPos core.OrientedPosition
	seen    bool
	hasLast bool
}

func newTankState(b *board, ownerID string) *TankState {
	return &TankState{b: b, ownerID: ownerID}
}

// sync refreshes the tank from the current snapshot
func (ts *TankState) sync() error {
	lt, ok := ts.b.snapshot.FindTank(ts.ownerID)
	if !ok {
		return fmt.Errorf("owner %s: %w", ts.ownerID, core.ErrSelfNotFound)
	}
	if ts.seen {
		ts.lastPos = ts.pos
		ts.hasLast = true
	}
	ts.tank = *lt.Tank
	ts.pos = core.OrientedPosition{Pos: lt.Pos, Dir: lt.Tank.Direction}
	ts.seen = true
	return nil
}

// OwnerID returns the id of the controlled tank's player
func (ts *TankState) OwnerID() string { return ts.ownerID }

// Position returns the tank's cell and body facing
func (ts *TankState) Position() core.OrientedPosition { return ts.pos }

// Stationary reports whether the tank neither moved nor turned since the
// previous synced tick
func (ts *TankState) Stationary() bool { return ts.hasLast && ts.lastPos == ts.pos }

func (ts *TankState) turret() core.Direction { return ts.tank.Turret.Direction }

func (ts *TankState) health() int { return ts.tank.HealthOr(ts.b.tuning.MaxHealth) }

func (ts *TankState) inTargetZone() bool {
	return ts.b.terrain.Zone(ts.pos.Pos) == ts.b.targetZone
}
