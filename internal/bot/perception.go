package bot

import (
	"github.com/mitchelldurbincs/tankbot/internal/common"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// ray walks cells along the turret facing until the grid edge, a solid
// wall, a cell outside current visibility or limit cells. visit returns
// false to stop early.
func (ts *TankState) ray(limit int, visit func(core.Position) bool) {
	dir := ts.turret()
	for k := 1; k <= limit; k++ {
		p := ts.pos.Pos.Step(dir, k)
		if !p.IsValid(ts.b.dim) || ts.b.terrain.IsSolid(p) || !ts.b.knowledge.Visible(p) {
			return
		}
		if !visit(p) {
			return
		}
	}
}

// CanSeeEnemy reports whether an enemy tank stands in the line of fire
func (ts *TankState) CanSeeEnemy() bool {
	return ts.canSeeTank(func(t *core.Tank) bool { return t.IsEnemy() })
}

// CanSeeLowHealthAlly reports whether a damaged teammate stands in the
// line of fire
func (ts *TankState) CanSeeLowHealthAlly() bool {
	return ts.canSeeTank(func(t *core.Tank) bool {
		return t.IsOwn() && t.OwnerID != ts.ownerID &&
			t.Health != nil && *t.Health < ts.b.tuning.MaxHealth
	})
}

func (ts *TankState) canSeeTank(match func(*core.Tank) bool) bool {
	found := false
	ts.ray(ts.b.dim, func(p core.Position) bool {
		if t, ok := ts.b.snapshot.TankAt(p); ok && match(t) {
			found = true
		}
		return !found
	})
	return found
}

// WillCurrentShotHitForSure reports whether firing now hits an enemy that
// cannot sidestep: one whose body lies along the line of fire. A standard
// shot stops at the first tank; a laser passes through enemies but is
// never fired through a teammate.
func (ts *TankState) WillCurrentShotHitForSure() bool {
	laser := ts.tank.LaserReady()
	limit := common.Min(ts.b.tuning.ShotRange, ts.b.dim)
	if laser {
		limit = ts.b.dim
	}

	hit := false
	ts.ray(limit, func(p core.Position) bool {
		t, ok := ts.b.snapshot.TankAt(p)
		if !ok {
			return true
		}
		if t.IsOwn() {
			hit = false
			return false
		}
		if t.Direction.IsParallel(ts.turret()) {
			hit = true
		}
		return laser
	})
	return hit
}

// WillBeHitNextTick reports whether a tracked hazard reaches p next tick
func (ts *TankState) WillBeHitNextTick(p core.Position) bool {
	return ts.b.knowledge.WillBeHitNextTick(p)
}

// closestIncomingBullet finds the nearest tracked hazardous bullet sharing
// a row or column with the tank and heading toward it
func (ts *TankState) closestIncomingBullet() (core.Position, bool) {
	var best core.Position
	bestDist := -1
	for _, dir := range []core.Direction{core.Up, core.Down, core.Left, core.Right} {
		incoming := dir.Opposite()
		for k := 1; ; k++ {
			p := ts.pos.Pos.Step(dir, k)
			if !p.IsValid(ts.b.dim) || (bestDist >= 0 && k >= bestDist) {
				break
			}
			if ts.hasIncomingBullet(p, incoming) {
				best, bestDist = p, k
				break
			}
		}
	}
	return best, bestDist >= 0
}

func (ts *TankState) hasIncomingBullet(p core.Position, incoming core.Direction) bool {
	for _, entry := range ts.b.knowledge.Entries(p) {
		if entry.Entity.Kind != core.EntityBullet {
			continue
		}
		b := entry.Entity.Bullet
		if b.Type != core.HealingBullet && b.Direction == incoming {
			return true
		}
	}
	return false
}
