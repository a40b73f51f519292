package bot

import (
	"github.com/mitchelldurbincs/tankbot/internal/common"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/game/search"
	"github.com/mitchelldurbincs/tankbot/internal/game/terrain"
)

// searchStep runs the search engine from the current position and turns
// the first step into an action. Stepping into a cell that is hit next
// tick while the current one is safe becomes Wait.
func (ts *TankState) searchStep(goal search.Goal) (core.Action, bool) {
	res, ok := search.BFS(ts.b.dim, ts.pos, goal, ts.b.blocked)
	if !ok {
		return core.Action{}, false
	}
	if res.Step.Kind == core.StepMove {
		next := ts.pos.Apply(res.Step)
		if ts.WillBeHitNextTick(next.Pos) && !ts.WillBeHitNextTick(ts.pos.Pos) {
			return core.WaitAction(), true
		}
	}
	return core.StepAction(res.Step), true
}

// idleManeuver moves inside a zone half of the time when it can and
// otherwise turns body and turret at random
func (ts *TankState) idleManeuver() core.Action {
	if ts.b.rng.Intn(2) == 0 {
		fwd := ts.canMoveInsideZone(core.Forward)
		back := ts.canMoveInsideZone(core.Backward)
		switch {
		case fwd && back:
			return core.MoveAction(core.MoveDirection(ts.b.rng.Intn(2)))
		case fwd:
			return core.MoveAction(core.Forward)
		case back:
			return core.MoveAction(core.Backward)
		}
	}
	return core.RotateAction(core.Rotation(ts.b.rng.Intn(3)), core.Rotation(ts.b.rng.Intn(3)))
}

func (ts *TankState) canMoveInsideZone(m core.MoveDirection) bool {
	next := ts.pos.Moved(m).Pos
	return ts.b.terrain.Passable(next) && ts.b.terrain.InAnyZone(next)
}

func (ts *TankState) canMove(m core.MoveDirection) bool {
	return ts.b.terrain.Passable(ts.pos.Moved(m).Pos)
}

// rotateToEnemy turns body and turret toward the nearest reachable enemy,
// visible or remembered. Once both already face it the tank creeps
// forward, backs off or idles at random.
func (ts *TankState) rotateToEnemy() (core.Action, bool) {
	res, ok := search.BFS(ts.b.dim, ts.pos, ts.visibleEnemyAt, ts.b.blocked)
	if !ok {
		res, ok = search.BFS(ts.b.dim, ts.pos, ts.suspectedEnemyAt, ts.b.blocked)
		if !ok {
			return core.Action{}, false
		}
	}

	d := res.Final.Pos.Sub(ts.pos.Pos)
	body, turret := facingsToward(d.Row, d.Col)
	bodyRot := ts.pos.Dir.RotationTo(body)
	turretRot := ts.turret().RotationTo(turret)
	if bodyRot != core.RotateNone || turretRot != core.RotateNone {
		return core.RotateAction(bodyRot, turretRot), true
	}

	if ts.b.rng.Intn(ts.b.tuning.ForwardOdds) != 0 {
		if ts.canMove(core.Forward) {
			return core.MoveAction(core.Forward), true
		}
		return ts.idleManeuver(), true
	}
	switch ts.b.rng.Intn(3) {
	case 0:
		if ts.canMove(core.Backward) {
			return core.MoveAction(core.Backward), true
		}
		return ts.idleManeuver(), true
	case 1:
		return core.WaitAction(), true
	default:
		return ts.idleManeuver(), true
	}
}

// facingsToward picks the turret facing along the dominant axis of the
// offset (rows win ties) and a body facing perpendicular to it
func facingsToward(dRow, dCol int) (body, turret core.Direction) {
	absRow, absCol := common.Abs(dRow), common.Abs(dCol)
	switch {
	case dRow >= absCol:
		turret = core.Down
	case dRow <= -absCol:
		turret = core.Up
	case dCol >= absRow:
		turret = core.Right
	default:
		turret = core.Left
	}

	if turret.IsParallel(core.Down) {
		body = core.Right
		if dCol < 0 {
			body = core.Left
		}
		return body, turret
	}
	body = core.Down
	if dRow < 0 {
		body = core.Up
	}
	return body, turret
}

func (ts *TankState) visibleEnemyAt(s core.OrientedPosition, _ int) bool {
	if !ts.b.knowledge.Visible(s.Pos) {
		return false
	}
	t, ok := ts.b.snapshot.TankAt(s.Pos)
	return ok && t.IsEnemy()
}

func (ts *TankState) suspectedEnemyAt(s core.OrientedPosition, _ int) bool {
	if ts.b.knowledge.Visible(s.Pos) {
		return false
	}
	for _, entry := range ts.b.knowledge.Entries(s.Pos) {
		if entry.Entity.Kind == core.EntityTank && entry.Entity.Tank.IsEnemy() {
			return true
		}
	}
	return false
}

// dodge steps sideways out of the line of an enemy turret aimed at the
// tank. A direction the tank can answer with its own turret is left to
// the shooting rules.
func (ts *TankState) dodge() (core.Action, bool) {
	armed := ts.tank.BulletCount() > 0 || ts.tank.LaserReady() || ts.tank.DoubleBulletReady()
	for _, dir := range core.Directions {
		if dir == ts.turret() && armed {
			continue
		}
		for k := 1; k <= ts.b.tuning.DodgeRange; k++ {
			p := ts.pos.Pos.Step(dir, k)
			if !p.IsValid(ts.b.dim) || ts.b.terrain.IsSolid(p) {
				break
			}
			if !ts.isAimedAtBy(p, dir.Opposite()) {
				continue
			}
			for _, m := range []core.MoveDirection{core.Forward, core.Backward} {
				next := ts.pos.Moved(m).Pos
				if ts.b.terrain.Passable(next) && !ts.WillBeHitNextTick(next) && !ts.b.knowledge.MineLive(next) {
					return core.MoveAction(m), true
				}
			}
		}
	}
	return core.Action{}, false
}

// isAimedAtBy reports whether an enemy at p points its turret along aim
// while the tank's body lies across that line, so one step escapes it
func (ts *TankState) isAimedAtBy(p core.Position, aim core.Direction) bool {
	t, ok := ts.b.snapshot.TankAt(p)
	if !ok || !t.IsEnemy() {
		return false
	}
	return t.Turret.Direction == aim && !ts.pos.Dir.IsParallel(aim)
}

// evadeBullet leaves the row and column of the closest incoming bullet
func (ts *TankState) evadeBullet() (core.Action, bool) {
	bullet, ok := ts.closestIncomingBullet()
	if !ok {
		return core.Action{}, false
	}
	return ts.searchStep(func(s core.OrientedPosition, _ int) bool {
		return s.Pos.Row != bullet.Row && s.Pos.Col != bullet.Col
	})
}

// seekHealing heads for a cell a visible healing bullet will cross soon,
// but only while the teammate is healthier
func (ts *TankState) seekHealing() (core.Action, bool) {
	bullets := ts.b.snapshot.BulletsOfType(core.HealingBullet)
	if len(bullets) == 0 {
		return core.Action{}, false
	}
	mateHealth := 0
	if mate, ok := ts.b.snapshot.FindTeammate(ts.ownerID); ok {
		mateHealth = mate.Tank.HealthOr(0)
	}
	if ts.health() >= mateHealth {
		return core.Action{}, false
	}

	horizon := ts.b.tuning.HealHorizon
	return ts.searchStep(func(s core.OrientedPosition, eta int) bool {
		if eta > horizon || ts.b.terrain.Class(s.Pos) != terrain.Open {
			return false
		}
		for _, lb := range bullets {
			if p, ok := ts.bulletAfter(lb, eta); ok && p == s.Pos {
				return true
			}
		}
		return false
	})
}

// bulletAfter advances a bullet ticks ticks along its direction. A bullet
// that leaves the grid or meets a solid wall is gone.
func (ts *TankState) bulletAfter(lb core.LocatedBullet, ticks int) (core.Position, bool) {
	steps := ticks * common.CellsPerTick(lb.Bullet.Speed)
	p := lb.Pos
	for k := 0; k < steps; k++ {
		p = p.Neighbor(lb.Bullet.Direction)
		if !p.IsValid(ts.b.dim) || ts.b.terrain.IsSolid(p) {
			return core.Position{}, false
		}
	}
	return p, true
}

// seekZone takes the first step of the shortest path into the target zone
func (ts *TankState) seekZone() (core.Action, bool) {
	target := ts.b.targetZone
	return ts.searchStep(func(s core.OrientedPosition, _ int) bool {
		return ts.b.terrain.Zone(s.Pos) == target
	})
}
