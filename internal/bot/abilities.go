package bot

import (
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// shootIf fires when pred holds, preferring the laser, then the double
// bullet, then a standard bullet. Weapons not allowed by the caller or not
// ready are skipped; pred is not evaluated when nothing can fire.
func (ts *TankState) shootIf(pred func() bool, allowLaser, allowDouble bool) (core.Action, bool) {
	laser := allowLaser && ts.tank.LaserReady()
	double := allowDouble && ts.tank.DoubleBulletReady()
	if ts.tank.BulletCount() == 0 && !laser && !double {
		return core.Action{}, false
	}
	if !pred() {
		return core.Action{}, false
	}
	switch {
	case laser:
		return core.AbilityAction(core.UseLaser), true
	case double:
		return core.AbilityAction(core.FireDoubleBullet), true
	default:
		return core.AbilityAction(core.FireBullet), true
	}
}

func (ts *TankState) shootIfWillHitForSure() (core.Action, bool) {
	return ts.shootIf(ts.WillCurrentShotHitForSure, true, true)
}

func (ts *TankState) shootIfSeeingEnemy(allowLaser, allowDouble bool) (core.Action, bool) {
	return ts.shootIf(ts.CanSeeEnemy, allowLaser, allowDouble)
}

func (ts *TankState) healIfSeeingAlly() (core.Action, bool) {
	if !ts.tank.HealingBulletReady() || !ts.CanSeeLowHealthAlly() {
		return core.Action{}, false
	}
	return core.AbilityAction(core.FireHealingBullet), true
}

// dropMine leaves a mine behind the tank in corridors and zones and
// records it right away so the tank never drives back over it
func (ts *TankState) dropMine() (core.Action, bool) {
	if !ts.tank.MineReady() {
		return core.Action{}, false
	}
	if !ts.b.terrain.BetweenWalls(ts.pos.Pos) && !ts.b.terrain.InAnyZone(ts.pos.Pos) {
		return core.Action{}, false
	}
	behind := ts.pos.Behind()
	if !ts.b.terrain.Passable(behind) {
		return core.Action{}, false
	}
	ts.b.knowledge.RecordMine(behind)
	return core.AbilityAction(core.DropMine), true
}

func (ts *TankState) useRadar() (core.Action, bool) {
	if !ts.tank.RadarReady() {
		return core.Action{}, false
	}
	return core.AbilityAction(core.UseRadar), true
}
