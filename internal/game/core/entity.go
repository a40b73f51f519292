package core

import "fmt"

// TankType is the tank class chosen at join time
type TankType int

const (
	LightTank TankType = iota
	HeavyTank
)

func (t TankType) String() string {
	if t == HeavyTank {
		return "heavy"
	}
	return "light"
}

// ParseTankType converts a config/CLI value into a TankType
func ParseTankType(s string) (TankType, error) {
	switch s {
	case "light", "Light":
		return LightTank, nil
	case "heavy", "Heavy":
		return HeavyTank, nil
	default:
		return LightTank, fmt.Errorf("unknown tank type %q", s)
	}
}

// WallType is the wall class as sent by the server
type WallType int

const (
	SolidWall WallType = iota
	PenetrableWall
)

// BulletType is the projectile class
type BulletType int

const (
	BasicBullet BulletType = iota
	DoubleBullet
	HealingBullet
	StunBullet
)

// LaserOrientation is the axis of a laser segment
type LaserOrientation int

const (
	LaserHorizontal LaserOrientation = iota
	LaserVertical
)

// EntityKind tags the variant held by an Entity
type EntityKind int

const (
	EntityWall EntityKind = iota
	EntityTank
	EntityBullet
	EntityMine
	EntityLaser
)

func (k EntityKind) String() string {
	switch k {
	case EntityWall:
		return "wall"
	case EntityTank:
		return "tank"
	case EntityBullet:
		return "bullet"
	case EntityMine:
		return "mine"
	case EntityLaser:
		return "laser"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Wall is a static obstacle
type Wall struct {
	Type WallType `json:"type"`
}

// Turret holds the turret facing and the ability cooldowns.
// Cooldowns and bullet count are only present on own tanks.
type Turret struct {
	Direction            Direction `json:"direction"`
	BulletCount          *int      `json:"bulletCount,omitempty"`
	TicksToBullet        *int      `json:"ticksToBullet,omitempty"`
	TicksToDoubleBullet  *int      `json:"ticksToDoubleBullet,omitempty"`
	TicksToLaser         *int      `json:"ticksToLaser,omitempty"`
	TicksToHealingBullet *int      `json:"ticksToHealingBullet,omitempty"`
	TicksToStunBullet    *int      `json:"ticksToStunBullet,omitempty"`
}

// Tank is a tank as seen in a snapshot
type Tank struct {
	OwnerID      string    `json:"ownerId"`
	Type         TankType  `json:"type"`
	Direction    Direction `json:"direction"`
	Turret       Turret    `json:"turret"`
	Health       *int      `json:"health,omitempty"`
	TicksToMine  *int      `json:"ticksToMine,omitempty"`
	TicksToRadar *int      `json:"ticksToRadar,omitempty"`
	IsUsingRadar *bool     `json:"isUsingRadar,omitempty"`

	// Visibility[row][col] is only present on own tanks
	Visibility [][]bool `json:"visibility,omitempty"`
}

// IsOwn reports whether the tank belongs to this agent's team.
// The server only reveals the bullet count to the owning team.
func (t *Tank) IsOwn() bool {
	return t.Turret.BulletCount != nil
}

// IsEnemy reports whether the tank belongs to an opposing team
func (t *Tank) IsEnemy() bool {
	return !t.IsOwn()
}

// BulletCount returns the remaining ammunition, or 0 when unknown
func (t *Tank) BulletCount() int {
	if t.Turret.BulletCount == nil {
		return 0
	}
	return *t.Turret.BulletCount
}

// HealthOr returns the tank health, or def when unknown
func (t *Tank) HealthOr(def int) int {
	if t.Health == nil {
		return def
	}
	return *t.Health
}

func ready(ticks *int) bool {
	return ticks == nil || *ticks == 0
}

// LaserReady reports whether a heavy tank can fire its laser this tick
func (t *Tank) LaserReady() bool {
	return t.Type == HeavyTank && ready(t.Turret.TicksToLaser)
}

// DoubleBulletReady reports whether a light tank can fire a double bullet this tick
func (t *Tank) DoubleBulletReady() bool {
	return t.Type == LightTank && ready(t.Turret.TicksToDoubleBullet)
}

// HealingBulletReady reports whether the healing bullet is off cooldown
func (t *Tank) HealingBulletReady() bool {
	return ready(t.Turret.TicksToHealingBullet)
}

// StunBulletReady reports whether the stun bullet is off cooldown
func (t *Tank) StunBulletReady() bool {
	return ready(t.Turret.TicksToStunBullet)
}

// MineReady reports whether a heavy tank can drop a mine this tick
func (t *Tank) MineReady() bool {
	return t.Type == HeavyTank && ready(t.TicksToMine)
}

// RadarReady reports whether a light tank can use its radar this tick
func (t *Tank) RadarReady() bool {
	return t.Type == LightTank && ready(t.TicksToRadar)
}

// Bullet is a projectile in flight
type Bullet struct {
	ID        int        `json:"id"`
	Type      BulletType `json:"type"`
	Speed     float64    `json:"speed"`
	Direction Direction  `json:"direction"`
}

// Mine is a dropped mine
type Mine struct {
	ID                      int  `json:"id"`
	ExplosionRemainingTicks *int `json:"explosionRemainingTicks,omitempty"`
}

// Laser is one cell of an active laser beam
type Laser struct {
	ID          int              `json:"id"`
	Orientation LaserOrientation `json:"orientation"`
}

// Entity is a tagged variant of everything that can occupy a cell.
// Exactly the pointer matching Kind is set.
type Entity struct {
	Kind   EntityKind `json:"kind"`
	Wall   *Wall      `json:"wall,omitempty"`
	Tank   *Tank      `json:"tank,omitempty"`
	Bullet *Bullet    `json:"bullet,omitempty"`
	Mine   *Mine      `json:"mine,omitempty"`
	Laser  *Laser     `json:"laser,omitempty"`
}

func WallEntity(w Wall) Entity     { return Entity{Kind: EntityWall, Wall: &w} }
func TankEntity(t Tank) Entity     { return Entity{Kind: EntityTank, Tank: &t} }
func BulletEntity(b Bullet) Entity { return Entity{Kind: EntityBullet, Bullet: &b} }
func MineEntity(m Mine) Entity     { return Entity{Kind: EntityMine, Mine: &m} }
func LaserEntity(l Laser) Entity   { return Entity{Kind: EntityLaser, Laser: &l} }

// Validate checks that the payload matching Kind is present
func (e Entity) Validate() error {
	var ok bool
	switch e.Kind {
	case EntityWall:
		ok = e.Wall != nil
	case EntityTank:
		ok = e.Tank != nil
	case EntityBullet:
		ok = e.Bullet != nil
	case EntityMine:
		ok = e.Mine != nil
	case EntityLaser:
		ok = e.Laser != nil
	default:
		return fmt.Errorf("kind %d: %w", int(e.Kind), ErrUnknownEntity)
	}
	if !ok {
		return fmt.Errorf("%s without payload: %w", e.Kind, ErrUnknownEntity)
	}
	return nil
}

func (e Entity) String() string {
	switch e.Kind {
	case EntityTank:
		return fmt.Sprintf("tank(%s)", e.Tank.OwnerID)
	case EntityBullet:
		return fmt.Sprintf("bullet(%d %s)", e.Bullet.ID, e.Bullet.Direction)
	default:
		return e.Kind.String()
	}
}
