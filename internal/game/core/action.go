package core

import "fmt"

// ActionKind tags the variant held by an Action
type ActionKind int

const (
	ActionWait ActionKind = iota
	ActionMove
	ActionRotate
	ActionAbility
	ActionCapture
	ActionGoTo
)

func (k ActionKind) String() string {
	switch k {
	case ActionWait:
		return "wait"
	case ActionMove:
		return "move"
	case ActionRotate:
		return "rotate"
	case ActionAbility:
		return "ability"
	case ActionCapture:
		return "capture_zone"
	case ActionGoTo:
		return "goto"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// AbilityType identifies an ability. Values match the wire encoding.
type AbilityType int

const (
	FireBullet AbilityType = iota
	UseLaser
	FireDoubleBullet
	UseRadar
	DropMine
	FireHealingBullet
	FireStunBullet
)

func (a AbilityType) String() string {
	switch a {
	case FireBullet:
		return "fire_bullet"
	case UseLaser:
		return "use_laser"
	case FireDoubleBullet:
		return "fire_double_bullet"
	case UseRadar:
		return "use_radar"
	case DropMine:
		return "drop_mine"
	case FireHealingBullet:
		return "fire_healing_bullet"
	case FireStunBullet:
		return "fire_stun_bullet"
	default:
		return fmt.Sprintf("AbilityType(%d)", int(a))
	}
}

// GoToCosts weights the server-side path search
type GoToCosts struct {
	Forward  float64 `json:"forward"`
	Backward float64 `json:"backward"`
	Rotate   float64 `json:"rotate"`
}

// DefaultGoToCosts are the server defaults
var DefaultGoToCosts = GoToCosts{Forward: 1.0, Backward: 1.5, Rotate: 1.5}

// TilePenalty adds a penalty to one cell. X is the column, Y the row.
type TilePenalty struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Penalty float64 `json:"penalty"`
}

// GoToPenalties configures server-side path penalties; nil fields disable a penalty
type GoToPenalties struct {
	Blindly *float64      `json:"blindly,omitempty"`
	Tank    *float64      `json:"tank,omitempty"`
	Bullet  *float64      `json:"bullet,omitempty"`
	Mine    *float64      `json:"mine,omitempty"`
	Laser   *float64      `json:"laser,omitempty"`
	PerTile []TilePenalty `json:"perTile,omitempty"`
}

// GoTo asks the server to path the tank toward Target
type GoTo struct {
	Target         Position       `json:"target"`
	TurretRotation *Rotation      `json:"turretRotation,omitempty"`
	Costs          *GoToCosts     `json:"costs,omitempty"`
	Penalties      *GoToPenalties `json:"penalties,omitempty"`
}

// Action is the single response emitted per tick
type Action struct {
	Kind           ActionKind    `json:"kind"`
	Move           MoveDirection `json:"move,omitempty"`
	TankRotation   Rotation      `json:"tankRotation,omitempty"`
	TurretRotation Rotation      `json:"turretRotation,omitempty"`
	Ability        AbilityType   `json:"ability,omitempty"`
	GoTo           *GoTo         `json:"goto,omitempty"`
}

func MoveAction(m MoveDirection) Action {
	return Action{Kind: ActionMove, Move: m}
}

func RotateAction(tank, turret Rotation) Action {
	return Action{Kind: ActionRotate, TankRotation: tank, TurretRotation: turret}
}

func AbilityAction(a AbilityType) Action {
	return Action{Kind: ActionAbility, Ability: a}
}

func WaitAction() Action {
	return Action{Kind: ActionWait}
}

func CaptureAction() Action {
	return Action{Kind: ActionCapture}
}

func GoToAction(g GoTo) Action {
	return Action{Kind: ActionGoTo, GoTo: &g}
}

// StepAction converts a search step into an action; StepNone becomes Wait
func StepAction(s Step) Action {
	switch s.Kind {
	case StepMove:
		return MoveAction(s.Move)
	case StepRotate:
		return RotateAction(s.Rotation, RotateNone)
	default:
		return WaitAction()
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return "move " + a.Move.String()
	case ActionRotate:
		return fmt.Sprintf("rotate tank=%s turret=%s", a.TankRotation, a.TurretRotation)
	case ActionAbility:
		return a.Ability.String()
	case ActionGoTo:
		if a.GoTo == nil {
			return "goto"
		}
		return "goto " + a.GoTo.Target.String()
	default:
		return a.Kind.String()
	}
}
