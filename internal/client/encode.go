package client

import (
	"encoding/json"
	"fmt"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

type outbound struct {
	Type    PacketType `json:"type"`
	Payload any        `json:"payload"`
}

type passPayload struct {
	GameStateID string `json:"gameStateId"`
}

type movementPayload struct {
	Direction   core.MoveDirection `json:"direction"`
	GameStateID string             `json:"gameStateId"`
}

// rotations are sent as null when the part does not turn
type rotationPayload struct {
	TankRotation   *core.Rotation `json:"tankRotation"`
	TurretRotation *core.Rotation `json:"turretRotation"`
	GameStateID    string         `json:"gameStateId"`
}

type abilityPayload struct {
	AbilityType core.AbilityType `json:"abilityType"`
	GameStateID string           `json:"gameStateId"`
}

type gotoPayload struct {
	X              int                 `json:"x"`
	Y              int                 `json:"y"`
	TurretRotation *core.Rotation      `json:"turretRotation"`
	Costs          *core.GoToCosts     `json:"costs,omitempty"`
	Penalties      *core.GoToPenalties `json:"penalties,omitempty"`
	GameStateID    string              `json:"gameStateId"`
}

// EncodeAction builds the response packet answering game state gameStateID
func EncodeAction(a core.Action, gameStateID string) ([]byte, error) {
	var out outbound
	switch a.Kind {
	case core.ActionWait:
		out = outbound{Type: ResponsePass, Payload: passPayload{GameStateID: gameStateID}}
	case core.ActionCapture:
		out = outbound{Type: CaptureZone, Payload: passPayload{GameStateID: gameStateID}}
	case core.ActionMove:
		if a.Move != core.Forward && a.Move != core.Backward {
			return nil, fmt.Errorf("move %d: %w", a.Move, core.ErrUnknownAction)
		}
		out = outbound{Type: TankMovement, Payload: movementPayload{Direction: a.Move, GameStateID: gameStateID}}
	case core.ActionRotate:
		tank, err := wireRotation(a.TankRotation)
		if err != nil {
			return nil, err
		}
		turret, err := wireRotation(a.TurretRotation)
		if err != nil {
			return nil, err
		}
		out = outbound{Type: TankRotation, Payload: rotationPayload{
			TankRotation:   tank,
			TurretRotation: turret,
			GameStateID:    gameStateID,
		}}
	case core.ActionAbility:
		if a.Ability < core.FireBullet || a.Ability > core.FireStunBullet {
			return nil, fmt.Errorf("ability %d: %w", a.Ability, core.ErrUnknownAction)
		}
		out = outbound{Type: AbilityUse, Payload: abilityPayload{AbilityType: a.Ability, GameStateID: gameStateID}}
	case core.ActionGoTo:
		if a.GoTo == nil {
			return nil, fmt.Errorf("goto without target: %w", core.ErrUnknownAction)
		}
		p := gotoPayload{
			X:           a.GoTo.Target.Col,
			Y:           a.GoTo.Target.Row,
			Costs:       a.GoTo.Costs,
			Penalties:   a.GoTo.Penalties,
			GameStateID: gameStateID,
		}
		if a.GoTo.TurretRotation != nil {
			r, err := wireRotation(*a.GoTo.TurretRotation)
			if err != nil {
				return nil, err
			}
			p.TurretRotation = r
		}
		out = outbound{Type: GoTo, Payload: p}
	default:
		return nil, fmt.Errorf("action kind %d: %w", a.Kind, core.ErrUnknownAction)
	}
	return json.Marshal(out)
}

func wireRotation(r core.Rotation) (*core.Rotation, error) {
	switch r {
	case core.RotateNone:
		return nil, nil
	case core.RotateLeft, core.RotateRight:
		return &r, nil
	default:
		return nil, fmt.Errorf("rotation %d: %w", r, core.ErrUnknownAction)
	}
}
