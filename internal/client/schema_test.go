package client

import (
	"testing"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_AcceptsEncodedActions(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	actions := []core.Action{
		core.WaitAction(),
		core.CaptureAction(),
		core.MoveAction(core.Forward),
		core.RotateAction(core.RotateNone, core.RotateLeft),
		core.AbilityAction(core.DropMine),
		core.GoToAction(core.GoTo{Target: core.NewPosition(3, 3), Costs: &core.DefaultGoToCosts}),
	}
	for _, a := range actions {
		data, err := EncodeAction(a, "gs-1")
		require.NoError(t, err)
		assert.NoError(t, v.Validate(data), a.String())
	}

	for _, typ := range []PacketType{Pong, LobbyDataRequest, ReadyToReceiveGameState} {
		assert.NoError(t, v.Validate(controlPacket(typ)), typ.String())
	}
}

func TestValidator_Rejects(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"type":`},
		{"missing type", `{"payload":{"gameStateId":"gs"}}`},
		{"unknown type", `{"type":200}`},
		{"missing game state id", `{"type":79,"payload":{}}`},
		{"empty game state id", `{"type":76,"payload":{"gameStateId":""}}`},
		{"bad direction", `{"type":73,"payload":{"direction":2,"gameStateId":"gs"}}`},
		{"rotation missing turret", `{"type":74,"payload":{"tankRotation":0,"gameStateId":"gs"}}`},
		{"ability out of range", `{"type":75,"payload":{"abilityType":9,"gameStateId":"gs"}}`},
		{"control packet with payload", `{"type":18,"payload":{"gameStateId":"gs"}}`},
		{"goto negative x", `{"type":78,"payload":{"x":-1,"y":0,"turretRotation":null,"gameStateId":"gs"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Validate([]byte(tt.data)))
		})
	}
}
