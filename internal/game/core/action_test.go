package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepAction(t *testing.T) {
	tests := []struct {
		name     string
		step     Step
		expected Action
	}{
		{"None", Step{}, WaitAction()},
		{"Forward", MoveStep(Forward), MoveAction(Forward)},
		{"Backward", MoveStep(Backward), MoveAction(Backward)},
		{"RotateLeft", RotateStep(RotateLeft), RotateAction(RotateLeft, RotateNone)},
		{"RotateRight", RotateStep(RotateRight), RotateAction(RotateRight, RotateNone)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StepAction(tt.step))
		})
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "wait", WaitAction().String())
	assert.Equal(t, "capture_zone", CaptureAction().String())
	assert.Equal(t, "move backward", MoveAction(Backward).String())
	assert.Equal(t, "rotate tank=left turret=none", RotateAction(RotateLeft, RotateNone).String())
	assert.Equal(t, "use_laser", AbilityAction(UseLaser).String())
	assert.Equal(t, "goto (2,3)", GoToAction(GoTo{Target: NewPosition(2, 3)}).String())
}

func TestGoToAction_CopiesPayload(t *testing.T) {
	costs := DefaultGoToCosts
	g := GoTo{Target: NewPosition(1, 1), Costs: &costs}
	a := GoToAction(g)
	g.Target = NewPosition(9, 9)

	require.NotNil(t, a.GoTo)
	assert.Equal(t, NewPosition(1, 1), a.GoTo.Target)
	assert.Equal(t, 1.5, a.GoTo.Costs.Backward)
}

func TestAbilityType_WireValues(t *testing.T) {
	assert.Equal(t, 0, int(FireBullet))
	assert.Equal(t, 1, int(UseLaser))
	assert.Equal(t, 2, int(FireDoubleBullet))
	assert.Equal(t, 3, int(UseRadar))
	assert.Equal(t, 4, int(DropMine))
	assert.Equal(t, 5, int(FireHealingBullet))
	assert.Equal(t, 6, int(FireStunBullet))
}
