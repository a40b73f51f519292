package testutil

import (
	"errors"
	"testing"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenario = `
name: sample
tick: 6
self: me
team: red
grid:
  - "...."
  - ".#%."
  - "...."
  - "...."
fog:
  - "1111"
  - "1111"
  - "1100"
  - "1100"
zones:
  - {label: A, x: 2, y: 2, width: 2, height: 2, neutral: 0.5, shares: {red: 0.25, blue: 0.25}}
tanks:
  - {owner: me, own: true, row: 0, col: 0, body: right, turret: down, bullets: 3, type: heavy}
  - {owner: foe, row: 3, col: 3, body: left}
bullets:
  - {row: 0, col: 3, direction: left, speed: 2}
mines:
  - {row: 2, col: 0}
`

func TestScenario_Snapshot(t *testing.T) {
	sc, err := ParseScenario([]byte(sampleScenario))
	require.NoError(t, err)

	s, err := sc.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, 4, s.Dim())
	assert.Equal(t, 6, s.Tick)

	wt, ok := s.Tiles[1][1].HasWall()
	require.True(t, ok)
	assert.Equal(t, core.SolidWall, wt)
	wt, ok = s.Tiles[1][2].HasWall()
	require.True(t, ok)
	assert.Equal(t, core.PenetrableWall, wt)

	assert.Equal(t, byte('A'), s.Tiles[3][3].Zone)
	assert.Equal(t, core.NoZone, s.Tiles[0][0].Zone)
	require.Len(t, s.Zones, 1)
	assert.Equal(t, 0.25, s.Zones[0].Shares.Teams["blue"])

	self, ok := s.FindTank("me")
	require.True(t, ok)
	assert.True(t, self.Tank.IsOwn())
	assert.Equal(t, core.HeavyTank, self.Tank.Type)
	assert.Equal(t, core.Right, self.Tank.Direction)
	assert.Equal(t, core.Down, self.Tank.Turret.Direction)
	assert.True(t, self.Tank.Visibility[2][1])
	assert.False(t, self.Tank.Visibility[2][2])

	foe, ok := s.FindTank("foe")
	require.True(t, ok)
	assert.True(t, foe.Tank.IsEnemy())
	assert.Equal(t, core.Left, foe.Tank.Turret.Direction, "turret defaults to body facing")

	bullets := s.BulletsOfType(core.BasicBullet)
	require.Len(t, bullets, 1)
	assert.Equal(t, 2.0, bullets[0].Bullet.Speed)
}

func TestScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"EmptyGrid", "name: x\n"},
		{"RaggedGrid", "grid: ['...', '..']\n"},
		{"UnknownCell", "grid: ['x.', '..']\n"},
		{"BadDirection", "grid: ['..', '..']\ntanks: [{owner: a, body: north}]\n"},
		{"BadFog", "grid: ['..', '..']\nfog: ['1']\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ParseScenario([]byte(tt.doc))
			if err == nil {
				_, err = sc.Snapshot()
			}
			assert.Error(t, err)
		})
	}
}

func TestScenario_RaggedGridIsDimensionMismatch(t *testing.T) {
	sc, err := ParseScenario([]byte("grid: ['...', '..', '...']\n"))
	require.NoError(t, err)
	_, err = sc.Snapshot()
	assert.True(t, errors.Is(err, core.ErrGridDimensionMismatch))
}
