package bot

import (
	"path/filepath"
	"testing"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		sc, err := testutil.LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(sc.Name, func(t *testing.T) {
			s, err := sc.Snapshot()
			require.NoError(t, err)

			b := newBotFor(t, core.LobbyData{PlayerID: sc.Self, TeamName: sc.Team, GridDimension: s.Dim()})

			d, err := b.Decide(s)
			require.NoError(t, err)
			assert.Equal(t, sc.Expect.Rule, d.Rule)
			if sc.Expect.Action != "" {
				assert.Equal(t, sc.Expect.Action, d.Action.String())
			}
			assert.Equal(t, s.Tick, d.Tick)
			assert.Equal(t, sc.Self, d.OwnerID)
		})
	}
}

func TestScenario_MineIsRecorded(t *testing.T) {
	s := loadScenario(t, filepath.Join("testdata", "corridor_mine.yaml"))
	b := newTestBot(t, s.Dim())

	d, err := b.Decide(s)
	require.NoError(t, err)
	require.Equal(t, core.AbilityAction(core.DropMine), d.Action)
	assert.True(t, b.board.knowledge.MineLive(core.NewPosition(4, 3)))
}
