package bot

import (
	"testing"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/testutil"
	"github.com/stretchr/testify/require"
)

const selfID = "me"

// quietTank is an own light tank with every ability on cooldown
func quietTank(body, turret core.Direction, bullets int) core.Tank {
	t := testutil.OwnTank(selfID, core.LightTank, body, turret, bullets)
	t.Turret.TicksToLaser = testutil.Ptr(9)
	t.Turret.TicksToDoubleBullet = testutil.Ptr(9)
	t.Turret.TicksToHealingBullet = testutil.Ptr(9)
	t.Turret.TicksToStunBullet = testutil.Ptr(9)
	t.TicksToMine = testutil.Ptr(9)
	t.TicksToRadar = testutil.Ptr(9)
	return t
}

func newTestBot(t *testing.T, dim int, mutate ...func(*Options)) *Bot {
	t.Helper()
	return newBotFor(t, core.LobbyData{PlayerID: selfID, TeamName: "red", GridDimension: dim}, mutate...)
}

func newBotFor(t *testing.T, lobby core.LobbyData, mutate ...func(*Options)) *Bot {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	for _, m := range mutate {
		m(&opts)
	}
	b, err := New(opts, nil, testutil.NopLogger())
	require.NoError(t, err)
	require.NoError(t, b.Init(lobby))
	return b
}

// observed returns a bot that has folded s in without deciding
func observed(t *testing.T, s *core.Snapshot, mutate ...func(*Options)) *Bot {
	t.Helper()
	b := newTestBot(t, s.Dim(), mutate...)
	require.NoError(t, b.observe(s))
	return b
}

func loadScenario(t *testing.T, path string) *core.Snapshot {
	t.Helper()
	sc, err := testutil.LoadScenario(path)
	require.NoError(t, err)
	s, err := sc.Snapshot()
	require.NoError(t, err)
	return s
}
