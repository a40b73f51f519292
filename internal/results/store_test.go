package results

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "results.db")
	s, err := Open(path, testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func scoreboard(red, blue int) core.MatchResult {
	return core.MatchResult{Teams: []core.TeamResult{
		{Name: "red", Color: 0xFF0000, Score: red, Players: []core.PlayerResult{
			{ID: "me", Kills: 2, TankType: core.LightTank},
			{ID: "mate", Kills: 1, TankType: core.HeavyTank},
		}},
		{Name: "blue", Color: 0x0000FF, Score: blue, Players: []core.PlayerResult{
			{ID: "foe", Kills: 4, TankType: core.HeavyTank},
		}},
	}}
}

func TestStore_RecordAndList(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordMatch(ctx, Match{ID: "m1", PlayerID: "me", TeamName: "red", FinalTick: 400, EndedAt: base, Result: scoreboard(10, 3)}))
	require.NoError(t, s.RecordMatch(ctx, Match{ID: "m2", PlayerID: "me", TeamName: "red", FinalTick: 380, EndedAt: base.Add(time.Hour), Result: scoreboard(1, 8)}))

	matches, err := s.RecentMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "m2", matches[0].ID)
	assert.False(t, matches[0].Won())
	assert.Equal(t, "m1", matches[1].ID)
	assert.True(t, matches[1].Won())
	assert.Equal(t, 400, matches[1].FinalTick)
	assert.True(t, base.Equal(matches[1].EndedAt))
	assert.Equal(t, scoreboard(10, 3), matches[1].Result)

	limited, err := s.RecentMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "m2", limited[0].ID)

	none, err := s.RecentMatches(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_RecordReplaces(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordMatch(ctx, Match{ID: "m1", TeamName: "red", EndedAt: time.Now(), Result: scoreboard(1, 2)}))
	require.NoError(t, s.RecordMatch(ctx, Match{ID: "m1", TeamName: "red", EndedAt: time.Now(), Result: scoreboard(5, 2)}))

	matches, err := s.RecentMatches(ctx, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 5, matches[0].Result.Teams[0].Score)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var players int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM player_results WHERE match_id = 'm1'`).Scan(&players))
	assert.Equal(t, 3, players)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", testutil.NopLogger())
	assert.Error(t, err)
}

func TestSubscriber_RecordsEndedMatches(t *testing.T) {
	s, _ := openStore(t)
	bus := events.NewEventBus()
	bus.Subscribe(NewSubscriber(s))

	bus.Publish(events.NewMatchStartedEvent("m7", core.LobbyData{PlayerID: "me", TeamName: "blue", GridDimension: 24}))
	bus.Publish(events.NewMatchEndedEvent("m7", scoreboard(2, 9), 512))

	matches, err := s.RecentMatches(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m7", matches[0].ID)
	assert.Equal(t, "me", matches[0].PlayerID)
	assert.Equal(t, "blue", matches[0].TeamName)
	assert.Equal(t, 512, matches[0].FinalTick)
	assert.True(t, matches[0].Won())
}
