package recording

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(tick int) *core.Snapshot {
	self := testutil.OwnTank("me", core.LightTank, core.Up, core.Right, 3)
	s := testutil.OpenSnapshot(5, tick, self, core.NewPosition(2, 2))
	testutil.Place(s, core.NewPosition(0, 4), core.WallEntity(core.Wall{Type: core.PenetrableWall}))
	testutil.AddZone(s, core.Zone{X: 1, Y: 1, Width: 2, Height: 2, Label: 'A', Shares: core.ZoneShares{Neutral: 1}})
	return s
}

func TestWriterReader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "m1"+FileSuffix)
	w := NewWriter(path)

	move := core.MoveAction(core.Forward)
	frames := []Frame{
		{MatchID: "m1", Tick: 1, Snapshot: sampleSnapshot(1), Visible: testutil.FullVisibility(5), Action: &move, Rule: "seek_zone", Duration: 3 * time.Millisecond},
		{MatchID: "m1", Tick: 2, Snapshot: sampleSnapshot(2), Duration: 120 * time.Millisecond, Skipped: events.SkipLate},
	}
	for _, f := range frames {
		require.NoError(t, w.Write(f))
	}
	assert.Equal(t, 2, w.Frames())
	require.NoError(t, w.Close())
	assert.Error(t, w.Write(frames[0]), "closed writer")

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Sent())
	assert.Equal(t, move, *got[0].Action)
	assert.Equal(t, "seek_zone", got[0].Rule)
	assert.Equal(t, 3*time.Millisecond, got[0].Duration)
	assert.Equal(t, frames[0].Visible, got[0].Visible)
	assert.Equal(t, frames[0].Snapshot.Tiles, got[0].Snapshot.Tiles)
	assert.Equal(t, frames[0].Snapshot.Zones, got[0].Snapshot.Zones)

	assert.False(t, got[1].Sent())
	assert.Equal(t, events.SkipLate, got[1].Skipped)
}

func TestReader_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"+FileSuffix))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "plain"+FileSuffix)
	require.NoError(t, os.WriteFile(path, []byte("not zstd\n"), 0o644))
	_, err = ReadAll(path)
	assert.Error(t, err)
}

func TestRecorder_WritesOneFilePerMatch(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewEventBus()
	rec := NewRecorder(dir, testutil.NopLogger())
	bus.Subscribe(rec)

	made := events.NewDecisionMadeEvent("m1", 6, "me", "capture", core.CaptureAction(), time.Millisecond)
	made.Snapshot = sampleSnapshot(6)
	bus.Publish(made)

	skipped := events.NewDecisionSkippedEvent("m1", 7, 50*time.Millisecond, 40*time.Millisecond, events.SkipAborted)
	skipped.Err = "own tank not found in snapshot"
	bus.Publish(skipped)

	bus.Publish(events.NewDecisionMadeEvent("m2", 1, "me", "idle", core.WaitAction(), time.Millisecond))
	bus.Publish(events.NewMatchEndedEvent("m1", core.MatchResult{}, 7))
	require.NoError(t, rec.Close())

	frames, err := ReadAll(PathFor(dir, "m1"))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 6, frames[0].Tick)
	assert.Equal(t, core.CaptureAction(), *frames[0].Action)
	assert.Equal(t, events.SkipAborted, frames[1].Skipped)
	assert.Equal(t, "own tank not found in snapshot", frames[1].Error)

	frames, err = ReadAll(PathFor(dir, "m2"))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "idle", frames[0].Rule)
}

func TestRecorder_KeepsRecordingAfterMatchEnd(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewEventBus()
	rec := NewRecorder(dir, testutil.NopLogger())
	bus.Subscribe(rec)

	for tick := 1; tick <= 5; tick++ {
		bus.Publish(events.NewDecisionMadeEvent("m1", tick, "me", "capture", core.CaptureAction(), time.Millisecond))
	}
	bus.Publish(events.NewMatchEndedEvent("m1", core.MatchResult{}, 5))

	frames, err := ReadAll(PathFor(dir, "m1"))
	require.NoError(t, err)
	require.Len(t, frames, 5)

	// a decision finishing after the end packet was handled
	bus.Publish(events.NewDecisionMadeEvent("m1", 6, "me", "idle", core.WaitAction(), time.Millisecond))
	bus.Publish(events.NewDecisionSkippedEvent("m1", 6, 50*time.Millisecond, 40*time.Millisecond, events.SkipLate))
	require.NoError(t, rec.Close())

	frames, err = ReadAll(PathFor(dir, "m1"))
	require.NoError(t, err)
	require.Len(t, frames, 5)
	assert.Equal(t, 5, frames[4].Tick)
}

func TestRecorder_InterestedIn(t *testing.T) {
	rec := NewRecorder(t.TempDir(), testutil.NopLogger())
	assert.True(t, rec.InterestedIn(events.TypeDecisionMade))
	assert.True(t, rec.InterestedIn(events.TypeMatchEnded))
	assert.False(t, rec.InterestedIn(events.TypeServerWarning))
}
