package bot

import (
	"path/filepath"
	"testing"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeOrder(t *testing.T) {
	c, err := NewCascade(nil, testutil.NopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		RulePeriodicCapture,
		RuleGuaranteedHit,
		RuleHealAlly,
		RuleBreakStandstill,
		RuleDodge,
		RuleEvadeBullet,
		RuleSeekHealing,
		RuleDropMine,
		RuleUseRadar,
		RuleHoldZone,
		RuleSeekZone,
		RuleIdle,
	}, c.Rules())
}

func TestNewCascade_GuardErrors(t *testing.T) {
	tests := []struct {
		name   string
		guards map[string]string
	}{
		{"unknown rule", map[string]string{"teleport": "true"}},
		{"syntax error", map[string]string{RuleDodge: "health +"}},
		{"not a boolean", map[string]string{RuleDodge: "tick"}},
		{"unknown variable", map[string]string{RuleDodge: "ammo > 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCascade(tt.guards, testutil.NopLogger())
			assert.Error(t, err)
		})
	}
}

func TestCascadeGuards(t *testing.T) {
	tests := []struct {
		name   string
		guards map[string]string
		rule   string
	}{
		{"no guards", nil, RuleSeekZone},
		{"passing guard", map[string]string{RuleSeekZone: `health > 50 && tank_type == "light" && !in_zone`}, RuleSeekZone},
		{"failing guard skips the rule", map[string]string{RuleSeekZone: "false"}, RuleIdle},
		{"guard on capture probability", map[string]string{RuleSeekZone: "capture_prob < 0.5"}, RuleIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadScenario(t, filepath.Join("testdata", "seek_zone.yaml"))
			b := newTestBot(t, s.Dim(), func(o *Options) { o.Guards = tt.guards })

			d, err := b.Decide(s)
			require.NoError(t, err)
			assert.Equal(t, tt.rule, d.Rule)
		})
	}
}

func TestCascade_AllRulesGuardedOff(t *testing.T) {
	guards := make(map[string]string)
	for _, r := range DefaultRules() {
		guards[r.Name] = "false"
	}
	s := testutil.OpenSnapshot(7, 6, quietTank(core.Up, core.Up, 3), center)
	b := newTestBot(t, 7, func(o *Options) { o.Guards = guards })

	d, err := b.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, RuleNone, d.Rule)
	assert.Equal(t, core.WaitAction(), d.Action)
}

func TestPeriodicCapture(t *testing.T) {
	for _, tick := range []int{1, 5, 7, 13} {
		s := testutil.OpenSnapshot(7, tick, quietTank(core.Up, core.Up, 3), center)
		b := newTestBot(t, 7)

		d, err := b.Decide(s)
		require.NoError(t, err)
		assert.Equal(t, RulePeriodicCapture, d.Rule, "tick %d", tick)
		assert.Equal(t, core.CaptureAction(), d.Action)
	}
}

func TestBreakStandstill(t *testing.T) {
	b := newTestBot(t, 7, func(o *Options) { o.Tuning.JitterOdds = 1 })

	first, err := b.Decide(testutil.OpenSnapshot(7, 6, quietTank(core.Up, core.Up, 3), center))
	require.NoError(t, err)
	assert.NotEqual(t, RuleBreakStandstill, first.Rule, "first tick has no previous position")

	second, err := b.Decide(testutil.OpenSnapshot(7, 12, quietTank(core.Up, core.Up, 3), center))
	require.NoError(t, err)
	assert.Equal(t, RuleBreakStandstill, second.Rule)
}

func TestBreakStandstill_ShootsVisibleEnemy(t *testing.T) {
	b := newTestBot(t, 7, func(o *Options) { o.Tuning.JitterOdds = 1 })
	snapshot := func(tick int) *core.Snapshot {
		s := testutil.OpenSnapshot(7, tick, quietTank(core.Up, core.Up, 3), center)
		testutil.Place(s, core.NewPosition(0, 3), aimingEnemy(core.Left))
		return s
	}

	_, err := b.Decide(snapshot(6))
	require.NoError(t, err)
	d, err := b.Decide(snapshot(12))
	require.NoError(t, err)
	assert.Equal(t, RuleBreakStandstill, d.Rule)
	assert.Equal(t, core.AbilityAction(core.FireBullet), d.Action)
}

func zoneSnapshot(self core.Tank) *core.Snapshot {
	s := testutil.OpenSnapshot(7, 6, self, center)
	testutil.AddZone(s, core.Zone{X: 2, Y: 2, Width: 3, Height: 3, Label: 'A', Shares: core.ZoneShares{Neutral: 1}})
	return s
}

func TestHoldZone(t *testing.T) {
	t.Run("captures when the roll succeeds", func(t *testing.T) {
		b := observed(t, zoneSnapshot(quietTank(core.Up, core.Right, 3)), func(o *Options) { o.Tuning.CaptureScale = 2 })

		action, ok := b.Self().holdZone()
		require.True(t, ok)
		assert.Equal(t, core.CaptureAction(), action)
	})

	t.Run("shoots a visible enemy otherwise", func(t *testing.T) {
		s := zoneSnapshot(quietTank(core.Up, core.Right, 3))
		testutil.Place(s, core.NewPosition(3, 6), aimingEnemy(core.Up))
		b := observed(t, s, func(o *Options) { o.Tuning.CaptureScale = 0 })

		action, ok := b.Self().holdZone()
		require.True(t, ok)
		assert.Equal(t, core.AbilityAction(core.FireBullet), action)
	})

	t.Run("turns toward a reachable enemy without ammunition", func(t *testing.T) {
		s := zoneSnapshot(quietTank(core.Up, core.Up, 0))
		testutil.Place(s, core.NewPosition(3, 6), aimingEnemy(core.Up))
		b := observed(t, s, func(o *Options) { o.Tuning.CaptureScale = 0 })

		action, ok := b.Self().holdZone()
		require.True(t, ok)
		assert.Equal(t, core.RotateAction(core.RotateLeft, core.RotateRight), action)
	})

	t.Run("outside the zone", func(t *testing.T) {
		s := testutil.OpenSnapshot(7, 6, quietTank(core.Up, core.Up, 3), core.NewPosition(0, 0))
		testutil.AddZone(s, core.Zone{X: 4, Y: 4, Width: 2, Height: 2, Label: 'A'})
		b := observed(t, s)

		_, ok := b.Self().holdZone()
		assert.False(t, ok)
	})
}

func TestUseRadar(t *testing.T) {
	self := quietTank(core.Up, core.Up, 3)
	self.TicksToRadar = testutil.Ptr(0)
	b := newTestBot(t, 7)

	d, err := b.Decide(testutil.OpenSnapshot(7, 6, self, center))
	require.NoError(t, err)
	assert.Equal(t, RuleUseRadar, d.Rule)
	assert.Equal(t, core.AbilityAction(core.UseRadar), d.Action)
}

func TestHealAlly(t *testing.T) {
	self := quietTank(core.Up, core.Down, 0)
	self.Turret.TicksToHealingBullet = testutil.Ptr(0)
	s := testutil.OpenSnapshot(7, 6, self, center)
	testutil.Place(s, core.NewPosition(5, 3), allyWithHP(testutil.Ptr(30)))
	b := newTestBot(t, 7)

	d, err := b.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, RuleHealAlly, d.Rule)
	assert.Equal(t, core.AbilityAction(core.FireHealingBullet), d.Action)
}
