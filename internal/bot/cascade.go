package bot

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/rs/zerolog"
)

// Rule names, in cascade order
const (
	RulePeriodicCapture = "periodic_capture"
	RuleGuaranteedHit   = "guaranteed_hit"
	RuleHealAlly        = "heal_ally"
	RuleBreakStandstill = "break_standstill"
	RuleDodge           = "dodge"
	RuleEvadeBullet     = "evade_bullet"
	RuleSeekHealing     = "seek_healing"
	RuleDropMine        = "drop_mine"
	RuleUseRadar        = "use_radar"
	RuleHoldZone        = "hold_zone"
	RuleSeekZone        = "seek_zone"
	RuleIdle            = "idle"

	// RuleNone marks a tick where every rule was guarded off
	RuleNone = "none"
)

// RuleFunc produces an action, or false when the rule does not apply
type RuleFunc func(ts *TankState) (core.Action, bool)

// Rule is one step of the cascade. An optional guard expression is
// evaluated against GuardEnv first; a false guard skips the rule.
type Rule struct {
	Name     string
	Apply    RuleFunc
	GuardSrc string
	guard    *vm.Program
}

// GuardEnv is the environment rule guards are compiled against
type GuardEnv struct {
	Tick        int     `expr:"tick"`
	Health      int     `expr:"health"`
	Bullets     int     `expr:"bullets"`
	TankType    string  `expr:"tank_type"`
	InZone      bool    `expr:"in_zone"`
	Stationary  bool    `expr:"stationary"`
	CaptureProb float64 `expr:"capture_prob"`
	HasTeammate bool    `expr:"has_teammate"`
}

// DefaultRules returns the cascade in priority order
func DefaultRules() []Rule {
	return []Rule{
		{Name: RulePeriodicCapture, Apply: (*TankState).periodicCapture},
		{Name: RuleGuaranteedHit, Apply: (*TankState).shootIfWillHitForSure},
		{Name: RuleHealAlly, Apply: (*TankState).healIfSeeingAlly},
		{Name: RuleBreakStandstill, Apply: (*TankState).breakStandstill},
		{Name: RuleDodge, Apply: (*TankState).dodge},
		{Name: RuleEvadeBullet, Apply: (*TankState).evadeBullet},
		{Name: RuleSeekHealing, Apply: (*TankState).seekHealing},
		{Name: RuleDropMine, Apply: (*TankState).dropMine},
		{Name: RuleUseRadar, Apply: (*TankState).useRadar},
		{Name: RuleHoldZone, Apply: (*TankState).holdZone},
		{Name: RuleSeekZone, Apply: (*TankState).seekZone},
		{Name: RuleIdle, Apply: func(ts *TankState) (core.Action, bool) { return ts.idleManeuver(), true }},
	}
}

// Cascade evaluates rules in order; the first one producing an action wins
type Cascade struct {
	rules  []Rule
	logger zerolog.Logger
}

// NewCascade builds the default cascade and compiles guards keyed by rule name
func NewCascade(guards map[string]string, logger zerolog.Logger) (*Cascade, error) {
	rules := DefaultRules()
	known := make(map[string]int, len(rules))
	for i, r := range rules {
		known[r.Name] = i
	}
	for name, src := range guards {
		i, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("guard for unknown rule %q", name)
		}
		rules[i].GuardSrc = src
	}
	if err := compileGuards(rules); err != nil {
		return nil, err
	}
	return &Cascade{
		rules:  rules,
		logger: logger.With().Str("component", "Cascade").Logger(),
	}, nil
}

func compileGuards(rules []Rule) error {
	for i := range rules {
		if rules[i].GuardSrc == "" {
			continue
		}
		prog, err := expr.Compile(rules[i].GuardSrc, expr.Env(GuardEnv{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("compile guard %q: %w", rules[i].Name, err)
		}
		rules[i].guard = prog
	}
	return nil
}

// Rules returns the rule names in evaluation order
func (c *Cascade) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate runs the cascade for ts and returns the action with the name of
// the rule that produced it
func (c *Cascade) Evaluate(ts *TankState) (core.Action, string) {
	var env *GuardEnv
	for _, r := range c.rules {
		if r.guard != nil {
			if env == nil {
				env = ts.guardEnv()
			}
			result, err := vm.Run(r.guard, *env)
			if err != nil {
				c.logger.Warn().Err(err).Str("rule", r.Name).Msg("Rule guard failed")
				continue
			}
			if pass, ok := result.(bool); !ok || !pass {
				continue
			}
		}
		if action, ok := r.Apply(ts); ok {
			return action, r.Name
		}
	}
	return core.WaitAction(), RuleNone
}

func (ts *TankState) guardEnv() *GuardEnv {
	_, mate := ts.b.snapshot.FindTeammate(ts.ownerID)
	return &GuardEnv{
		Tick:        ts.b.snapshot.Tick,
		Health:      ts.health(),
		Bullets:     ts.tank.BulletCount(),
		TankType:    ts.tank.Type.String(),
		InZone:      ts.inTargetZone(),
		Stationary:  ts.Stationary(),
		CaptureProb: ts.b.shares.CaptureProbability(ts.b.tuning),
		HasTeammate: mate,
	}
}

// periodicCapture holds the zone on every tick between decision ticks
func (ts *TankState) periodicCapture() (core.Action, bool) {
	if ts.b.snapshot.Tick%ts.b.tuning.DecisionCadence != 0 {
		return core.CaptureAction(), true
	}
	return core.Action{}, false
}

// breakStandstill occasionally shakes a tank that has not moved
func (ts *TankState) breakStandstill() (core.Action, bool) {
	if !ts.Stationary() || ts.b.rng.Intn(ts.b.tuning.JitterOdds) != 0 {
		return core.Action{}, false
	}
	if action, ok := ts.shootIfSeeingEnemy(true, true); ok {
		return action, true
	}
	return ts.idleManeuver(), true
}

// holdZone decides what to do while standing in the target zone
func (ts *TankState) holdZone() (core.Action, bool) {
	if !ts.inTargetZone() {
		return core.Action{}, false
	}
	p := ts.b.shares.CaptureProbability(ts.b.tuning) * ts.b.tuning.CaptureScale
	if p >= ts.b.rng.Float64() {
		return core.CaptureAction(), true
	}
	if action, ok := ts.shootIfSeeingEnemy(false, false); ok {
		return action, true
	}
	if action, ok := ts.rotateToEnemy(); ok {
		return action, true
	}
	if ts.b.rng.Intn(ts.b.tuning.InZoneIdleOdds) == 0 {
		return ts.idleManeuver(), true
	}
	return core.CaptureAction(), true
}
