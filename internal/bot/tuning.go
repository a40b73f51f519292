package bot

import (
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/tankbot/internal/game/knowledge"
)

// Tuning holds every constant the decision cascade depends on
type Tuning struct {
	// DecisionCadence: ticks that are not a multiple of it only capture
	DecisionCadence int
	// JitterOdds is the 1-in-N chance of breaking a standstill
	JitterOdds int
	// InZoneIdleOdds is the 1-in-N chance of an idle maneuver inside the zone
	InZoneIdleOdds int
	// ForwardOdds: when already facing an enemy, step forward unless 1-in-N hits
	ForwardOdds int

	CaptureScale   float64
	CaptureEpsilon float64
	MinCaptureProb float64
	MaxCaptureProb float64

	// SearchHazardHorizon is the bullet horizon used to block search cells
	SearchHazardHorizon int
	// HealHorizon bounds the healing rendezvous search in ticks
	HealHorizon int
	MaxHealth   int
	// ShotRange is how far a standard shot is trusted to hit
	ShotRange int
	// DodgeRange is how far away an aiming enemy triggers a dodge
	DodgeRange int

	Knowledge knowledge.Config
}

// DefaultTuning returns the standard cascade constants
func DefaultTuning() Tuning {
	return Tuning{
		DecisionCadence:     6,
		JitterOdds:          16,
		InZoneIdleOdds:      4,
		ForwardOdds:         4,
		CaptureScale:        0.8,
		CaptureEpsilon:      0.01,
		MinCaptureProb:      0.1,
		MaxCaptureProb:      0.9,
		SearchHazardHorizon: 10,
		HealHorizon:         10,
		MaxHealth:           100,
		ShotRange:           2,
		DodgeRange:          2,
		Knowledge:           knowledge.DefaultConfig(),
	}
}

var errInvalidTuning = errors.New("invalid tuning")

// Validate checks that every odds and range value is usable
func (t Tuning) Validate() error {
	positive := map[string]int{
		"decision_cadence":      t.DecisionCadence,
		"jitter_odds":           t.JitterOdds,
		"in_zone_idle_odds":     t.InZoneIdleOdds,
		"forward_odds":          t.ForwardOdds,
		"search_hazard_horizon": t.SearchHazardHorizon,
		"heal_horizon":          t.HealHorizon,
		"max_health":            t.MaxHealth,
		"shot_range":            t.ShotRange,
		"dodge_range":           t.DodgeRange,
		"retention_ticks":       t.Knowledge.RetentionTicks,
		"mine_duration_ticks":   t.Knowledge.MineDurationTicks,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d: %w", name, v, errInvalidTuning)
		}
	}
	if t.Knowledge.ProjectionTicks < 0 {
		return fmt.Errorf("projection_ticks must not be negative: %w", errInvalidTuning)
	}
	if t.CaptureEpsilon <= 0 {
		return fmt.Errorf("capture_epsilon must be positive: %w", errInvalidTuning)
	}
	if t.MinCaptureProb < 0 || t.MaxCaptureProb > 1 || t.MinCaptureProb > t.MaxCaptureProb {
		return fmt.Errorf("capture probability bounds [%v, %v]: %w", t.MinCaptureProb, t.MaxCaptureProb, errInvalidTuning)
	}
	return nil
}
