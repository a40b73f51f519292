package events

import (
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// Event type constants
const (
	TypeMatchStarted      = "match.started"
	TypeMatchEnded        = "match.ended"
	TypeServerWarning     = "server.warning"
	TypeDecisionMade      = "decision.made"
	TypeDecisionSkipped   = "decision.skipped"
	TypeSessionTransition = "session.transition"
)

// MatchStartedEvent is published when the server starts the match
type MatchStartedEvent struct {
	BaseEvent
	PlayerID      string           `json:"player_id"`
	TeamName      string           `json:"team_name"`
	GridDimension int              `json:"grid_dimension"`
	Teams         []core.LobbyTeam `json:"teams"`
}

// NewMatchStartedEvent creates a new MatchStartedEvent from the lobby data
func NewMatchStartedEvent(matchID string, lobby core.LobbyData) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent:     newBase(TypeMatchStarted, matchID),
		PlayerID:      lobby.PlayerID,
		TeamName:      lobby.TeamName,
		GridDimension: lobby.GridDimension,
		Teams:         lobby.Teams,
	}
}

// MatchEndedEvent is published with the final scoreboard
type MatchEndedEvent struct {
	BaseEvent
	Result    core.MatchResult `json:"result"`
	FinalTick int              `json:"final_tick"`
}

// NewMatchEndedEvent creates a new MatchEndedEvent
func NewMatchEndedEvent(matchID string, result core.MatchResult, finalTick int) *MatchEndedEvent {
	return &MatchEndedEvent{
		BaseEvent: newBase(TypeMatchEnded, matchID),
		Result:    result,
		FinalTick: finalTick,
	}
}

// ServerWarningEvent carries an advisory warning sent by the server
type ServerWarningEvent struct {
	BaseEvent
	Kind    core.WarningKind `json:"kind"`
	Message string           `json:"message,omitempty"`
}

// NewServerWarningEvent creates a new ServerWarningEvent
func NewServerWarningEvent(matchID string, kind core.WarningKind, message string) *ServerWarningEvent {
	return &ServerWarningEvent{
		BaseEvent: newBase(TypeServerWarning, matchID),
		Kind:      kind,
		Message:   message,
	}
}

// DecisionMadeEvent is published for every action sent to the server
type DecisionMadeEvent struct {
	BaseEvent
	Tick     int           `json:"tick"`
	OwnerID  string        `json:"owner_id"`
	Rule     string        `json:"rule"`
	Action   core.Action   `json:"action"`
	Duration time.Duration `json:"duration"`

	Snapshot *core.Snapshot `json:"-"`
	Visible  [][]bool       `json:"-"`
}

// NewDecisionMadeEvent creates a new DecisionMadeEvent
func NewDecisionMadeEvent(matchID string, tick int, ownerID, rule string, action core.Action, duration time.Duration) *DecisionMadeEvent {
	return &DecisionMadeEvent{
		BaseEvent: newBase(TypeDecisionMade, matchID),
		Tick:      tick,
		OwnerID:   ownerID,
		Rule:      rule,
		Action:    action,
		Duration:  duration,
	}
}

// Skip reasons
const (
	SkipLate    = "late"
	SkipAborted = "aborted"
)

// DecisionSkippedEvent is published when no action is sent for a tick
type DecisionSkippedEvent struct {
	BaseEvent
	Tick     int           `json:"tick"`
	Duration time.Duration `json:"duration"`
	Budget   time.Duration `json:"budget"`
	Reason   string        `json:"reason"`
	Err      string        `json:"error,omitempty"`

	Snapshot *core.Snapshot `json:"-"`
	Visible  [][]bool       `json:"-"`
}

// NewDecisionSkippedEvent creates a new DecisionSkippedEvent
func NewDecisionSkippedEvent(matchID string, tick int, duration, budget time.Duration, reason string) *DecisionSkippedEvent {
	return &DecisionSkippedEvent{
		BaseEvent: newBase(TypeDecisionSkipped, matchID),
		Tick:      tick,
		Duration:  duration,
		Budget:    budget,
		Reason:    reason,
	}
}

// SessionTransitionEvent is published when the session changes phase
type SessionTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewSessionTransitionEvent creates a new SessionTransitionEvent
func NewSessionTransitionEvent(matchID, fromPhase, toPhase, reason string) *SessionTransitionEvent {
	return &SessionTransitionEvent{
		BaseEvent: newBase(TypeSessionTransition, matchID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
