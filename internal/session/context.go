package session

import (
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/rs/zerolog"
)

// Context carries what the phases need to validate and report transitions
type Context struct {
	// MatchID uniquely identifies the match this session plays
	MatchID string

	Logger zerolog.Logger

	// Lobby is set once lobby data arrives
	Lobby *core.LobbyData

	ConnectedAt time.Time
	StartTime   time.Time
	EndTime     time.Time

	// LastTick is the tick of the most recent game state
	LastTick int

	// Error holds the cause of a transition to PhaseError
	Error error
}

// NewContext creates a new session context
func NewContext(matchID string, logger zerolog.Logger) *Context {
	return &Context{
		MatchID: matchID,
		Logger:  logger.With().Str("match_id", matchID).Logger(),
	}
}

// HasLobby returns true once lobby data has been received
func (c *Context) HasLobby() bool {
	return c.Lobby != nil
}

// GetElapsedTime returns the time spent in the running match
func (c *Context) GetElapsedTime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	if !c.EndTime.IsZero() {
		return c.EndTime.Sub(c.StartTime)
	}
	return time.Since(c.StartTime)
}
