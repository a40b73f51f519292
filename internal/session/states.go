package session

import (
	"errors"
	"time"
)

var errNoLobby = errors.New("lobby data not received")

// State is a session phase with lifecycle callbacks
type State interface {
	// Phase returns the Phase this state represents
	Phase() Phase

	// Enter is called when transitioning into this state
	Enter(ctx *Context) error

	// Exit is called when transitioning out of this state
	Exit(ctx *Context) error

	// Validate checks if the state can be entered given the context
	Validate(ctx *Context) error
}

// ConnectingState represents the websocket handshake
type ConnectingState struct{}

func NewConnectingState() State {
	return &ConnectingState{}
}

func (s *ConnectingState) Phase() Phase {
	return PhaseConnecting
}

func (s *ConnectingState) Enter(ctx *Context) error {
	ctx.Logger.Debug().Msg("Entering Connecting state")
	return nil
}

func (s *ConnectingState) Exit(ctx *Context) error {
	ctx.ConnectedAt = time.Now()
	return nil
}

func (s *ConnectingState) Validate(ctx *Context) error {
	return nil
}

// LobbyState waits for the server to start the match
type LobbyState struct{}

func NewLobbyState() State {
	return &LobbyState{}
}

func (s *LobbyState) Phase() Phase {
	return PhaseLobby
}

func (s *LobbyState) Enter(ctx *Context) error {
	ctx.Logger.Info().
		Str("player_id", ctx.Lobby.PlayerID).
		Str("team", ctx.Lobby.TeamName).
		Int("grid_dimension", ctx.Lobby.GridDimension).
		Msg("Joined lobby")
	return nil
}

func (s *LobbyState) Exit(ctx *Context) error {
	ctx.Logger.Debug().Msg("Leaving lobby")
	return nil
}

func (s *LobbyState) Validate(ctx *Context) error {
	if !ctx.HasLobby() {
		return errNoLobby
	}
	return nil
}

// StartingState is the short window between GameStarting and the first state
type StartingState struct{}

func NewStartingState() State {
	return &StartingState{}
}

func (s *StartingState) Phase() Phase {
	return PhaseStarting
}

func (s *StartingState) Enter(ctx *Context) error {
	ctx.Logger.Info().Msg("Match starting")
	return nil
}

func (s *StartingState) Exit(ctx *Context) error {
	return nil
}

func (s *StartingState) Validate(ctx *Context) error {
	return nil
}

// RunningState represents active gameplay
type RunningState struct{}

func NewRunningState() State {
	return &RunningState{}
}

func (s *RunningState) Phase() Phase {
	return PhaseRunning
}

func (s *RunningState) Enter(ctx *Context) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Info().
		Time("start_time", ctx.StartTime).
		Msg("Match running")
	return nil
}

func (s *RunningState) Exit(ctx *Context) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Dur("elapsed", ctx.GetElapsedTime()).
		Int("last_tick", ctx.LastTick).
		Msg("Exiting running state")
	return nil
}

func (s *RunningState) Validate(ctx *Context) error {
	if !ctx.HasLobby() {
		return errNoLobby
	}
	return nil
}

// EndedState is the final state after the scoreboard
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() Phase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *Context) error {
	ctx.Logger.Info().Msg("Match ended")
	return nil
}

func (s *EndedState) Exit(ctx *Context) error {
	return nil
}

func (s *EndedState) Validate(ctx *Context) error {
	return nil
}

// ErrorState records why the session failed
type ErrorState struct{}

func NewErrorState() State {
	return &ErrorState{}
}

func (s *ErrorState) Phase() Phase {
	return PhaseError
}

func (s *ErrorState) Enter(ctx *Context) error {
	ctx.Logger.Error().Err(ctx.Error).Msg("Session failed")
	return nil
}

func (s *ErrorState) Exit(ctx *Context) error {
	return nil
}

func (s *ErrorState) Validate(ctx *Context) error {
	return nil
}
