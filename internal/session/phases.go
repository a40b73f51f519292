package session

import "fmt"

// Phase represents the current phase of a bot's connection to a match
type Phase int

const (
	// PhaseConnecting - Websocket handshake in progress
	PhaseConnecting Phase = iota

	// PhaseLobby - Connected, waiting for the match to start
	PhaseLobby

	// PhaseStarting - Server announced the match, terrain not yet seen
	PhaseStarting

	// PhaseRunning - Receiving game states and answering them
	PhaseRunning

	// PhaseEnded - Final scoreboard received
	PhaseEnded

	// PhaseError - Connection rejected or lost
	PhaseError
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "Connecting"
	case PhaseLobby:
		return "Lobby"
	case PhaseStarting:
		return "Starting"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p Phase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanDecide returns true if game states should be answered in this phase
func (p Phase) CanDecide() bool {
	return p == PhaseRunning
}

// IsServing returns true while the bot is attached to a live match
func (p Phase) IsServing() bool {
	return p == PhaseLobby || p == PhaseStarting || p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to.
// A bot joining a match in progress goes from Lobby straight to Running.
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseConnecting:
		return []Phase{PhaseLobby, PhaseError}
	case PhaseLobby:
		return []Phase{PhaseStarting, PhaseRunning, PhaseError}
	case PhaseStarting:
		return []Phase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []Phase{PhaseEnded, PhaseError}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a Phase
func ParsePhase(s string) (Phase, error) {
	for p := PhaseConnecting; p <= PhaseError; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseError, fmt.Errorf("unknown session phase %q", s)
}
