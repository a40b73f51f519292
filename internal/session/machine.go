// Package session tracks the phases of a bot's connection to a match.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// Transition represents a phase change in the history
type Transition struct {
	From      Phase
	To        Phase
	Timestamp time.Time
	Reason    string
}

// Machine manages session phase transitions and history
type Machine struct {
	mu             sync.RWMutex
	currentPhase   Phase
	states         map[Phase]State
	context        *Context
	history        []Transition
	maxHistorySize int
	eventBus       events.Publisher
}

// NewMachine creates a session in PhaseConnecting. eventBus may be nil.
func NewMachine(ctx *Context, eventBus events.Publisher) *Machine {
	m := &Machine{
		currentPhase:   PhaseConnecting,
		states:         make(map[Phase]State),
		context:        ctx,
		history:        make([]Transition, 0, 8),
		maxHistorySize: 100,
		eventBus:       eventBus,
	}

	m.RegisterState(NewConnectingState())
	m.RegisterState(NewLobbyState())
	m.RegisterState(NewStartingState())
	m.RegisterState(NewRunningState())
	m.RegisterState(NewEndedState())
	m.RegisterState(NewErrorState())

	return m
}

// RegisterState registers a state implementation
func (m *Machine) RegisterState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state.Phase()] = state
}

// CurrentPhase returns the current phase
func (m *Machine) CurrentPhase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (m *Machine) TransitionTo(targetPhase Phase, reason string) error {
	m.mu.Lock()
	transition, err := m.transitionLocked(targetPhase, reason)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	// publish outside the lock so subscribers may query the machine
	if m.eventBus != nil {
		m.eventBus.Publish(events.NewSessionTransitionEvent(
			m.context.MatchID,
			transition.From.String(),
			transition.To.String(),
			reason,
		))
	}
	return nil
}

func (m *Machine) transitionLocked(targetPhase Phase, reason string) (Transition, error) {
	if !m.currentPhase.CanTransitionTo(targetPhase) {
		return Transition{}, fmt.Errorf("invalid transition from %s to %s", m.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := m.states[m.currentPhase]
	targetState, hasTargetState := m.states[targetPhase]
	if !hasTargetState {
		return Transition{}, fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(m.context); err != nil {
		return Transition{}, fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(m.context); err != nil {
			m.context.Logger.Error().
				Err(err).
				Str("from_phase", m.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := m.currentPhase
	m.currentPhase = targetPhase

	if err := targetState.Enter(m.context); err != nil {
		m.currentPhase = previousPhase
		return Transition{}, fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	transition := Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	}
	m.addToHistory(transition)

	m.context.Logger.Info().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("Session transition completed")

	return transition, nil
}

// Fail moves the session to PhaseError, recording err as the cause.
// Failing a terminal session is a no-op.
func (m *Machine) Fail(err error) {
	m.mu.Lock()
	if m.currentPhase.IsTerminal() {
		m.mu.Unlock()
		return
	}
	m.context.Error = err
	m.mu.Unlock()

	if tErr := m.TransitionTo(PhaseError, err.Error()); tErr != nil {
		m.context.Logger.Error().Err(tErr).Msg("Could not fail session")
	}
}

func (m *Machine) addToHistory(transition Transition) {
	m.history = append(m.history, transition)

	if len(m.history) > m.maxHistorySize {
		m.history = m.history[len(m.history)-m.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (m *Machine) GetHistory() []Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}

// GetContext returns the session context
func (m *Machine) GetContext() *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (m *Machine) CanTransitionTo(targetPhase Phase) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentPhase.CanTransitionTo(targetPhase)
}

// Observe records the tick of a received game state
func (m *Machine) Observe(tick int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.context.LastTick = tick
}

// SetLobby stores lobby data so Lobby and Running can be entered
func (m *Machine) SetLobby(lobby core.LobbyData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.context.Lobby = &lobby
}
