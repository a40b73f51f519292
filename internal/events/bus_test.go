package events

import (
	"testing"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLobby() core.LobbyData {
	return core.LobbyData{PlayerID: "p1", TeamName: "red", GridDimension: 24}
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	received := false
	var receivedEvent Event

	bus.SubscribeFunc(TypeMatchStarted, func(e Event) {
		received = true
		receivedEvent = e
	})

	bus.Publish(NewMatchStartedEvent("test-match", testLobby()))

	assert.True(t, received, "Event handler should have been called")
	require.NotNil(t, receivedEvent)
	assert.Equal(t, TypeMatchStarted, receivedEvent.Type())
	assert.Equal(t, "test-match", receivedEvent.MatchID())

	started, ok := receivedEvent.(*MatchStartedEvent)
	require.True(t, ok)
	assert.Equal(t, 24, started.GridDimension)
	assert.Equal(t, "red", started.TeamName)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false

	id1 := bus.SubscribeFunc(TypeServerWarning, func(e Event) {
		handler1Called = true
	})
	id2 := bus.SubscribeFunc(TypeServerWarning, func(e Event) {
		handler2Called = true
	})

	bus.Publish(NewServerWarningEvent("test-match", core.SlowResponseWarning, ""))

	assert.True(t, handler1Called, "Handler 1 should have been called")
	assert.True(t, handler2Called, "Handler 2 should have been called")
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, bus.GetFuncHandlerCount(TypeServerWarning))
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()

	subscriber := &TestSubscriber{
		id: "test-subscriber",
		interestedTypes: map[string]bool{
			TypeMatchStarted: true,
			TypeMatchEnded:   true,
		},
	}

	bus.Subscribe(subscriber)
	assert.Equal(t, 1, bus.GetSubscriberCount())

	bus.Publish(NewMatchStartedEvent("test-match", testLobby()))
	bus.Publish(NewDecisionMadeEvent("test-match", 6, "p1", "seek_zone", core.MoveAction(core.Forward), time.Millisecond))
	bus.Publish(NewMatchEndedEvent("test-match", core.MatchResult{}, 300))

	require.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, TypeMatchStarted, subscriber.receivedEvents[0].Type())
	assert.Equal(t, TypeMatchEnded, subscriber.receivedEvents[1].Type())

	bus.Unsubscribe(subscriber.ID())
	bus.Publish(NewMatchStartedEvent("test-match", testLobby()))

	assert.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, 0, bus.GetSubscriberCount())
}

type panickingSubscriber struct{}

func (panickingSubscriber) ID() string { return "panicky" }

func (panickingSubscriber) HandleEvent(Event) { panic("boom") }

func (panickingSubscriber) InterestedIn(string) bool { return true }

func TestEventBusRecoversFromPanics(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(panickingSubscriber{})
	bus.SubscribeFunc(TypeDecisionSkipped, func(Event) { panic("boom") })

	called := false
	bus.SubscribeFunc(TypeDecisionSkipped, func(Event) { called = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewDecisionSkippedEvent("m", 12, 30*time.Millisecond, 20*time.Millisecond, SkipLate))
	})
	assert.True(t, called, "later handlers still run")
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		eventType string
	}{
		{"MatchStarted", NewMatchStartedEvent("m", testLobby()), TypeMatchStarted},
		{"MatchEnded", NewMatchEndedEvent("m", core.MatchResult{}, 10), TypeMatchEnded},
		{"ServerWarning", NewServerWarningEvent("m", core.CustomWarning, "hi"), TypeServerWarning},
		{"DecisionMade", NewDecisionMadeEvent("m", 1, "p", "idle", core.WaitAction(), 0), TypeDecisionMade},
		{"DecisionSkipped", NewDecisionSkippedEvent("m", 1, 0, 0, SkipAborted), TypeDecisionSkipped},
		{"SessionTransition", NewSessionTransitionEvent("m", "lobby", "running", "game started"), TypeSessionTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eventType, tt.event.Type())
			assert.Equal(t, "m", tt.event.MatchID())
			assert.False(t, tt.event.Timestamp().IsZero())
		})
	}
}
