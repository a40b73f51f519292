package results

import (
	"context"
	"sync"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/events"
)

const recordTimeout = 5 * time.Second

// Subscriber stores the scoreboard of every match that ends
type Subscriber struct {
	store *Store

	mu      sync.Mutex
	started map[string]*events.MatchStartedEvent
}

// NewSubscriber creates a subscriber writing to store
func NewSubscriber(store *Store) *Subscriber {
	return &Subscriber{store: store, started: make(map[string]*events.MatchStartedEvent)}
}

// ID implements events.Subscriber
func (s *Subscriber) ID() string {
	return "results"
}

// InterestedIn implements events.Subscriber
func (s *Subscriber) InterestedIn(eventType string) bool {
	return eventType == events.TypeMatchStarted || eventType == events.TypeMatchEnded
}

// HandleEvent implements events.Subscriber
func (s *Subscriber) HandleEvent(event events.Event) {
	switch e := event.(type) {
	case *events.MatchStartedEvent:
		s.mu.Lock()
		s.started[e.MatchID()] = e
		s.mu.Unlock()
	case *events.MatchEndedEvent:
		s.mu.Lock()
		start := s.started[e.MatchID()]
		delete(s.started, e.MatchID())
		s.mu.Unlock()

		m := Match{
			ID:        e.MatchID(),
			FinalTick: e.FinalTick,
			EndedAt:   e.Timestamp(),
			Result:    e.Result,
		}
		if start != nil {
			m.PlayerID = start.PlayerID
			m.TeamName = start.TeamName
		}

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.store.RecordMatch(ctx, m); err != nil {
			s.store.logger.Error().Err(err).Str("match_id", m.ID).Msg("Could not store match result")
		}
	}
}
