package recording

import (
	"sync"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/rs/zerolog"
)

// Recorder is an event subscriber writing one recording per match
type Recorder struct {
	dir    string
	logger zerolog.Logger

	mu       sync.Mutex
	writers  map[string]*Writer
	finished map[string]bool
}

// NewRecorder creates a recorder writing under dir
func NewRecorder(dir string, logger zerolog.Logger) *Recorder {
	return &Recorder{
		dir:      dir,
		logger:   logger.With().Str("component", "Recorder").Logger(),
		writers:  make(map[string]*Writer),
		finished: make(map[string]bool),
	}
}

// ID implements events.Subscriber
func (r *Recorder) ID() string {
	return "recorder"
}

// InterestedIn implements events.Subscriber
func (r *Recorder) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeDecisionMade, events.TypeDecisionSkipped, events.TypeMatchEnded:
		return true
	}
	return false
}

// HandleEvent implements events.Subscriber
func (r *Recorder) HandleEvent(event events.Event) {
	switch e := event.(type) {
	case *events.DecisionMadeEvent:
		action := e.Action
		r.write(Frame{
			MatchID:  e.MatchID(),
			Tick:     e.Tick,
			Snapshot: e.Snapshot,
			Visible:  e.Visible,
			Action:   &action,
			Rule:     e.Rule,
			Duration: e.Duration,
		})
	case *events.DecisionSkippedEvent:
		r.write(Frame{
			MatchID:  e.MatchID(),
			Tick:     e.Tick,
			Snapshot: e.Snapshot,
			Visible:  e.Visible,
			Duration: e.Duration,
			Skipped:  e.Reason,
			Error:    e.Err,
		})
	case *events.MatchEndedEvent:
		r.finish(e.MatchID())
	}
}

// write drops frames of a match that already ended; reopening its file
// would truncate the recording.
func (r *Recorder) write(f Frame) {
	r.mu.Lock()
	if r.finished[f.MatchID] {
		r.mu.Unlock()
		r.logger.Debug().Str("match_id", f.MatchID).Int("tick", f.Tick).Msg("Dropping frame after match end")
		return
	}
	w, ok := r.writers[f.MatchID]
	if !ok {
		w = NewWriter(PathFor(r.dir, f.MatchID))
		r.writers[f.MatchID] = w
		r.logger.Info().Str("path", w.Path()).Msg("Recording match")
	}
	r.mu.Unlock()

	if err := w.Write(f); err != nil {
		r.logger.Error().Err(err).Int("tick", f.Tick).Msg("Could not record frame")
	}
}

func (r *Recorder) finish(matchID string) {
	r.mu.Lock()
	w, ok := r.writers[matchID]
	delete(r.writers, matchID)
	r.finished[matchID] = true
	r.mu.Unlock()
	if !ok {
		return
	}

	if err := w.Close(); err != nil {
		r.logger.Error().Err(err).Str("path", w.Path()).Msg("Could not close recording")
		return
	}
	r.logger.Info().Str("path", w.Path()).Int("frames", w.Frames()).Msg("Recording saved")
}

// Close closes every open recording
func (r *Recorder) Close() error {
	r.mu.Lock()
	writers := r.writers
	r.writers = make(map[string]*Writer)
	r.mu.Unlock()

	var first error
	for _, w := range writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
