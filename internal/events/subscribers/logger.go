package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	level := ls.logLevel
	switch event.(type) {
	case *events.ServerWarningEvent, *events.DecisionSkippedEvent:
		if level < zerolog.WarnLevel {
			level = zerolog.WarnLevel
		}
	case *events.DecisionMadeEvent:
		level = zerolog.DebugLevel
	}
	logEvent := eventLogger.WithLevel(level)

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Str("player_id", e.PlayerID).
			Str("team", e.TeamName).
			Int("grid_dimension", e.GridDimension)
		roster := zerolog.Dict()
		for _, team := range e.Teams {
			players := zerolog.Arr()
			for _, p := range team.Players {
				players.Str(p.ID + ":" + p.TankType.String())
			}
			roster.Array(team.Name, players)
		}
		logEvent.Dict("teams", roster)

	case *events.MatchEndedEvent:
		logEvent.Int("final_tick", e.FinalTick)
		if winner, ok := e.Result.Winner(); ok {
			logEvent.Str("winner", winner.Name)
		}
		scores := zerolog.Dict()
		kills := zerolog.Dict()
		for _, team := range e.Result.Teams {
			scores.Int(team.Name, team.Score)
			for _, p := range team.Players {
				kills.Int(p.ID, p.Kills)
			}
		}
		logEvent.Dict("scores", scores).Dict("kills", kills)

	case *events.ServerWarningEvent:
		logEvent.Str("warning", e.Kind.String())
		if e.Message != "" {
			logEvent.Str("message", e.Message)
		}

	case *events.DecisionMadeEvent:
		logEvent.
			Int("tick", e.Tick).
			Str("owner_id", e.OwnerID).
			Str("rule", e.Rule).
			Str("action", e.Action.String()).
			Dur("duration", e.Duration)

	case *events.DecisionSkippedEvent:
		logEvent.
			Int("tick", e.Tick).
			Str("reason", e.Reason).
			Dur("duration", e.Duration).
			Dur("budget", e.Budget)
		if e.Err != "" {
			logEvent.Str("error", e.Err)
		}

	case *events.SessionTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Bot event")
}
