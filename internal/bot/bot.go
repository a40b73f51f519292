// Package bot is the tactical reasoning engine: it folds snapshots into the
// knowledge model and runs the decision cascade for the controlled tank.
package bot

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/game/knowledge"
	"github.com/mitchelldurbincs/tankbot/internal/game/terrain"
	"github.com/rs/zerolog"
)

// DefaultTargetZone is used when neither config nor the map names a zone
const DefaultTargetZone byte = 'A'

// Options configures a Bot
type Options struct {
	Tuning Tuning
	// Seed of the decision RNG; 0 picks one from the clock
	Seed int64
	// TargetZone overrides the zone label to hold; 0 uses the first zone of the map
	TargetZone byte
	// Guards maps rule names to guard expressions
	Guards map[string]string
	// MatchID names the match in published events; empty generates one
	MatchID string
}

// DefaultOptions returns options with default tuning and no guards
func DefaultOptions() Options {
	return Options{Tuning: DefaultTuning()}
}

// Decision is the outcome of one cascade run
type Decision struct {
	Tick    int         `json:"tick"`
	OwnerID string      `json:"ownerId"`
	Rule    string      `json:"rule"`
	Action  core.Action `json:"action"`
}

// Bot coordinates the tactical states of the agent's tanks. It is not safe
// for concurrent use; callers run at most one decision at a time.
type Bot struct {
	opts    Options
	cascade *Cascade
	bus     events.Publisher
	root    zerolog.Logger
	logger  zerolog.Logger

	matchID string
	lobby   core.LobbyData
	board   *board
	self    *TankState
	mate    *TankState
}

// New creates a bot. bus may be nil.
func New(opts Options, bus events.Publisher, logger zerolog.Logger) (*Bot, error) {
	if err := opts.Tuning.Validate(); err != nil {
		return nil, err
	}
	cascade, err := NewCascade(opts.Guards, logger)
	if err != nil {
		return nil, err
	}
	return &Bot{
		opts:    opts,
		cascade: cascade,
		bus:     bus,
		root:    logger,
		logger:  logger.With().Str("component", "Bot").Logger(),
	}, nil
}

// Init prepares the bot for a match from the lobby data
func (b *Bot) Init(lobby core.LobbyData) error {
	if lobby.GridDimension <= 0 {
		return fmt.Errorf("lobby grid dimension %d: %w", lobby.GridDimension, core.ErrEmptyGrid)
	}

	seed := b.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	dim := lobby.GridDimension

	b.matchID = b.opts.MatchID
	if b.matchID == "" {
		b.matchID = uuid.NewString()
	}
	b.lobby = lobby
	b.board = &board{
		dim:        dim,
		tuning:     b.opts.Tuning,
		rng:        rand.New(rand.NewSource(seed)),
		knowledge:  knowledge.New(dim, b.opts.Tuning.Knowledge, b.root),
		targetZone: b.opts.TargetZone,
	}
	b.self = newTankState(b.board, lobby.PlayerID)
	b.mate = nil
	if id, ok := teammateID(lobby); ok {
		b.mate = newTankState(b.board, id)
	}

	b.logger.Info().
		Str("match_id", b.matchID).
		Str("player_id", lobby.PlayerID).
		Str("team", lobby.TeamName).
		Int("grid_dimension", dim).
		Int64("seed", seed).
		Msg("Bot initialized")
	return nil
}

func teammateID(lobby core.LobbyData) (string, bool) {
	for _, team := range lobby.Teams {
		if team.Name != lobby.TeamName {
			continue
		}
		for _, p := range team.Players {
			if p.ID != lobby.PlayerID {
				return p.ID, true
			}
		}
	}
	return "", false
}

// MatchID returns the id assigned to the current match
func (b *Bot) MatchID() string { return b.matchID }

// Lobby returns the lobby data the bot was initialized with
func (b *Bot) Lobby() core.LobbyData { return b.lobby }

// Initialized reports whether Init has been called
func (b *Bot) Initialized() bool { return b.board != nil }

// TargetZone returns the zone label the bot is holding, 0 before the first snapshot
func (b *Bot) TargetZone() byte {
	if b.board == nil {
		return 0
	}
	return b.board.targetZone
}

// NextMove returns the single action for this tick
func (b *Bot) NextMove(s *core.Snapshot) (core.Action, error) {
	d, err := b.Decide(s)
	if err != nil {
		return core.Action{}, err
	}
	return d.Action, nil
}

// Decide folds the snapshot into the bot's knowledge and runs the cascade
// for the controlled tank. Errors abort the tick; no action must be sent.
func (b *Bot) Decide(s *core.Snapshot) (Decision, error) {
	if b.board == nil {
		return Decision{}, core.ErrNotInitialized
	}
	if err := b.observe(s); err != nil {
		b.logger.Error().Err(err).Int("tick", s.Tick).Msg("Decision aborted")
		return Decision{}, core.WrapTickError(s.Tick, b.self.ownerID, err)
	}

	action, rule := b.cascade.Evaluate(b.self)
	b.logger.Debug().
		Int("tick", s.Tick).
		Str("tank", b.self.ownerID).
		Str("rule", rule).
		Str("action", action.String()).
		Msg("Rule fired")

	return Decision{Tick: s.Tick, OwnerID: b.self.ownerID, Rule: rule, Action: action}, nil
}

func (b *Bot) observe(s *core.Snapshot) error {
	if err := s.CheckDim(b.board.dim); err != nil {
		return err
	}
	if b.board.terrain == nil {
		m, err := terrain.Build(s)
		if err != nil {
			return err
		}
		b.board.terrain = m
		if b.board.targetZone == 0 {
			b.board.targetZone = firstZoneLabel(s)
		}
	}

	b.board.snapshot = s
	if err := b.board.knowledge.Update(s); err != nil {
		return err
	}
	b.board.shares = ComputeShares(s.Zones, b.lobby.TeamName, b.board.targetZone)

	if err := b.self.sync(); err != nil {
		return err
	}
	b.syncTeammate(s)
	return nil
}

// syncTeammate tracks the teammate when present. A missing teammate is
// not an error.
func (b *Bot) syncTeammate(s *core.Snapshot) {
	if b.mate == nil {
		lt, ok := s.FindTeammate(b.self.ownerID)
		if !ok {
			return
		}
		b.mate = newTankState(b.board, lt.Tank.OwnerID)
	}
	if err := b.mate.sync(); err != nil {
		b.logger.Debug().Str("teammate", b.mate.ownerID).Msg("Teammate not in snapshot")
	}
}

func firstZoneLabel(s *core.Snapshot) byte {
	if len(s.Zones) > 0 && s.Zones[0].Label != 0 {
		return s.Zones[0].Label
	}
	return DefaultTargetZone
}

// Self returns the tactical state of the controlled tank
func (b *Bot) Self() *TankState { return b.self }

// Teammate returns the teammate's tactical state when known
func (b *Bot) Teammate() (*TankState, bool) { return b.mate, b.mate != nil }

// VisibleMask returns a copy of the current visibility mask
func (b *Bot) VisibleMask() [][]bool {
	if b.board == nil {
		return nil
	}
	return b.board.knowledge.VisibleMask()
}

// CaptureProbability returns the capture probability for the current tick
func (b *Bot) CaptureProbability() float64 {
	if b.board == nil {
		return 0
	}
	return b.board.shares.CaptureProbability(b.board.tuning)
}

// OnGameStarted announces the start of the match
func (b *Bot) OnGameStarted() {
	b.publish(events.NewMatchStartedEvent(b.matchID, b.lobby))
}

// OnGameEnded announces the final scoreboard
func (b *Bot) OnGameEnded(result core.MatchResult) {
	tick := 0
	if b.board != nil && b.board.snapshot != nil {
		tick = b.board.snapshot.Tick
	}
	b.publish(events.NewMatchEndedEvent(b.matchID, result, tick))
}

// OnWarning forwards an advisory warning from the server
func (b *Bot) OnWarning(kind core.WarningKind, message string) {
	b.publish(events.NewServerWarningEvent(b.matchID, kind, message))
}

func (b *Bot) publish(e events.Event) {
	if b.bus != nil {
		b.bus.Publish(e)
	}
}
