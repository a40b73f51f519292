package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mitchelldurbincs/tankbot/internal/bot"
	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	writeTimeout  = 5 * time.Second
	outboxSize    = 16
	playerTypeBot = "hackathonBot"
)

// ErrRejected is returned when the server refuses the connection
var ErrRejected = errors.New("connection rejected")

var errGameOver = errors.New("game over")

// Agent makes the decisions the client sends. Calls are serialized by the
// client.
type Agent interface {
	Init(lobby core.LobbyData) error
	Decide(s *core.Snapshot) (bot.Decision, error)
	MatchID() string
	OnGameStarted()
	OnGameEnded(result core.MatchResult)
	OnWarning(kind core.WarningKind, message string)
	VisibleMask() [][]bool
}

// Config holds the connection settings
type Config struct {
	Host     string
	Port     int
	TeamName string
	TankType core.TankType
	JoinCode string

	// ResponseBudget overrides the budget derived from the lobby broadcast
	// interval; zero derives it
	ResponseBudget time.Duration

	// ValidatePackets checks every outbound action against the packet schema
	ValidatePackets bool
}

// URL returns the websocket address to join with
func (c Config) URL() string {
	query := "teamName=" + url.QueryEscape(c.TeamName)
	if c.JoinCode != "" {
		query += "&joinCode=" + url.QueryEscape(c.JoinCode)
	}
	query += "&playerType=" + playerTypeBot + "&tankType=" + c.TankType.String()

	u := url.URL{
		Scheme:   "ws",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/",
		RawQuery: query,
	}
	return u.String()
}

// Client plays one match: it reads packets, feeds game states to the agent
// and writes the answers back.
type Client struct {
	cfg       Config
	agent     Agent
	agentMu   sync.Mutex
	bus       events.Publisher
	machine   *session.Machine
	validator *Validator
	logger    zerolog.Logger

	out    chan []byte
	states chan *core.Snapshot
	budget atomic.Int64

	// owned by the reader goroutine
	started bool
	playing bool
}

// New creates a client. bus and machine may be nil.
func New(cfg Config, agent Agent, bus events.Publisher, machine *session.Machine, logger zerolog.Logger) (*Client, error) {
	c := &Client{
		cfg:     cfg,
		agent:   agent,
		bus:     bus,
		machine: machine,
		logger:  logger.With().Str("component", "Client").Logger(),
		out:     make(chan []byte, outboxSize),
		states:  make(chan *core.Snapshot, 1),
	}
	if cfg.ValidatePackets {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}
		c.validator = v
	}
	c.budget.Store(int64(cfg.ResponseBudget))
	return c, nil
}

// Budget returns the current response budget; zero means unlimited
func (c *Client) Budget() time.Duration {
	return time.Duration(c.budget.Load())
}

// Run connects and plays until the game ends, the connection fails or ctx is
// cancelled. A finished game returns nil.
func (c *Client) Run(ctx context.Context) error {
	addr := c.cfg.URL()
	c.logger.Info().Str("url", addr).Msg("Connecting to game server")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		err = fmt.Errorf("dial %s: %w", addr, err)
		c.fail(err)
		return err
	}
	defer conn.Close()

	g, gctx := errgroup.WithContext(ctx)
	go func() {
		<-gctx.Done()
		_ = conn.Close()
	}()

	g.Go(func() error { return c.readLoop(gctx, conn) })
	g.Go(func() error { return c.decideLoop(gctx) })
	g.Go(func() error { return c.writeLoop(gctx, conn) })

	err = g.Wait()
	switch {
	case errors.Is(err, errGameOver):
		c.logger.Info().Msg("Game over, disconnecting")
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		c.fail(err)
		return err
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		p, err := DecodePacket(msg)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Dropping undecodable message")
			continue
		}
		if err := c.handle(ctx, p); err != nil {
			return err
		}
	}
}

func (c *Client) handle(ctx context.Context, p Packet) error {
	switch p.Type {
	case Ping:
		c.send(ctx, controlPacket(Pong))
	case ConnectionAccepted:
		c.logger.Info().Msg("Connection accepted")
		c.send(ctx, controlPacket(LobbyDataRequest))
	case ConnectionRejected:
		return fmt.Errorf("%w: %s", ErrRejected, decodeRejection(p.Payload))
	case LobbyData:
		lobby, err := DecodeLobby(p.Payload)
		if err != nil {
			return err
		}
		return c.onLobby(ctx, lobby)
	case GameNotStarted, GameInProgress:
		c.logger.Info().Str("packet", p.Type.String()).Msg("Waiting for the game")
	case GameStarting:
		c.onStarting(ctx)
	case GameStarted:
		c.transition(session.PhaseRunning, "game started")
	case GameState:
		s, err := DecodeGameState(p.Payload)
		if err != nil {
			c.logger.Error().Err(err).Msg("Dropping game state")
			return nil
		}
		c.onGameState(s)
	case GameEnd:
		result, err := DecodeGameEnd(p.Payload)
		if err != nil {
			return err
		}
		c.onGameEnd(result)
		return errGameOver
	default:
		if kind, msg, ok := DecodeWarning(p); ok {
			c.agentMu.Lock()
			c.agent.OnWarning(kind, msg)
			c.agentMu.Unlock()
			return nil
		}
		if p.Type.IsError() {
			c.logger.Error().
				Str("packet", p.Type.String()).
				RawJSON("payload", payloadOrNull(p.Payload)).
				Msg("Server reported an error")
			return nil
		}
		c.logger.Debug().Str("packet", p.Type.String()).Msg("Ignoring packet")
	}
	return nil
}

func (c *Client) onLobby(ctx context.Context, lobby core.LobbyData) error {
	if c.playing {
		c.logger.Debug().Msg("Ignoring lobby data during the game")
		return nil
	}

	c.agentMu.Lock()
	err := c.agent.Init(lobby)
	c.agentMu.Unlock()
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}

	budget := c.cfg.ResponseBudget
	if budget == 0 && lobby.BroadcastInterval > 1 {
		budget = time.Duration(lobby.BroadcastInterval-1) * time.Millisecond
	}
	c.budget.Store(int64(budget))

	if c.machine != nil {
		c.machine.SetLobby(lobby)
	}
	c.transition(session.PhaseLobby, "lobby data received")

	c.logger.Info().
		Str("player_id", lobby.PlayerID).
		Str("team", lobby.TeamName).
		Int("grid_dimension", lobby.GridDimension).
		Int("players", lobby.NumberOfPlayers).
		Bool("sandbox", lobby.SandboxMode).
		Dur("budget", budget).
		Msg("Lobby data received")
	for _, team := range lobby.Teams {
		ids := make([]string, 0, len(team.Players))
		for _, p := range team.Players {
			ids = append(ids, p.ID)
		}
		c.logger.Info().Str("team", team.Name).Strs("players", ids).Msg("Lobby team")
	}

	if lobby.SandboxMode {
		c.onStarting(ctx)
	}
	return nil
}

func (c *Client) onStarting(ctx context.Context) {
	c.transition(session.PhaseStarting, "game starting")
	c.announceStart()
	c.send(ctx, controlPacket(ReadyToReceiveGameState))
}

func (c *Client) announceStart() {
	if c.started {
		return
	}
	c.started = true
	c.agentMu.Lock()
	c.agent.OnGameStarted()
	c.agentMu.Unlock()
}

func (c *Client) onGameState(s *core.Snapshot) {
	if c.machine != nil {
		c.machine.Observe(s.Tick)
	}
	if !c.playing {
		c.playing = true
		c.transition(session.PhaseRunning, "first game state")
		c.announceStart()
	}
	c.offer(s)
}

// offer hands s to the decision goroutine, replacing a snapshot it has not
// picked up yet
func (c *Client) offer(s *core.Snapshot) {
	for {
		select {
		case c.states <- s:
			return
		default:
		}
		select {
		case stale := <-c.states:
			c.logger.Debug().Int("tick", stale.Tick).Int("replaced_by", s.Tick).Msg("Dropping stale game state")
		default:
		}
	}
}

func (c *Client) onGameEnd(result core.MatchResult) {
	for _, team := range result.Teams {
		c.logger.Info().Str("team", team.Name).Int("score", team.Score).Msg("Final score")
		for _, p := range team.Players {
			c.logger.Info().Str("team", team.Name).Str("player", p.ID).Int("kills", p.Kills).Msg("Player result")
		}
	}

	c.agentMu.Lock()
	c.agent.OnGameEnded(result)
	c.agentMu.Unlock()

	c.transition(session.PhaseEnded, "game ended")
}

func (c *Client) decideLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-c.states:
			c.answer(ctx, s)
		}
	}
}

// answer runs one decision and sends it unless it failed or ran past the
// response budget
func (c *Client) answer(ctx context.Context, s *core.Snapshot) {
	start := time.Now()
	c.agentMu.Lock()
	d, err := c.agent.Decide(s)
	visible := c.agent.VisibleMask()
	matchID := c.agent.MatchID()
	c.agentMu.Unlock()
	elapsed := time.Since(start)
	budget := c.Budget()

	if err != nil {
		c.skip(matchID, s, visible, elapsed, events.SkipAborted, err)
		return
	}
	if budget > 0 && elapsed >= budget {
		c.logger.Warn().
			Int("tick", s.Tick).
			Dur("elapsed", elapsed).
			Dur("budget", budget).
			Msg("Decision too late, not sending")
		c.skip(matchID, s, visible, elapsed, events.SkipLate, nil)
		return
	}

	data, err := EncodeAction(d.Action, s.ID)
	if err == nil && c.validator != nil {
		err = c.validator.Validate(data)
	}
	if err != nil {
		c.logger.Error().Err(err).Int("tick", s.Tick).Msg("Could not encode action")
		c.skip(matchID, s, visible, elapsed, events.SkipAborted, err)
		return
	}
	c.send(ctx, data)

	e := events.NewDecisionMadeEvent(matchID, d.Tick, d.OwnerID, d.Rule, d.Action, elapsed)
	e.Snapshot = s
	e.Visible = visible
	c.publish(e)
}

func (c *Client) skip(matchID string, s *core.Snapshot, visible [][]bool, elapsed time.Duration, reason string, err error) {
	e := events.NewDecisionSkippedEvent(matchID, s.Tick, elapsed, c.Budget(), reason)
	if err != nil {
		e.Err = err.Error()
	}
	e.Snapshot = s
	e.Visible = visible
	c.publish(e)
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-c.out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func (c *Client) send(ctx context.Context, data []byte) {
	select {
	case c.out <- data:
	case <-ctx.Done():
	}
}

func (c *Client) transition(phase session.Phase, reason string) {
	if c.machine == nil || !c.machine.CanTransitionTo(phase) {
		return
	}
	if err := c.machine.TransitionTo(phase, reason); err != nil {
		c.logger.Warn().Err(err).Str("phase", phase.String()).Msg("Session transition refused")
	}
}

func (c *Client) fail(err error) {
	c.logger.Error().Err(err).Msg("Client stopped")
	if c.machine != nil {
		c.machine.Fail(err)
	}
}

func (c *Client) publish(e events.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

func payloadOrNull(p []byte) []byte {
	if len(p) == 0 {
		return []byte("null")
	}
	return p
}
