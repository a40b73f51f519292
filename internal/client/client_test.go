package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mitchelldurbincs/tankbot/internal/bot"
	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/session"
	"github.com/mitchelldurbincs/tankbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	lobby    core.LobbyData
	action   core.Action
	delay    time.Duration
	err      error
	decided  []int
	started  int
	ended    int
	warnings []core.WarningKind
}

func (a *fakeAgent) Init(lobby core.LobbyData) error {
	a.lobby = lobby
	return nil
}

func (a *fakeAgent) Decide(s *core.Snapshot) (bot.Decision, error) {
	time.Sleep(a.delay)
	if a.err != nil {
		return bot.Decision{}, a.err
	}
	a.decided = append(a.decided, s.Tick)
	return bot.Decision{Tick: s.Tick, OwnerID: a.lobby.PlayerID, Rule: "test", Action: a.action}, nil
}

func (a *fakeAgent) MatchID() string { return "match-1" }

func (a *fakeAgent) OnGameStarted() { a.started++ }

func (a *fakeAgent) OnGameEnded(core.MatchResult) { a.ended++ }

func (a *fakeAgent) OnWarning(k core.WarningKind, _ string) { a.warnings = append(a.warnings, k) }

func (a *fakeAgent) VisibleMask() [][]bool { return nil }

const (
	sandboxLobby = `{"playerId":"me","teamName":"red","teams":[{"name":"red","color":1,"players":[{"id":"me"}]}],` +
		`"serverSettings":{"sandboxMode":true,"gridDimension":3,"numberOfPlayers":1,"seed":1,` +
		`"broadcastInterval":%d,"eagerBroadcast":false,"version":"1"}}`
	gameEndJSON = `{"teams":[{"name":"red","color":1,"score":5,"players":[{"id":"me","kills":1,"tankType":0}]}]}`
)

// gameServer is the server side of one scripted connection
type gameServer struct {
	conn  *websocket.Conn
	query url.Values
}

func (s *gameServer) send(typ PacketType, payload string) error {
	msg := fmt.Sprintf(`{"type":%d}`, int(typ))
	if payload != "" {
		msg = fmt.Sprintf(`{"type":%d,"payload":%s}`, int(typ), payload)
	}
	return s.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

func (s *gameServer) expect(typ PacketType) (Packet, error) {
	_ = s.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return Packet{}, err
	}
	p, err := DecodePacket(msg)
	if err != nil {
		return Packet{}, err
	}
	if p.Type != typ {
		return p, fmt.Errorf("got %s, expected %s", p.Type, typ)
	}
	return p, nil
}

// startServer runs script for the first connection and reports its result
func startServer(t *testing.T, script func(s *gameServer) error) (Config, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		s := &gameServer{conn: conn, query: r.URL.Query()}
		err = script(s)
		done <- err
		if err != nil {
			return
		}
		// hold the connection until the client hangs up
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	return Config{Host: host, Port: p, TeamName: "red team", TankType: core.HeavyTank, ValidatePackets: true}, done
}

func newMachine() *session.Machine {
	return session.NewMachine(session.NewContext("match-1", testutil.NopLogger()), nil)
}

func runClient(t *testing.T, cfg Config, agent Agent, bus events.Publisher, machine *session.Machine) error {
	t.Helper()
	c, err := New(cfg, agent, bus, machine, testutil.NopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.Run(ctx)
}

func TestConfigURL(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 5000, TeamName: "red team", TankType: core.LightTank}
	assert.Equal(t, "ws://localhost:5000/?teamName=red+team&playerType=hackathonBot&tankType=light", cfg.URL())

	cfg.JoinCode = "abc"
	cfg.TankType = core.HeavyTank
	assert.Equal(t, "ws://localhost:5000/?teamName=red+team&joinCode=abc&playerType=hackathonBot&tankType=heavy", cfg.URL())
}

func TestClient_PlaysAMatch(t *testing.T) {
	var query url.Values
	var action Packet
	cfg, done := startServer(t, func(s *gameServer) error {
		query = s.query
		for _, step := range []struct {
			send    PacketType
			payload string
			want    PacketType
		}{
			{send: ConnectionAccepted, want: LobbyDataRequest},
			{send: Ping, want: Pong},
			{send: LobbyData, payload: fmt.Sprintf(sandboxLobby, 200), want: ReadyToReceiveGameState},
		} {
			if err := s.send(step.send, step.payload); err != nil {
				return err
			}
			if _, err := s.expect(step.want); err != nil {
				return err
			}
		}
		if err := s.send(SlowResponseWarning, ""); err != nil {
			return err
		}
		if err := s.send(GameState, gameStateJSON); err != nil {
			return err
		}
		var err error
		if action, err = s.expect(CaptureZone); err != nil {
			return err
		}
		return s.send(GameEnd, gameEndJSON)
	})

	bus := events.NewEventBus()
	var made []*events.DecisionMadeEvent
	bus.SubscribeFunc(events.TypeDecisionMade, func(e events.Event) {
		made = append(made, e.(*events.DecisionMadeEvent))
	})

	agent := &fakeAgent{action: core.CaptureAction()}
	machine := newMachine()
	require.NoError(t, runClient(t, cfg, agent, bus, machine))
	require.NoError(t, <-done)

	assert.Equal(t, "red team", query.Get("teamName"))
	assert.Equal(t, "hackathonBot", query.Get("playerType"))
	assert.Equal(t, "heavy", query.Get("tankType"))
	assert.False(t, query.Has("joinCode"))

	assert.JSONEq(t, `{"gameStateId":"gs-17"}`, string(action.Payload))
	assert.Equal(t, []int{17}, agent.decided)
	assert.Equal(t, 1, agent.started)
	assert.Equal(t, 1, agent.ended)
	assert.Equal(t, []core.WarningKind{core.SlowResponseWarning}, agent.warnings)

	require.Len(t, made, 1)
	assert.Equal(t, 17, made[0].Tick)
	assert.Equal(t, "test", made[0].Rule)
	assert.NotNil(t, made[0].Snapshot)

	assert.Equal(t, session.PhaseEnded, machine.CurrentPhase())
	var phases []session.Phase
	for _, tr := range machine.GetHistory() {
		phases = append(phases, tr.To)
	}
	assert.Equal(t, []session.Phase{session.PhaseLobby, session.PhaseStarting, session.PhaseRunning, session.PhaseEnded}, phases)
	assert.Equal(t, 17, machine.GetContext().LastTick)
}

func TestClient_SkipsLateAndFailedDecisions(t *testing.T) {
	tests := []struct {
		name   string
		agent  *fakeAgent
		reason string
	}{
		{
			name:   "late decision",
			agent:  &fakeAgent{action: core.WaitAction(), delay: 30 * time.Millisecond},
			reason: events.SkipLate,
		},
		{
			name:   "aborted decision",
			agent:  &fakeAgent{err: core.ErrSelfNotFound},
			reason: events.SkipAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, done := startServer(t, func(s *gameServer) error {
				if err := s.send(LobbyData, fmt.Sprintf(sandboxLobby, 11)); err != nil {
					return err
				}
				if _, err := s.expect(ReadyToReceiveGameState); err != nil {
					return err
				}
				if err := s.send(GameState, gameStateJSON); err != nil {
					return err
				}
				// nothing but the pong may follow the game state
				if err := s.send(Ping, ""); err != nil {
					return err
				}
				if _, err := s.expect(Pong); err != nil {
					return err
				}
				return s.send(GameEnd, gameEndJSON)
			})

			bus := events.NewEventBus()
			var skipped []*events.DecisionSkippedEvent
			bus.SubscribeFunc(events.TypeDecisionSkipped, func(e events.Event) {
				skipped = append(skipped, e.(*events.DecisionSkippedEvent))
			})

			require.NoError(t, runClient(t, cfg, tt.agent, bus, nil))
			require.NoError(t, <-done)

			require.Len(t, skipped, 1)
			assert.Equal(t, tt.reason, skipped[0].Reason)
			assert.Equal(t, 17, skipped[0].Tick)
			assert.Equal(t, 10*time.Millisecond, skipped[0].Budget)
		})
	}
}

func TestClient_Rejected(t *testing.T) {
	cfg, done := startServer(t, func(s *gameServer) error {
		return s.send(ConnectionRejected, `{"reason":"team full"}`)
	})

	machine := newMachine()
	err := runClient(t, cfg, &fakeAgent{}, nil, machine)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "team full")
	require.NoError(t, <-done)
	assert.Equal(t, session.PhaseError, machine.CurrentPhase())
}

func TestClient_ContextCancel(t *testing.T) {
	cfg, _ := startServer(t, func(s *gameServer) error {
		return s.send(ConnectionAccepted, "")
	})

	c, err := New(cfg, &fakeAgent{}, nil, nil, testutil.NopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	err = c.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestOffer_ReplacesUnprocessedState(t *testing.T) {
	c, err := New(Config{}, &fakeAgent{}, nil, nil, testutil.NopLogger())
	require.NoError(t, err)

	c.offer(core.NewEmptySnapshot(3, 1))
	c.offer(core.NewEmptySnapshot(3, 2))

	s := <-c.states
	assert.Equal(t, 2, s.Tick)
	assert.Len(t, c.states, 0)
}

func TestBudgetOverride(t *testing.T) {
	c, err := New(Config{ResponseBudget: 40 * time.Millisecond}, &fakeAgent{}, nil, nil, testutil.NopLogger())
	require.NoError(t, err)

	require.NoError(t, c.onLobby(context.Background(), core.LobbyData{PlayerID: "me", BroadcastInterval: 100}))
	assert.Equal(t, 40*time.Millisecond, c.Budget())

	c, err = New(Config{}, &fakeAgent{}, nil, nil, testutil.NopLogger())
	require.NoError(t, err)
	require.NoError(t, c.onLobby(context.Background(), core.LobbyData{PlayerID: "me", BroadcastInterval: 100}))
	assert.Equal(t, 99*time.Millisecond, c.Budget())
}
