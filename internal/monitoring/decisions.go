// Package monitoring keeps running statistics about the bot's decisions.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/rs/zerolog"
)

// DecisionMonitor tracks decision latency and skipped ticks. Attach wires it
// to a bus; Start adds a periodic summary log.
type DecisionMonitor struct {
	mu            sync.RWMutex
	decisions     int
	matches       int
	skipped       map[string]int
	last          time.Duration
	peak          time.Duration
	total         time.Duration
	lastTick      int
	peakRoutines  int
	checkInterval time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	logger        zerolog.Logger
}

// NewDecisionMonitor creates a monitor logging a summary every interval
func NewDecisionMonitor(interval time.Duration, logger zerolog.Logger) *DecisionMonitor {
	return &DecisionMonitor{
		skipped:       make(map[string]int),
		peakRoutines:  runtime.NumGoroutine(),
		checkInterval: interval,
		stopChan:      make(chan struct{}),
		logger:        logger.With().Str("component", "DecisionMonitor").Logger(),
	}
}

// ID implements events.Subscriber
func (dm *DecisionMonitor) ID() string {
	return "decision_monitor"
}

// InterestedIn implements events.Subscriber
func (dm *DecisionMonitor) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeDecisionMade, events.TypeDecisionSkipped:
		return true
	}
	return false
}

// HandleEvent implements events.Subscriber
func (dm *DecisionMonitor) HandleEvent(event events.Event) {
	switch e := event.(type) {
	case *events.DecisionMadeEvent:
		dm.mu.Lock()
		dm.decisions++
		dm.observeLocked(e.Tick, e.Duration)
		dm.mu.Unlock()
	case *events.DecisionSkippedEvent:
		dm.mu.Lock()
		dm.skipped[e.Reason]++
		dm.observeLocked(e.Tick, e.Duration)
		dm.mu.Unlock()
	}
}

// Attach subscribes the monitor to bus and reports a summary at every match end
func (dm *DecisionMonitor) Attach(bus events.Bus) {
	bus.Subscribe(dm)
	bus.SubscribeFunc(events.TypeMatchEnded, dm.ReportMatch)
}

// ReportMatch logs the decision summary of a finished match
func (dm *DecisionMonitor) ReportMatch(event events.Event) {
	e, ok := event.(*events.MatchEndedEvent)
	if !ok {
		return
	}
	dm.mu.Lock()
	dm.matches++
	dm.mu.Unlock()

	dm.logger.Info().
		Str("match_id", e.MatchID()).
		Int("final_tick", e.FinalTick).
		Msg("Match ended")
	dm.report(zerolog.InfoLevel, "Match decision summary")
}

func (dm *DecisionMonitor) observeLocked(tick int, d time.Duration) {
	dm.last = d
	dm.total += d
	if d > dm.peak {
		dm.peak = d
	}
	dm.lastTick = tick
}

// Start begins the periodic summary
func (dm *DecisionMonitor) Start() {
	if dm.checkInterval <= 0 {
		return
	}
	go dm.monitor()
	dm.logger.Info().
		Dur("interval", dm.checkInterval).
		Msg("Started decision monitoring")
}

// Stop stops the periodic summary
func (dm *DecisionMonitor) Stop() {
	dm.stopOnce.Do(func() { close(dm.stopChan) })
}

func (dm *DecisionMonitor) monitor() {
	defer func() {
		if r := recover(); r != nil {
			dm.logger.Error().
				Interface("panic", r).
				Msg("Decision monitor panicked - restarting")
			time.Sleep(5 * time.Second)
			go dm.monitor()
		}
	}()

	ticker := time.NewTicker(dm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			dm.sampleGoroutines()
			dm.report(zerolog.DebugLevel, "Decision metrics")
		case <-dm.stopChan:
			return
		}
	}
}

func (dm *DecisionMonitor) sampleGoroutines() {
	n := runtime.NumGoroutine()
	dm.mu.Lock()
	if n > dm.peakRoutines {
		dm.peakRoutines = n
	}
	dm.mu.Unlock()
}

func (dm *DecisionMonitor) report(level zerolog.Level, msg string) {
	m := dm.GetMetrics()
	ev := dm.logger.WithLevel(level).
		Int("decisions", m.Decisions).
		Int("skipped", m.Skipped()).
		Int("last_tick", m.LastTick).
		Dur("last", m.Last).
		Dur("mean", m.Mean).
		Dur("peak", m.Peak).
		Int("peak_goroutines", m.PeakGoroutines)
	for reason, n := range m.SkippedByReason {
		ev = ev.Int("skipped_"+reason, n)
	}
	ev.Msg(msg)
}

// GetMetrics returns the current decision statistics
func (dm *DecisionMonitor) GetMetrics() DecisionMetrics {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	m := DecisionMetrics{
		Decisions:       dm.decisions,
		Matches:         dm.matches,
		SkippedByReason: copyMap(dm.skipped),
		Last:            dm.last,
		Peak:            dm.peak,
		LastTick:        dm.lastTick,
		PeakGoroutines:  dm.peakRoutines,
	}
	if n := dm.decisions + m.Skipped(); n > 0 {
		m.Mean = dm.total / time.Duration(n)
	}
	return m
}

// DecisionMetrics contains decision statistics
type DecisionMetrics struct {
	Decisions       int            `json:"decisions"`
	Matches         int            `json:"matches"`
	SkippedByReason map[string]int `json:"skipped_by_reason"`
	Last            time.Duration  `json:"last"`
	Mean            time.Duration  `json:"mean"`
	Peak            time.Duration  `json:"peak"`
	LastTick        int            `json:"last_tick"`
	PeakGoroutines  int            `json:"peak_goroutines"`
}

// Skipped returns the number of ticks answered with nothing
func (m DecisionMetrics) Skipped() int {
	total := 0
	for _, n := range m.SkippedByReason {
		total += n
	}
	return total
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
