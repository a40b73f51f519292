package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/mitchelldurbincs/tankbot/internal/bot"
	"github.com/mitchelldurbincs/tankbot/internal/client"
	"github.com/mitchelldurbincs/tankbot/internal/config"
	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/events/subscribers"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/mitchelldurbincs/tankbot/internal/game/knowledge"
	"github.com/mitchelldurbincs/tankbot/internal/health"
	"github.com/mitchelldurbincs/tankbot/internal/monitoring"
	"github.com/mitchelldurbincs/tankbot/internal/recording"
	"github.com/mitchelldurbincs/tankbot/internal/results"
	"github.com/mitchelldurbincs/tankbot/internal/session"
)

const monitorInterval = 30 * time.Second

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	host := flag.String("host", "", "Game server host (empty to use config default)")
	port := flag.Int("port", -1, "Game server port (-1 to use config default)")
	teamName := flag.String("team-name", "", "Team name to join (empty to use config default)")
	tankType := flag.String("tank-type", "", "Tank type, light or heavy (empty to use config default)")
	joinCode := flag.String("code", "", "Join code of a private match")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	// Flags override config values
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != -1 {
		cfg.Server.Port = *port
	}
	if *teamName != "" {
		cfg.Player.TeamName = *teamName
	}
	if *tankType != "" {
		cfg.Player.TankType = *tankType
	}
	if *joinCode != "" {
		cfg.Server.JoinCode = *joinCode
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped")
	}
	log.Info().Msg("Bot shutdown complete")
}

func run(ctx context.Context, cfg *config.Config) error {
	matchID := uuid.NewString()
	logger := log.Logger.With().Str("match_id", matchID).Logger()

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("team", cfg.Player.TeamName).
		Str("tank_type", cfg.Player.TankType).
		Msg("Starting tank bot")

	bus := events.NewEventBus()

	eventLogger := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)
	eventLogger.SetDevMode(cfg.Development.VerboseLogging)
	bus.Subscribe(eventLogger)

	monitor := monitoring.NewDecisionMonitor(monitorInterval, logger)
	monitor.Attach(bus)
	monitor.Start()
	defer monitor.Stop()

	if cfg.Recording.Enabled {
		recorder := recording.NewRecorder(cfg.Recording.Dir, logger)
		bus.Subscribe(recorder)
		defer func() {
			bus.Unsubscribe(recorder.ID())
			if err := recorder.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close recordings")
			}
		}()
	}

	if cfg.Results.Enabled {
		store, err := results.Open(cfg.Results.DBPath, logger)
		if err != nil {
			return fmt.Errorf("open results store: %w", err)
		}
		defer store.Close()
		bus.Subscribe(results.NewSubscriber(store))
	}

	if cfg.Health.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Health.Host, cfg.Health.Port))
		if err != nil {
			return fmt.Errorf("listen for health checks: %w", err)
		}
		hs := health.NewServer(logger)
		bus.Subscribe(hs)
		go func() {
			if err := hs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				logger.Error().Err(err).Msg("Health server failed")
			}
		}()
		defer func() {
			bus.Unsubscribe(hs.ID())
			hs.Stop()
		}()
	}

	machine := session.NewMachine(session.NewContext(matchID, logger), bus)

	opts, err := botOptions(cfg, matchID)
	if err != nil {
		return err
	}
	agent, err := bot.New(opts, bus, logger)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	tank, err := core.ParseTankType(strings.ToLower(cfg.Player.TankType))
	if err != nil {
		return err
	}
	c, err := client.New(client.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		TeamName:        cfg.Player.TeamName,
		TankType:        tank,
		JoinCode:        cfg.Server.JoinCode,
		ResponseBudget:  time.Duration(cfg.Bot.ResponseBudgetMs) * time.Millisecond,
		ValidatePackets: cfg.Development.ValidatePackets,
	}, agent, bus, machine, logger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	if _, err := os.Stat(config.ConfigFilePath()); err == nil {
		config.WatchConfig(func(next *config.Config) {
			setLevel(next.Logging.Level)
			logger.Info().Str("level", next.Logging.Level).Msg("Config reloaded")
		})
	}

	err = c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("Received shutdown signal")
		return nil
	}
	return err
}

// botOptions maps the tactics section onto the decision cascade settings
func botOptions(cfg *config.Config, matchID string) (bot.Options, error) {
	t := cfg.Tactics
	opts := bot.Options{
		Tuning: bot.Tuning{
			DecisionCadence:     t.DecisionCadence,
			JitterOdds:          t.JitterOdds,
			InZoneIdleOdds:      t.InZoneIdleOdds,
			ForwardOdds:         t.ForwardOdds,
			CaptureScale:        t.CaptureScale,
			CaptureEpsilon:      t.CaptureEpsilon,
			MinCaptureProb:      t.MinCaptureProb,
			MaxCaptureProb:      t.MaxCaptureProb,
			SearchHazardHorizon: t.SearchHazardHorizon,
			HealHorizon:         t.HealHorizon,
			MaxHealth:           t.MaxHealth,
			ShotRange:           t.ShotRange,
			DodgeRange:          t.DodgeRange,
			Knowledge: knowledge.Config{
				RetentionTicks:    t.RetentionTicks,
				MineDurationTicks: t.MineDurationTicks,
				ProjectionTicks:   t.ProjectionTicks,
			},
		},
		Seed:    cfg.Bot.Seed,
		Guards:  t.RuleGuards,
		MatchID: matchID,
	}
	if zone := strings.ToUpper(cfg.Bot.TargetZone); zone != "" {
		opts.TargetZone = zone[0]
	}
	if err := opts.Tuning.Validate(); err != nil {
		return opts, fmt.Errorf("tactics: %w", err)
	}
	return opts, nil
}

func setupLogging(level, format string) {
	setLevel(level)

	// Check if we're in production
	if os.Getenv("APP_ENV") == "production" || format == "json" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}

func setLevel(level string) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
}
