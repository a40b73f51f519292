package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/tankbot/internal/config"
	"github.com/mitchelldurbincs/tankbot/internal/recording"
	"github.com/mitchelldurbincs/tankbot/internal/results"
	"github.com/mitchelldurbincs/tankbot/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	file := flag.String("file", "", "Recording to replay")
	matchID := flag.String("match", "", "Match id to replay from the recording dir")
	list := flag.Int("list", 0, "List the N most recent matches from the results db and exit")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *list > 0 {
		if err := listMatches(cfg, *list); err != nil {
			log.Fatal().Err(err).Msg("Failed to list matches")
		}
		return
	}

	path := *file
	if path == "" && *matchID != "" {
		path = recording.PathFor(cfg.Recording.Dir, *matchID)
	}
	if path == "" {
		log.Fatal().Msg("Either --file or --match is required")
	}

	frames, err := recording.ReadAll(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to read recording")
	}
	log.Info().Str("path", path).Int("frames", len(frames)).Msg("Loaded recording")

	game, err := ui.NewReplayGame(frames, cfg.UI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create replay")
	}

	ebiten.SetWindowSize(game.ScreenSize())
	ebiten.SetWindowTitle("Tank bot replay - " + frames[0].MatchID)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("Replay viewer failed")
	}
}

func listMatches(cfg *config.Config, limit int) error {
	store, err := results.Open(cfg.Results.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	matches, err := store.RecentMatches(ctx, limit)
	if err != nil {
		return err
	}

	for _, m := range matches {
		outcome := "lost"
		if m.Won() {
			outcome = "won"
		}
		recorded := ""
		if _, err := os.Stat(recording.PathFor(cfg.Recording.Dir, m.ID)); err == nil {
			recorded = " [recorded]"
		}
		fmt.Printf("%s  %s  team=%s tick=%d %s%s\n",
			m.EndedAt.Format(time.RFC3339), m.ID, m.TeamName, m.FinalTick, outcome, recorded)
	}
	return nil
}
