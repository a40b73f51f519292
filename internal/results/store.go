// Package results keeps the history of played matches in SQLite.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Match is one finished match as seen by this bot
type Match struct {
	ID        string
	PlayerID  string
	TeamName  string
	FinalTick int
	EndedAt   time.Time
	Result    core.MatchResult
}

// Won reports whether the bot's team scored highest
func (m Match) Won() bool {
	w, ok := m.Result.Winner()
	return ok && w.Name == m.TeamName
}

// Store is a SQLite-backed match history
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the database at path. ":memory:" keeps it in memory.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty results db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, logger: logger.With().Str("component", "Results").Logger()}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			team_name TEXT NOT NULL,
			winner TEXT NOT NULL,
			final_tick INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS team_results (
			match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			color INTEGER NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (match_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS player_results (
			match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			team_position INTEGER NOT NULL,
			position INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			kills INTEGER NOT NULL,
			tank_type INTEGER NOT NULL,
			PRIMARY KEY (match_id, team_position, position)
		);`,
		`CREATE INDEX IF NOT EXISTS matches_ended_at ON matches(ended_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordMatch stores a finished match, replacing an earlier record of the same id
func (s *Store) RecordMatch(ctx context.Context, m Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	winner := ""
	if w, ok := m.Result.Winner(); ok {
		winner = w.Name
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, m.ID); err != nil {
		return fmt.Errorf("replace match %s: %w", m.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO matches (id, player_id, team_name, winner, final_tick, ended_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.PlayerID, m.TeamName, winner, m.FinalTick, m.EndedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}

	for ti, team := range m.Result.Teams {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO team_results (match_id, position, name, color, score) VALUES (?, ?, ?, ?, ?)`,
			m.ID, ti, team.Name, int64(team.Color), team.Score,
		); err != nil {
			return fmt.Errorf("insert team %s: %w", team.Name, err)
		}
		for pi, p := range team.Players {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO player_results (match_id, team_position, position, player_id, kills, tank_type) VALUES (?, ?, ?, ?, ?, ?)`,
				m.ID, ti, pi, p.ID, p.Kills, int(p.TankType),
			); err != nil {
				return fmt.Errorf("insert player %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info().
		Str("match_id", m.ID).
		Str("winner", winner).
		Bool("won", m.Won()).
		Int("final_tick", m.FinalTick).
		Msg("Match result stored")
	return nil
}

// RecentMatches returns up to limit matches, most recent first
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_id, team_name, final_tick, ended_at FROM matches ORDER BY ended_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var out []Match
	for rows.Next() {
		var (
			m       Match
			endedAt string
		)
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.TeamName, &m.FinalTick, &endedAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if m.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("match %s ended_at: %w", m.ID, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range out {
		result, err := s.loadResult(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Result = result
	}
	return out, nil
}

func (s *Store) loadResult(ctx context.Context, matchID string) (core.MatchResult, error) {
	var result core.MatchResult

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, color, score FROM team_results WHERE match_id = ? ORDER BY position`, matchID)
	if err != nil {
		return result, err
	}
	for rows.Next() {
		var (
			team  core.TeamResult
			color int64
		)
		if err := rows.Scan(&team.Name, &color, &team.Score); err != nil {
			_ = rows.Close()
			return result, err
		}
		team.Color = uint32(color)
		result.Teams = append(result.Teams, team)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return result, err
	}
	_ = rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT team_position, player_id, kills, tank_type FROM player_results WHERE match_id = ? ORDER BY team_position, position`, matchID)
	if err != nil {
		return result, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			teamPos, tankType int
			p                 core.PlayerResult
		)
		if err := rows.Scan(&teamPos, &p.ID, &p.Kills, &tankType); err != nil {
			return result, err
		}
		if teamPos < 0 || teamPos >= len(result.Teams) {
			return result, fmt.Errorf("match %s: player %s in unknown team %d", matchID, p.ID, teamPos)
		}
		p.TankType = core.TankType(tankType)
		result.Teams[teamPos].Players = append(result.Teams[teamPos].Players, p)
	}
	return result, rows.Err()
}
