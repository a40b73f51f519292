// Package recording stores the ticks of a match as zstd-compressed JSON lines
// so they can be replayed later.
package recording

import (
	"path/filepath"
	"time"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// FileSuffix is appended to the match id to name a recording
const FileSuffix = ".jsonl.zst"

// Frame is one recorded tick
type Frame struct {
	MatchID  string         `json:"matchId"`
	Tick     int            `json:"tick"`
	Snapshot *core.Snapshot `json:"snapshot,omitempty"`
	Visible  [][]bool       `json:"visible,omitempty"`
	Action   *core.Action   `json:"action,omitempty"`
	Rule     string         `json:"rule,omitempty"`
	Duration time.Duration  `json:"duration"`

	// Skipped holds the reason no action was sent, empty when one was
	Skipped string `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Sent reports whether an action went out for this tick
func (f Frame) Sent() bool {
	return f.Skipped == "" && f.Action != nil
}

// PathFor returns the recording file of matchID inside dir
func PathFor(dir, matchID string) string {
	return filepath.Join(dir, matchID+FileSuffix)
}
