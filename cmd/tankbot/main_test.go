package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/tankbot/internal/bot"
	"github.com/mitchelldurbincs/tankbot/internal/config"
)

func TestBotOptions(t *testing.T) {
	require.NoError(t, config.Init("/non/existent/config.yaml"))
	cfg := *config.Get()
	cfg.Bot.TargetZone = "c"
	cfg.Bot.Seed = 7
	cfg.Tactics.RuleGuards = map[string]string{"capture": "inZone"}

	opts, err := botOptions(&cfg, "m-1")
	require.NoError(t, err)
	assert.Equal(t, bot.DefaultTuning(), opts.Tuning)
	assert.Equal(t, byte('C'), opts.TargetZone)
	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, "m-1", opts.MatchID)
	assert.Equal(t, "inZone", opts.Guards["capture"])

	cfg.Tactics.ShotRange = 0
	_, err = botOptions(&cfg, "m-1")
	assert.Error(t, err)
}
