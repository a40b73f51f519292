package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the bot
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Player      PlayerConfig      `mapstructure:"player"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Bot         BotConfig         `mapstructure:"bot"`
	Tactics     TacticsConfig     `mapstructure:"tactics"`
	Recording   RecordingConfig   `mapstructure:"recording"`
	Results     ResultsConfig     `mapstructure:"results"`
	Health      HealthConfig      `mapstructure:"health"`
	UI          UIConfig          `mapstructure:"ui"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// ServerConfig points at the game server
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	JoinCode string `mapstructure:"join_code"`
}

// PlayerConfig identifies the bot in the lobby
type PlayerConfig struct {
	TeamName string `mapstructure:"team_name"`
	TankType string `mapstructure:"tank_type"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BotConfig holds per-match decision settings
type BotConfig struct {
	Seed int64 `mapstructure:"seed"`
	// ResponseBudgetMs overrides the budget derived from the broadcast interval; 0 keeps it
	ResponseBudgetMs int    `mapstructure:"response_budget_ms"`
	TargetZone       string `mapstructure:"target_zone"`
}

// TacticsConfig holds the cascade and knowledge constants
type TacticsConfig struct {
	DecisionCadence     int     `mapstructure:"decision_cadence"`
	JitterOdds          int     `mapstructure:"jitter_odds"`
	InZoneIdleOdds      int     `mapstructure:"in_zone_idle_odds"`
	ForwardOdds         int     `mapstructure:"forward_odds"`
	CaptureScale        float64 `mapstructure:"capture_scale"`
	CaptureEpsilon      float64 `mapstructure:"capture_epsilon"`
	MinCaptureProb      float64 `mapstructure:"min_capture_prob"`
	MaxCaptureProb      float64 `mapstructure:"max_capture_prob"`
	SearchHazardHorizon int     `mapstructure:"search_hazard_horizon"`
	HealHorizon         int     `mapstructure:"heal_horizon"`
	MaxHealth           int     `mapstructure:"max_health"`
	ShotRange           int     `mapstructure:"shot_range"`
	DodgeRange          int     `mapstructure:"dodge_range"`
	RetentionTicks      int     `mapstructure:"retention_ticks"`
	MineDurationTicks   int     `mapstructure:"mine_duration_ticks"`
	ProjectionTicks     int     `mapstructure:"projection_ticks"`
	// RuleGuards maps a rule name to a boolean guard expression
	RuleGuards map[string]string `mapstructure:"rule_guards"`
}

// RecordingConfig controls the per-match tick recorder
type RecordingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ResultsConfig controls the match results database
type ResultsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// HealthConfig controls the gRPC health endpoint
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// UIConfig holds replay viewer settings
type UIConfig struct {
	TileSize int `mapstructure:"tile_size"`
	// FrameInterval is the number of screen updates each replayed tick stays up
	FrameInterval int `mapstructure:"frame_interval"`
	HUDHeight     int `mapstructure:"hud_height"`
}

// DevelopmentConfig holds development settings
type DevelopmentConfig struct {
	ValidatePackets bool `mapstructure:"validate_packets"`
	VerboseLogging  bool `mapstructure:"verbose_logging"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.join_code", "")

	// Player defaults
	v.SetDefault("player.team_name", "tankbot")
	v.SetDefault("player.tank_type", "light")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Bot defaults
	v.SetDefault("bot.seed", 0)
	v.SetDefault("bot.response_budget_ms", 0)
	v.SetDefault("bot.target_zone", "")

	// Tactics defaults
	v.SetDefault("tactics.decision_cadence", 6)
	v.SetDefault("tactics.jitter_odds", 16)
	v.SetDefault("tactics.in_zone_idle_odds", 4)
	v.SetDefault("tactics.forward_odds", 4)
	v.SetDefault("tactics.capture_scale", 0.8)
	v.SetDefault("tactics.capture_epsilon", 0.01)
	v.SetDefault("tactics.min_capture_prob", 0.1)
	v.SetDefault("tactics.max_capture_prob", 0.9)
	v.SetDefault("tactics.search_hazard_horizon", 10)
	v.SetDefault("tactics.heal_horizon", 10)
	v.SetDefault("tactics.max_health", 100)
	v.SetDefault("tactics.shot_range", 2)
	v.SetDefault("tactics.dodge_range", 2)
	v.SetDefault("tactics.retention_ticks", 10)
	v.SetDefault("tactics.mine_duration_ticks", 500)
	v.SetDefault("tactics.projection_ticks", 2)

	// Recording defaults
	v.SetDefault("recording.enabled", false)
	v.SetDefault("recording.dir", "recordings")

	// Results defaults
	v.SetDefault("results.enabled", false)
	v.SetDefault("results.db_path", "results.db")

	// Health defaults
	v.SetDefault("health.enabled", false)
	v.SetDefault("health.host", "127.0.0.1")
	v.SetDefault("health.port", 50051)

	// UI defaults
	v.SetDefault("ui.tile_size", 24)
	v.SetDefault("ui.frame_interval", 6)
	v.SetDefault("ui.hud_height", 64)

	// Development defaults
	v.SetDefault("development.validate_packets", false)
	v.SetDefault("development.verbose_logging", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tankbot")
	}

	v.SetEnvPrefix("TANKBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange only sees
// configurations that pass validation.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		cfg = next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

var (
	logLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"console": true, "json": true}
	tankTypes  = map[string]bool{"light": true, "heavy": true}
)

// Validate validates the configuration values
func Validate(c *Config) error {
	// Server
	if c.Server.Host == "" {
		return fmt.Errorf("server.host must not be empty: %w", ErrInvalid)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535: %w", ErrInvalid)
	}

	// Player
	if c.Player.TeamName == "" {
		return fmt.Errorf("player.team_name must not be empty: %w", ErrInvalid)
	}
	if !tankTypes[strings.ToLower(c.Player.TankType)] {
		return fmt.Errorf("player.tank_type %q must be light or heavy: %w", c.Player.TankType, ErrInvalid)
	}

	// Logging
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q is not a known level: %w", c.Logging.Level, ErrInvalid)
	}
	if !logFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be console or json: %w", ErrInvalid)
	}

	// Bot
	if c.Bot.ResponseBudgetMs < 0 {
		return fmt.Errorf("bot.response_budget_ms must be non-negative: %w", ErrInvalid)
	}
	if len(c.Bot.TargetZone) > 1 {
		return fmt.Errorf("bot.target_zone must be a single letter: %w", ErrInvalid)
	}

	// Recording and results
	if c.Recording.Enabled && c.Recording.Dir == "" {
		return fmt.Errorf("recording.dir must be set when recording is enabled: %w", ErrInvalid)
	}
	if c.Results.Enabled && c.Results.DBPath == "" {
		return fmt.Errorf("results.db_path must be set when results are enabled: %w", ErrInvalid)
	}

	// Health
	if c.Health.Enabled && (c.Health.Port <= 0 || c.Health.Port > 65535) {
		return fmt.Errorf("health.port must be between 1 and 65535: %w", ErrInvalid)
	}

	// UI
	if c.UI.TileSize <= 0 || c.UI.FrameInterval <= 0 {
		return fmt.Errorf("ui.tile_size and ui.frame_interval must be positive: %w", ErrInvalid)
	}
	if c.UI.HUDHeight < 0 {
		return fmt.Errorf("ui.hud_height must be non-negative: %w", ErrInvalid)
	}

	return nil
}
