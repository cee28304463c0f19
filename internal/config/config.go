package config

import (
	"fmt"
	"time"
)

// Structures here are populated by viper in load.go.

// Config is the full server configuration
type Config struct {
	Server ServerSettings `mapstructure:"server"`
	Game   GameSettings   `mapstructure:"game"`
}

// ServerSettings contains transport and process-level settings
type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"` // 0 keeps websockets alive
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	// Rate limiting (golang.org/x/time/rate), applied per client IP
	RateLimit      float64 `mapstructure:"rateLimit"`
	RateLimitBurst int     `mapstructure:"rateLimitBurst"`

	MaxRequestSize int64 `mapstructure:"maxRequestSize"`
	MaxMessageSize int64 `mapstructure:"maxMessageSize"` // per websocket frame

	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"`
}

// GameSettings contains pacing and lifecycle settings for rooms
type GameSettings struct {
	RoomCodeLength int `mapstructure:"roomCodeLength"`

	// Phase pacing. The night reveal, the pause after a rejected vote and
	// the pause after a quest result all end in an automatic transition
	// back to team selection.
	NightDuration    time.Duration `mapstructure:"nightDuration"`
	VoteResultDelay  time.Duration `mapstructure:"voteResultDelay"`
	QuestResultDelay time.Duration `mapstructure:"questResultDelay"`

	// TeamSelectionWindow is advisory: it is broadcast as a deadline but
	// an expired window never auto-resolves the proposal.
	TeamSelectionWindow time.Duration `mapstructure:"teamSelectionWindow"`

	// Room retirement
	EndedRoomTTL    time.Duration `mapstructure:"endedRoomTTL"`
	LobbyTimeout    time.Duration `mapstructure:"lobbyTimeout"`
	JanitorInterval time.Duration `mapstructure:"janitorInterval"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Host:            "0.0.0.0",
			Port:            "3001",
			ReadTimeout:     0,
			WriteTimeout:    0,
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       10,
			RateLimitBurst:  20,
			MaxRequestSize:  1 << 20,
			MaxMessageSize:  8 << 10,
			LogLevel:        "info",
			LogFormat:       "console",
		},
		Game: GameSettings{
			RoomCodeLength:      5,
			NightDuration:       5 * time.Second,
			VoteResultDelay:     4 * time.Second,
			QuestResultDelay:    5 * time.Second,
			TeamSelectionWindow: 3 * time.Minute,
			EndedRoomTTL:        10 * time.Minute,
			LobbyTimeout:        24 * time.Hour,
			JanitorInterval:     time.Minute,
		},
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host must be set")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rateLimit must be positive")
	}
	if c.Server.MaxMessageSize <= 0 {
		return fmt.Errorf("maxMessageSize must be positive")
	}
	if c.Game.RoomCodeLength < 3 {
		return fmt.Errorf("roomCodeLength must be at least 3")
	}
	if c.Game.NightDuration < 0 || c.Game.VoteResultDelay < 0 || c.Game.QuestResultDelay < 0 {
		return fmt.Errorf("phase delays cannot be negative")
	}
	if c.Game.TeamSelectionWindow <= 0 {
		return fmt.Errorf("teamSelectionWindow must be positive")
	}
	if c.Game.EndedRoomTTL <= 0 {
		return fmt.Errorf("endedRoomTTL must be positive")
	}
	if c.Game.JanitorInterval <= 0 {
		return fmt.Errorf("janitorInterval must be positive")
	}
	return nil
}
