package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration using Viper.
// Priority order: environment variables > config file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/camelot")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Short env names for the settings operators actually touch
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.logformat", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.readtimeout", def.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", def.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", def.Server.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", def.Server.ShutdownTimeout)
	v.SetDefault("server.ratelimit", def.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", def.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", def.Server.MaxRequestSize)
	v.SetDefault("server.maxmessagesize", def.Server.MaxMessageSize)
	v.SetDefault("server.loglevel", def.Server.LogLevel)
	v.SetDefault("server.logformat", def.Server.LogFormat)

	v.SetDefault("game.roomcodelength", def.Game.RoomCodeLength)
	v.SetDefault("game.nightduration", def.Game.NightDuration)
	v.SetDefault("game.voteresultdelay", def.Game.VoteResultDelay)
	v.SetDefault("game.questresultdelay", def.Game.QuestResultDelay)
	v.SetDefault("game.teamselectionwindow", def.Game.TeamSelectionWindow)
	v.SetDefault("game.endedroomttl", def.Game.EndedRoomTTL)
	v.SetDefault("game.lobbytimeout", def.Game.LobbyTimeout)
	v.SetDefault("game.janitorinterval", def.Game.JanitorInterval)
}
