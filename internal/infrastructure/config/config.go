package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Debug server (optional - leave empty to disable)
	DebugAddr            string        `env:"DEBUG_ADDR"             envDefault:""`
	DebugShutdownTimeout time.Duration `env:"DEBUG_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// Event publishing (optional - leave empty to disable)
	EventBrokers []string `env:"EVENT_BROKERS" envSeparator:","`
	EventTopic   string   `env:"EVENT_TOPIC"   envDefault:"payengine.events"`
}

// Load loads configuration from a .env file when present, then from the
// environment. Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
