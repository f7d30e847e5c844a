package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ARENA_ADDR points at a running server (host:port). Scenarios are
	// skipped when it is empty.
	ArenaAddr string `envconfig:"ARENA_ADDR"`
	// E2E_DEBUG_JSON dumps every websocket frame sent and received
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
