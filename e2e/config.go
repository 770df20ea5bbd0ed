package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BOARD_ADDR points at a running server; the suite skips when unset
	BoardAddr string `envconfig:"BOARD_ADDR"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_READ_TIMEOUT bounds every single line read from the server
	ReadTimeout string `envconfig:"E2E_READ_TIMEOUT" default:"3s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
