package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=5000" validate:"min=1,max=65535"`
	PrivateGroups        int           `env:"PRIVATE_GROUPS,default=5" validate:"min=0,max=26"`
	HistoryLimit         int           `env:"HISTORY_LIMIT,default=2" validate:"min=0"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=32" validate:"min=1"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	EnableDebugServer    bool          `env:"ENABLE_DEBUG_SERVER,default=false"`
	DebugPort            int           `env:"DEBUG_PORT,default=8080" validate:"min=1,max=65535"`
	LogLevel             string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
