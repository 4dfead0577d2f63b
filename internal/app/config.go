package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/fsutil"
)

// Config holds all the necessary configuration for an App instance to run.
// The tagged fields may be set from the environment.
type Config struct {
	// ConfigPaths are configuration files or directories, merged in order.
	ConfigPaths []string `env:"TFSUTILS_CONFIG" envSeparator:","`
	// Section names the XML element holding the command list.
	Section string `env:"TFSUTILS_SECTION" envDefault:"TfsUtils"`

	LogFormat       string `env:"TFSUTILS_LOG_FORMAT" envDefault:"text"`
	LogLevel        string `env:"TFSUTILS_LOG_LEVEL" envDefault:"info"`
	Watch           bool   `env:"TFSUTILS_WATCH"`
	HealthcheckPort int    `env:"TFSUTILS_HEALTHCHECK_PORT"`

	// Command is the name of the command to dispatch and Args its arguments.
	Command string
	Args    []string
}

// NewConfig validates cfg and fills in defaults. Without configuration paths
// the file next to the executable is used.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		path, err := fsutil.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		cfg.ConfigPaths = []string{path}
	}
	if cfg.Section == "" {
		cfg.Section = config.DefaultSection
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	if cfg.HealthcheckPort > 0 && !cfg.Watch {
		return nil, errors.New("the healthcheck server is only available in watch mode")
	}
	return &cfg, nil
}
