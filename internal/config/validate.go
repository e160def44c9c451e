package config

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// Validate checks the configuration for problems a running instance could
// not recover from. It returns all findings joined, not just the first.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := net.ResolveTCPAddr("tcp", cfg.Gateway.Bind); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid gateway bind address %q", cfg.Gateway.Bind))
	}

	if cfg.Gateway.Auth.BasicUser != "" && cfg.Gateway.Auth.BasicPass == "" {
		errs = append(errs, errors.New("config: gateway.auth.basic_user set without basic_pass"))
	}

	if cfg.Knowledge.SeedFile != "" {
		if _, err := os.Stat(cfg.Knowledge.SeedFile); err != nil {
			errs = append(errs, fmt.Errorf("config: knowledge.seed_file: %w", err))
		}
	}

	if cfg.Sessions.Max < 0 {
		errs = append(errs, errors.New("config: sessions.max must not be negative"))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("config: telemetry.enabled requires telemetry.endpoint"))
	}

	return errors.Join(errs...)
}
