package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// varPattern matches ${NAME} and ${NAME:-fallback} references in the raw
// YAML text. Expansion happens before parsing, so a reference works anywhere
// a scalar does.
var varPattern = regexp.MustCompile(`\$\{(\w+)(?::-([^}]*))?\}`)

// Load reads the YAML file at path, expands environment-variable references,
// unmarshals the result, and fills unset sections with defaults. A reference
// to an unset variable without a fallback fails the whole load.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var missing []string
	expanded := varPattern.ReplaceAllFunc(raw, func(ref []byte) []byte {
		groups := varPattern.FindSubmatch(ref)
		if value, ok := os.LookupEnv(string(groups[1])); ok {
			return []byte(value)
		}
		if fallback := groups[2]; fallback != nil {
			return fallback
		}
		missing = append(missing, string(groups[1]))
		return ref
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: %s references unset variables without defaults: %s",
			path, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.Defaults()
	return &cfg, nil
}
