package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/concierge-chat/concierge/internal/knowledge"
)

// seedFile is the YAML shape of an external seed file.
type seedFile struct {
	Entries []knowledge.NewEntry `yaml:"entries"`
}

// LoadSeedFile reads a YAML seed file of knowledge entries.
func LoadSeedFile(path string) ([]knowledge.NewEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: reading %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed: parsing %s: %w", path, err)
	}

	return f.Entries, nil
}

// SaveSeedFile writes entries back to a YAML seed file. Used by the kb CLI
// commands to persist additions.
func SaveSeedFile(path string, entries []knowledge.NewEntry) error {
	data, err := yaml.Marshal(seedFile{Entries: entries})
	if err != nil {
		return fmt.Errorf("seed: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("seed: writing %s: %w", path, err)
	}
	return nil
}
