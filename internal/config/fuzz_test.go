package config

import (
	"slices"
	"testing"

	"github.com/eduardolat/nanogen/internal/nanoid"
	"github.com/eduardolat/nanogen/internal/randsource"
)

// FuzzParse tests the Parse function with random YAML inputs
func FuzzParse(f *testing.F) {
	// Add seed corpus with valid and invalid YAML
	seeds := []string{
		// Valid minimal config
		`profiles:
  - name: "default"`,
		// Valid full config
		`output:
  backup_enabled: true
  backup_retention_count: 10
server:
  addr: ":8080"
  max_count: 100
profiles:
  - name: "default"
    alphabet_name: "alphanumeric"
    length: 16
    strategy: "iterative"
    source: "pcg"
    seed: 7`,
		// Empty string
		"",
		// Invalid YAML
		"not: valid: yaml: [",
		// Valid YAML but invalid config (no profiles)
		`output:
  backup_enabled: true`,
		// Unicode alphabet
		`profiles:
  - name: "ünïcode"
    alphabet: "αβγδ"`,
		// Very long alphabet
		`profiles:
  - name: "a"
    alphabet: "` + string(make([]byte, 1000)) + `"`,
		// Negative length
		`profiles:
  - name: "a"
    length: -4`,
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// Parse should never panic
		cfg, err := Parse(data)

		// If parsing fails, that's fine for fuzz testing
		if err != nil {
			return
		}

		// Config should not be nil when err is nil
		if cfg == nil {
			t.Fatal("config should not be nil when err is nil")
		}
		if len(cfg.Profiles) == 0 {
			t.Fatal("should have at least one profile")
		}

		// Validate each profile
		for i, p := range cfg.Profiles {
			if p.Name == "" {
				t.Errorf("profile %d has empty name", i)
			}
			alphabet, err := p.GetAlphabet()
			if err != nil {
				t.Errorf("profile %d alphabet: %v", i, err)
			}
			if len(alphabet) == 0 || len(alphabet) > nanoid.MaxAlphabetLength {
				t.Errorf("profile %d has alphabet of %d symbols", i, len(alphabet))
			}
			if p.GetLength() <= 0 {
				t.Errorf("profile %d has invalid length", i)
			}
			strategy := p.GetStrategy()
			if strategy != StrategyBatched && strategy != StrategyIterative {
				t.Errorf("profile %d has invalid strategy: %s", i, strategy)
			}
			if !slices.Contains(randsource.Kinds(), p.GetSource()) {
				t.Errorf("profile %d has invalid source: %s", i, p.GetSource())
			}
		}

		if cfg.Output.GetBackupRetentionCount() < 0 {
			t.Error("backup retention count should not be negative")
		}
		if cfg.Server.GetMaxCount() <= 0 {
			t.Error("max count should be positive")
		}
	})
}
