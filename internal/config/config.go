// Package config handles YAML configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eduardolat/nanogen/internal/nanoid"
	"github.com/eduardolat/nanogen/internal/randsource"
)

const (
	// DefaultConfigPath is the default configuration file path
	DefaultConfigPath = "/etc/nanogen/config.yaml"

	// DefaultProfileName is the profile used when none is requested
	DefaultProfileName = "default"

	// DefaultBackupRetentionCount is the default number of backups to keep
	DefaultBackupRetentionCount = 10

	// DefaultAddr is the default HTTP listen address
	DefaultAddr = ":8080"

	// DefaultMaxCount is the default cap on IDs per HTTP request
	DefaultMaxCount = 1000
)

// Generation strategies
const (
	StrategyBatched   = "batched"
	StrategyIterative = "iterative"
)

// Config represents the complete application configuration
type Config struct {
	Output   Output    `yaml:"output"`
	Server   Server    `yaml:"server"`
	Profiles []Profile `yaml:"profiles"`
}

// Output defines how ID list files are written
type Output struct {
	BackupEnabled        *bool `yaml:"backup_enabled"`
	BackupRetentionCount *int  `yaml:"backup_retention_count"`
}

// IsBackupEnabled returns true if existing output files are backed up (default: true)
func (o Output) IsBackupEnabled() bool {
	if o.BackupEnabled == nil {
		return true
	}
	return *o.BackupEnabled
}

// GetBackupRetentionCount returns the backup retention count (default: 10)
func (o Output) GetBackupRetentionCount() int {
	if o.BackupRetentionCount == nil {
		return DefaultBackupRetentionCount
	}
	return *o.BackupRetentionCount
}

// Server defines the HTTP service settings.
// Environment variables override the file values.
type Server struct {
	Addr     string `yaml:"addr" env:"NANOGEN_ADDR"`
	MaxCount *int   `yaml:"max_count" env:"NANOGEN_MAX_COUNT"`
}

// GetAddr returns the listen address (default: :8080)
func (s Server) GetAddr() string {
	if s.Addr == "" {
		return DefaultAddr
	}
	return s.Addr
}

// GetMaxCount returns the maximum IDs per request (default: 1000)
func (s Server) GetMaxCount() int {
	if s.MaxCount == nil {
		return DefaultMaxCount
	}
	return *s.MaxCount
}

// Profile is a named generation setup
type Profile struct {
	Name         string  `yaml:"name"`
	Alphabet     string  `yaml:"alphabet"`
	AlphabetName string  `yaml:"alphabet_name"`
	Length       *int    `yaml:"length"`
	Strategy     string  `yaml:"strategy"`
	Source       string  `yaml:"source"`
	Seed         *uint64 `yaml:"seed"`
}

// GetAlphabet resolves the profile alphabet from the literal alphabet or the
// alphabet name (default: nanoid.DefaultAlphabet)
func (p Profile) GetAlphabet() (string, error) {
	if p.Alphabet != "" {
		return p.Alphabet, nil
	}
	if p.AlphabetName == "" {
		return nanoid.DefaultAlphabet, nil
	}
	alphabet, ok := nanoid.Alphabet(p.AlphabetName)
	if !ok {
		return "", fmt.Errorf("unknown alphabet name %q (supported: %s)", p.AlphabetName, strings.Join(nanoid.AlphabetNames(), ", "))
	}
	return alphabet, nil
}

// GetLength returns the ID length (default: 21)
func (p Profile) GetLength() int {
	if p.Length == nil {
		return nanoid.DefaultLength
	}
	return *p.Length
}

// GetStrategy returns the generation strategy (default: batched)
func (p Profile) GetStrategy() string {
	if p.Strategy == "" {
		return StrategyBatched
	}
	return strings.ToLower(p.Strategy)
}

// GetSource returns the random source kind (default: crypto)
func (p Profile) GetSource() string {
	if p.Source == "" {
		return randsource.Crypto
	}
	return strings.ToLower(p.Source)
}

// GetSeed returns the seed for seeded sources (default: 0)
func (p Profile) GetSeed() uint64 {
	if p.Seed == nil {
		return 0
	}
	return *p.Seed
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Profiles: []Profile{{Name: DefaultProfileName}},
	}
}

// Profile returns the named profile
func (c *Config) Profile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault behaves like Load, but returns Default when path is the
// default config path and the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && path == DefaultConfigPath && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse parses YAML configuration data
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv loads the given dotenv files, if any, and overrides the server
// settings with NANOGEN_* environment variables.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if err := env.Parse(&c.Server); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if c.Server.GetMaxCount() <= 0 {
		return errors.New("config: server max_count must be positive")
	}

	return nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if len(c.Profiles) == 0 {
		return errors.New("config: at least one profile must be defined")
	}

	if c.Output.GetBackupRetentionCount() < 0 {
		return errors.New("config: backup_retention_count cannot be negative")
	}

	if c.Server.GetMaxCount() <= 0 {
		return errors.New("config: server max_count must be positive")
	}

	names := make(map[string]bool)
	for i, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("config: profile at index %d has empty name", i)
		}

		if names[p.Name] {
			return fmt.Errorf("config: duplicate profile name %q", p.Name)
		}
		names[p.Name] = true

		if p.Alphabet != "" && p.AlphabetName != "" {
			return fmt.Errorf("config: profile %q sets both alphabet and alphabet_name", p.Name)
		}

		alphabet, err := p.GetAlphabet()
		if err != nil {
			return fmt.Errorf("config: profile %q: %w", p.Name, err)
		}
		if len(alphabet) > nanoid.MaxAlphabetLength {
			return fmt.Errorf("config: profile %q alphabet has %d symbols (max %d)", p.Name, len(alphabet), nanoid.MaxAlphabetLength)
		}

		if p.GetLength() <= 0 {
			return fmt.Errorf("config: profile %q has invalid length %d", p.Name, p.GetLength())
		}

		strategy := p.GetStrategy()
		if strategy != StrategyBatched && strategy != StrategyIterative {
			return fmt.Errorf("config: profile %q has invalid strategy %q (supported: %s, %s)", p.Name, strategy, StrategyBatched, StrategyIterative)
		}

		source := p.GetSource()
		if !slices.Contains(randsource.Kinds(), source) {
			return fmt.Errorf("config: profile %q has invalid source %q (supported: %s)", p.Name, source, strings.Join(randsource.Kinds(), ", "))
		}

		if p.Seed != nil && !randsource.IsSeeded(source) {
			return fmt.Errorf("config: profile %q sets a seed but source %q is not seeded", p.Name, source)
		}
	}

	return nil
}
