package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvDomain is the environment variable consulted when no --domain flag
// is given and the config file carries no default_domain.
const EnvDomain = "ROSTERMAP_DOMAIN"

// Config holds application configuration.
type Config struct {
	// DefaultDomain is used for synthesized emails when no --domain flag
	// is passed. Empty means the flag is required.
	DefaultDomain string `json:"default_domain,omitempty"`

	// MaxInputChars is the maximum character count for roster input.
	MaxInputChars int `json:"max_input_chars"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxInputChars: 1_000_000,
	}
}

// LoadEnv loads a .env file from the working directory if present.
// A missing file is not an error; real values already in the
// environment always win over .env entries.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load loads configuration from baseDir/config.json, merged over
// defaults, with the environment overlaid last. Returns default config
// if the file doesn't exist. The baseDir parameter allows tests to use
// t.TempDir() instead of ~/.rostermap.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	if domain := strings.TrimSpace(os.Getenv(EnvDomain)); domain != "" {
		cfg.DefaultDomain = domain
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path, merged over
// defaults.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs. Overlay values take
// precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DefaultDomain = overlay.DefaultDomain
	if result.DefaultDomain == "" {
		result.DefaultDomain = base.DefaultDomain
	}

	result.MaxInputChars = overlay.MaxInputChars
	if result.MaxInputChars == 0 {
		result.MaxInputChars = base.MaxInputChars
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
