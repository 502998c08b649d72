// Package config holds the pipeline's only process-wide state: the remote
// API credential and the target-language preference. Both are loaded once
// into an immutable snapshot and injected into the pipeline, never looked up
// ambiently.
//
// Precedence: environment variables override the JSON settings file, and a
// .env file in the working directory is loaded first so development setups
// work without exported variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/snaplingo/snaplingo/internal/translate"
)

// Environment variable names. The legacy key name is honored for reads so
// existing setups keep working after the rename.
const (
	EnvAPIKey         = "SNAPLINGO_API_KEY"
	EnvAPIKeyLegacy   = "GOOGLE_API_KEY"
	EnvTargetLanguage = "SNAPLINGO_TARGET_LANGUAGE"
)

// Config is the read-only configuration snapshot injected into the pipeline.
type Config struct {
	// APIKey is the shared Google Cloud credential for both the Vision and
	// Translation APIs. Empty disables the cloud OCR stage and makes
	// translation fail with a credential error.
	APIKey string

	// TargetLanguage is the translation target code, e.g. "ja" or "en".
	TargetLanguage string
}

// Settings is the persisted form of the two stored values.
type Settings struct {
	APIKey         string `json:"api_key"`
	TargetLanguage string `json:"target_language"`
}

// Store reads and writes the JSON settings file.
type Store struct {
	path string
}

// DefaultStorePath returns the settings file location under the user's
// config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "snaplingo", "settings.json"), nil
}

// NewStore creates a store over the given settings file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the settings file. A missing file yields empty settings, not an
// error.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

// Save writes the settings file, creating parent directories as needed. The
// file carries the API credential, so permissions are restricted to the
// owner.
func (s *Store) Save(settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Load assembles the configuration snapshot: .env file, then the settings
// store, then environment overrides. The target language defaults to
// Japanese and must parse as a valid language tag.
func Load(store *Store) (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	settings, err := store.Load()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         strings.TrimSpace(settings.APIKey),
		TargetLanguage: strings.TrimSpace(settings.TargetLanguage),
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	} else if v := strings.TrimSpace(os.Getenv(EnvAPIKeyLegacy)); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTargetLanguage)); v != "" {
		cfg.TargetLanguage = v
	}

	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = translate.DefaultTargetLanguage
	}
	if _, err := language.Parse(cfg.TargetLanguage); err != nil {
		return nil, fmt.Errorf("invalid target language %q: %w", cfg.TargetLanguage, err)
	}

	return cfg, nil
}
