// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles types.Config from defaults, an optional YAML
// config file, PAPER_DIGEST_* environment variables, a .env file and the
// .secrets/ directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	// Name is the config file base name and the per-user config directory.
	Name = "paper-digest"

	// EnvPrefix prefixes environment overrides, e.g. PAPER_DIGEST_SERVER_ADDRESS.
	EnvPrefix = "PAPER_DIGEST"

	// APIKeyEnv is consulted when neither the config nor .secrets/ carry a key.
	APIKeyEnv = "OPENAI_API_KEY"
)

// defaults lists every key with its default value. Registering each key is
// also what lets viper pick up environment overrides on Unmarshal.
var defaults = map[string]any{
	"summarize.max_words": 500,
	"summarize.damping":   0.85,
	"summarize.max_iter":  50,
	"summarize.tolerance": 1e-4,

	"ingest.backend":         string(types.BackendPDF),
	"ingest.pdftotext_image": "pdftotext:latest",
	"ingest.max_pages":       0,
	"ingest.max_page_chars":  0,
	"ingest.pages_dir":       "pages",

	"server.address":          ":8000",
	"server.read_timeout":     30 * time.Second,
	"server.write_timeout":    120 * time.Second,
	"server.max_upload_bytes": int64(32 << 20),
	"server.allowed_origins":  []string{},
	"server.archive":          false,

	"abstractive.base_url":    "https://api.openai.com/v1",
	"abstractive.model":       "gpt-4o-mini",
	"abstractive.api_key":     "",
	"abstractive.token_limit": 800,
	"abstractive.temperature": 0.3,
	"abstractive.max_retries": 3,
	"abstractive.timeout":     60 * time.Second,

	"archive.dir":         "archive",
	"archive.max_results": 20,
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile points v at cfgFile, or searches ./paper-digest.yaml and
// ~/.config/paper-digest/paper-digest.yaml when cfgFile is empty. It returns the
// file used, or "" when none was found. An explicit file that cannot be read
// is an error.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load decodes v into a Config, fills the API key from secrets or the
// environment and validates the result.
func Load(v *viper.Viper, secrets map[string]string) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Abstractive.APIKey == "" {
		cfg.Abstractive.APIKey = secrets[SecretOpenAIKey]
	}
	if cfg.Abstractive.APIKey == "" {
		cfg.Abstractive.APIKey = os.Getenv(APIKeyEnv)
	}

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting in cfg.
func Validate(cfg types.Config) error {
	var errs []error
	s := cfg.Summarize
	if s.MaxWords < 0 {
		errs = append(errs, fmt.Errorf("summarize.max_words must be >= 0, got %d", s.MaxWords))
	}
	if s.Damping <= 0 || s.Damping >= 1 {
		errs = append(errs, fmt.Errorf("summarize.damping must be in (0, 1), got %g", s.Damping))
	}
	if s.MaxIter < 1 {
		errs = append(errs, fmt.Errorf("summarize.max_iter must be >= 1, got %d", s.MaxIter))
	}
	if s.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("summarize.tolerance must be > 0, got %g", s.Tolerance))
	}

	switch cfg.Ingest.Backend {
	case types.BackendPDF, types.BackendPdftotext:
	default:
		errs = append(errs, fmt.Errorf("ingest.backend must be %q or %q, got %q",
			types.BackendPDF, types.BackendPdftotext, cfg.Ingest.Backend))
	}
	if cfg.Ingest.MaxPages < 0 || cfg.Ingest.MaxPageChars < 0 {
		errs = append(errs, errors.New("ingest limits must be >= 0"))
	}

	if cfg.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be > 0, got %d", cfg.Server.MaxUploadBytes))
	}

	if cfg.Abstractive.TokenLimit < 1 {
		errs = append(errs, fmt.Errorf("abstractive.token_limit must be >= 1, got %d", cfg.Abstractive.TokenLimit))
	}
	if cfg.Archive.MaxResults < 1 {
		errs = append(errs, fmt.Errorf("archive.max_results must be >= 1, got %d", cfg.Archive.MaxResults))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
