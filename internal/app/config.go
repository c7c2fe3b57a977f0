package app

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// Config holds runtime configuration for the CLI and the HTTP server.
type Config struct {
	InputPath  string
	OutputPath string

	// LLM
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	NoReview     bool
	LLMPreflight bool

	// Review prompt overrides
	ChapterPrompt     string
	MethodologyPrompt string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxCount    int
	CacheClear       bool
	CacheStrictPerms bool

	// Output
	PDFFontPath string

	// Server
	ListenAddr string
	APIKey     string
	Workers    int
	JobTTL     time.Duration

	Verbose bool
}

// Defaults used when neither flags, environment nor a config file set a value.
const (
	DefaultOutputPath = "report.md"
	DefaultListenAddr = ":8080"
	DefaultWorkers    = 2
	DefaultJobTTL     = time.Hour
)

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.JobTTL == 0 {
		cfg.JobTTL = DefaultJobTTL
	}
}

// ReviewEnabled reports whether the configuration allows content review.
func (c Config) ReviewEnabled() bool {
	return !c.NoReview && strings.TrimSpace(c.LLMAPIKey) != ""
}

// ValidateConfig rejects configurations the CLI cannot run with.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	// The built-in PDF fonts are cp1252 only and cannot draw Hebrew.
	if strings.EqualFold(filepath.Ext(cfg.OutputPath), ".pdf") && strings.TrimSpace(cfg.PDFFontPath) == "" {
		return errors.New("config: PDF output requires pdf.font (a TrueType font with Hebrew glyphs)")
	}
	return validateCommon(cfg)
}

// ValidateServerConfig rejects configurations the HTTP server cannot run with.
func ValidateServerConfig(cfg Config) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return errors.New("config: listen address is required")
	}
	if cfg.Workers < 1 {
		return errors.New("config: workers must be at least 1")
	}
	if cfg.JobTTL < 0 {
		return errors.New("config: job TTL must not be negative")
	}
	return validateCommon(cfg)
}

func validateCommon(cfg Config) error {
	if cfg.CacheMaxAge < 0 || cfg.CacheMaxCount < 0 {
		return errors.New("config: negative cache limits are not allowed")
	}
	if (cfg.CacheClear || cfg.CacheMaxAge > 0 || cfg.CacheMaxCount > 0) && strings.TrimSpace(cfg.CacheDir) == "" {
		return errors.New("config: cache options require cache.dir")
	}
	return nil
}
