package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvToConfig and ApplyEnvOverrides.
const (
	EnvLLMBaseURL        = "LLM_BASE_URL"
	EnvLLMModel          = "LLM_MODEL"
	EnvLLMAPIKey         = "LLM_API_KEY"
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvNoReview          = "PROPOSALCHECK_NO_REVIEW"
	EnvChapterPrompt     = "PROPOSALCHECK_CHAPTER_PROMPT"
	EnvMethodologyPrompt = "PROPOSALCHECK_METHODOLOGY_PROMPT"
	EnvCacheDir          = "PROPOSALCHECK_CACHE_DIR"
	EnvCacheMaxAge       = "PROPOSALCHECK_CACHE_MAX_AGE"
	EnvCacheMaxCount     = "PROPOSALCHECK_CACHE_MAX_COUNT"
	EnvCacheClear        = "PROPOSALCHECK_CACHE_CLEAR"
	EnvCacheStrictPerms  = "PROPOSALCHECK_CACHE_STRICT_PERMS"
	EnvPDFFont           = "PROPOSALCHECK_PDF_FONT"
	EnvListen            = "PROPOSALCHECK_LISTEN"
	EnvAPIKey            = "PROPOSALCHECK_API_KEY"
	EnvWorkers           = "PROPOSALCHECK_WORKERS"
	EnvJobTTL            = "PROPOSALCHECK_JOB_TTL"
	EnvVerbose           = "PROPOSALCHECK_VERBOSE"
)

// llmKeyFromEnv prefers LLM_API_KEY and falls back to GEMINI_API_KEY.
func llmKeyFromEnv() string {
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		return v
	}
	return os.Getenv(EnvGeminiAPIKey)
}

func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	setString(&cfg.LLMBaseURL, os.Getenv(EnvLLMBaseURL))
	setString(&cfg.LLMModel, os.Getenv(EnvLLMModel))
	setString(&cfg.LLMAPIKey, llmKeyFromEnv())
	setString(&cfg.ChapterPrompt, os.Getenv(EnvChapterPrompt))
	setString(&cfg.MethodologyPrompt, os.Getenv(EnvMethodologyPrompt))
	setString(&cfg.CacheDir, os.Getenv(EnvCacheDir))
	setString(&cfg.PDFFontPath, os.Getenv(EnvPDFFont))
	setString(&cfg.ListenAddr, os.Getenv(EnvListen))
	setString(&cfg.APIKey, os.Getenv(EnvAPIKey))

	if cfg.CacheMaxAge == 0 {
		if d, err := time.ParseDuration(os.Getenv(EnvCacheMaxAge)); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if cfg.JobTTL == 0 {
		if d, err := time.ParseDuration(os.Getenv(EnvJobTTL)); err == nil {
			cfg.JobTTL = d
		}
	}
	if cfg.CacheMaxCount == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvCacheMaxCount))); err == nil && n > 0 {
			cfg.CacheMaxCount = n
		}
	}
	if cfg.Workers == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvWorkers))); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if v, ok := parseBool(os.Getenv(envKey)); ok && v {
			*dst = true
		}
	}
	setBool(&cfg.NoReview, EnvNoReview)
	setBool(&cfg.CacheClear, EnvCacheClear)
	setBool(&cfg.CacheStrictPerms, EnvCacheStrictPerms)
	setBool(&cfg.Verbose, EnvVerbose)
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when they are set. This lets env take precedence over a config file while
// flags, applied afterwards, stay highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&cfg.LLMBaseURL, os.Getenv(EnvLLMBaseURL))
	setString(&cfg.LLMModel, os.Getenv(EnvLLMModel))
	setString(&cfg.LLMAPIKey, llmKeyFromEnv())
	setString(&cfg.ChapterPrompt, os.Getenv(EnvChapterPrompt))
	setString(&cfg.MethodologyPrompt, os.Getenv(EnvMethodologyPrompt))
	setString(&cfg.CacheDir, os.Getenv(EnvCacheDir))
	setString(&cfg.PDFFontPath, os.Getenv(EnvPDFFont))
	setString(&cfg.ListenAddr, os.Getenv(EnvListen))
	setString(&cfg.APIKey, os.Getenv(EnvAPIKey))

	if d, err := time.ParseDuration(os.Getenv(EnvCacheMaxAge)); err == nil {
		cfg.CacheMaxAge = d
	}
	if d, err := time.ParseDuration(os.Getenv(EnvJobTTL)); err == nil {
		cfg.JobTTL = d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvCacheMaxCount))); err == nil && n >= 0 {
		cfg.CacheMaxCount = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvWorkers))); err == nil && n > 0 {
		cfg.Workers = n
	}

	setBool := func(dst *bool, envKey string) {
		if v, ok := parseBool(os.Getenv(envKey)); ok {
			*dst = v
		}
	}
	setBool(&cfg.NoReview, EnvNoReview)
	setBool(&cfg.CacheClear, EnvCacheClear)
	setBool(&cfg.CacheStrictPerms, EnvCacheStrictPerms)
	setBool(&cfg.Verbose, EnvVerbose)
}
