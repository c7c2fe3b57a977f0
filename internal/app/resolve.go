package app

import "strings"

// Resolve layers configuration for the CLI: explicitly set flags in
// flagCfg win, then environment variables, then the optional config file,
// then defaults.
func Resolve(flagCfg Config, configPath string) (Config, error) {
	cfg := flagCfg
	ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return Config{}, err
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return Config{}, err
		}
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// ResolveServer layers configuration for the HTTP server: the optional
// config file first, environment variables over it, and non-zero fields of
// flagCfg last.
func ResolveServer(flagCfg Config, configPath string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(configPath) != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return Config{}, err
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return Config{}, err
		}
	}
	ApplyEnvOverrides(&cfg)
	overlayNonZero(&cfg, flagCfg)
	ApplyDefaults(&cfg)
	return cfg, nil
}

func overlayNonZero(dst *Config, src Config) {
	str := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	str(&dst.LLMBaseURL, src.LLMBaseURL)
	str(&dst.LLMModel, src.LLMModel)
	str(&dst.LLMAPIKey, src.LLMAPIKey)
	str(&dst.CacheDir, src.CacheDir)
	str(&dst.PDFFontPath, src.PDFFontPath)
	str(&dst.ListenAddr, src.ListenAddr)
	str(&dst.APIKey, src.APIKey)
	if src.Workers > 0 {
		dst.Workers = src.Workers
	}
	if src.JobTTL > 0 {
		dst.JobTTL = src.JobTTL
	}
	if src.NoReview {
		dst.NoReview = true
	}
	if src.Verbose {
		dst.Verbose = true
	}
}
