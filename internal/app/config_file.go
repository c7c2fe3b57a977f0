package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to flags and environment variables.
type FileConfig struct {
	Input  string `yaml:"input" json:"input" toml:"input"`
	Output string `yaml:"output" json:"output" toml:"output"`

	LLM struct {
		BaseURL   string `yaml:"base" json:"base" toml:"base"`
		Model     string `yaml:"model" json:"model" toml:"model"`
		APIKey    string `yaml:"key" json:"key" toml:"key"`
		Preflight bool   `yaml:"preflight" json:"preflight" toml:"preflight"`
	} `yaml:"llm" json:"llm" toml:"llm"`

	Review struct {
		Enable                *bool  `yaml:"enable" json:"enable" toml:"enable"`
		ChapterPrompt         string `yaml:"chapterPrompt" json:"chapterPrompt" toml:"chapterPrompt"`
		ChapterPromptFile     string `yaml:"chapterPromptFile" json:"chapterPromptFile" toml:"chapterPromptFile"`
		MethodologyPrompt     string `yaml:"methodologyPrompt" json:"methodologyPrompt" toml:"methodologyPrompt"`
		MethodologyPromptFile string `yaml:"methodologyPromptFile" json:"methodologyPromptFile" toml:"methodologyPromptFile"`
	} `yaml:"review" json:"review" toml:"review"`

	Cache struct {
		Dir         string   `yaml:"dir" json:"dir" toml:"dir"`
		MaxAge      Duration `yaml:"maxAge" json:"maxAge" toml:"maxAge"`
		MaxCount    int      `yaml:"maxCount" json:"maxCount" toml:"maxCount"`
		Clear       bool     `yaml:"clear" json:"clear" toml:"clear"`
		StrictPerms bool     `yaml:"strictPerms" json:"strictPerms" toml:"strictPerms"`
	} `yaml:"cache" json:"cache" toml:"cache"`

	PDF struct {
		Font string `yaml:"font" json:"font" toml:"font"`
	} `yaml:"pdf" json:"pdf" toml:"pdf"`

	Server struct {
		Listen  string   `yaml:"listen" json:"listen" toml:"listen"`
		APIKey  string   `yaml:"apiKey" json:"apiKey" toml:"apiKey"`
		Workers int      `yaml:"workers" json:"workers" toml:"workers"`
		JobTTL  Duration `yaml:"jobTTL" json:"jobTTL" toml:"jobTTL"`
	} `yaml:"server" json:"server" toml:"server"`

	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`
}

// Duration is a time.Duration written as a Go duration string such as "24h"
// in every config file format.
type Duration time.Duration

func (d *Duration) set(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML and YAML.
func (d *Duration) UnmarshalText(b []byte) error { return d.set(string(b)) }

// UnmarshalJSON accepts a duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.set(s)
}

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error { return d.set(node.Value) }

// LoadConfigFile reads YAML, JSON or TOML into FileConfig, choosing the
// format by extension.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(b), &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for fields that are
// still unset. Prompt files are read relative to the working directory.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	setString := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	setString(&cfg.InputPath, fc.Input)
	setString(&cfg.OutputPath, fc.Output)
	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)
	if fc.LLM.Preflight {
		cfg.LLMPreflight = true
	}
	if fc.Review.Enable != nil && !*fc.Review.Enable {
		cfg.NoReview = true
	}
	setString(&cfg.ChapterPrompt, fc.Review.ChapterPrompt)
	setString(&cfg.MethodologyPrompt, fc.Review.MethodologyPrompt)
	if cfg.ChapterPrompt == "" && fc.Review.ChapterPromptFile != "" {
		b, err := os.ReadFile(fc.Review.ChapterPromptFile)
		if err != nil {
			return fmt.Errorf("read chapter prompt: %w", err)
		}
		cfg.ChapterPrompt = string(b)
	}
	if cfg.MethodologyPrompt == "" && fc.Review.MethodologyPromptFile != "" {
		b, err := os.ReadFile(fc.Review.MethodologyPromptFile)
		if err != nil {
			return fmt.Errorf("read methodology prompt: %w", err)
		}
		cfg.MethodologyPrompt = string(b)
	}

	setString(&cfg.CacheDir, fc.Cache.Dir)
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}
	if cfg.CacheMaxCount == 0 && fc.Cache.MaxCount > 0 {
		cfg.CacheMaxCount = fc.Cache.MaxCount
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	setString(&cfg.PDFFontPath, fc.PDF.Font)
	setString(&cfg.ListenAddr, fc.Server.Listen)
	setString(&cfg.APIKey, fc.Server.APIKey)
	if cfg.Workers == 0 && fc.Server.Workers > 0 {
		cfg.Workers = fc.Server.Workers
	}
	if cfg.JobTTL == 0 && fc.Server.JobTTL > 0 {
		cfg.JobTTL = time.Duration(fc.Server.JobTTL)
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}
