package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadConfigFileFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.yaml": "llm:\n  model: m1\ncache:\n  dir: /tmp/c\n  maxAge: 24h\nserver:\n  jobTTL: 30m\n  workers: 3\n",
		"c.json": `{"llm":{"model":"m1"},"cache":{"dir":"/tmp/c","maxAge":"24h"},"server":{"jobTTL":"30m","workers":3}}`,
		"c.toml": "[llm]\nmodel = \"m1\"\n[cache]\ndir = \"/tmp/c\"\nmaxAge = \"24h\"\n[server]\njobTTL = \"30m\"\nworkers = 3\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			fc, err := LoadConfigFile(writeFile(t, dir, name, content))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if fc.LLM.Model != "m1" || fc.Cache.Dir != "/tmp/c" || fc.Server.Workers != 3 {
				t.Fatalf("unexpected file config %+v", fc)
			}
			if time.Duration(fc.Cache.MaxAge) != 24*time.Hour || time.Duration(fc.Server.JobTTL) != 30*time.Minute {
				t.Fatalf("durations not parsed: %v %v", fc.Cache.MaxAge, fc.Server.JobTTL)
			}
		})
	}
}

func TestLoadConfigFileRejectsBadDuration(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.yaml", "cache:\n  maxAge: soon\n")
	if _, err := LoadConfigFile(p); err == nil {
		t.Fatalf("expected an error for an invalid duration")
	}
}

func TestApplyFileConfigReadsPromptFilesAndDisablesReview(t *testing.T) {
	dir := t.TempDir()
	prompt := writeFile(t, dir, "chapter.txt", "בדוק את הפרק")
	var fc FileConfig
	fc.Review.ChapterPromptFile = prompt
	off := false
	fc.Review.Enable = &off

	cfg := Config{LLMAPIKey: "k"}
	if err := ApplyFileConfig(&cfg, fc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.ChapterPrompt != "בדוק את הפרק" {
		t.Fatalf("ChapterPrompt=%q", cfg.ChapterPrompt)
	}
	if cfg.ReviewEnabled() {
		t.Fatalf("review.enable=false must disable review")
	}

	fc.Review.ChapterPromptFile = filepath.Join(dir, "missing.txt")
	cfg = Config{}
	if err := ApplyFileConfig(&cfg, fc); err == nil {
		t.Fatalf("expected error for a missing prompt file")
	}
}

func TestResolvePrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	p := writeFile(t, dir, "c.yaml", "input: from-file.md\nllm:\n  model: file-model\n  base: http://file\n  key: file-key\n")
	t.Setenv(EnvLLMModel, "env-model")
	t.Setenv(EnvLLMBaseURL, "http://env")

	cfg, err := Resolve(Config{LLMBaseURL: "http://flag"}, p)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.LLMBaseURL != "http://flag" {
		t.Fatalf("flag must win, got %q", cfg.LLMBaseURL)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env must beat file, got %q", cfg.LLMModel)
	}
	if cfg.LLMAPIKey != "file-key" || cfg.InputPath != "from-file.md" {
		t.Fatalf("file values missing: %+v", cfg)
	}
	if cfg.OutputPath != DefaultOutputPath {
		t.Fatalf("default output not applied: %q", cfg.OutputPath)
	}
}

func TestResolveServerPrecedence(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, t.TempDir(), "c.toml", "[server]\nlisten = \":7000\"\nworkers = 5\napiKey = \"file\"\n")
	t.Setenv(EnvAPIKey, "env")

	cfg, err := ResolveServer(Config{ListenAddr: ":7001"}, p)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.ListenAddr != ":7001" || cfg.APIKey != "env" || cfg.Workers != 5 {
		t.Fatalf("unexpected layering %+v", cfg)
	}
	if cfg.JobTTL != DefaultJobTTL {
		t.Fatalf("JobTTL=%v, want default", cfg.JobTTL)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing input", Config{OutputPath: "r.md"}, "input path"},
		{"cache option without dir", Config{InputPath: "a", OutputPath: "r.md", CacheMaxCount: 3}, "cache.dir"},
		{"negative limits", Config{InputPath: "a", OutputPath: "r.md", CacheDir: "d", CacheMaxAge: -time.Second}, "negative"},
		{"pdf without font", Config{InputPath: "a", OutputPath: "out/R.PDF"}, "pdf.font"},
		{"pdf with font", Config{InputPath: "a", OutputPath: "r.pdf", PDFFontPath: "fonts/DejaVuSans.ttf"}, ""},
		{"ok", Config{InputPath: "a", OutputPath: "r.md", CacheDir: "d", CacheMaxCount: 3}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.cfg)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %v, want substring %q", err, tc.want)
			}
		})
	}
	if err := ValidateServerConfig(Config{ListenAddr: ":1", Workers: 0}); err == nil {
		t.Fatalf("zero workers must be rejected")
	}
}
