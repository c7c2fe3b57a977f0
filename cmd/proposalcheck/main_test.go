package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/proposalcheck/internal/app"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{app.EnvLLMAPIKey, app.EnvGeminiAPIKey, app.EnvNoReview, app.EnvCacheDir} {
		t.Setenv(k, "")
	}
}

func TestParseFlags(t *testing.T) {
	dir := t.TempDir()
	prompt := filepath.Join(dir, "p.txt")
	if err := os.WriteFile(prompt, []byte("הנחיות"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, opts, err := parseFlags([]string{
		"-output", "out.json", "-env", "a.env, b.env", "-review.chapterPromptFile", prompt, "proposal.docx",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.InputPath != "proposal.docx" || cfg.OutputPath != "out.json" {
		t.Fatalf("unexpected paths %+v", cfg)
	}
	if len(opts.envFiles) != 2 || opts.envFiles[1] != "b.env" {
		t.Fatalf("env files %v", opts.envFiles)
	}
	if cfg.ChapterPrompt != "הנחיות" {
		t.Fatalf("ChapterPrompt=%q", cfg.ChapterPrompt)
	}
	if _, _, err := parseFlags([]string{"-review.methodologyPromptFile", filepath.Join(dir, "none")}, io.Discard); err == nil {
		t.Fatalf("missing prompt file must fail")
	}
}

func TestRunWritesReport(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.md")
	if err := os.WriteFile(in, []byte(strings.Repeat("טקסט ללא מבנה פרקים. ", 10)), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	err := run(context.Background(), app.Config{InputPath: in, OutputPath: out}, options{})
	if !errors.Is(err, app.ErrNotApproved) {
		t.Fatalf("err=%v, want ErrNotApproved", err)
	}
	b, rerr := os.ReadFile(out)
	if rerr != nil || !strings.Contains(string(b), "לא מאושר") {
		t.Fatalf("expected a not-approved report, err=%v", rerr)
	}
}

func TestRunRequiresInput(t *testing.T) {
	clearEnv(t)
	if err := run(context.Background(), app.Config{}, options{}); exitCode(err) != exitFailure {
		t.Fatalf("missing input must fail, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitApproved},
		{app.ErrNotApproved, exitNotApproved},
		{fmt.Errorf("wrapped: %w", app.ErrDocumentTooShort), exitShort},
		{errors.New("boom"), exitFailure},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v)=%d, want %d", tc.err, got, tc.want)
		}
	}
}
