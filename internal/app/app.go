// Package app wires configuration, document extraction, the checks and the
// report writers into the runnable proposal checker.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/proposalcheck/internal/audit"
	"github.com/hyperifyio/proposalcheck/internal/cache"
	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/extract"
	"github.com/hyperifyio/proposalcheck/internal/llm"
	"github.com/hyperifyio/proposalcheck/internal/report"
	"github.com/hyperifyio/proposalcheck/internal/review"
)

// Sentinel outcomes of Run, mapped to exit codes by the CLI.
var (
	// ErrDocumentTooShort is returned when the input is empty or too short
	// to check. The report is still written.
	ErrDocumentTooShort = errors.New("document is empty or too short")
	// ErrNotApproved is returned when the checks completed but the proposal
	// was not approved. The report is still written.
	ErrNotApproved = errors.New("proposal not approved")
)

// App runs checks with one configuration. It is safe for concurrent use by
// multiple goroutines; each Check call is independent.
type App struct {
	cfg      Config
	client   llm.Client
	reviewer *review.Reviewer
	answers  *cache.ReviewCache
	now      func() time.Time
}

// Option customizes an App.
type Option func(*App)

// WithClient replaces the model client, for example with a test stub.
func WithClient(c llm.Client) Option {
	return func(a *App) { a.client = c }
}

// WithClock sets the clock used for bibliography recency and run metadata.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New prepares an App: cache maintenance, the reviewer and, when enabled, a
// best-effort model preflight.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	if err := validateCommon(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, now: time.Now}
	if dir := strings.TrimSpace(cfg.CacheDir); dir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(dir); err != nil {
				return nil, fmt.Errorf("clear cache: %w", err)
			}
		}
		if n, err := cache.PurgeByAge(dir, cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("purged expired cache entries")
		}
		if n, err := cache.EnforceLimits(dir, 0, cfg.CacheMaxCount); err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("evicted cache entries")
		}
		a.answers = &cache.ReviewCache{Dir: dir, StrictPerms: cfg.CacheStrictPerms}
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil && cfg.ReviewEnabled() {
		a.client = llm.NewProvider(cfg.LLMAPIKey, cfg.LLMBaseURL)
	}
	a.reviewer = newReviewer(cfg, a.client, a.answers)
	if cfg.LLMPreflight && a.reviewer.Enabled() {
		a.preflight(ctx)
	}
	return a, nil
}

func newReviewer(cfg Config, client llm.Client, c *cache.ReviewCache) *review.Reviewer {
	if !cfg.ReviewEnabled() {
		return nil
	}
	return review.New(review.Options{
		Client:                  client,
		APIKey:                  cfg.LLMAPIKey,
		BaseURL:                 cfg.LLMBaseURL,
		Model:                   cfg.LLMModel,
		Cache:                   c,
		ChapterInstructions:     cfg.ChapterPrompt,
		MethodologyInstructions: cfg.MethodologyPrompt,
	})
}

// preflight lists models to surface credential or endpoint problems early.
// Failures are logged only.
func (a *App) preflight(ctx context.Context) {
	lister, ok := a.client.(llm.ModelLister)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Close releases resources held by the App.
func (a *App) Close() {}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// Check runs every check over doc read from source and returns the result
// with its run metadata.
func (a *App) Check(ctx context.Context, doc document.Document, source string) (audit.Result, report.Meta) {
	meta := report.NewMeta(source, doc, a.now())
	meta.Version = BuildVersion
	meta.ReviewEnabled = a.reviewer.Enabled()
	if meta.ReviewEnabled {
		meta.Model = a.cfg.LLMModel
		if meta.Model == "" {
			meta.Model = llm.DefaultModel
		}
		meta.LLMBaseURL = a.cfg.LLMBaseURL
		if meta.LLMBaseURL == "" {
			meta.LLMBaseURL = llm.DefaultBaseURL
		}
		meta.LLMCache = a.answers != nil
	}
	res := audit.Run(ctx, doc, audit.Options{Reviewer: a.reviewer, Now: a.now})
	log.Info().
		Str("run", meta.RunID).
		Str("source", source).
		Bool("error", res.Error).
		Bool("approved", res.Approved()).
		Msg("proposal checked")
	return res, meta
}

// ReportOptions returns the report writer options for this configuration.
func (a *App) ReportOptions() report.Options {
	return report.Options{PDF: report.PDFOptions{FontPath: a.cfg.PDFFontPath}}
}

// Run reads the configured input, checks it and writes the report. It
// returns ErrDocumentTooShort or ErrNotApproved after a successful write
// when the outcome calls for it.
func (a *App) Run(ctx context.Context) error {
	doc, source, err := a.readInput()
	if err != nil {
		return err
	}
	res, meta := a.Check(ctx, doc, source)
	if err := report.WriteFile(a.cfg.OutputPath, res, meta, a.ReportOptions()); err != nil {
		return err
	}
	if a.cfg.OutputPath != "-" {
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote report")
	}
	switch {
	case res.Error:
		return ErrDocumentTooShort
	case !res.Approved():
		return ErrNotApproved
	}
	return nil
}

// readInput extracts the input document. "-" reads plain text from stdin.
func (a *App) readInput() (document.Document, string, error) {
	path := a.cfg.InputPath
	if path == "-" {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, extract.MaxInputBytes))
		if err != nil {
			return document.Document{}, "", fmt.Errorf("read stdin: %w", err)
		}
		doc, err := extract.Text{}.Extract(b)
		return doc, "stdin", err
	}
	doc, err := extract.FromFile(path)
	if err != nil {
		return document.Document{}, "", fmt.Errorf("read input: %w", err)
	}
	return doc, path, nil
}
