package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/proposalcheck/internal/app"
)

// Exit codes.
const (
	exitApproved    = 0
	exitFailure     = 1
	exitShort       = 2
	exitNotApproved = 3
)

// options carries the flags that do not map onto app.Config directly.
type options struct {
	configPath string
	envFiles   []string
	version    bool
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitApproved)
		}
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(exitFailure)
	}
	if opts.version {
		fmt.Printf("proposalcheck %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, opts)
	if err != nil && !errors.Is(err, app.ErrNotApproved) && !errors.Is(err, app.ErrDocumentTooShort) {
		log.Error().Err(err).Msg("run failed")
	}
	os.Exit(exitCode(err))
}

// parseFlags reads command line flags. Unset flags stay zero so that the
// environment and config file can fill them later.
func parseFlags(args []string, stderr io.Writer) (app.Config, options, error) {
	var (
		cfg                   app.Config
		opts                  options
		envFiles              string
		chapterPromptFile     string
		methodologyPromptFile string
	)
	fs := flag.NewFlagSet("proposalcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.InputPath, "input", "", "Path to the proposal (.docx, .md, .html, .pdf, .txt); '-' reads text from stdin")
	fs.StringVar(&cfg.OutputPath, "output", "", "Report path; extension selects .md, .json, .pdf or .xlsx; '-' writes JSON to stdout (default report.md)")
	fs.StringVar(&opts.configPath, "config", "", "Optional YAML, JSON or TOML config file")
	fs.StringVar(&envFiles, "env", "", "Comma-separated dotenv files to load before reading the environment")
	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (default Gemini)")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Model name for content review")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for content review; falls back to GEMINI_API_KEY")
	fs.BoolVar(&cfg.LLMPreflight, "llm.preflight", false, "List models before the run to verify credentials")
	fs.BoolVar(&cfg.NoReview, "no-review", false, "Skip the content review even when a key is configured")
	fs.StringVar(&cfg.ChapterPrompt, "review.chapterPrompt", "", "Override chapter review instructions (inline string)")
	fs.StringVar(&chapterPromptFile, "review.chapterPromptFile", "", "Path to a file with chapter review instructions")
	fs.StringVar(&cfg.MethodologyPrompt, "review.methodologyPrompt", "", "Override methodology review instructions (inline string)")
	fs.StringVar(&methodologyPromptFile, "review.methodologyPromptFile", "", "Path to a file with methodology review instructions")
	fs.StringVar(&cfg.CacheDir, "cache.dir", "", "Directory for cached review answers; empty disables caching")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this (e.g. 168h); 0 disables")
	fs.IntVar(&cfg.CacheMaxCount, "cache.maxCount", 0, "Keep at most this many cache entries; 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory before the run")
	fs.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.StringVar(&cfg.PDFFontPath, "pdf.font", "", "TrueType font with Hebrew glyphs for PDF reports")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, options{}, err
	}
	if cfg.InputPath == "" && fs.NArg() > 0 {
		cfg.InputPath = fs.Arg(0)
	}
	for _, p := range strings.Split(envFiles, ",") {
		if p = strings.TrimSpace(p); p != "" {
			opts.envFiles = append(opts.envFiles, p)
		}
	}
	if chapterPromptFile != "" {
		b, err := os.ReadFile(chapterPromptFile)
		if err != nil {
			return app.Config{}, options{}, fmt.Errorf("read chapter prompt: %w", err)
		}
		cfg.ChapterPrompt = string(b)
	}
	if methodologyPromptFile != "" {
		b, err := os.ReadFile(methodologyPromptFile)
		if err != nil {
			return app.Config{}, options{}, fmt.Errorf("read methodology prompt: %w", err)
		}
		cfg.MethodologyPrompt = string(b)
	}
	return cfg, opts, nil
}

func run(ctx context.Context, flagCfg app.Config, opts options) error {
	if err := app.LoadEnvFiles(opts.envFiles...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	cfg, err := app.Resolve(flagCfg, opts.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	return a.Run(ctx)
}

// exitCode maps the outcome of run to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitApproved
	case errors.Is(err, app.ErrNotApproved):
		return exitNotApproved
	case errors.Is(err, app.ErrDocumentTooShort):
		return exitShort
	default:
		return exitFailure
	}
}
