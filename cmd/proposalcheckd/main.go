package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/proposalcheck/internal/app"
	"github.com/hyperifyio/proposalcheck/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339

	var (
		flagCfg    app.Config
		configPath string
		envFiles   string
		jsonLogs   bool
	)
	flag.StringVar(&configPath, "config", "", "Optional YAML, JSON or TOML config file")
	flag.StringVar(&envFiles, "env", "", "Comma-separated dotenv files to load")
	flag.StringVar(&flagCfg.ListenAddr, "listen", "", "Listen address (default :8080)")
	flag.IntVar(&flagCfg.Workers, "workers", 0, "Number of concurrent check workers (default 2)")
	flag.BoolVar(&flagCfg.NoReview, "no-review", false, "Disable content review")
	flag.BoolVar(&flagCfg.Verbose, "v", false, "Verbose logging")
	flag.BoolVar(&jsonLogs, "log.json", false, "Write JSON logs instead of console output")
	flag.Parse()

	if !jsonLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	var paths []string
	for _, p := range strings.Split(envFiles, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if err := app.LoadEnvFiles(paths...); err != nil {
		log.Fatal().Err(err).Msg("load env")
	}
	cfg, err := app.ResolveServer(flagCfg, configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := app.ValidateServerConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app")
	}
	defer a.Close()

	orch := server.NewOrchestrator(server.OrchestratorConfig{Workers: cfg.Workers, JobTTL: cfg.JobTTL}, a)
	orch.Start(ctx)

	srv := server.New(orch, server.Config{APIKey: cfg.APIKey, Report: a.ReportOptions()})
	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
		orch.Stop()
	}()

	if cfg.APIKey == "" {
		log.Warn().Msg("no API key configured; the check endpoints are unauthenticated")
	}
	log.Info().
		Str("addr", cfg.ListenAddr).
		Int("workers", cfg.Workers).
		Bool("review", cfg.ReviewEnabled()).
		Str("version", app.BuildVersion).
		Msg("starting proposalcheckd")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
