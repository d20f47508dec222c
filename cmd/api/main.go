package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cseifert512/Drafted/internal/adapter/repo"
	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/http/handlers"
	"github.com/cseifert512/Drafted/internal/http/httpapi"
	"github.com/cseifert512/Drafted/internal/infra"
	"github.com/cseifert512/Drafted/internal/jobs"
	provider "github.com/cseifert512/Drafted/internal/providers/image"
	"github.com/cseifert512/Drafted/internal/storage"
	"github.com/cseifert512/Drafted/internal/store"
	"github.com/cseifert512/Drafted/internal/validate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var jobStore domain.JobStore = store.NewMemory()
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		jobStore = repo.NewJobStore(pool)
		logger.Info().Msg("using postgres job store")
	}

	var generator provider.Generator
	switch cfg.GeneratorProvider {
	case "stub":
		generator = provider.NewStub()
		logger.Warn().Msg("using stub generator; edits will be rejected by validation")
	default:
		generator = provider.NewGeminiEditor(provider.GeminiOptions{
			BaseURL: cfg.GeminiBaseURL,
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.GeneratorTimeout,
		})
	}

	validator := validate.New(validate.Config{
		MarkerRMin:           200,
		MarkerGMax:           80,
		MarkerBMax:           80,
		MarkerMaxFrac:        cfg.MarkerMaxFrac,
		ChangeDelta:          uint8(cfg.ChangeDelta),
		ContaminationMaxFrac: cfg.ContaminationMaxFrac,
		OversizedMaxRatio:    cfg.OversizedMaxRatio,
	})

	svc := jobs.NewService(ctx, jobStore, generator, validator, logger, jobs.Config{
		MaxRetries: cfg.MaxRetries,
		PaddingPx:  cfg.PaddingPx,
	})
	if cfg.DebugArtifactDir != "" {
		artifacts, err := storage.NewArtifactStore(cfg.DebugArtifactDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize artifact store")
		}
		svc.WithArtifacts(artifacts)
		logger.Info().Str("dir", artifacts.BasePath()).Msg("artifact dumping enabled")
	}

	app := handlers.NewApp(svc, logger)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SubmitRateLimit:    cfg.SubmitRateLimit,
		SubmitRateWindow:   cfg.SubmitRateWindow,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Let in-flight edit jobs reach a terminal state before exit.
	done := make(chan struct{})
	go func() {
		svc.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn().Msg("timed out waiting for jobs to drain")
	}
	logger.Info().Msg("server stopped")
}
