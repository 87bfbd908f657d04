package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/Dosada05/rps-country-cup/config"
	"github.com/Dosada05/rps-country-cup/db"
	"github.com/Dosada05/rps-country-cup/repositories"
	"github.com/Dosada05/rps-country-cup/services"
	"github.com/Dosada05/rps-country-cup/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app holds the wired components for one process.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *services.Metrics
	hub        *brackets.Hub
	catalog    repositories.CatalogRepository
	tournament *services.TournamentService
	dbConn     *sql.DB
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = services.NewMetrics(a.registry)
	a.hub = brackets.NewHub(logger)
	a.catalog = repositories.NewFileCatalogRepository(cfg.CatalogPath, logger)

	states, history, err := a.openRepositories(ctx)
	if err != nil {
		return nil, err
	}

	rng := brackets.NewRand(cfg.RandomSeed)
	selector, err := brackets.NewPairSelector(cfg.PairingStrategy, rng)
	if err != nil {
		a.Close()
		return nil, err
	}

	renderer, err := a.renderer(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	engine := brackets.NewEngine(brackets.EngineConfig{
		Selector: selector,
		Moves:    brackets.NewRandomMoves(rng),
		Renderer: renderer,
		Poster:   a.poster(),
		Notifier: a.hub,
		Logger:   logger,
	})

	a.tournament = services.NewTournamentService(
		states,
		a.catalog,
		services.NewHistoryRecorder(history, logger),
		engine,
		a.metrics,
		logger,
	)
	logger.Info("tournament wired",
		slog.String("backend", cfg.StateBackend),
		slog.String("strategy", selector.GetName()),
		slog.Bool("posting", cfg.X.Enabled()),
		slog.Bool("archive", cfg.R2.Enabled()))
	return a, nil
}

func (a *app) openRepositories(ctx context.Context) (repositories.StateRepository, repositories.HistoryRepository, error) {
	if a.cfg.StateBackend != config.BackendPostgres {
		return repositories.NewFileStateRepository(a.cfg.StatePath),
			repositories.NewFileHistoryRepository(a.cfg.HistoryPath, a.logger),
			nil
	}

	conn, err := db.Connect(a.cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	a.dbConn = conn
	a.logger.Info("database connection established")
	return repositories.NewPostgresStateRepository(conn), repositories.NewPostgresHistoryRepository(conn), nil
}

func (a *app) renderer(ctx context.Context) (brackets.Renderer, error) {
	base := services.NewImageRenderer(a.cfg.MatchImagePath, a.cfg.BattleIconPath, a.logger)
	if !a.cfg.R2.Enabled() {
		return base, nil
	}

	uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
		AccountID:       a.cfg.R2.AccountID,
		AccessKeyID:     a.cfg.R2.AccessKeyID,
		SecretAccessKey: a.cfg.R2.SecretAccessKey,
		BucketName:      a.cfg.R2.BucketName,
		PublicBaseURL:   a.cfg.R2.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	return services.NewArchivingRenderer(base, uploader, a.logger), nil
}

func (a *app) poster() brackets.Poster {
	if !a.cfg.X.Enabled() {
		a.logger.Warn("X credentials not configured, posts will only be logged")
		return services.NewLogPoster(a.logger)
	}
	return services.NewSocialPoster(
		services.NewXClient(a.cfg.X),
		services.SocialPosterConfig{
			RateLimitBackoff: a.cfg.X.RateLimitBackoff,
			MinPostInterval:  a.cfg.X.MinPostInterval,
		},
		a.metrics,
		a.logger,
	)
}

func (a *app) scraper() *services.ScrapeService {
	return services.NewScrapeService(&http.Client{Timeout: 30 * time.Second}, a.cfg.ScrapeURL, a.cfg.FlagsDir, a.catalog, a.logger)
}

func (a *app) Close() {
	if a.dbConn == nil {
		return
	}
	if err := a.dbConn.Close(); err != nil {
		a.logger.Error("failed to close database connection", slog.Any("error", err))
	} else {
		a.logger.Info("database connection closed")
	}
}
