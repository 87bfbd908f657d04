package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/rps-country-cup/handlers"
	api "github.com/Dosada05/rps-country-cup/routes"
	"github.com/Dosada05/rps-country-cup/services"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func runServe(c *cli.Context, a *app) error {
	if err := a.cfg.ValidateServer(); err != nil {
		return err
	}

	runner := services.NewSerialTournament(a.tournament)

	tournamentHandler := handlers.NewTournamentHandler(runner, a.logger)
	authHandler := handlers.NewAuthHandler(services.NewAuthService(a.cfg.AdminPasswordHash, a.cfg.JWTSecretKey), a.logger)
	webSocketHandler := handlers.NewWebSocketHandler(a.hub, a.cfg.AllowedOrigins, a.logger)
	logger := a.logger
	logger.Info("handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, tournamentHandler, authHandler, webSocketHandler, api.Options{
		JWTSecret:      []byte(a.cfg.JWTSecretKey),
		AllowedOrigins: a.cfg.AllowedOrigins,
		Metrics:        promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, ctx := errgroup.WithContext(c.Context)

	g.Go(func() error {
		a.hub.Run(ctx)
		logger.Info("WebSocket hub stopped")
		return nil
	})

	g.Go(func() error {
		runScheduler(ctx, runner, a.cfg.ScheduleInterval, logger)
		return nil
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server gracefully stopped")
		return nil
	})

	return g.Wait()
}

// runScheduler advances the tournament once at startup and then on every tick.
func runScheduler(ctx context.Context, runner *services.SerialTournament, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("match scheduler started", slog.Duration("interval", interval))

	tick := func() {
		report, err := runner.Advance(ctx)
		if err != nil {
			logger.Error("scheduler: advance failed", slog.Any("error", err))
			return
		}
		logReport(logger, report)
	}

	tick()
	for {
		select {
		case <-ctx.Done():
			logger.Info("match scheduler stopped")
			return
		case <-ticker.C:
			tick()
		}
	}
}
