package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/gymsuite/gymsuite-backend/config"
	cronjob "github.com/gymsuite/gymsuite-backend/internal/accounts/cron"
	accountservice "github.com/gymsuite/gymsuite-backend/internal/accounts/service"
	"github.com/gymsuite/gymsuite-backend/internal/auth"
	"github.com/gymsuite/gymsuite-backend/internal/bootstrap"
	clubservice "github.com/gymsuite/gymsuite-backend/internal/clubs/service"
	"github.com/gymsuite/gymsuite-backend/internal/logger"
	"github.com/gymsuite/gymsuite-backend/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment, cfg.App.Name)
	bootstrap.SetGinMode(cfg.App.Environment)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("store close error")
		}
	}()

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := accountservice.NewAccountService(
		store.Accounts,
		accountservice.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		cfg.Auth.ResetTokenTTL,
	)

	if cfg.Firebase.CredentialsPath != "" {
		fbClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize firebase")
		}
		accounts.WithGoogleVerifier(auth.NewGoogleVerifier(fbClient))
		log.Info().Msg("google sign-up verification enabled")
	}

	clubs := clubservice.NewClubService(store.Clubs, accounts)

	scheduler := cronjob.NewScheduler(accounts, cfg.Auth.ResetSweepSchedule, cfg.Store.Timeout)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Auth.ResetSweepSchedule).Msg("failed to start reset token sweeper")
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:   cfg,
		Store:    store,
		Accounts: accounts,
		Clubs:    clubs,
		Tokens:   tokens,
	})
	bootstrap.LogRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("require_auth", cfg.Auth.RequireAuth).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutdown signal received")

	scheduler.Stop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	} else {
		log.Info().Msg("server shutdown complete")
	}
}
