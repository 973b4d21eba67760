package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"priceshield/internal/config"
	"priceshield/internal/metrics"
	"priceshield/internal/storage"
	serverhttp "priceshield/server/http"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	st, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage")
	}
	defer st.Close()

	// listings not re-scraped within the retention window go stale;
	// sweep them at startup and then once a day
	sweep := func() {
		removed, err := st.CleanOld(context.Background(), cfg.RetentionDays)
		if err != nil {
			logger.Warn().Err(err).Msg("retention sweep")
			return
		}
		if removed > 0 {
			logger.Info().Int64("removed", removed).Int("days", cfg.RetentionDays).Msg("stale listings removed")
		}
	}
	sweep()
	go func() {
		for range time.Tick(24 * time.Hour) {
			sweep()
		}
	}()

	mon := metrics.NewMonitor()

	r := serverhttp.NewRouter(cfg, logger, st, mon)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
