package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	cmpHnd "priceshield/internal/compare/handler"
	"priceshield/internal/compare/model"
	"priceshield/internal/config"
	"priceshield/internal/metrics"
	"priceshield/internal/middleware"
	"priceshield/internal/storage"
	"priceshield/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, st *storage.Store, mon *metrics.Monitor) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit -> metrics
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))
	r.Use(middleware.Metrics(mon))

	opt := model.DefaultOptions()

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.HandlerFor(mon.Registry, promhttp.HandlerOpts{}))

	r.Post("/compare", cmpHnd.Compare(opt, mon, logger))
	r.Post("/compare/upload", cmpHnd.CompareUpload(opt, mon, logger))
	r.Post("/dedupe", cmpHnd.Dedupe(opt, mon, logger))

	r.Post("/listings", cmpHnd.SaveListings(st, mon, logger))
	r.Get("/search/saved", cmpHnd.SearchSaved(st, logger))
	r.Get("/searches/popular", cmpHnd.PopularSearches(st, logger))
	r.Get("/listings/history", cmpHnd.PriceHistory(st, logger))

	return r
}
