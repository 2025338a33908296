package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/config"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/metrics"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
)

// Services bundles the services the router exposes.
type Services struct {
	System      *service.SystemService
	Holdings    *service.HoldingsService
	Transaction *service.TransactionService
	Asset       *service.AssetService
	Account     *service.AccountService
	Snapshot    *service.SnapshotService
	Settings    *service.SettingsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
	}
	r.Use(custommiddleware.NewCORS(cfg.CORS))

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingsHandler := handlers.NewHoldingsHandler(svc.Holdings)
			r.Get("/", holdingsHandler.Holdings)
			r.Get("/summary", holdingsHandler.Summary)
			r.Get("/report", holdingsHandler.Report)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
			r.Get("/", transactionHandler.Transactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/assets", func(r chi.Router) {
			assetHandler := handlers.NewAssetHandler(svc.Asset)
			r.Get("/", assetHandler.Assets)
			r.Post("/", assetHandler.CreateAsset)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", assetHandler.GetAsset)
				r.Put("/manual-price", assetHandler.SetManualPrice)
				r.Post("/prices", assetHandler.RecordPrice)
			})
		})

		r.Route("/accounts", func(r chi.Router) {
			accountHandler := handlers.NewAccountHandler(svc.Account)
			r.Get("/", accountHandler.Accounts)
			r.Post("/", accountHandler.CreateAccount)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", accountHandler.GetAccount)
				r.Put("/archive", accountHandler.ArchiveAccount)
			})
		})

		r.Route("/snapshots", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshot)
			r.Get("/", snapshotHandler.SnapshotHistory)
			r.Post("/", snapshotHandler.TakeSnapshot)
			r.Get("/latest", snapshotHandler.LatestSnapshot)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)
			r.Get("/", settingsHandler.Settings)
			r.Put("/", settingsHandler.UpdateSettings)
		})
	})

	return r
}
