package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bbl-digital/sales-enablement-portal/internal/chat"
	"github.com/bbl-digital/sales-enablement-portal/internal/export"
	"github.com/bbl-digital/sales-enablement-portal/internal/extract"
	"github.com/bbl-digital/sales-enablement-portal/internal/feedback"
	httpmiddleware "github.com/bbl-digital/sales-enablement-portal/internal/http/middleware"
	"github.com/bbl-digital/sales-enablement-portal/internal/qualify"
	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/internal/state"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Forwarder          *relay.Forwarder
	RecsTarget         relay.Target
	QualifyTarget      relay.Target
	FeedbackHandler    *feedback.Handler
	ChatHandler        *chat.Handler
	ExportHandler      *export.Handler
	ExtractHandler     *extract.Handler
	StateHandler       *state.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		relay.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/feedback", cfg.FeedbackHandler.Submit)

		api.Route("/product-chat", func(r chi.Router) {
			r.Post("/", cfg.ChatHandler.SendMessage)
			r.Get("/history", cfg.ChatHandler.History)
			r.Get("/ws", cfg.ChatHandler.HandleWebSocket)
		})

		api.Route("/product-recs", func(r chi.Router) {
			r.Post("/", cfg.Forwarder.ProxyHandler(cfg.RecsTarget))
			if cfg.ExportHandler != nil {
				r.Post("/export", cfg.ExportHandler.Export)
			}
		})

		api.Route("/qualify-leads", func(r chi.Router) {
			r.Post("/", cfg.Forwarder.ProxyHandler(cfg.QualifyTarget))
			r.Get("/checklist", qualify.ChecklistHandler)
		})

		if cfg.ExtractHandler != nil {
			api.Post("/extract", cfg.ExtractHandler.Extract)
		}

		if cfg.StateHandler != nil {
			api.Route("/state/{namespace}", func(r chi.Router) {
				r.Get("/", cfg.StateHandler.Snapshot)
				r.Delete("/", cfg.StateHandler.Clear)
				r.Put("/{key}", cfg.StateHandler.Put)
				r.Delete("/{key}", cfg.StateHandler.Remove)
			})
		}
	})

	return r
}
