// Package router wires all HTTP endpoints onto a chi router.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swifthomeoffer/cashoffer-platform/internal/booking"
	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel"
	httpmiddleware "github.com/swifthomeoffer/cashoffer-platform/internal/http/middleware"
	"github.com/swifthomeoffer/cashoffer-platform/internal/leads"
	"github.com/swifthomeoffer/cashoffer-platform/internal/offer"
	"github.com/swifthomeoffer/cashoffer-platform/internal/property"
	"github.com/swifthomeoffer/cashoffer-platform/internal/scheduling"
	"github.com/swifthomeoffer/cashoffer-platform/internal/slots"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	OfferHandler       *offer.Handler
	PropertyHandler    *property.Handler
	SchedulingHandler  *scheduling.Handler
	BookingHandler     *booking.Handler
	SlotsHandler       *slots.Handler
	FunnelHandler      *funnel.Handler
	LeadsHandler       *leads.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string
	PublicRateLimit    float64
	PublicRateBurst    int
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

	// Public endpoints the landing pages call directly.
	r.Group(func(public chi.Router) {
		if cfg.PublicRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateBurst))
		}

		public.Get("/health", healthCheck)
		if cfg.OfferHandler != nil {
			public.Post("/calculate-offer", cfg.OfferHandler.Calculate)
		}
		if cfg.PropertyHandler != nil {
			public.Get("/property-lookup", cfg.PropertyHandler.Lookup)
		}
		if cfg.SchedulingHandler != nil {
			public.Get("/get-available-slots", cfg.SchedulingHandler.GetAvailableSlots)
		}
		if cfg.BookingHandler != nil {
			public.Post("/book-appointment", cfg.BookingHandler.BookAppointment)
		}
		if cfg.SlotsHandler != nil {
			public.Get("/slots", cfg.SlotsHandler.Get)
			public.Post("/slots", cfg.SlotsHandler.Decrement)
		}
		if cfg.FunnelHandler != nil {
			public.Mount("/funnel", cfg.FunnelHandler.Routes())
		}
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" && cfg.LeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
			admin.Get("/leads/{leadID}", cfg.LeadsHandler.GetLead)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
