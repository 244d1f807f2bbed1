package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/tuition-onboarding/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/tuition-onboarding/internal/http/middleware"
	"github.com/wolfman30/tuition-onboarding/internal/relay"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Onboarding     *handlers.OnboardingHandler
	Relay          *relay.Handler
	MetricsHandler http.Handler

	// SubmitLimiter throttles both submission routes when set.
	SubmitLimiter *httpmiddleware.SubmitLimiter
	// OnboardingToken, when set, is required on every /api route.
	OnboardingToken    string
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	submitLimit := func(next http.Handler) http.Handler { return next }
	if cfg.SubmitLimiter != nil {
		submitLimit = cfg.SubmitLimiter.Middleware
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.MaxBody(cfg.MaxBodyBytes))
		api.Use(requireOnboardingToken(cfg.OnboardingToken))

		if cfg.Relay != nil {
			api.With(submitLimit).Post("/submit", cfg.Relay.Submit)
		}

		if h := cfg.Onboarding; h != nil {
			api.Route("/onboarding", func(form chi.Router) {
				form.Get("/draft", h.NewDraft)
				form.Post("/steps", h.Steps)
				form.Post("/navigate", h.Navigate)
				form.Post("/validate", h.Validate)
				form.Post("/totals", h.Totals)
				form.Post("/schedule/slots", h.AddSlot)
				form.Post("/schedule/slots/remove", h.RemoveSlot)
				form.With(submitLimit).Post("/submit", h.Submit)
			})
		}
	})

	return r
}
