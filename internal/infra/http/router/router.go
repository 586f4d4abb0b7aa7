// Package router assembles the chi mux: cross-cutting middleware, the /api
// route tree with its role guards, /health and /metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/http/handlers"
	"github.com/xavierca1/tes-insurance/internal/infra/http/middleware"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
)

var (
	staffRoles     = []string{entity.RoleAdmin, entity.RoleAgent, entity.RoleManager}
	dashboardRoles = []string{entity.RoleAdmin, entity.RoleManager}
)

type Deps struct {
	Log          *zap.Logger
	Env          string
	Production   bool
	CORSOrigins  []string
	MaxBodyBytes int64
	// TrustProxy enables chi's RealIP; off, the socket address is the client.
	TrustProxy bool

	DB      *sqlx.DB
	Broker  handlers.Broker
	Limiter middleware.Limiter
	Tokens  middleware.TokenVerifier

	Services *Services
}

func New(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	errs := handlers.NewErrorWriter(log, d.Production)
	s := d.Services

	leadHandler := handlers.NewLeadHandler(s.Leads, s.Offers, errs)
	offerHandler := handlers.NewOfferHandler(s.Offers, errs)
	policyHandler := handlers.NewPolicyHandler(s.Policies, errs)
	contactHandler := handlers.NewContactHandler(s.Contacts, errs)
	analyticsHandler := handlers.NewAnalyticsHandler(s.Analytics, errs)
	adminHandler := handlers.NewAdminHandler(s.Auth, s.Admin, s.Dashboard, errs)
	carrierHandler := handlers.NewCarrierHandler(s.Carriers, errs)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Broker, d.Env)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.ClientInfo)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(log, d.Production))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(d.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, http.StatusMethodNotAllowed)
	})

	r.Get("/health", healthHandler.Handle)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(middleware.RateLimit(d.Limiter, log))
		}

		authenticated := middleware.Authenticate(d.Tokens)
		staff := middleware.RequireRole(staffRoles...)
		admin := middleware.RequireRole(entity.RoleAdmin)

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", leadHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, staff)
				r.Get("/", leadHandler.List)
				r.Get("/{leadId}", leadHandler.Get)
				r.Patch("/{leadId}/status", leadHandler.UpdateStatus)
				r.Delete("/{leadId}", leadHandler.Close)
				r.Post("/{leadId}/offers", leadHandler.CreateOffer)
			})
		})

		r.Route("/offers", func(r chi.Router) {
			r.Use(authenticated, staff)
			r.Get("/{quoteId}", offerHandler.Get)
			r.Patch("/{quoteId}/status", offerHandler.UpdateStatus)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Use(authenticated, staff)
			r.Post("/", policyHandler.Bind)
			r.Get("/", policyHandler.List)
			r.Get("/{policyId}", policyHandler.Get)
			r.Patch("/{policyId}/status", policyHandler.UpdateStatus)
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", contactHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, staff)
				r.Get("/", contactHandler.List)
				r.Get("/{messageId}", contactHandler.Get)
				r.Patch("/{messageId}/status", contactHandler.UpdateStatus)
				r.Delete("/{messageId}", contactHandler.Delete)
			})
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/track", analyticsHandler.Track)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, staff)
				r.Get("/events", analyticsHandler.Events)
				r.Get("/summary", analyticsHandler.Summary)
			})
		})

		r.Route("/carriers", func(r chi.Router) {
			r.Get("/", carrierHandler.List)
			r.Get("/{id}", carrierHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, admin)
				r.Post("/", carrierHandler.Create)
				r.Patch("/{id}", carrierHandler.Update)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.With(middleware.OptionalAuthenticate(d.Tokens)).Post("/register", adminHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.With(middleware.RequireRole(dashboardRoles...)).Get("/dashboard", adminHandler.Dashboard)

				r.Group(func(r chi.Router) {
					r.Use(admin)
					r.Get("/health", healthHandler.System)
					r.Get("/audit-logs", adminHandler.AuditLogs)
					r.Get("/users", adminHandler.Users)
					r.Patch("/users/{id}/active", adminHandler.SetUserActive)
				})
			})
		})
	})

	return r
}
