package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/metrics"
	appmw "server/internal/middleware"
)

// Options configures the router middleware chain.
type Options struct {
	Logger          zerolog.Logger
	JWTSecret       string
	CORSAllowAll    bool
	CORSOrigins     []string
	DefaultLocale   string
	CountryLookup   appmw.CountryLookup
	RateLimitPerMin int
	Metrics         metrics.Recorder
	Gatherer        prometheus.Gatherer
}

// NewRouter builds the HTTP surface: the public marketing endpoints
// under /api and the identity/profile services under /v1.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		appmw.Recover(opts.Logger),
		appmw.Logger(opts.Logger),
		appmw.CORS(opts.CORSAllowAll, opts.CORSOrigins),
		appmw.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.Metrics != nil {
		r.Use(metrics.Middleware(opts.Metrics))
	}
	if opts.RateLimitPerMin > 0 {
		r.Use(appmw.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	// Both unmatched paths and unmatched methods fall through to the
	// same catch-all envelope.
	routeNotFound := func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "Route not found",
			"path":  req.URL.Path,
		})
	}
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	// Marketing site surface
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)
		r.Get("/dashboard/stats", app.DashboardStats)
		r.Get("/products", app.Products)
		r.Post("/auth/signup", app.SignupEcho)
	})

	// Identity provider + document store surface
	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Healthz)
		r.Post("/auth/register", app.AuthRegister)
		r.Post("/auth/login", app.AuthLogin)
		r.Post("/auth/reset", app.AuthReset)

		r.Group(func(r chi.Router) {
			r.Use(appmw.AuthJWT(opts.JWTSecret))
			r.Post("/auth/logout", app.AuthLogout)
			r.Get("/session", app.Session)
			r.Put("/account/display-name", app.SetDisplayName)
			r.Get("/profiles/{id}", app.ProfileGet)
			r.Put("/profiles/{id}", app.ProfilePut)
		})
	})

	if opts.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(opts.Gatherer).ServeHTTP)
	}

	return r
}
