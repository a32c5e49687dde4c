package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
	"server/internal/metrics"
)

// App bundles the dependencies shared by the HTTP handlers.
type App struct {
	Logger   zerolog.Logger
	Identity *identity.Service
	Profiles domain.ProfileRepository
	Metrics  metrics.Recorder
}

// NewApp creates the handler container.
func NewApp(logger zerolog.Logger, svc *identity.Service, profiles domain.ProfileRepository, rec metrics.Recorder) *App {
	return &App{Logger: logger, Identity: svc, Profiles: profiles, Metrics: rec}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
