package handlers

import (
	"net/http"
	"time"
)

// Health is the public health probe of the marketing site API.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "POS System API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Healthz is the internal liveness probe.
func (a *App) Healthz(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
