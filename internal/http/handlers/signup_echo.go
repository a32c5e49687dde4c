package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"server/internal/middleware"
)

type signupEchoRequest struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessType string `json:"businessType"`
}

// SignupEcho is the marketing site's signup endpoint: it echoes the
// submitted fields with a generated id and timestamp and persists
// nothing. Field checks live in the form; the real account flow is the
// /v1 surface.
func (a *App) SignupEcho(w http.ResponseWriter, r *http.Request) {
	var req signupEchoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if country := middleware.CountryFromContext(r.Context()); country != "" {
		a.Logger.Debug().Str("country", country).Str("business_type", req.BusinessType).Msg("marketing signup")
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account created successfully",
		"user": map[string]any{
			"id":           uuid.NewString(),
			"businessName": req.BusinessName,
			"email":        req.Email,
			"phone":        req.Phone,
			"businessType": req.BusinessType,
			"createdAt":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}
