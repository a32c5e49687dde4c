package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
)

type profileDTO struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	Phone        string    `json:"phone"`
	BusinessType string    `json:"business_type"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
	TrialStart   time.Time `json:"trial_start"`
	TrialEnd     time.Time `json:"trial_end"`
}

func toProfileDTO(p *domain.ProfileRecord) profileDTO {
	return profileDTO{
		ID:           p.ID,
		BusinessName: p.BusinessName,
		Phone:        p.Phone,
		BusinessType: string(p.BusinessType),
		Plan:         p.Plan,
		CreatedAt:    p.CreatedAt,
		TrialStart:   p.TrialStart,
		TrialEnd:     p.TrialEnd,
	}
}

func fromProfileDTO(d profileDTO) domain.ProfileRecord {
	return domain.ProfileRecord{
		ID:           d.ID,
		BusinessName: d.BusinessName,
		Phone:        d.Phone,
		BusinessType: domain.BusinessType(d.BusinessType),
		Plan:         d.Plan,
		CreatedAt:    d.CreatedAt,
		TrialStart:   d.TrialStart,
		TrialEnd:     d.TrialEnd,
	}
}

// ProfileGet reads the caller's profile record. Only the owner may read it.
func (a *App) ProfileGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if middleware.UserIDFromContext(r.Context()) != id {
		a.error(w, http.StatusForbidden, "forbidden", "profile belongs to another account")
		return
	}

	record, err := a.Profiles.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProfileDTO(record))
}

// ProfilePut writes the caller's profile record.
func (a *App) ProfilePut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if middleware.UserIDFromContext(r.Context()) != id {
		a.error(w, http.StatusForbidden, "forbidden", "profile belongs to another account")
		return
	}

	var dto profileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	dto.ID = id
	if dto.BusinessType != "" && !domain.BusinessType(dto.BusinessType).Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown business type")
		return
	}

	record := fromProfileDTO(dto)
	if err := a.Profiles.Put(r.Context(), &record); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
