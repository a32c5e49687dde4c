package apiclient

import (
	"time"

	"server/internal/domain"
)

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type displayNameRequest struct {
	DisplayName string `json:"display_name"`
}

type userDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (d userDTO) toIdentity() *domain.Identity {
	return &domain.Identity{ID: d.ID, Email: d.Email, DisplayName: d.DisplayName}
}

type tokenResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

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
