package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/middleware"
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

type tokenResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func toUserDTO(id *domain.Identity) userDTO {
	return userDTO{ID: id.ID, Email: id.Email, DisplayName: id.DisplayName}
}

// AuthRegister creates an account and returns a bearer token for it.
func (a *App) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	identity, err := a.Identity.CreateAccount(r.Context(), req.Email, req.Password)
	if err != nil {
		a.domainError(w, err)
		return
	}
	token, err := a.Identity.IssueToken(identity)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.Metrics.RecordSignup()
	a.json(w, http.StatusCreated, tokenResponse{Token: token, User: toUserDTO(identity)})
}

// AuthLogin verifies a credential and returns a bearer token.
func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	identity, err := a.Identity.VerifyCredential(r.Context(), req.Email, req.Password)
	if err != nil {
		a.Metrics.RecordLoginFailure()
		a.domainError(w, err)
		return
	}
	token, err := a.Identity.IssueToken(identity)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.Metrics.RecordLogin()
	a.json(w, http.StatusOK, tokenResponse{Token: token, User: toUserDTO(identity)})
}

// AuthLogout ends the bearer session. Tokens are stateless, so this only
// confirms the client may discard its copy.
func (a *App) AuthLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// AuthReset requests a password-reset message for the submitted email.
func (a *App) AuthReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if err := a.Identity.SendPasswordReset(r.Context(), req.Email); err != nil {
		a.domainError(w, err)
		return
	}
	a.Metrics.RecordPasswordReset()
	a.json(w, http.StatusAccepted, map[string]string{"message": "password reset sent"})
}

// Session returns the identity behind the bearer token. The API client
// uses it to restore a session at startup.
func (a *App) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toUserDTO(identity))
}

// SetDisplayName updates the caller's display name.
func (a *App) SetDisplayName(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}
	var req displayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Identity.SetDisplayName(r.Context(), identity.ID, req.DisplayName); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) currentIdentity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return nil, false
	}
	identity, err := a.Identity.Authenticate(r.Context(), middleware.BearerToken(r))
	if err != nil {
		a.domainError(w, err)
		return nil, false
	}
	return identity, true
}

func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		a.error(w, http.StatusBadRequest, "invalid_email", err.Error())
	case errors.Is(err, domain.ErrWeakPassword):
		a.error(w, http.StatusBadRequest, "weak_password", err.Error())
	case errors.Is(err, domain.ErrEmailInUse):
		a.error(w, http.StatusConflict, "email_in_use", err.Error())
	case errors.Is(err, domain.ErrUnknownAccount):
		a.error(w, http.StatusUnauthorized, "unknown_account", err.Error())
	case errors.Is(err, domain.ErrInvalidCredential):
		a.error(w, http.StatusUnauthorized, "invalid_credential", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
