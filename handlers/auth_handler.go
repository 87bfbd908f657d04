package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/rps-country-cup/services"
)

type AdminLogin interface {
	Login(password string) (string, time.Time, error)
}

type AuthHandler struct {
	auth   AdminLogin
	logger *slog.Logger
}

func NewAuthHandler(auth AdminLogin, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	token, expires, err := h.auth.Login(input.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		errorResponse(w, r, h.logger, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, services.ErrAuthNotConfigured):
		errorResponse(w, r, h.logger, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		serverErrorResponse(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "expires_at": expires}); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
