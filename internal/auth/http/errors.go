package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/keygateio/keygate/internal/auth/service"
	"github.com/keygateio/keygate/pkg/httpx"
)

// writeServiceError maps the service failure taxonomy onto status codes.
// The two security-sensitive kinds keep deliberately uniform descriptions:
// nothing in the body may reveal whether the username exists, whether a
// second factor is enabled, or how close a code came.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var dup *service.DuplicateError
	switch {
	case errors.As(err, &dup):
		httpx.WriteError(w, http.StatusConflict, "duplicate_identity", dup.Field+" already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, service.ErrInvalidSecondFactor):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_second_factor", "Invalid two-factor authentication code or token")
	case errors.Is(err, service.ErrUnknownIdentity):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, service.ErrSetupNotInitiated):
		httpx.WriteError(w, http.StatusBadRequest, "setup_not_initiated", "Two-factor setup not initiated")
	default:
		log.Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
