package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/keygateio/keygate/internal/auth/service"
	"github.com/keygateio/keygate/pkg/httpx"
	"github.com/keygateio/keygate/pkg/slogx"
)

// AuthHandler serves the unauthenticated endpoints: registration, login,
// and second-factor verification.
type AuthHandler struct {
	Auth *service.AuthService
}

// HandleRegister handles POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username, email and password are required")
		return
	}

	out, err := h.Auth.Register(ctx, service.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, outcomeResponse(out, "Registration successful"))
}

// HandleLogin handles POST /api/auth/login. When the user has a second
// factor enabled and no code is supplied, the response carries a pending
// challenge token instead of a session.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	out, err := h.Auth.Login(ctx, req.Username, req.Password, req.TOTPCode)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, outcomeResponse(out, "Login successful"))
}

// HandleVerifySecondFactor handles POST /api/auth/2fa/verify. The pending
// token travels in the X-2FA-Token header; the code in the body.
func (h *AuthHandler) HandleVerifySecondFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	pendingToken := r.Header.Get("X-2FA-Token")
	if pendingToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "X-2FA-Token header is required")
		return
	}

	var req TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	out, err := h.Auth.VerifySecondFactor(ctx, pendingToken, req.Code)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, outcomeResponse(out, "Two-factor authentication successful"))
}
