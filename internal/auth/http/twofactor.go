package http

import (
	"encoding/json"
	"net/http"

	"github.com/keygateio/keygate/internal/auth/service"
	"github.com/keygateio/keygate/pkg/httpx"
	"github.com/keygateio/keygate/pkg/slogx"
)

// TwoFactorHandler serves the authenticated second-factor enrollment
// endpoints. The username comes from the session token via AuthnMiddleware.
type TwoFactorHandler struct {
	TwoFactor *service.TwoFactorService
}

// HandleSetup handles POST /api/auth/2fa/setup.
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing authenticated user")
		return
	}

	setup, err := h.TwoFactor.Setup(ctx, username)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TwoFactorSetupResponse{
		Secret:          setup.Secret,
		ProvisioningURI: setup.ProvisioningURI,
		QRCode:          setup.QRCode,
		Message: "Scan the QR code or enter the secret manually in your authenticator app. " +
			"Then verify with a code to enable 2FA.",
	})
}

// HandleConfirm handles POST /api/auth/2fa/confirm.
func (h *TwoFactorHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing authenticated user")
		return
	}

	var req TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	token, err := h.TwoFactor.Confirm(ctx, username, req.Code)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("second factor enabled", "username", username, "user_id", httpx.UserIDFromContext(ctx))

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(token, "Two-factor authentication enabled successfully"))
}

// HandleDisable handles DELETE /api/auth/2fa.
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing authenticated user")
		return
	}

	if err := h.TwoFactor.Disable(ctx, username); err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("second factor disabled", "username", username, "user_id", httpx.UserIDFromContext(ctx))

	w.WriteHeader(http.StatusNoContent)
}
