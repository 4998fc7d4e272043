package http

import (
	"net/http"

	"github.com/keygateio/keygate/internal/auth/service"
	"github.com/keygateio/keygate/pkg/httpx"
	"github.com/keygateio/keygate/pkg/slogx"
)

// MeHandler serves GET /api/auth/me: the public profile of the
// authenticated user.
type MeHandler struct {
	Auth *service.AuthService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing authenticated user")
		return
	}

	profile, err := h.Auth.CurrentUser(ctx, username)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}
