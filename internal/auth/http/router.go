package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/keygateio/keygate/internal/auth/service"
	"github.com/keygateio/keygate/internal/auth/store"
	"github.com/keygateio/keygate/pkg/httpx"
	"github.com/keygateio/keygate/pkg/slogx"
	"github.com/keygateio/keygate/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *tokenx.Service
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService      *service.AuthService
	TwoFactorService *service.TwoFactorService
}

func NewRouter(tokens *tokenx.Service, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTwoFactor()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService}

	r.Mux.Handle("POST /api/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(h.HandleVerifySecondFactor))

	me := &MeHandler{Auth: r.AuthService}
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(me,
			httpx.AuthnMiddleware(r.tokens),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactor: r.TwoFactorService}

	securedSetup := httpx.Chain(http.HandlerFunc(h.HandleSetup),
		httpx.AuthnMiddleware(r.tokens),
	)
	securedConfirm := httpx.Chain(http.HandlerFunc(h.HandleConfirm),
		httpx.AuthnMiddleware(r.tokens),
	)
	securedDisable := httpx.Chain(http.HandlerFunc(h.HandleDisable),
		httpx.AuthnMiddleware(r.tokens),
	)

	r.Mux.Handle("POST /api/auth/2fa/setup", securedSetup)
	r.Mux.Handle("POST /api/auth/2fa/confirm", securedConfirm)
	r.Mux.Handle("DELETE /api/auth/2fa", securedDisable)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
