package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/atriumhq/atrium/internal/intranet/metrics"
	"github.com/atriumhq/atrium/internal/intranet/service"
	"github.com/atriumhq/atrium/internal/intranet/store"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/jwtx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthzService     *service.AuthzService
	BootstrapService *service.BootstrapService
	UserService      *service.UserService
	SessionService   *service.SessionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
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
	r.registerSession()
	r.registerSetup()
	r.registerAuthz()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &ProvisionHandler{
		BootstrapService: r.BootstrapService,
		SessionService:   r.SessionService,
	}

	// POST /session/provision - moderate rate limit by IP (sign-in path,
	// runs once per session, but the first call can mint the owner)
	r.Mux.Handle("POST /v1/session/provision",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSetup() {
	// POST /setup/owner - strict rate limit by IP (one-time setup endpoint,
	// unauthenticated by necessity: no owner exists yet to authenticate)
	h := &SetupOwnerHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/setup/owner",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAuthz() {
	h := &AuthzCheckHandler{AuthzService: r.AuthzService}

	// POST /authz/check - lenient rate limit by identity (pages call this
	// on every protected render)
	r.Mux.Handle("POST /v1/authz/check",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		AuthzService:   r.AuthzService,
		UserService:    r.UserService,
		SessionService: r.SessionService,
	}

	authed := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users/me", authed(http.HandlerFunc(h.HandleMe)))
	r.Mux.Handle("GET /v1/users", authed(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/users/{id}", authed(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PATCH /v1/users/{id}", authed(http.HandlerFunc(h.HandleUpdateProfile)))
	r.Mux.Handle("PUT /v1/users/{id}/role", authed(http.HandlerFunc(h.HandleChangeRole)))
	r.Mux.Handle("PUT /v1/users/{id}/status", authed(http.HandlerFunc(h.HandleSetStatus)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
