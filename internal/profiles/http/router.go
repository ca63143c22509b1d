package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"

	_ "github.com/aussiebroadwan/profiles/api/profiles" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits groups the three limiter profiles used by the routes.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

// DefaultRateLimits returns the httpx default profiles.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gate         *httpx.Gate
	cookies      httpx.CookieOptions
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	conn         store.Conn

	Limits RateLimits
	// MaxUploadBytes caps the avatar part of a profile edit.
	MaxUploadBytes int64

	IdentityService     *service.IdentityService
	RegistrationService *service.RegistrationService
	ProfileService      *service.ProfileService
	SessionService      *service.SessionService
	GoogleService       *service.GoogleService // Optional: nil when Google sign-in is not configured
}

func NewRouter(
	gate *httpx.Gate,
	cookies httpx.CookieOptions,
	buildVersion string,
	conn store.Conn,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		gate:           gate,
		cookies:        cookies,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		conn:           conn,
		Limits:         DefaultRateLimits(),
		MaxUploadBytes: 5 << 20,
	}

	// Logging runs first so the gate's debug lines carry the request id.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		gate.Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerGoogle()
	r.registerProfile()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Profiles Service API
//	@version		0.1.0
//	@description	Session-gated user profiles. Every path outside the public prefixes needs a valid session token,
//	@description	otherwise the request is redirected to /login?callbackURL=<original URL>.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/profiles
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						session_token
//	@description				HS256 session token set by a successful sign-in.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	register := &RegisterHandler{RegistrationService: r.RegistrationService}
	credentials := &CredentialsHandler{
		IdentityService: r.IdentityService,
		SessionService:  r.SessionService,
		Gate:            r.gate,
		Cookies:         r.cookies,
	}
	session := &SessionHandler{
		SessionService: r.SessionService,
		Gate:           r.gate,
		Cookies:        r.cookies,
		GoogleEnabled:  r.GoogleService != nil,
	}

	// Registration and password sign-in are limited by IP + email to slow
	// down credential stuffing against a single account.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(register,
			httpx.RateLimitByIPAndField(r.Limits.Strict, "email"),
		),
	)
	r.Mux.Handle("POST /api/auth/callback/credentials",
		httpx.Chain(credentials,
			httpx.RateLimitByIPAndField(r.Limits.Strict, "email"),
		),
	)

	r.Mux.Handle("GET /api/auth/session",
		httpx.Chain(http.HandlerFunc(session.HandleSession),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("POST /api/auth/signout",
		httpx.Chain(http.HandlerFunc(session.HandleSignOut),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("GET /api/auth/providers",
		httpx.Chain(http.HandlerFunc(session.HandleProviders),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}

func (r *Router) registerGoogle() {
	if r.GoogleService == nil {
		return
	}

	h := &GoogleHandler{
		GoogleService:  r.GoogleService,
		SessionService: r.SessionService,
		Gate:           r.gate,
		Cookies:        r.cookies,
	}

	r.Mux.Handle("GET /api/auth/signin/google",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("GET /api/auth/callback/google",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{
		ProfileService: r.ProfileService,
		MaxUploadBytes: r.MaxUploadBytes,
	}

	// Both routes sit behind the gate, so the user id is always known.
	r.Mux.Handle("GET /api/user",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByUser(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("POST /api/edit",
		httpx.Chain(http.HandlerFunc(h.HandleEdit),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerPages() {
	h := &PagesHandler{Gate: r.gate, GoogleEnabled: r.GoogleService != nil}

	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	home := httpx.Chain(http.HandlerFunc(h.HandleHome),
		httpx.RateLimitByUser(r.Limits.Lenient),
	)
	r.Mux.Handle("GET /{$}", home)
	r.Mux.Handle("GET /edit", home)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.conn, r.ProfileService),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}
