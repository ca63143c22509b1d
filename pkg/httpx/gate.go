package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/profiles/pkg/jwtx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// CallbackParam is the query parameter carrying the originally requested URL
// on a sign-in redirect.
const CallbackParam = "callbackURL"

// DefaultLoginPath is where unauthenticated requests are sent.
const DefaultLoginPath = "/login"

// DefaultPublicPrefixes is the public surface: sign-in and registration
// entry points, the auth API namespace, the favicon and static assets.
var DefaultPublicPrefixes = []string{
	"/login",
	"/register",
	"/api/auth",
	"/favicon.ico",
	"/assets/",
}

// Classification of a request path.
type Classification int

const (
	Protected Classification = iota
	Public
)

func (c Classification) String() string {
	if c == Public {
		return "public"
	}
	return "protected"
}

// Outcome of gating a single request.
type Outcome int

const (
	Allowed Outcome = iota
	DeniedRedirect
)

func (o Outcome) String() string {
	if o == DeniedRedirect {
		return "denied_redirect"
	}
	return "allowed"
}

// Decision is the result of Gate.Decide. Claims is only set for an allowed
// protected request; Location only for a redirect.
type Decision struct {
	Class    Classification
	Outcome  Outcome
	Claims   jwtx.Claims
	Location string
}

// Gate sits in front of every route. Public paths pass straight through;
// anything else needs a verified session token or gets redirected to the
// login page with the original URL attached.
type Gate struct {
	// PublicPrefixes are matched in order against the request path. Nil
	// means DefaultPublicPrefixes.
	PublicPrefixes []string
	Verifier       jwtx.Verifier
	// LoginPath defaults to DefaultLoginPath.
	LoginPath string
	// BaseURL, when set, is the public origin used to build callback URLs
	// instead of trusting the request's Host and scheme.
	BaseURL string
}

// Classify reports whether path is public. Unmatched paths are protected.
func (g *Gate) Classify(path string) Classification {
	prefixes := g.PublicPrefixes
	if prefixes == nil {
		prefixes = DefaultPublicPrefixes
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return Public
		}
	}
	return Protected
}

// Decide gates r. It never fails: a missing or invalid token is a redirect.
func (g *Gate) Decide(r *http.Request) Decision {
	class := g.Classify(r.URL.Path)
	if class == Public {
		return Decision{Class: Public, Outcome: Allowed}
	}

	for _, token := range TokensFromRequest(r) {
		if claims, err := g.Verifier.Verify(token); err == nil {
			return Decision{Class: Protected, Outcome: Allowed, Claims: claims}
		}
	}

	return Decision{
		Class:    Protected,
		Outcome:  DeniedRedirect,
		Location: g.Login() + "?" + CallbackParam + "=" + url.QueryEscape(g.RequestURL(r)),
	}
}

// Middleware runs Decide for each request. Allowed protected requests carry
// their claims in the context (see SessionFromContext).
func (g *Gate) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Decide(r)

			switch {
			case d.Outcome == DeniedRedirect:
				slogx.FromContext(r.Context()).Debug("gate: redirecting to login", "path", r.URL.Path)
				NoCache(w)
				http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
				return
			case d.Class == Protected:
				ctx := WithClaims(r.Context(), d.Claims)
				ctx = slogx.With(ctx, "user_id", d.Claims.ID)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestURL rebuilds the absolute URL the client asked for.
func (g *Gate) RequestURL(r *http.Request) string {
	return g.Origin(r) + r.URL.RequestURI()
}

// Origin is BaseURL when configured, otherwise the request's own origin.
func (g *Gate) Origin(r *http.Request) string {
	if g.BaseURL != "" {
		return strings.TrimRight(g.BaseURL, "/")
	}
	return RequestOrigin(r)
}

// SafeCallback returns raw if it points back at this service, either as a
// rooted path or as an absolute URL on Origin(r). Anything else is "/".
func (g *Gate) SafeCallback(r *http.Request, raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}

	if u.Scheme == "" && u.Host == "" {
		if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "/\\") {
			return raw
		}
		return "/"
	}

	origin, err := url.Parse(g.Origin(r))
	if err != nil || !strings.EqualFold(u.Scheme, origin.Scheme) || !strings.EqualFold(u.Host, origin.Host) {
		return "/"
	}
	return raw
}

// Login returns LoginPath, or DefaultLoginPath when unset.
func (g *Gate) Login() string {
	if g.LoginPath == "" {
		return DefaultLoginPath
	}
	return g.LoginPath
}

// RequestOrigin returns scheme://host for r, honouring X-Forwarded-Proto
// from a fronting proxy.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}
