package httpx

import (
	"context"

	"github.com/aussiebroadwan/profiles/pkg/jwtx"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// WithClaims attaches verified claims to ctx.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// ClaimsFromContext returns the verified claims the Gate attached, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

// SessionFromContext returns the caller's session view. ok is false on
// public routes or when no valid token was presented.
func SessionFromContext(ctx context.Context) (jwtx.Session, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return jwtx.Session{}, false
	}
	return jwtx.DeriveSession(c), true
}
