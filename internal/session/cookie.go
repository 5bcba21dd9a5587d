package session

import (
	"context"
	"net/http"
)

// CookieName is the name of the session cookie.
const CookieName = "swatches_session"

type contextKey struct{}

// WithID stores the session id in ctx.
func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

// IDFromContext returns the session id stored by WithID.
func IDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(contextKey{}).(string)
	return sessionID, ok && sessionID != ""
}

// TokenFromRequest returns the session token cookie value, if any.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Cookie builds the HttpOnly cookie carrying token.
func Cookie(token string, claims *Claims, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt,
		MaxAge:   int(claims.ExpiresAt.Sub(claims.IssuedAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
