package api

import (
	"context"
	"net/http"

	domainerrors "github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/http/response"
	"github.com/listenupapp/swatches/internal/session"
)

// sessionMiddleware binds page and palette requests to a browser session.
// A missing, tampered or expired cookie starts a new session; a valid one past
// half its lifetime is reissued for the same session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil || !needsSession(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var (
			sessionID string
			token     string
			claims    *session.Claims
			err       error
		)

		if existing := session.TokenFromRequest(r); existing != "" {
			claims, err = s.tokens.Verify(existing)
			if err != nil {
				s.logger.Debug("discarding session cookie", "error", err)
			}
		}

		switch {
		case claims == nil:
			token, claims, err = s.tokens.NewSession()
			if err == nil {
				sessionID = claims.SessionID
				s.logger.Debug("session started", "session_id", sessionID)
			}
		case s.tokens.NeedsRefresh(claims):
			sessionID = claims.SessionID
			token, claims, err = s.tokens.Issue(sessionID)
		default:
			sessionID = claims.SessionID
		}
		if err != nil {
			s.logger.Error("failed to issue session token", "error", err)
			response.HandleError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "session unavailable"), s.logger)
			return
		}

		if token != "" {
			http.SetCookie(w, session.Cookie(token, claims, s.opts.CookieSecure))
		}

		next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), sessionID)))
	})
}

// sessionID extracts the session bound by sessionMiddleware.
func sessionID(ctx context.Context) (string, error) {
	sid, ok := session.IDFromContext(ctx)
	if !ok {
		return "", domainerrors.Unauthorized("session required")
	}
	return sid, nil
}
