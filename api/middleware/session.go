package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shopsmart/shopsmart-backend/pkg/logger"
)

const sessionCookieName = "shopsmart_session"

type sessionCtxKey struct{}

// CartSession binds the request to a shopper session. A valid session
// cookie is reused; otherwise a fresh id is issued and set on the
// response. The id lands in the request context for the cart handlers.
func CartSession(ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := uuid.Nil
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = parsed
				}
			}
			if sessionID == uuid.Nil {
				sessionID = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID.String(),
					Path:     "/",
					MaxAge:   int(ttl / time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID stores the session id on the context.
func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionIDFromContext returns the bound session id, or uuid.Nil when
// the request never passed through CartSession.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(sessionCtxKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
