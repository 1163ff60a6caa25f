package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camisetia/storefront/pkg/logger"
)

const (
	SessionIDHeader  = "X-Session-Id"
	maxSessionIDLen  = 128
	sessionCookieAge = 30 * 24 * time.Hour
)

// Session resolves the storefront session from the X-Session-Id header or the
// session cookie, issuing a new id when neither carries a usable value.
func Session(cookieName string, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionIDHeader))
			if sessionID == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					sessionID = strings.TrimSpace(c.Value)
				}
			}
			if sessionID == "" || len(sessionID) > maxSessionIDLen {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(sessionCookieAge.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(SessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
