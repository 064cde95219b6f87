package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/jspicer/mediahub/internal/auth"
	"github.com/jspicer/mediahub/internal/shared"
)

// sessionCookieName is the cookie the login handler sets alongside the JSON token.
const sessionCookieName = "mediahub_session"

type contextKey string

const sessionKey contextKey = "session"

// sessionFromContext returns the verified session stored by sessionMiddleware.
func sessionFromContext(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey).(*auth.Session)
	return session
}

// requestLogger logs one line per request through the application logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// sessionMiddleware verifies the session token from the Authorization header
// or the session cookie and stores the session in the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			s.writeError(w, shared.ErrNotAuthenticated)
			return
		}

		session, err := s.auth.VerifyToken(token)
		if err != nil {
			s.writeError(w, shared.ErrNotAuthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware gates a route on the reserved admin username. It assumes
// sessionMiddleware already ran.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		if session == nil || session.Username != s.config.Session.AdminUsername {
			s.writeError(w, shared.ErrNotAuthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cronMiddleware gates the maintenance endpoint on the shared secret, taken
// from the X-Cron-Secret header or the secret query parameter.
func (s *Server) cronMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := s.config.Cron.Secret
		if secret == "" {
			s.writeError(w, shared.ErrNotAuthorized)
			return
		}

		supplied := r.Header.Get("X-Cron-Secret")
		if supplied == "" {
			supplied = r.URL.Query().Get("secret")
		}

		if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			s.writeError(w, shared.ErrNotAuthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
