package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"kinship/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Session is the authenticated caller of a request
type Session struct {
	UserID string
	Admin  bool
}

// Claims are the bearer token claims issued by the identity provider.
// The subject is the user id.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	jwtSecret []byte
	limiter   *security.RateLimiter
	log       *zap.Logger
}

// NewMiddleware creates a new middleware instance. An empty secret turns
// authentication off and every request is let through without a session.
func NewMiddleware(jwtSecret string, limiter *security.RateLimiter, log *zap.Logger) *Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	if jwtSecret == "" {
		log.Warn("authentication disabled: JWT_SECRET not configured")
	}
	return &Middleware{
		jwtSecret: []byte(jwtSecret),
		limiter:   limiter,
		log:       log.Named("http"),
	}
}

// AuthEnabled reports whether bearer tokens are checked
func (m *Middleware) AuthEnabled() bool {
	return len(m.jwtSecret) > 0
}

// RequireAuth is middleware that requires a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.AuthEnabled() {
			next(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			respondWithError(w, m.log, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		session, err := m.parseToken(token)
		if err != nil {
			respondWithError(w, m.log, http.StatusUnauthorized, ErrUnauthorized, "Rejected bearer token", err)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next(w, r.WithContext(ctx))
	}
}

// RequireOwner requires authentication and that the {userID} path value is
// the caller's own id, unless the caller is an admin
func (m *Middleware) RequireOwner(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !m.canActFor(r.Context(), r.PathValue("userID")) {
			respondWithError(w, m.log, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	})
}

// RequireAdmin requires an authenticated admin. With authentication off it
// refuses everything, since there is no way to tell who is asking.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.AuthEnabled() {
			respondWithError(w, m.log, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			if s := GetSessionFromContext(r.Context()); s == nil || !s.Admin {
				respondWithError(w, m.log, http.StatusForbidden, ErrForbidden, "", nil)
				return
			}
			next(w, r)
		})(w, r)
	}
}

// RateLimit is middleware that limits requests per user, or per client IP
// for anonymous callers
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next(w, r)
			return
		}

		key := security.GetClientIP(r)
		if s := GetSessionFromContext(r.Context()); s != nil {
			key = "user:" + s.UserID
		}
		if !m.limiter.Allow(key) {
			m.log.Warn("rate limit exceeded", zap.String("key", key), zap.String("path", r.URL.Path))
			respondWithError(w, m.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// canActFor reports whether the caller may read or write userID's data
func (m *Middleware) canActFor(ctx context.Context, userID string) bool {
	if !m.AuthEnabled() {
		return true
	}
	s := GetSessionFromContext(ctx)
	if s == nil {
		return false
	}
	return s.Admin || (userID != "" && s.UserID == userID)
}

func (m *Middleware) parseToken(token string) (*Session, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Session{UserID: claims.Subject, Admin: claims.Admin}, nil
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(SessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return s
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func Logging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
