package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/logging"
	"github.com/dmitrijs2005/pdfnotes/internal/netx"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

type ctxKey string

const userKey ctxKey = "user"

// currentUser returns the user placed in the context by the auth gate.
func currentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// bearerToken returns the last space-separated field of the Authorization
// header, so both "Bearer <jwt>" and a bare "<jwt>" work.
func bearerToken(r *http.Request) string {
	fields := strings.Fields(r.Header.Get(common.AuthorizationHeaderName))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// authenticate rejects requests without a valid bearer token and stores the
// token's user in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return s.makeHandler(func(w http.ResponseWriter, r *http.Request) error {
		token := bearerToken(r)
		if token == "" {
			return errUnauthorized("Token missing", common.ErrTokenMissing)
		}

		user, err := s.users.Authenticate(r.Context(), token)
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			return errUnauthorized("Token expired", err)
		case errors.Is(err, common.ErrInvalidToken):
			return errUnauthorized("Invalid token", err)
		case errors.Is(err, common.ErrorNotFound):
			return errUnauthorized("User not found", err)
		case err != nil:
			return err
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		return nil
	})
}

// requestLogger writes one line per request once it completes.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote_ip", netx.ClientIP(r),
			)
		})
	}
}

// visitorTTL is how long an idle client's limiter is kept.
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client address. Idle buckets are
// pruned lazily while serving requests.
type ipRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

func newIPRateLimiter(perMinute, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    max(burst, 1),
		now:      time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > visitorTTL {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(l.visitors, k)
			}
		}
		l.lastPrune = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(netx.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
