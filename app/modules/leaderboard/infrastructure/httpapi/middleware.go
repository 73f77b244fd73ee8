package leaderboardhttp

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// idleWindow is how long a bucket survives without traffic. Buckets live one
// or two windows depending on when they were last touched.
const idleWindow = 10 * time.Minute

type identityKey struct{}

// IdentityFromContext returns the authenticated identity set by RequireIdentity.
func IdentityFromContext(ctx context.Context) (leaderboarddomain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(leaderboarddomain.Identity)
	return id, ok
}

// RequireIdentity rejects requests without a valid bearer token and stores the
// token's identity on the request context.
func RequireIdentity(tokens *TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, errMissingToken)
				return
			}

			id, err := tokens.ValidateToken(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
		})
	}
}

// IdentityRateLimiter hands out one token bucket per identity. Buckets are
// kept in two generations: every idleWindow the current generation becomes
// the previous one and the old previous generation is dropped, so an identity
// idle for two windows starts again with a full bucket.
type IdentityRateLimiter struct {
	mu       sync.Mutex
	current  map[leaderboarddomain.Identity]*rate.Limiter
	previous map[leaderboarddomain.Identity]*rate.Limiter
	rotated  time.Time
	now      func() time.Time

	r rate.Limit
	b int
}

// NewIdentityRateLimiter creates a limiter allowing r requests per second with burst b.
func NewIdentityRateLimiter(r rate.Limit, b int) *IdentityRateLimiter {
	return &IdentityRateLimiter{
		current:  make(map[leaderboarddomain.Identity]*rate.Limiter),
		previous: make(map[leaderboarddomain.Identity]*rate.Limiter),
		rotated:  time.Now(),
		now:      time.Now,
		r:        r,
		b:        b,
	}
}

// Allow reports whether id may make a request now and spends a token if so.
func (l *IdentityRateLimiter) Allow(id leaderboarddomain.Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.rotated) >= idleWindow {
		l.previous, l.current = l.current, make(map[leaderboarddomain.Identity]*rate.Limiter, len(l.current))
		l.rotated = now
	}

	lim, ok := l.current[id]
	if !ok {
		if lim, ok = l.previous[id]; ok {
			delete(l.previous, id)
		} else {
			lim = rate.NewLimiter(l.r, l.b)
		}
		l.current[id] = lim
	}
	return lim.AllowN(now, 1)
}

// size returns the number of tracked identities.
func (l *IdentityRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.current) + len(l.previous)
}

// RateLimitMiddleware limits requests per authenticated identity. It must run
// after RequireIdentity.
func RateLimitMiddleware(limiter *IdentityRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if ok && !limiter.Allow(id) {
				writeError(w, http.StatusTooManyRequests, errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
