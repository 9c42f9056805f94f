package chi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SearchRateLimiter limits search requests per client address. Each client
// gets perMinute requests per minute with a burst of the same size.
type SearchRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSearchRateLimiter creates a limiter. perMinute <= 0 disables limiting.
func NewSearchRateLimiter(perMinute int) *SearchRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &SearchRateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether the client may search now. A nil limiter allows
// everything.
func (l *SearchRateLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.limiters[client]
	if !ok {
		l.evictIdle(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[client] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters of clients not seen for l.idle. Caller holds mu.
func (l *SearchRateLimiter) evictIdle(now time.Time) {
	for k, cl := range l.limiters {
		if now.Sub(cl.lastSeen) > l.idle {
			delete(l.limiters, k)
		}
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
