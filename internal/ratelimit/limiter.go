// Package ratelimit throttles outbound scrapes per provider host so one exit
// identity does not hammer a results page.
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		Burst:             4,
	}
}

type HostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Config
}

// NewHostLimiter returns a limiter; a non-positive rate disables throttling.
func NewHostLimiter(cfg Config) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.RLock()
	l, ok := h.limiters[host]
	h.mu.RUnlock()
	if ok {
		return l
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok = h.limiters[host]; ok {
		return l
	}

	l = newLimiter(h.defaults.RequestsPerSecond, h.defaults.Burst)
	h.limiters[host] = l
	return l
}

// newLimiter treats a non-positive rate as unthrottled and keeps burst at least 1.
func newLimiter(rps float64, burst int) *rate.Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

// SetHostLimit overrides the default bucket for one host.
func (h *HostLimiter) SetHostLimit(host string, rps float64, burst int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limiters[strings.ToLower(host)] = newLimiter(rps, burst)
}

// Limit reports the rate and burst applied to rawURL's host.
func (h *HostLimiter) Limit(rawURL string) (rate.Limit, int) {
	l := h.limiterFor(hostOf(rawURL))
	return l.Limit(), l.Burst()
}

// Wait blocks until a request to rawURL's host may proceed or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	return h.limiterFor(hostOf(rawURL)).Wait(ctx)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.ToLower(u.Host)
}
