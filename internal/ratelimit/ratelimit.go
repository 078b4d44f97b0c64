package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces a sliding-window request limit per client IP
type Limiter struct {
	maxRequests int
	window      time.Duration
	enabled     bool

	// Request tracking per IP
	visitors map[string][]time.Time
	mu       sync.Mutex
}

// NewLimiter creates a limiter allowing maxRequests per window for each IP
func NewLimiter(maxRequests int, window time.Duration, enabled bool) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		enabled:     enabled,
		visitors:    make(map[string][]time.Time),
	}
}

// Allow checks whether a request from ip is within the limit.
// Returns true if allowed, false if the rate limit is exceeded.
func (l *Limiter) Allow(ip string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	requests := filterTimes(l.visitors[ip], cutoff)

	if len(requests) >= l.maxRequests {
		l.visitors[ip] = requests
		return false
	}

	l.visitors[ip] = append(requests, now)
	return true
}

// RetryAfter returns how long the given IP must wait before its oldest
// tracked request falls out of the window. Zero when not limited.
func (l *Limiter) RetryAfter(ip string) time.Duration {
	if !l.enabled {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	requests := filterTimes(l.visitors[ip], now.Add(-l.window))
	l.visitors[ip] = requests

	if len(requests) < l.maxRequests {
		return 0
	}
	return requests[0].Add(l.window).Sub(now)
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Sweep drops IPs whose tracked requests have all expired. Called
// periodically so idle clients don't accumulate forever.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.window)
	for ip, times := range l.visitors {
		kept := filterTimes(times, cutoff)
		if len(kept) == 0 {
			delete(l.visitors, ip)
		} else {
			l.visitors[ip] = kept
		}
	}
}

// Stats contains limiter statistics
type Stats struct {
	Enabled    bool `json:"enabled"`
	TrackedIPs int  `json:"tracked_ips"`
	Limit      int  `json:"limit"`
	WindowSecs int  `json:"window_seconds"`
}

// GetStats returns current limiter statistics
func (l *Limiter) GetStats() Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		Enabled:    true,
		TrackedIPs: len(l.visitors),
		Limit:      l.maxRequests,
		WindowSecs: int(l.window.Seconds()),
	}
}

// Reset clears all tracked requests (useful for testing)
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string][]time.Time)
}
