// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often idle visitors are dropped from the map.
const sweepInterval = 5 * time.Minute

// visitor holds the request timestamps of one client IP inside the
// sliding window.
type visitor struct {
	mu   sync.Mutex
	hits []time.Time
}

// RateLimiter caps requests per client IP over a sliding window. Use
// NewRateLimiter and call Stop on shutdown.
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	done     chan struct{}
}

// NewRateLimiter allows limit requests per window for each client IP
// and starts the background sweep of idle visitors.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		done:     make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.done:
				return
			}
		}
	}()

	return rl
}

// Stop ends the sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.RLock()
	v, ok := rl.visitors[ip]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		// Another request may have created the visitor in between.
		v, ok = rl.visitors[ip]
		if !ok {
			v = &visitor{}
			rl.visitors[ip] = v
		}
		rl.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	v.mu.Lock()
	defer v.mu.Unlock()

	fresh := v.hits[:0]
	for _, ts := range v.hits {
		if ts.After(cutoff) {
			fresh = append(fresh, ts)
		}
	}
	v.hits = fresh

	if len(v.hits) >= rl.limit {
		return false
	}
	v.hits = append(v.hits, now)
	return true
}

// sweep drops visitors whose hits have all aged out of the window.
func (rl *RateLimiter) sweep() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		v.mu.Lock()
		active := false
		for _, ts := range v.hits {
			if ts.After(cutoff) {
				active = true
				break
			}
		}
		v.mu.Unlock()

		if !active {
			delete(rl.visitors, ip)
		}
	}
}

// Middleware rejects over-limit clients with a 429 JSON message body,
// matching the error shape the handlers use.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"Too many requests, please try again later"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the originating address, trusting X-Forwarded-For
// (leftmost entry) and X-Real-IP before falling back to RemoteAddr
// with the port stripped.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
