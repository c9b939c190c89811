// Package ratelimit bounds how fast a single chat session may fire queries.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 1,
		BurstSize:         3,
	}
}

// SessionLimiter keeps one token bucket per chat session.
type SessionLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

func NewSessionLimiter(cfg Config) *SessionLimiter {
	return &SessionLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

func (l *SessionLimiter) limiter(session string) *rate.Limiter {
	l.mu.RLock()
	lim, exists := l.limiters[session]
	l.mu.RUnlock()
	if exists {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, exists = l.limiters[session]; exists {
		return lim
	}
	lim = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[session] = lim
	return lim
}

// Allow reports whether the session may send a query right now. Chat is
// interactive, so the limiter rejects instead of queueing.
func (l *SessionLimiter) Allow(session string) bool {
	return l.limiter(session).Allow()
}

// Forget drops a session's bucket after the conversation is deleted.
func (l *SessionLimiter) Forget(session string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, session)
}
