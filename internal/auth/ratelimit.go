package auth

import (
	"sync"
	"time"
)

// LoginLimiter locks out an IP+email pair after repeated failed logins.
// Failures are counted in a window that starts at the first failure.
type LoginLimiter struct {
	mu              sync.RWMutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LoginLimitConfig contains configuration for the login limiter.
type LoginLimitConfig struct {
	MaxAttempts     int           // Maximum attempts before lockout (default: 5)
	WindowDuration  time.Duration // Time window for counting attempts (default: 15m)
	LockoutDuration time.Duration // How long to lock out after max attempts (default: 30m)
	CleanupInterval time.Duration // How often to clean up expired records (default: 5m)
}

// NewLoginLimiter creates a limiter and starts its cleanup goroutine.
func NewLoginLimiter(cfg LoginLimitConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 15 * time.Minute
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	ll := &LoginLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
		stopCleanup:     make(chan struct{}),
	}

	go ll.cleanupLoop()

	return ll
}

// Stop stops the background cleanup goroutine.
func (ll *LoginLimiter) Stop() {
	ll.stopOnce.Do(func() {
		close(ll.stopCleanup)
	})
}

func makeKey(ip, email string) string {
	return ip + "|" + email
}

// Allow checks whether a login attempt may proceed. When it may not,
// retryAfter is the remaining lockout.
func (ll *LoginLimiter) Allow(ip, email string) (bool, time.Duration) {
	now := ll.now()

	ll.mu.RLock()
	defer ll.mu.RUnlock()

	record, exists := ll.attempts[makeKey(ip, email)]
	if !exists {
		return true, 0
	}
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (ll *LoginLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := makeKey(ip, email)
	now := ll.now()

	ll.mu.Lock()
	defer ll.mu.Unlock()

	record, exists := ll.attempts[key]
	if !exists || now.Sub(record.firstAttempt) > ll.windowDuration {
		record = &attemptRecord{firstAttempt: now}
		ll.attempts[key] = record
	}

	record.count++

	if record.count >= ll.maxAttempts {
		record.lockedUntil = now.Add(ll.lockoutDuration)
		// The next failure after the lockout starts a new window.
		record.count = 0
		record.firstAttempt = now.Add(ll.lockoutDuration)
		return true, ll.lockoutDuration
	}

	return false, 0
}

// RecordSuccess clears the failure record for a successful login.
func (ll *LoginLimiter) RecordSuccess(ip, email string) {
	ll.mu.Lock()
	delete(ll.attempts, makeKey(ip, email))
	ll.mu.Unlock()
}

func (ll *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(ll.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ll.cleanup()
		case <-ll.stopCleanup:
			return
		}
	}
}

// cleanup removes records whose window and lockout have both passed.
func (ll *LoginLimiter) cleanup() {
	now := ll.now()

	ll.mu.Lock()
	defer ll.mu.Unlock()

	for key, record := range ll.attempts {
		windowExpired := now.Sub(record.firstAttempt) > ll.windowDuration
		lockoutExpired := !now.Before(record.lockedUntil)
		if windowExpired && lockoutExpired {
			delete(ll.attempts, key)
		}
	}
}
