// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"strings"
	"sync"
	"time"
)

// Lockout defaults.
const (
	// DefaultMaxAttempts is the number of failures that triggers a lockout.
	DefaultMaxAttempts = 3

	// DefaultLockDuration is the time an account stays locked after too
	// many failures.
	DefaultLockDuration = 5 * time.Minute
)

// AttemptStatus identifies the outcome of a recorded login attempt.
type AttemptStatus int

// Attempt outcomes.
const (
	// AttemptAccepted means the attempt succeeded and the failure counter
	// was reset.
	AttemptAccepted AttemptStatus = iota

	// AttemptRejected means the attempt failed; AttemptsRemaining reports
	// how many more failures are allowed before lockout.
	AttemptRejected

	// AttemptLockedOut means this failure crossed the threshold and the
	// account is now locked.
	AttemptLockedOut

	// AttemptStillLocked means the account was already locked; the
	// attempt's correctness was not evaluated.
	AttemptStillLocked
)

// String returns the status name for logging.
func (s AttemptStatus) String() string {
	switch s {
	case AttemptAccepted:
		return "accepted"
	case AttemptRejected:
		return "rejected"
	case AttemptLockedOut:
		return "locked_out"
	case AttemptStillLocked:
		return "still_locked"
	default:
		return "unknown"
	}
}

// AttemptOutcome is the result of LockoutTracker.RecordAttempt.
type AttemptOutcome struct {
	Status AttemptStatus

	// AttemptsRemaining is set when Status is AttemptRejected.
	AttemptsRemaining int

	// LockRemaining is set when Status is AttemptLockedOut or
	// AttemptStillLocked.
	LockRemaining time.Duration
}

// lockoutState is the per-username failure record. Its mutex serializes
// concurrent attempts for the same username; attempts for different
// usernames proceed in parallel.
type lockoutState struct {
	mu          sync.Mutex
	failedCount int
	lockedUntil time.Time // zero means not locked
}

// LockoutTracker tracks failed login attempts per account and enforces a
// timed lockout. State is kept in memory and created lazily on the first
// attempt for a username. Keys are compared case-insensitively so lockout
// follows the account, not the spelling of the login form.
//
// Time is always passed in explicitly so a single attempt's decision is
// internally consistent and tests can drive the clock.
type LockoutTracker struct {
	maxAttempts  int
	lockDuration time.Duration

	mu     sync.RWMutex
	states map[string]*lockoutState
}

// NewLockoutTracker creates a tracker. Non-positive arguments fall back to
// the defaults.
func NewLockoutTracker(maxAttempts int, lockDuration time.Duration) *LockoutTracker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockDuration <= 0 {
		lockDuration = DefaultLockDuration
	}
	return &LockoutTracker{
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
		states:       make(map[string]*lockoutState),
	}
}

// state returns the lockout record for a username, creating it if needed.
func (t *LockoutTracker) state(username string) *lockoutState {
	key := strings.ToLower(username)

	t.mu.RLock()
	st, ok := t.states[key]
	t.mu.RUnlock()
	if ok {
		return st
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok = t.states[key]; !ok {
		st = &lockoutState{}
		t.states[key] = st
	}
	return st
}

// RecordAttempt records the result of a login attempt and returns the
// outcome. While an account is locked the attempt's correctness is ignored
// entirely; an expired lock resets the counter and the current attempt is
// re-evaluated as if the account were active.
func (t *LockoutTracker) RecordAttempt(username string, succeeded bool, now time.Time) AttemptOutcome {
	st := t.state(username)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.lockedUntil.IsZero() {
		if now.Before(st.lockedUntil) {
			return AttemptOutcome{
				Status:        AttemptStillLocked,
				LockRemaining: st.lockedUntil.Sub(now),
			}
		}
		// Lock expired: back to active with a clean counter.
		st.lockedUntil = time.Time{}
		st.failedCount = 0
	}

	if succeeded {
		st.failedCount = 0
		return AttemptOutcome{Status: AttemptAccepted}
	}

	st.failedCount++
	if st.failedCount >= t.maxAttempts {
		st.lockedUntil = now.Add(t.lockDuration)
		return AttemptOutcome{
			Status:        AttemptLockedOut,
			LockRemaining: t.lockDuration,
		}
	}
	return AttemptOutcome{
		Status:            AttemptRejected,
		AttemptsRemaining: t.maxAttempts - st.failedCount,
	}
}

// IsLocked reports whether the account is locked at the given time. It is
// a pure query: repeated calls never change state, and an expired lock is
// only cleared by the next RecordAttempt.
func (t *LockoutTracker) IsLocked(username string, now time.Time) bool {
	return t.Remaining(username, now) > 0
}

// Remaining returns the time until the account's lock expires, or zero if
// the account is not locked.
func (t *LockoutTracker) Remaining(username string, now time.Time) time.Duration {
	key := strings.ToLower(username)

	t.mu.RLock()
	st, ok := t.states[key]
	t.mu.RUnlock()
	if !ok {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.lockedUntil.IsZero() || !now.Before(st.lockedUntil) {
		return 0
	}
	return st.lockedUntil.Sub(now)
}
