// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/auth"
)

func TestLockoutTracker_FailureSequence(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	out := tracker.RecordAttempt("bob", false, now)
	assert.Equal(t, auth.AttemptRejected, out.Status)
	assert.Equal(t, 2, out.AttemptsRemaining)

	out = tracker.RecordAttempt("bob", false, now)
	assert.Equal(t, auth.AttemptRejected, out.Status)
	assert.Equal(t, 1, out.AttemptsRemaining)

	out = tracker.RecordAttempt("bob", false, now)
	assert.Equal(t, auth.AttemptLockedOut, out.Status)
	assert.Equal(t, 5*time.Minute, out.LockRemaining)

	// While locked the attempt's correctness is ignored entirely.
	out = tracker.RecordAttempt("bob", true, now.Add(time.Minute))
	assert.Equal(t, auth.AttemptStillLocked, out.Status)
	assert.Equal(t, 4*time.Minute, out.LockRemaining)
}

func TestLockoutTracker_SuccessResetsCounter(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Now()

	tracker.RecordAttempt("bob", false, now)
	tracker.RecordAttempt("bob", false, now)

	out := tracker.RecordAttempt("bob", true, now)
	assert.Equal(t, auth.AttemptAccepted, out.Status)

	// The counter starts over: two more failures leave one attempt.
	tracker.RecordAttempt("bob", false, now)
	out = tracker.RecordAttempt("bob", false, now)
	assert.Equal(t, auth.AttemptRejected, out.Status)
	assert.Equal(t, 1, out.AttemptsRemaining)
}

func TestLockoutTracker_LockExpiry(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for range 3 {
		tracker.RecordAttempt("bob", false, now)
	}
	require.True(t, tracker.IsLocked("bob", now))

	// One second before expiry the lock still holds.
	assert.True(t, tracker.IsLocked("bob", now.Add(5*time.Minute-time.Second)))

	// At expiry the current attempt is re-evaluated as active.
	after := now.Add(5 * time.Minute)
	assert.False(t, tracker.IsLocked("bob", after))

	out := tracker.RecordAttempt("bob", true, after)
	assert.Equal(t, auth.AttemptAccepted, out.Status)
	assert.False(t, tracker.IsLocked("bob", after))
}

func TestLockoutTracker_ExpiredLockResetsFailureCount(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for range 3 {
		tracker.RecordAttempt("bob", false, now)
	}

	// A failure after expiry counts from a clean slate.
	after := now.Add(6 * time.Minute)
	out := tracker.RecordAttempt("bob", false, after)
	assert.Equal(t, auth.AttemptRejected, out.Status)
	assert.Equal(t, 2, out.AttemptsRemaining)
}

func TestLockoutTracker_IsLockedIsPure(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Now()

	tracker.RecordAttempt("bob", false, now)
	tracker.RecordAttempt("bob", false, now)

	// Repeated queries never change state.
	for range 10 {
		assert.False(t, tracker.IsLocked("bob", now))
		assert.Zero(t, tracker.Remaining("bob", now))
	}

	out := tracker.RecordAttempt("bob", false, now)
	assert.Equal(t, auth.AttemptLockedOut, out.Status)

	for range 10 {
		assert.True(t, tracker.IsLocked("bob", now))
		assert.Equal(t, 5*time.Minute, tracker.Remaining("bob", now))
	}
}

func TestLockoutTracker_CaseInsensitiveKeys(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Now()

	tracker.RecordAttempt("Bob", false, now)
	tracker.RecordAttempt("BOB", false, now)
	out := tracker.RecordAttempt("bob", false, now)
	assert.Equal(t, auth.AttemptLockedOut, out.Status)
	assert.True(t, tracker.IsLocked("bOb", now))
}

func TestLockoutTracker_UnknownUsername(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Now()

	assert.False(t, tracker.IsLocked("nobody", now))
	assert.Zero(t, tracker.Remaining("nobody", now))
}

// Concurrent failures for the same username must serialize: with a
// threshold of 3, exactly two attempts see a rejection with remaining
// attempts, exactly one crosses into lockout, and the rest observe the
// already-locked state. Lost updates would change those counts.
func TestLockoutTracker_ConcurrentAttemptsSerialize(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Now()

	const attempts = 100
	var rejected, lockedOut, stillLocked atomic.Int64

	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch tracker.RecordAttempt("bob", false, now).Status {
			case auth.AttemptRejected:
				rejected.Add(1)
			case auth.AttemptLockedOut:
				lockedOut.Add(1)
			case auth.AttemptStillLocked:
				stillLocked.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2), rejected.Load())
	assert.Equal(t, int64(1), lockedOut.Load())
	assert.Equal(t, int64(attempts-3), stillLocked.Load())
	assert.True(t, tracker.IsLocked("bob", now))
}

// Attempts for different usernames are independent and proceed in parallel.
func TestLockoutTracker_IndependentUsernames(t *testing.T) {
	tracker := auth.NewLockoutTracker(3, 5*time.Minute)
	now := time.Now()

	var wg sync.WaitGroup
	usernames := []string{"alice", "bob", "carol", "dave"}
	for _, username := range usernames {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.RecordAttempt(username, false, now)
			tracker.RecordAttempt(username, false, now)
		}()
	}
	wg.Wait()

	for _, username := range usernames {
		assert.False(t, tracker.IsLocked(username, now), "username %s", username)
		out := tracker.RecordAttempt(username, false, now)
		assert.Equal(t, auth.AttemptLockedOut, out.Status, "username %s", username)
	}
}
