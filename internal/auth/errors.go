// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by account stores when a username is already
// taken (compared case-insensitively).
var ErrDuplicate = errors.New("already exists")

// ErrTokenCollision is returned by session stores when a token hash is
// already present. With 256-bit tokens this is effectively unreachable, but
// a collision must be rejected rather than silently overwritten.
var ErrTokenCollision = errors.New("session token collision")

// CredentialsError reports a failed login attempt and how many attempts
// remain before the account locks. It deliberately does not distinguish an
// unknown username from a wrong password.
type CredentialsError struct {
	AttemptsRemaining int
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid username or password (%d attempts remaining)", e.AttemptsRemaining)
}

// LockedError reports that an account is locked out. Remaining is the time
// until the lock expires; callers should not retry before it elapses.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account is temporarily locked (%s remaining)", e.Remaining.Round(time.Second))
}
