// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role is the coarse platform role carried by an account. The core carries
// the role string; it does not enforce authorization.
type Role string

// Recognized roles.
const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
)

// ParseRole normalizes a role string. Unrecognized or empty input falls
// back to RoleUser.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(s)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleAnalyst:
		return RoleAnalyst
	default:
		return RoleUser
	}
}

// Account represents a registered account. Username uniqueness is
// case-insensitive and usernames are immutable once created.
type Account struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NewAccount creates a validated Account. The password hash must already be
// computed; this constructor never sees plaintext.
func NewAccount(username, passwordHash string, role Role) (*Account, error) {
	if username == "" {
		return nil, oops.Code("ACCOUNT_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &Account{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Info returns the caller-facing view of the account. The password hash is
// never part of it.
func (a *Account) Info() AccountInfo {
	return AccountInfo{
		Username:  a.Username,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// AccountInfo is what Register returns to callers.
type AccountInfo struct {
	Username  string
	Role      Role
	CreatedAt time.Time
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account. Returns ErrDuplicate (possibly
	// wrapped) if the username is already taken, compared
	// case-insensitively.
	Create(ctx context.Context, account *Account) error

	// GetByUsername retrieves an account by username (case-insensitive).
	// Returns ErrNotFound if no such account exists.
	GetByUsername(ctx context.Context, username string) (*Account, error)
}
