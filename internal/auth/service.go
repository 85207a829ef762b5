// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// dummyPasswordHash is used when a username doesn't exist to prevent timing
// attacks. We still run password verification to make response time
// consistent. This is NOT a real credential - it's a fake hash that will
// never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates account registration and login.
type Service struct {
	accounts AccountRepository
	issuer   *Issuer
	hasher   PasswordHasher
	policy   *Policy
	lockout  *LockoutTracker
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(accounts AccountRepository, issuer *Issuer, hasher PasswordHasher, policy *Policy, lockout *LockoutTracker) (*Service, error) {
	return NewServiceWithLogger(accounts, issuer, hasher, policy, lockout, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, issuer *Issuer, hasher PasswordHasher, policy *Policy, lockout *LockoutTracker, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("accounts repository is required")
	}
	if issuer == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("session issuer is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if policy == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("credential policy is required")
	}
	if lockout == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("lockout tracker is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		issuer:   issuer,
		hasher:   hasher,
		policy:   policy,
		lockout:  lockout,
		logger:   logger,
	}, nil
}

// Register creates a new account. The username must satisfy the policy and
// be unused (case-insensitively); the password must pass the hard policy
// gate. Unrecognized roles fall back to RoleUser. The returned view never
// contains the password hash.
func (s *Service) Register(ctx context.Context, username, password, role string) (AccountInfo, error) {
	if err := s.policy.ValidateUsername(username); err != nil {
		registrations.WithLabelValues("invalid").Inc()
		return AccountInfo{}, err
	}
	if err := s.policy.ValidatePassword(password, username); err != nil {
		registrations.WithLabelValues("invalid").Inc()
		return AccountInfo{}, err
	}

	// Cheap pre-check before spending hashing work. The store's unique
	// constraint still backstops the race between check and insert.
	_, err := s.accounts.GetByUsername(ctx, username)
	switch {
	case err == nil:
		registrations.WithLabelValues("duplicate").Inc()
		return AccountInfo{}, oops.Code("AUTH_DUPLICATE_USERNAME").
			With("username", username).
			Wrap(ErrDuplicate)
	case !errors.Is(err, ErrNotFound):
		registrations.WithLabelValues("error").Inc()
		return AccountInfo{}, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check username").
			Wrap(err)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(password)
	hashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return AccountInfo{}, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(username, hash, ParseRole(role))
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return AccountInfo{}, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicate) {
			registrations.WithLabelValues("duplicate").Inc()
			return AccountInfo{}, oops.Code("AUTH_DUPLICATE_USERNAME").
				With("username", username).
				Wrap(ErrDuplicate)
		}
		registrations.WithLabelValues("error").Inc()
		return AccountInfo{}, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}

	registrations.WithLabelValues("ok").Inc()
	s.logger.Info("account registered",
		"username", account.Username,
		"role", string(account.Role))
	return account.Info(), nil
}

// Login authenticates an account and issues a session token.
//
// The lockout check runs first: while an account is locked, neither the
// store nor the hasher is touched, so a locked attempt leaks nothing about
// credential correctness. Failed attempts against unknown usernames are
// recorded in the lockout state too, and surface as the same
// CredentialsError as a wrong password, so the error path does not reveal
// which usernames exist.
//
// now is read once by the caller and passed through so a single attempt's
// decision is internally consistent.
func (s *Service) Login(ctx context.Context, username, password string, now time.Time) (string, error) {
	if remaining := s.lockout.Remaining(username, now); remaining > 0 {
		logins.WithLabelValues("locked").Inc()
		return "", &LockedError{Remaining: remaining}
	}

	account, lookupErr := s.accounts.GetByUsername(ctx, username)

	var targetHash string
	var accountExists bool

	switch {
	case lookupErr == nil:
		targetHash = account.PasswordHash
		accountExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// Verify against a dummy hash to keep response time consistent.
		targetHash = dummyPasswordHash
		accountExists = false
	default:
		logins.WithLabelValues("error").Inc()
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get account by username").
			Wrap(lookupErr)
	}

	start := time.Now()
	valid := s.hasher.Verify(password, targetHash)
	hashDuration.Observe(time.Since(start).Seconds())

	outcome := s.lockout.RecordAttempt(username, accountExists && valid, now)
	switch outcome.Status {
	case AttemptAccepted:
		token, err := s.issuer.Issue(ctx, account.Username, now)
		if err != nil {
			logins.WithLabelValues("error").Inc()
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "issue session token").
				Wrap(err)
		}
		logins.WithLabelValues("ok").Inc()
		s.logger.Info("login succeeded", "username", account.Username)
		return token, nil

	case AttemptLockedOut:
		lockouts.Inc()
		logins.WithLabelValues("locked").Inc()
		s.logger.Warn("account locked after repeated failures", "username", username)
		return "", &LockedError{Remaining: outcome.LockRemaining}

	case AttemptStillLocked:
		logins.WithLabelValues("locked").Inc()
		return "", &LockedError{Remaining: outcome.LockRemaining}

	default:
		logins.WithLabelValues("rejected").Inc()
		return "", &CredentialsError{AttemptsRemaining: outcome.AttemptsRemaining}
	}
}
