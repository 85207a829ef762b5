// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionTokenBytes is the entropy of a session token: 32 bytes, encoded
// as 64 hex characters.
const SessionTokenBytes = 32

// Session records an issued session token. The core appends sessions and
// never expires or revokes them; only the SHA-256 digest of the token is
// stored, so a leaked session table cannot be replayed.
type Session struct {
	ID        ulid.ULID
	Username  string
	TokenHash string
	IssuedAt  time.Time
}

// NewSession creates a validated Session instance.
func NewSession(username, tokenHash string, issuedAt time.Time) (*Session, error) {
	if username == "" {
		return nil, oops.Code("SESSION_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if issuedAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_ISSUED_AT").Errorf("issue time cannot be zero")
	}
	return &Session{
		ID:        ulid.Make(),
		Username:  username,
		TokenHash: tokenHash,
		IssuedAt:  issuedAt,
	}, nil
}

// GenerateSessionToken creates a secure random token and its hash.
// Returns (plaintext_token, sha256_hash, error).
// The plaintext token goes to the caller; the hash is what gets stored.
func GenerateSessionToken() (token, hash string, err error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	hash = HashSessionToken(token)

	return token, hash, nil
}

// HashSessionToken computes the SHA-256 hash of a session token.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifySessionToken checks if the plaintext token matches the stored hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifySessionToken(token, hash string) (bool, error) {
	if token == "" {
		return false, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}
	if hash == "" {
		return false, oops.Code("SESSION_HASH_EMPTY").Errorf("stored hash cannot be empty")
	}
	computed := HashSessionToken(token)
	// Both are hex-encoded SHA-256 hashes (64 chars), use constant-time compare
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Append stores an issued session. Returns ErrTokenCollision
	// (possibly wrapped) if a session with the same token hash already
	// exists; implementations must never overwrite.
	Append(ctx context.Context, session *Session) error
}

// Issuer issues session tokens and records them against a username.
type Issuer struct {
	sessions SessionRepository
}

// NewIssuer creates an Issuer.
func NewIssuer(sessions SessionRepository) (*Issuer, error) {
	if sessions == nil {
		return nil, oops.Code("SESSION_ISSUER_INVALID").Errorf("sessions repository is required")
	}
	return &Issuer{sessions: sessions}, nil
}

// Issue generates a fresh token, persists its record, and returns the
// plaintext token. No uniqueness retry is attempted: with 256 bits of
// entropy a collision indicates something badly wrong, so the store error
// is surfaced instead.
func (i *Issuer) Issue(ctx context.Context, username string, now time.Time) (string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	session, err := NewSession(username, tokenHash, now)
	if err != nil {
		return "", err
	}

	if err := i.sessions.Append(ctx, session); err != nil {
		return "", oops.Code("SESSION_APPEND_FAILED").
			With("operation", "persist session").
			With("username", username).
			Wrap(err)
	}

	return token, nil
}
