// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/opsdeck/opsdeck/internal/auth"
)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool poolIface
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool poolIface) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Append stores an issued session. A unique violation on the token hash
// index maps to auth.ErrTokenCollision; the existing row is left intact.
func (r *SessionRepository) Append(ctx context.Context, session *auth.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, username, token_hash, issued_at)
		VALUES ($1, $2, $3, $4)
	`,
		session.ID.String(),
		session.Username,
		session.TokenHash,
		session.IssuedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("SESSION_TOKEN_COLLISION").
				With("username", session.Username).
				Wrap(auth.ErrTokenCollision)
		}
		return oops.Code("SESSION_APPEND_FAILED").
			With("operation", "insert session").
			With("username", session.Username).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.SessionRepository = (*SessionRepository)(nil)
