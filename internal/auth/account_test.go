// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/auth"
	"github.com/opsdeck/opsdeck/pkg/errutil"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  auth.Role
	}{
		{"user", auth.RoleUser},
		{"admin", auth.RoleAdmin},
		{"analyst", auth.RoleAnalyst},
		{"ADMIN", auth.RoleAdmin},
		{"Analyst", auth.RoleAnalyst},
		{"", auth.RoleUser},
		{"superuser", auth.RoleUser},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ParseRole(tt.input))
		})
	}
}

func TestNewAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		account, err := auth.NewAccount("alice", "$argon2id$...", auth.RoleAnalyst)
		require.NoError(t, err)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, auth.RoleAnalyst, account.Role)
		assert.NotZero(t, account.ID)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("empty username", func(t *testing.T) {
		_, err := auth.NewAccount("", "$argon2id$...", auth.RoleUser)
		errutil.AssertErrorCode(t, err, "ACCOUNT_INVALID_USERNAME")
	})

	t.Run("empty password hash", func(t *testing.T) {
		_, err := auth.NewAccount("alice", "", auth.RoleUser)
		errutil.AssertErrorCode(t, err, "ACCOUNT_INVALID_HASH")
	})
}

func TestAccountInfo(t *testing.T) {
	account, err := auth.NewAccount("alice", "$argon2id$...", auth.RoleUser)
	require.NoError(t, err)

	info := account.Info()
	assert.Equal(t, account.Username, info.Username)
	assert.Equal(t, account.Role, info.Role)
	assert.Equal(t, account.CreatedAt, info.CreatedAt)
}
