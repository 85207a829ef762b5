// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/pkg/errutil"
)

func TestMigrateCommand_Properties(t *testing.T) {
	cmd := NewMigrateCmd()

	assert.Equal(t, "migrate", cmd.Use)
	assert.Contains(t, cmd.Short, "migration", "Short description should mention migration")
	assert.Contains(t, cmd.Long, "PostgreSQL", "Long description should mention PostgreSQL")
}

func TestMigrateCommand_NoDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	configFile = ""

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestDatabaseURLFrom(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		envValue   string
		want       string
	}{
		{
			name:       "configured URL wins",
			configured: "postgres://config:5432/opsdeck",
			envValue:   "postgres://env:5432/opsdeck",
			want:       "postgres://config:5432/opsdeck",
		},
		{
			name:     "falls back to DATABASE_URL",
			envValue: "postgres://env:5432/opsdeck",
			want:     "postgres://env:5432/opsdeck",
		},
		{
			name: "empty when neither is set",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.envValue)

			assert.Equal(t, tt.want, databaseURLFrom(tt.configured))
		})
	}
}
