// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/opsdeck/opsdeck/internal/auth"
	"github.com/opsdeck/opsdeck/internal/auth/postgres"
	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/store"
	"github.com/opsdeck/opsdeck/pkg/errutil"
)

// NewRegisterCmd creates the register subcommand.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new account",
		Long: `Register a new account. The password is read from standard input.
An advisory strength report is printed; passwords that fail the hard
policy gate are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: runRegister,
	}
	cmd.Flags().String("role", "user", "account role (user, admin, analyst)")
	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	username := args[0]
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	role, _ := cmd.Flags().GetString("role") //nolint:errcheck // flag registered above

	policy := policyFrom(cfg)
	if err := reportStrength(cmd, policy.CheckStrength(password)); err != nil {
		return err
	}

	info, err := svc.Register(ctx, username, password, role)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicate) {
			return oops.Code("AUTH_DUPLICATE_USERNAME").Errorf("username %q is already taken", username)
		}
		errutil.LogError(slog.Default(), "registration failed", err)
		return err
	}

	cmd.Printf("Registered %s (%s)\n", info.Username, info.Role)
	return nil
}

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate and print a session token",
		Long: `Authenticate an account. The password is read from standard input.
On success a session token is printed; after repeated failures the
account locks temporarily.`,
		Args: cobra.ExactArgs(1),
		RunE: runLogin,
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	username := args[0]
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	token, err := svc.Login(ctx, username, password, time.Now())
	if err != nil {
		var locked *auth.LockedError
		var creds *auth.CredentialsError
		switch {
		case errors.As(err, &locked):
			return oops.Code("AUTH_ACCOUNT_LOCKED").
				Errorf("account is locked, try again in %s", locked.Remaining.Round(time.Second))
		case errors.As(err, &creds):
			return oops.Code("AUTH_INVALID_CREDENTIALS").
				Errorf("invalid username or password (%d attempts remaining)", creds.AttemptsRemaining)
		default:
			errutil.LogError(slog.Default(), "login failed", err)
			return err
		}
	}

	cmd.Printf("Session token: %s\n", token)
	return nil
}

// buildService wires the authentication service against the configured
// database. The returned cleanup closes the connection pool.
func buildService(ctx context.Context, cfg config.Config) (*auth.Service, func(), error) {
	databaseURL := databaseURLFrom(cfg.Database.URL)
	if databaseURL == "" {
		return nil, nil, oops.Code("CONFIG_INVALID").Errorf("database URL is required (set database.url or DATABASE_URL)")
	}

	pool, err := store.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}

	issuer, err := auth.NewIssuer(postgres.NewSessionRepository(pool))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	tracker := auth.NewLockoutTracker(cfg.Auth.MaxAttempts, cfg.Auth.LockDuration)
	svc, err := auth.NewService(
		postgres.NewAccountRepository(pool),
		issuer,
		auth.NewArgon2idHasher(),
		policyFrom(cfg),
		tracker,
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	return svc, pool.Close, nil
}

// reportStrength prints the advisory strength report. Common passwords are
// rejected outright; everything else passes with feedback.
func reportStrength(cmd *cobra.Command, report auth.StrengthReport) error {
	switch report.Level {
	case auth.StrengthWeak:
		if report.Common {
			return oops.Code("AUTH_WEAK_PASSWORD").Errorf("password is a commonly used password")
		}
		cmd.Printf("Password strength: weak (%d/4)\n", report.Score)
	case auth.StrengthModerate:
		cmd.Printf("Password strength: moderate (%d/4), consider adding a special character\n", report.Score)
	case auth.StrengthStrong:
		cmd.Printf("Password strength: strong (%d/4)\n", report.Score)
	}
	return nil
}

// policyFrom builds the credential policy from configuration.
func policyFrom(cfg config.Config) *auth.Policy {
	return auth.NewPolicy(
		auth.WithUsernameLength(cfg.Auth.UsernameMinLen, cfg.Auth.UsernameMaxLen),
		auth.WithPasswordLength(cfg.Auth.PasswordMinLen, cfg.Auth.PasswordMaxLen),
	)
}

// readPassword reads one line from the command's input.
func readPassword(cmd *cobra.Command) (string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Code("INPUT_READ_FAILED").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
