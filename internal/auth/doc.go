// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

// Package auth implements account authentication for the OpsDeck platform.
//
// # Domain Types
//
// Domain types (Account, Session) should be created using their
// constructors:
//   - NewAccount - creates an Account with a validated username and password hash
//   - NewSession - creates a Session with a validated username and token hash
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service orchestrates registration and login on top of the leaf
// components:
//   - Argon2idHasher - salted adaptive password hashing and verification
//   - Policy - stateless username/password rule checks and strength scoring
//   - LockoutTracker - per-account failure counting with timed lockout
//   - Issuer - session token generation and persistence
//
// Lockout state lives in process memory only. Two instances of the service
// do not share failure counters; callers that need durable lockout must
// front the tracker with shared storage.
package auth
