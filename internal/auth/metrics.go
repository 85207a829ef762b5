// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for authentication outcomes.
var (
	// registrations counts registration attempts by result.
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of account registration attempts",
	}, []string{"result"})

	// logins counts login attempts by outcome.
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	// lockouts counts transitions into the locked state.
	lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_lockouts_total",
		Help: "Total number of account lockout transitions",
	})

	// hashDuration tracks the latency of password hashing, which dominates
	// login cost and bounds throughput under credential-stuffing load.
	hashDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_password_hash_duration_seconds",
		Help:    "Histogram of password hashing and verification latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
