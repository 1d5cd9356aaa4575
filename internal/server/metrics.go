// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Error reasons used as the label of EvaluationErrors.
const (
	reasonBadRequest = "bad_request"
	reasonVector     = "invalid_vector"
	reasonSelection  = "invalid_selection"
)

var (
	// Evaluations counts scored selections by severity.
	Evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvss",
			Name:      "evaluations_total",
			Help:      "Total number of selections scored by the server",
		},
		[]string{"severity"},
	)

	// EvaluationErrors counts rejected evaluation requests.
	EvaluationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvss",
			Name:      "evaluation_errors_total",
			Help:      "Total number of evaluation requests that could not be scored",
		},
		[]string{"reason"},
	)

	registerOnce sync.Once
)

// registerMetrics adds the counters to the default registry. Safe to call
// from every New.
func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.DefaultRegisterer.MustRegister(Evaluations, EvaluationErrors)
	})
}
