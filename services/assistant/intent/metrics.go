// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level Prometheus metrics for intent classification.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// classifyDuration measures per-classifier decision latency. The drive
	// classifier's tail reflects lazy file listing fetches.
	//
	// Labels:
	//   - classifier: "identity", "email", "drive"
	classifyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agento",
			Subsystem: "intent",
			Name:      "classify_duration_seconds",
			Help:      "Duration of individual classifier decisions in seconds.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"classifier"},
	)

	// classifyMatches counts dispatch outcomes.
	//
	// Labels:
	//   - classifier: winning classifier, or "none"
	//   - kind: matched intent kind, or "none"
	classifyMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agento",
			Subsystem: "intent",
			Name:      "matches_total",
			Help:      "Total dispatch outcomes by classifier and intent kind.",
		},
		[]string{"classifier", "kind"},
	)
)
