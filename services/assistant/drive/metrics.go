// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drive

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// tracerName is the OTel tracer for drive actions.
const tracerName = "assistant.drive"

// Package-level Prometheus metrics for drive operations.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// actionsTotal counts executed drive actions.
	//
	// Labels:
	//   - kind: "drive_list", "drive_list_type", "drive_read", "drive_create"
	//   - status: "success" or "failure"
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agento",
			Subsystem: "drive",
			Name:      "actions_total",
			Help:      "Total drive actions by intent kind and outcome.",
		},
		[]string{"kind", "status"},
	)

	// resolveTotal counts name resolutions by the tier that settled them.
	//
	// Labels:
	//   - tier: "exact", "contains", "scan", "none"
	resolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agento",
			Subsystem: "drive",
			Name:      "resolve_total",
			Help:      "Total file name resolutions by resolution tier.",
		},
		[]string{"tier"},
	)
)
