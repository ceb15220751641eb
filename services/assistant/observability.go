// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const tracerName = "assistant.http"

var messagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "agento",
		Subsystem: "http",
		Name:      "messages_total",
		Help:      "Chat messages handled, labeled by routed pipeline.",
	},
	[]string{"pipeline"},
)

var streamDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "agento",
		Subsystem: "http",
		Name:      "stream_duration_seconds",
		Help:      "Wall time of one streamed LLM turn.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	},
)
