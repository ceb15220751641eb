// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package intent contains the assistant's heuristic intent classifiers and
// the dispatcher that runs them in priority order. Classification is a
// deterministic pre-filter in front of the LLM: it decides which action
// pipeline (identity, email, drive) handles a query, or lets it fall
// through to general chat. Only the identity classifier ever calls the LLM,
// and only after its keyword gate passes.
package intent

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AgentoAI/agento/services/assistant/providers"
)

// tracerName is the OTel tracer for intent classification.
const tracerName = "assistant.intent"

// =============================================================================
// Dispatcher
// =============================================================================

// Dispatcher runs classifiers in a fixed priority order and returns the
// first positive decision.
//
// Description:
//
//	Priority is identity > email > drive: an identity update mentioning
//	the word "email" must not be mistaken for an email request, and an
//	email request mentioning an attachment must not be mistaken for a
//	drive request. The first match wins; later classifiers never run.
//
// Thread Safety: Safe for concurrent use. Per-query state lives in the
// Context passed to Dispatch, never in the Dispatcher.
type Dispatcher struct {
	classifiers []Classifier
}

// NewDispatcher builds a dispatcher over an explicit classifier order.
func NewDispatcher(classifiers ...Classifier) *Dispatcher {
	return &Dispatcher{classifiers: classifiers}
}

// NewDefaultDispatcher wires the standard identity > email > drive order.
//
// Inputs:
//   - rules: The compiled rule set shared by all classifiers.
//   - client: LLM client for identity extraction. May be nil (regex
//     fallback only).
func NewDefaultDispatcher(rules *Rules, client providers.ChatClient) *Dispatcher {
	return NewDispatcher(
		NewIdentityClassifier(rules, client),
		NewEmailClassifier(rules),
		NewDriveClassifier(rules),
	)
}

// Dispatch classifies a query.
//
// Inputs:
//
//	ctx - Context for cancellation; also bounds the identity LLM call and
//	any lazy file listing fetch.
//	query - The raw user query.
//	cc - Per-query classification context. May be nil.
//
// Outputs:
//
//	Result - The first positive decision, or the zero Result when no
//	classifier claims the query.
func (d *Dispatcher) Dispatch(ctx context.Context, query string, cc *Context) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "intent.Dispatcher.Dispatch",
		trace.WithAttributes(attribute.Int("query_length", len(query))),
	)
	defer span.End()

	if cc == nil {
		cc = NewContext(nil)
	}

	for _, c := range d.classifiers {
		startTime := time.Now()
		res := c.Classify(ctx, query, cc)
		classifyDuration.WithLabelValues(c.Name()).Observe(time.Since(startTime).Seconds())

		if res.Matched {
			span.SetAttributes(
				attribute.String("intent.classifier", c.Name()),
				attribute.String("intent.kind", string(res.Kind)),
			)
			classifyMatches.WithLabelValues(c.Name(), string(res.Kind)).Inc()
			slog.Info("intent matched",
				"classifier", c.Name(),
				"kind", res.Kind,
				"params", len(res.Params),
			)
			return res
		}
	}

	span.SetAttributes(attribute.String("intent.kind", "none"))
	classifyMatches.WithLabelValues("none", "none").Inc()
	return NoMatch()
}
