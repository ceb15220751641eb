// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"context"
	"log/slog"
	"strings"
)

// =============================================================================
// Email Intent Classifier
// =============================================================================

// EmailClassifier detects requests to compose or send an email.
//
// Description:
//
//	Two tiers. Tier 1 matches explicit action phrases ("send an email",
//	"mail this to") and claims the query immediately. Tier 2 combines
//	weaker evidence: a writing action, a sending indicator, the word
//	"email", and a syntactically valid address token. Any of three
//	combinations claims the query: writing+sending, keyword+address, or
//	writing+keyword.
//
// Thread Safety: Safe for concurrent use.
type EmailClassifier struct {
	rules *Rules
}

// NewEmailClassifier builds an email classifier over the given rule set.
func NewEmailClassifier(rules *Rules) *EmailClassifier {
	return &EmailClassifier{rules: rules}
}

// Name implements Classifier.
func (e *EmailClassifier) Name() string { return "email" }

// Classify implements Classifier. The decision carries no parameters:
// recipient, subject, and body are extracted later from the drafted reply,
// not from the query.
func (e *EmailClassifier) Classify(_ context.Context, query string, _ *Context) Result {
	lower := strings.ToLower(query)

	if containsAny(lower, e.rules.Email.ExplicitActions) {
		slog.Debug("email intent matched", "tier", 1)
		return Match(KindEmail)
	}

	hasEmailKeyword := strings.Contains(lower, "email")

	writingAction := containsAny(lower, e.rules.Email.WritingActions) ||
		(containsAny(lower, e.rules.Email.WritingPhrases) && hasEmailKeyword)
	sendingIntent := containsAny(lower, e.rules.Email.SendingIndicators)
	hasAddress := e.rules.EmailAddressRegexp().MatchString(query)

	if (writingAction && sendingIntent) ||
		(hasEmailKeyword && hasAddress) ||
		(writingAction && hasEmailKeyword) {
		slog.Debug("email intent matched", "tier", 2,
			"writing", writingAction, "sending", sendingIntent, "address", hasAddress)
		return Match(KindEmail)
	}

	return NoMatch()
}
