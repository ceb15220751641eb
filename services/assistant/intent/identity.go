// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/providers"
)

// =============================================================================
// Identity Update Classifier
// =============================================================================

// identityExtractionPrompt asks the model for a strict JSON verdict on
// whether the text updates the user's stored identity.
const identityExtractionPrompt = `Extract user identity information from the following text. The user might be trying to update their name, email, or organization.

Text: %q

Extract ONLY the following fields if present:
1. Name: The user's name (if they're trying to update it)
2. Email: The user's email (if they're trying to update it)
3. Organization: The user's organization or company (if they're trying to update it)

If any field is not being updated, return null for that field.
Is this an identity update request? Return true or false.

Format your response as a valid JSON object with these fields: {"is_identity_update": boolean, "name": string or null, "email": string or null, "organization": string or null}`

// identityExtractionSystem is the system message for the extraction call.
const identityExtractionSystem = "You are a helpful assistant that extracts structured information from text."

// identityVerdict is the JSON envelope the extraction model returns.
type identityVerdict struct {
	IsIdentityUpdate bool    `json:"is_identity_update"`
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Organization     *string `json:"organization"`
}

// IdentityClassifier detects requests to update the user's stored identity.
//
// Description:
//
//	A cheap keyword gate filters out queries with no identity phrasing, so
//	the LLM is only consulted when one of the trigger phrases appears. The
//	model's reply is scanned for a JSON envelope carrying the verdict and
//	the extracted fields. If the LLM call or the envelope parse fails, a
//	regex fallback still recognizes "my name is ..." and title-cases the
//	captured name.
//
// Thread Safety: Safe for concurrent use.
type IdentityClassifier struct {
	rules  *Rules
	client providers.ChatClient
}

// NewIdentityClassifier builds an identity classifier. client may be nil,
// in which case only the regex fallback path is available.
func NewIdentityClassifier(rules *Rules, client providers.ChatClient) *IdentityClassifier {
	return &IdentityClassifier{rules: rules, client: client}
}

// Name implements Classifier.
func (i *IdentityClassifier) Name() string { return "identity" }

// Classify implements Classifier. A positive decision carries the extracted
// fields under ParamName, ParamEmail, and ParamOrganization; absent fields
// are omitted from the map.
func (i *IdentityClassifier) Classify(ctx context.Context, query string, _ *Context) Result {
	lower := strings.ToLower(query)
	if !containsAny(lower, i.rules.Identity.TriggerPhrases) {
		return NoMatch()
	}

	verdict, err := i.extract(ctx, query)
	if err != nil {
		slog.Warn("identity extraction failed, using fallback", "error", err)
		return i.fallback(lower)
	}
	if !verdict.IsIdentityUpdate {
		return NoMatch()
	}

	params := map[string]string{}
	if v := deref(verdict.Name); v != "" {
		params[ParamName] = v
	}
	if v := deref(verdict.Email); v != "" {
		params[ParamEmail] = v
	}
	if v := deref(verdict.Organization); v != "" {
		params[ParamOrganization] = v
	}
	slog.Info("identity update detected", "fields", len(params))
	return MatchWith(KindIdentity, params)
}

// extract runs the LLM extraction call and parses the JSON envelope out of
// the reply.
func (i *IdentityClassifier) extract(ctx context.Context, query string) (*identityVerdict, error) {
	if i.client == nil {
		return nil, fmt.Errorf("no extraction client configured")
	}

	reply, err := i.client.Chat(ctx, []datatypes.Message{
		{Role: "system", Content: identityExtractionSystem},
		{Role: "user", Content: fmt.Sprintf(identityExtractionPrompt, query)},
	}, providers.ChatOptions{
		Temperature: 0.1,
		MaxTokens:   200,
		Model:       providers.ExtractionModel,
	})
	if err != nil {
		return nil, err
	}

	envelope := i.rules.Identity.jsonEnvelopeRe.FindString(reply)
	if envelope == "" {
		// The model answered but produced no verdict envelope. Treat as
		// a clean negative rather than an error.
		return &identityVerdict{}, nil
	}

	var verdict identityVerdict
	if err := json.Unmarshal([]byte(envelope), &verdict); err != nil {
		return nil, fmt.Errorf("verdict envelope parse failed: %w", err)
	}
	return &verdict, nil
}

// fallback recognizes the most common phrasing without the LLM.
func (i *IdentityClassifier) fallback(lowerQuery string) Result {
	if !strings.Contains(lowerQuery, "my name is") {
		return NoMatch()
	}
	params := map[string]string{}
	if m := i.rules.Identity.nameFallbackRe.FindStringSubmatch(lowerQuery); m != nil {
		params[ParamName] = titleCase(strings.TrimSpace(m[1]))
	}
	return MatchWith(KindIdentity, params)
}

// deref returns the trimmed string behind p, or "" for nil.
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
