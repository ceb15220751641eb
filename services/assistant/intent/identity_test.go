// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/providers"
)

// fakeChatClient returns a canned reply and counts calls.
type fakeChatClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatClient) Chat(_ context.Context, _ []datatypes.Message, _ providers.ChatOptions) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestIdentityClassifierGateSkipsLLM(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	client := &fakeChatClient{}
	c := NewIdentityClassifier(rules, client)

	for _, query := range []string{
		"what is the weather today",
		"send an email to bob@example.com",
		"list all my files",
	} {
		res := c.Classify(context.Background(), query, nil)
		if res.Matched {
			t.Errorf("Classify(%q) matched, want no match", query)
		}
	}
	if client.calls != 0 {
		t.Errorf("LLM called %d times for gated queries, want 0", client.calls)
	}
}

func TestIdentityClassifierExtraction(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}

	tests := []struct {
		name   string
		query  string
		reply  string
		want   map[string]string
	}{
		{
			name:  "name update",
			query: "my name is alice carter",
			reply: `{"is_identity_update": true, "name": "Alice Carter", "email": null, "organization": null}`,
			want:  map[string]string{ParamName: "Alice Carter"},
		},
		{
			name:  "full update with surrounding prose",
			query: "my name is Bob and i work at Initech",
			reply: `Sure, here is the extraction: {"is_identity_update": true, "name": "Bob", "email": null, "organization": "Initech"} Let me know if you need more.`,
			want: map[string]string{
				ParamName:         "Bob",
				ParamOrganization: "Initech",
			},
		},
		{
			name:  "email update",
			query: "my email is alice@example.com now",
			reply: `{"is_identity_update": true, "name": null, "email": "alice@example.com", "organization": null}`,
			want:  map[string]string{ParamEmail: "alice@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeChatClient{reply: tt.reply}
			c := NewIdentityClassifier(rules, client)

			res := c.Classify(context.Background(), tt.query, nil)
			if !res.Matched || res.Kind != KindIdentity {
				t.Fatalf("Classify(%q) = %+v, want identity match", tt.query, res)
			}
			if len(res.Params) != len(tt.want) {
				t.Errorf("Params = %v, want %v", res.Params, tt.want)
			}
			for k, want := range tt.want {
				if got := res.Params[k]; got != want {
					t.Errorf("Params[%q] = %q, want %q", k, got, want)
				}
			}
			if client.calls != 1 {
				t.Errorf("LLM called %d times, want 1", client.calls)
			}
		})
	}
}

func TestIdentityClassifierNegativeVerdict(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	client := &fakeChatClient{
		reply: `{"is_identity_update": false, "name": null, "email": null, "organization": null}`,
	}
	c := NewIdentityClassifier(rules, client)

	// Gate phrase present, but the model says it is not an update.
	res := c.Classify(context.Background(), "call me when the build finishes", nil)
	if res.Matched {
		t.Errorf("Classify() matched on negative verdict: %+v", res)
	}
}

func TestIdentityClassifierNoEnvelopeIsNegative(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	client := &fakeChatClient{reply: "I could not determine that."}
	c := NewIdentityClassifier(rules, client)

	res := c.Classify(context.Background(), "call me maybe", nil)
	if res.Matched {
		t.Errorf("Classify() matched without a verdict envelope: %+v", res)
	}
}

func TestIdentityClassifierFallbackOnLLMError(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	client := &fakeChatClient{err: errors.New("upstream unavailable")}
	c := NewIdentityClassifier(rules, client)

	res := c.Classify(context.Background(), "my name is john smith.", nil)
	if !res.Matched || res.Kind != KindIdentity {
		t.Fatalf("fallback did not match: %+v", res)
	}
	if got := res.Params[ParamName]; got != "John Smith" {
		t.Errorf("fallback name = %q, want %q", got, "John Smith")
	}

	// Fallback only recognizes the name phrasing.
	res = c.Classify(context.Background(), "i work at Initech", nil)
	if res.Matched {
		t.Errorf("fallback matched a non-name phrase: %+v", res)
	}
}

func TestIdentityClassifierNilClientUsesFallback(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	c := NewIdentityClassifier(rules, nil)

	res := c.Classify(context.Background(), "my name is maria", nil)
	if !res.Matched {
		t.Fatal("nil-client fallback did not match")
	}
	if got := res.Params[ParamName]; got != "Maria" {
		t.Errorf("fallback name = %q, want %q", got, "Maria")
	}
}
