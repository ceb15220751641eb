// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package providers defines provider-agnostic LLM client interfaces and the
// Groq-backed implementation used by the assistant. Keeping the interfaces
// minimal makes adapters trivial for any OpenAI-compatible backend and keeps
// the classifiers and handlers testable without network access.
//
// Thread Safety:
//
//	All interfaces in this package must be implemented as safe for
//	concurrent use.
package providers

import (
	"context"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// ChatClient is the minimal interface for one-shot completions.
//
// Description:
//
//	Used wherever a single response text is enough: identity extraction,
//	email drafting, drive response composition.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ChatClient interface {
	// Chat sends messages and returns the assistant's response text.
	//
	// Inputs:
	//   - ctx: Context for cancellation and timeout.
	//   - messages: Conversation messages (system, user, assistant).
	//   - opts: Provider-agnostic chat options.
	//
	// Outputs:
	//   - string: The assistant's response text.
	//   - error: Non-nil on failure.
	Chat(ctx context.Context, messages []datatypes.Message, opts ChatOptions) (string, error)
}

// StreamFunc receives one chunk of streamed response text. Returning an
// error aborts the stream.
type StreamFunc func(ctx context.Context, chunk []byte) error

// StreamingChatClient extends ChatClient with incremental delivery for the
// chat endpoint's server-sent events.
type StreamingChatClient interface {
	ChatClient

	// ChatStream sends messages and delivers the response incrementally
	// through fn. The full response text is also returned so callers that
	// need to post-process the draft (email flow) do not have to
	// re-assemble it.
	ChatStream(ctx context.Context, messages []datatypes.Message, opts ChatOptions, fn StreamFunc) (string, error)
}

// ChatOptions holds provider-agnostic options for a chat request.
type ChatOptions struct {
	// Temperature controls randomness (0.0-1.0). Negative values omit the
	// option and use the provider's default.
	Temperature float64

	// MaxTokens limits the response length. Zero omits the option.
	MaxTokens int

	// Model overrides the client's default model for this request. Must
	// already be resolved through ResolveModel.
	Model string
}
