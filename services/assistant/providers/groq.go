// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqChatClient talks to the Groq API through its OpenAI-compatible
// endpoint.
//
// Description:
//
//	One client serves every model on the allowlist: the model is selected
//	per request via ChatOptions.Model. Implements StreamingChatClient.
//
// Thread Safety: GroqChatClient is safe for concurrent use.
type GroqChatClient struct {
	llm          *openai.LLM
	defaultModel string
}

// NewGroqChatClient creates a Groq client.
//
// Inputs:
//   - apiKey: Groq API key. Must not be empty.
//   - defaultModel: Model used when a request does not specify one. Empty
//     falls back to DefaultModel.
//
// Outputs:
//   - *GroqChatClient: The configured client.
//   - error: Non-nil if the API key is missing or client construction fails.
func NewGroqChatClient(apiKey, defaultModel string) (*GroqChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq: API key is required")
	}
	if defaultModel == "" {
		defaultModel = DefaultModel
	}

	llm, err := openai.New(
		openai.WithBaseURL(groqBaseURL),
		openai.WithToken(apiKey),
		openai.WithModel(defaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("groq: client construction failed: %w", err)
	}

	return &GroqChatClient{llm: llm, defaultModel: defaultModel}, nil
}

// Chat implements ChatClient.
func (g *GroqChatClient) Chat(ctx context.Context, messages []datatypes.Message, opts ChatOptions) (string, error) {
	return g.generate(ctx, messages, opts, nil)
}

// ChatStream implements StreamingChatClient.
func (g *GroqChatClient) ChatStream(ctx context.Context, messages []datatypes.Message, opts ChatOptions, fn StreamFunc) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("groq: stream function is nil")
	}
	return g.generate(ctx, messages, opts, fn)
}

// generate is the shared request path for Chat and ChatStream.
func (g *GroqChatClient) generate(ctx context.Context, messages []datatypes.Message, opts ChatOptions, fn StreamFunc) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.defaultModel
	}

	ctx, span := otel.Tracer(chatTracerName).Start(ctx, "providers.GroqChatClient.Chat",
		trace.WithAttributes(
			attribute.String("provider", "groq"),
			attribute.String("model", model),
			attribute.Int("message_count", len(messages)),
			attribute.Bool("streaming", fn != nil),
		),
	)
	defer span.End()

	callOpts := []llms.CallOption{llms.WithModel(model)}
	if opts.Temperature >= 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if fn != nil {
		callOpts = append(callOpts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return fn(ctx, chunk)
		}))
	}

	startTime := time.Now()
	resp, err := g.llm.GenerateContent(ctx, toContent(messages), callOpts...)
	duration := time.Since(startTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordChatMetrics("groq", duration, err)
		return "", fmt.Errorf("groq: generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		err = fmt.Errorf("groq: response contained no choices")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordChatMetrics("groq", duration, err)
		return "", err
	}

	recordChatMetrics("groq", duration, nil)
	return resp.Choices[0].Content, nil
}

// toContent converts conversation messages to the langchaingo wire shape.
func toContent(messages []datatypes.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role llms.ChatMessageType
		switch strings.ToLower(m.Role) {
		case "system":
			role = llms.ChatMessageTypeSystem
		case "assistant":
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}
