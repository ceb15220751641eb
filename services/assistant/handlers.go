// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/drive"
	"github.com/AgentoAI/agento/services/assistant/email"
	"github.com/AgentoAI/agento/services/assistant/intent"
	"github.com/AgentoAI/agento/services/assistant/providers"
)

// sessionCookie carries the conversation session id between requests.
const sessionCookie = "agento_session"

// sessionCookieMaxAge keeps the cookie alive across the store's TTL window.
const sessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second)

// Handlers exposes the assistant over HTTP.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	svc *Service
}

// NewHandlers builds the handler set for a validated service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// =============================================================================
// Chat Endpoint
// =============================================================================

// messageRequest is the body/query shape of /api/message.
type messageRequest struct {
	Message string `json:"message" form:"message"`
	Model   string `json:"model" form:"model"`
}

// HandleMessage serves the streaming chat endpoint.
//
// Description:
//
//	Accepts the query via JSON body, form body, or GET query parameters.
//	The query is classified once; matched intents run their action
//	pipeline, everything else streams a plain conversation turn. The
//	response is always an SSE stream.
func (h *Handlers) HandleMessage(c *gin.Context) {
	var req messageRequest
	if c.Request.Method == http.MethodGet {
		req.Message = c.Query("message")
		req.Model = c.Query("model")
	} else if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	model := providers.ResolveModel(req.Model)
	sessionID := h.sessionID(c)
	ctx := c.Request.Context()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "assistant.HandleMessage")
	defer span.End()
	span.SetAttributes(
		attribute.String("chat.model", model),
		attribute.Int("chat.query_length", len(req.Message)),
	)

	sse := newSSEWriter(c.Writer)

	if req.Message == "" {
		sse.fail("No message provided")
		return
	}

	res := h.svc.Dispatch(ctx, req.Message)
	span.SetAttributes(attribute.String("chat.intent", string(res.Kind)))

	switch {
	case res.Matched && res.Kind == intent.KindIdentity:
		messagesTotal.WithLabelValues("identity").Inc()
		h.streamIdentity(ctx, sse, sessionID, res.Params)
	case res.Matched && res.Kind == intent.KindEmail:
		messagesTotal.WithLabelValues("email").Inc()
		h.streamEmail(ctx, sse, model, sessionID, req.Message)
	case res.Matched && h.svc.Drive != nil:
		messagesTotal.WithLabelValues("drive").Inc()
		h.streamDrive(ctx, sse, model, sessionID, req.Message, res)
	default:
		// Drive intents without a configured drive backend land here too.
		messagesTotal.WithLabelValues("chat").Inc()
		h.streamChat(ctx, sse, model, sessionID, req.Message)
	}
}

// streamIdentity applies an identity update and emits the confirmation
// directly as content, no LLM round trip.
func (h *Handlers) streamIdentity(ctx context.Context, sse *sseWriter, sessionID string, params map[string]string) {
	if err := sse.start(); err != nil {
		return
	}
	message, err := h.svc.Identity.Apply(ctx, sessionID, params)
	if err != nil {
		slog.Error("identity update failed", "error", err)
		sse.fail("Failed to update your information. Please try again.")
		return
	}
	sse.content(message)
	sse.done()
}

// streamEmail streams the drafted email, then sends it and appends a
// trailing outcome chunk after the done frame.
func (h *Handlers) streamEmail(ctx context.Context, sse *sseWriter, model, sessionID, query string) {
	full, ok := h.streamChat(ctx, sse, model, sessionID, email.DrafterPrompt(query))
	if !ok || full == "" {
		return
	}

	if h.svc.Email == nil {
		sse.typed("email_error", "\n\n❌ Failed to send email: Google credentials are not configured.")
		return
	}

	result := h.svc.Email.ProcessDraft(ctx, query, full)
	if result.Success {
		sse.typed("email_sent", "\n\n✅ Email has been sent successfully!")
	} else {
		sse.typed("email_error", "\n\n❌ Failed to send email: "+result.Message)
	}
}

// streamDrive executes the drive action first, folds the result into an
// enhanced prompt, and streams the LLM's narration of it.
func (h *Handlers) streamDrive(ctx context.Context, sse *sseWriter, model, sessionID, query string, res intent.Result) {
	result := h.svc.Drive.Process(ctx, res.Kind, query, res.Params)
	enhanced := drive.ComposePrompt(query, res.Kind, result)
	h.streamChat(ctx, sse, model, sessionID, enhanced)
}

// streamChat runs one conversation turn with history and streams the
// response. Returns the full response text and whether the turn completed.
func (h *Handlers) streamChat(ctx context.Context, sse *sseWriter, model, sessionID, prompt string) (string, bool) {
	history, err := h.svc.Sessions.History(ctx, sessionID)
	if err != nil {
		slog.Warn("session history unavailable", "session_id", sessionID, "error", err)
	}

	messages := make([]datatypes.Message, 0, len(history)+2)
	messages = append(messages, datatypes.Message{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, datatypes.Message{Role: "user", Content: prompt})

	if err := sse.start(); err != nil {
		return "", false
	}

	startTime := time.Now()
	full, err := h.svc.Chat.ChatStream(ctx, messages, providers.ChatOptions{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		Model:       model,
	}, func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		return sse.content(string(chunk))
	})
	streamDuration.Observe(time.Since(startTime).Seconds())

	if err != nil {
		slog.Error("chat stream failed", "model", model, "error", err)
		sse.fail(err.Error())
		return "", false
	}

	if err := h.svc.Sessions.Append(ctx, sessionID,
		datatypes.Message{Role: "user", Content: prompt},
		datatypes.Message{Role: "assistant", Content: full},
	); err != nil {
		slog.Warn("session append failed", "session_id", sessionID, "error", err)
	}

	sse.done()
	return full, true
}

// sessionID reads the session cookie, minting a new id on first contact.
func (h *Handlers) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
	return id
}

// =============================================================================
// Search Endpoint
// =============================================================================

// searchRequest is the body shape of /api/search.
type searchRequest struct {
	Query string `json:"query" form:"query"`
}

// HandleSearch proxies a web search through Tavily.
func (h *Handlers) HandleSearch(c *gin.Context) {
	if h.svc.Search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Web search is not configured"})
		return
	}

	var req searchRequest
	if err := c.ShouldBind(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No search query provided"})
		return
	}

	resp, err := h.svc.Search.Search(c.Request.Context(), req.Query)
	if err != nil {
		slog.Error("search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// =============================================================================
// Health
// =============================================================================

// HandleHealth reports liveness and which integrations are active.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"integrations": gin.H{
			"drive":  h.svc.Drive != nil,
			"email":  h.svc.Email != nil,
			"search": h.svc.Search != nil,
			"speech": h.svc.Speech != nil,
		},
	})
}
