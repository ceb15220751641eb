// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// tracerName is the OTel tracer for email processing.
const tracerName = "assistant.email"

// sendErrorPrefix opens every user-facing send failure message.
const sendErrorPrefix = "Server failed, please try again. "

// Mailer dispatches a finished email.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Mailer interface {
	// Send delivers an HTML email and returns the provider's message ID.
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

var (
	// sendsTotal counts email dispatch outcomes.
	//
	// Labels:
	//   - status: "sent", "parse_failed", "send_failed"
	sendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agento",
			Subsystem: "email",
			Name:      "sends_total",
			Help:      "Total email dispatch attempts by outcome.",
		},
		[]string{"status"},
	)
)

// =============================================================================
// Email Processing
// =============================================================================

// Processor parses LLM email drafts and sends them.
//
// Thread Safety: Safe for concurrent use.
type Processor struct {
	mailer Mailer
}

// NewProcessor builds an email processor over the given mailer.
func NewProcessor(mailer Mailer) *Processor {
	return &Processor{mailer: mailer}
}

// ProcessDraft parses the LLM draft and sends the resulting email.
//
// Description:
//
//	The outcome is always an ActionResult: parse failures and send
//	failures are reported in the message, never as errors, so the
//	streaming handler can relay them to the user verbatim.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	query - The original user query (recipient fallback).
//	response - The full LLM draft text.
func (p *Processor) ProcessDraft(ctx context.Context, query, response string) datatypes.ActionResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "email.Processor.ProcessDraft")
	defer span.End()

	draft, err := ParseDraft(query, response)
	if err != nil {
		slog.Warn("email draft parse failed", "error", err)
		sendsTotal.WithLabelValues("parse_failed").Inc()
		return datatypes.ActionResult{Message: err.Error()}
	}

	span.SetAttributes(attribute.Int("body_length", len(draft.BodyText)))
	slog.Info("sending email", "to", draft.To, "subject", draft.Subject)

	messageID, err := p.mailer.Send(ctx, draft.To, draft.Subject, draft.BodyHTML)
	if err != nil {
		slog.Error("email send failed", "error", err)
		sendsTotal.WithLabelValues("send_failed").Inc()
		return datatypes.ActionResult{Message: CategorizeSendError(err)}
	}

	sendsTotal.WithLabelValues("sent").Inc()
	return datatypes.ActionResult{
		Success: true,
		Message: "Email sent successfully",
		Payload: map[string]any{"message_id": messageID, "to": draft.To},
	}
}

// CategorizeSendError maps a send failure to a user-facing message.
//
// Description:
//
//	Expired OAuth grants, credential problems, and network failures each
//	get targeted advice; everything else carries the raw error detail.
func CategorizeSendError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid_grant"):
		return sendErrorPrefix + "Your Google authentication has expired. Please reconnect your Google account in MCP Config."
	case strings.Contains(msg, "credentials"):
		return sendErrorPrefix + "There was an issue with your Google credentials. Please reconnect your Google account."
	case strings.Contains(msg, "network") || strings.Contains(msg, "timeout"):
		return sendErrorPrefix + "Network connection issue. Please check your internet connection and try again."
	default:
		return sendErrorPrefix + fmt.Sprintf("Error details: %v", err)
	}
}

// DrafterPrompt wraps a user query with instructions to produce a draft the
// parser can read back: To: and Subject: headers, a Body: marker, and no
// commentary besides the terminal send notice.
func DrafterPrompt(query string) string {
	return fmt.Sprintf(
		"You are an email drafting assistant. Draft a complete, professional email for the following request.\n\n"+
			"Request: %s\n\n"+
			"Format your response EXACTLY like this:\n"+
			"To: <recipient email address>\n"+
			"Subject: <subject line>\n"+
			"Body:\n"+
			"<the email body>\n\n"+
			"End the body with an appropriate closing signature. Do not add any commentary before the To: line. "+
			"After the body you may add the single line: I'll send this email for you.",
		query)
}
