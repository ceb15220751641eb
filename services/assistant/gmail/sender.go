// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gmail sends assistant emails through the Gmail API on behalf of
// the authenticated user.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/AgentoAI/agento/services/assistant/googleauth"
)

// Sender delivers HTML email via the Gmail API.
//
// Thread Safety: Safe for concurrent use.
type Sender struct {
	messages *gmailapi.UsersMessagesService
}

// NewSender builds a Gmail sender from OAuth credential files.
func NewSender(ctx context.Context, credentialsFile, tokenFile string) (*Sender, error) {
	client, err := googleauth.Client(ctx, credentialsFile, tokenFile, gmailapi.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("gmail auth failed: %w", err)
	}
	return NewSenderWithClient(ctx, client)
}

// NewSenderWithClient builds a Gmail sender over an existing HTTP client.
func NewSenderWithClient(ctx context.Context, client *http.Client) (*Sender, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("gmail service construction failed: %w", err)
	}
	return &Sender{messages: svc.Users.Messages}, nil
}

// Send delivers an HTML email and returns the Gmail message ID.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	raw := base64.URLEncoding.EncodeToString(buildMessage(to, subject, htmlBody))

	sent, err := s.messages.Send("me", &gmailapi.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gmail send failed: %w", err)
	}
	slog.Info("email sent", "to", to, "message_id", sent.Id)
	return sent.Id, nil
}

// buildMessage assembles an RFC 2822 HTML message.
func buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
