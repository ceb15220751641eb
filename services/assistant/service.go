// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package assistant wires the intent pipeline, action handlers and the LLM
// into the HTTP surface of the Agento personal assistant.
package assistant

import (
	"context"
	"fmt"

	"github.com/AgentoAI/agento/services/assistant/drive"
	"github.com/AgentoAI/agento/services/assistant/email"
	"github.com/AgentoAI/agento/services/assistant/identity"
	"github.com/AgentoAI/agento/services/assistant/intent"
	"github.com/AgentoAI/agento/services/assistant/providers"
	"github.com/AgentoAI/agento/services/assistant/search"
	"github.com/AgentoAI/agento/services/assistant/session"
	"github.com/AgentoAI/agento/services/assistant/speech"
)

// chatSystemPrompt frames every generic conversation turn.
const chatSystemPrompt = "You are a helpful assistant specialized in coding and study-related responses."

// Generation settings for the streaming chat path.
const (
	chatTemperature = 0.5
	chatMaxTokens   = 4000
)

// Service bundles everything the HTTP handlers need.
//
// Description:
//
//	Optional integrations (Drive, Gmail, Tavily, Watson) may be nil; the
//	handlers degrade the matching feature instead of failing at startup.
//	Chat, Dispatcher, Identity and Sessions are required.
//
// Thread Safety: Safe for concurrent use once constructed.
type Service struct {
	Chat       providers.StreamingChatClient
	Dispatcher *intent.Dispatcher
	Sessions   *session.Store
	Identity   *identity.Updater

	// Drive integration. DriveStore doubles as the classifier's file
	// listing source. Nil disables drive actions.
	Drive      *drive.Actions
	DriveStore drive.Storage

	// Email sending. Nil disables the send step (drafts still stream).
	Email *email.Processor

	// Web search. Nil disables /api/search.
	Search *search.Client

	// Speech endpoints. Nil disables /api/speech/*.
	Speech *speech.Service
}

// Validate checks that the required collaborators are present.
func (s *Service) Validate() error {
	switch {
	case s.Chat == nil:
		return fmt.Errorf("assistant: chat client is required")
	case s.Dispatcher == nil:
		return fmt.Errorf("assistant: intent dispatcher is required")
	case s.Sessions == nil:
		return fmt.Errorf("assistant: session store is required")
	case s.Identity == nil:
		return fmt.Errorf("assistant: identity updater is required")
	}
	return nil
}

// lister adapts the drive store to the classifier snapshot source.
// Returns nil when drive is disabled, which the intent context accepts.
func (s *Service) lister() intent.FileLister {
	if s.DriveStore == nil {
		return nil
	}
	return s.DriveStore
}

// Dispatch classifies one query with a fresh per-query context.
func (s *Service) Dispatch(ctx context.Context, query string) intent.Result {
	return s.Dispatcher.Dispatch(ctx, query, intent.NewContext(s.lister()))
}
