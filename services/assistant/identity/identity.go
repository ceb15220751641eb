// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package identity applies detected identity updates to the session store
// and builds the confirmation text streamed back to the user.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/intent"
)

// NoUpdateMessage is returned when a detected identity intent carried no
// usable fields.
const NoUpdateMessage = "⚠️ No identity information was updated."

// Store persists per-session identity.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Store interface {
	// Identity loads the stored identity for a session. A session with no
	// stored identity returns the zero value, not an error.
	Identity(ctx context.Context, sessionID string) (datatypes.Identity, error)

	// SetIdentity stores the identity for a session.
	SetIdentity(ctx context.Context, sessionID string, id datatypes.Identity) error
}

// Updater applies identity updates.
//
// Thread Safety: Safe for concurrent use.
type Updater struct {
	store Store
}

// NewUpdater builds an updater over the given store.
func NewUpdater(store Store) *Updater {
	return &Updater{store: store}
}

// Apply patches the session's stored identity with the extracted fields and
// returns a confirmation message, one line per updated field.
//
// Inputs:
//
//	params - Extracted fields keyed by intent.ParamName, intent.ParamEmail,
//	intent.ParamOrganization. Absent keys leave the stored value untouched.
//
// Outputs:
//
//	string - The confirmation text (NoUpdateMessage if nothing changed).
//	error - Non-nil only on store failures.
func (u *Updater) Apply(ctx context.Context, sessionID string, params map[string]string) (string, error) {
	id, err := u.store.Identity(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("identity load failed: %w", err)
	}

	var parts []string
	if name := params[intent.ParamName]; name != "" {
		id.Name = name
		parts = append(parts, fmt.Sprintf("✅ Your name has been updated to: %s", name))
	}
	if email := params[intent.ParamEmail]; email != "" {
		id.Email = email
		parts = append(parts, fmt.Sprintf("✅ Your email has been updated to: %s", email))
	}
	if org := params[intent.ParamOrganization]; org != "" {
		id.Organization = org
		parts = append(parts, fmt.Sprintf("✅ Your organization has been updated to: %s", org))
	}

	if len(parts) == 0 {
		return NoUpdateMessage, nil
	}

	if err := u.store.SetIdentity(ctx, sessionID, id); err != nil {
		return "", fmt.Errorf("identity save failed: %w", err)
	}
	slog.Info("identity updated", "session_id", sessionID, "fields", len(parts))
	return strings.Join(parts, "\n"), nil
}
