// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/intent"
)

// memStore is an in-memory identity store.
type memStore struct {
	identities map[string]datatypes.Identity
	saves      int
}

func newMemStore() *memStore {
	return &memStore{identities: map[string]datatypes.Identity{}}
}

func (m *memStore) Identity(_ context.Context, sessionID string) (datatypes.Identity, error) {
	return m.identities[sessionID], nil
}

func (m *memStore) SetIdentity(_ context.Context, sessionID string, id datatypes.Identity) error {
	m.saves++
	m.identities[sessionID] = id
	return nil
}

func TestApplyUpdatesFields(t *testing.T) {
	store := newMemStore()
	u := NewUpdater(store)

	msg, err := u.Apply(context.Background(), "s1", map[string]string{
		intent.ParamName:         "Alice Carter",
		intent.ParamOrganization: "Initech",
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.Contains(msg, "✅ Your name has been updated to: Alice Carter") {
		t.Errorf("message missing name confirmation: %q", msg)
	}
	if !strings.Contains(msg, "✅ Your organization has been updated to: Initech") {
		t.Errorf("message missing organization confirmation: %q", msg)
	}
	if strings.Contains(msg, "email") {
		t.Errorf("message mentions an unchanged field: %q", msg)
	}

	id := store.identities["s1"]
	if id.Name != "Alice Carter" || id.Organization != "Initech" || id.Email != "" {
		t.Errorf("stored identity = %+v", id)
	}
}

func TestApplyPreservesUntouchedFields(t *testing.T) {
	store := newMemStore()
	store.identities["s1"] = datatypes.Identity{Name: "Alice", Email: "alice@example.com"}
	u := NewUpdater(store)

	_, err := u.Apply(context.Background(), "s1", map[string]string{
		intent.ParamOrganization: "Initech",
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	id := store.identities["s1"]
	if id.Name != "Alice" || id.Email != "alice@example.com" || id.Organization != "Initech" {
		t.Errorf("stored identity = %+v", id)
	}
}

func TestApplyNothingToUpdate(t *testing.T) {
	store := newMemStore()
	u := NewUpdater(store)

	msg, err := u.Apply(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if msg != NoUpdateMessage {
		t.Errorf("message = %q, want %q", msg, NoUpdateMessage)
	}
	if store.saves != 0 {
		t.Errorf("store saved %d times for a no-op update, want 0", store.saves)
	}
}
