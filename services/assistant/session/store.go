// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session persists per-session conversation history and user
// identity in BadgerDB. Entries carry a TTL so abandoned sessions age out
// without a sweeper.
package session

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// DefaultTTL is how long a session survives without activity.
const DefaultTTL = 24 * time.Hour

// maxHistory bounds the stored conversation so prompts stay affordable.
// Oldest messages are dropped first.
const maxHistory = 50

// Store is a BadgerDB-backed session store.
//
// Description:
//
//	Keys are namespaced under "session/v1/<id>/". Values are gob-encoded.
//	Every write refreshes the entry's TTL, so an active session never
//	expires mid-conversation.
//
// Thread Safety: Safe for concurrent use. Append performs a
// read-modify-write, serialized by an internal mutex; Badger transactions
// alone would let concurrent appends drop messages.
type Store struct {
	db  *badger.DB
	ttl time.Duration

	mu sync.Mutex
}

// Open creates or opens a session store at dir.
//
// Inputs:
//   - dir: Filesystem path for the Badger database.
//   - ttl: Session lifetime. Zero or negative uses DefaultTTL.
func Open(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("session store open failed: %w", err)
	}
	slog.Info("session store opened", "dir", dir, "ttl", ttl)
	return &Store{db: db, ttl: ttl}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// History returns the session's conversation, oldest first. An unknown
// session returns an empty history.
func (s *Store) History(_ context.Context, sessionID string) ([]datatypes.Message, error) {
	var history []datatypes.Message
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(historyKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&history)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("history read failed: %w", err)
	}
	return history, nil
}

// Append adds messages to the session's conversation, trimming the oldest
// entries past the history cap.
func (s *Store) Append(ctx context.Context, sessionID string, messages ...datatypes.Message) error {
	if len(messages) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, messages...)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(history); err != nil {
		return fmt.Errorf("history encode failed: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(historyKey(sessionID), buf.Bytes()).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("history write failed: %w", err)
	}
	return nil
}

// Identity loads the session's stored identity. An unknown session returns
// the zero identity.
func (s *Store) Identity(_ context.Context, sessionID string) (datatypes.Identity, error) {
	var id datatypes.Identity
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(identityKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&id)
		})
	})
	if err != nil {
		return datatypes.Identity{}, fmt.Errorf("identity read failed: %w", err)
	}
	return id, nil
}

// SetIdentity stores the session's identity.
func (s *Store) SetIdentity(_ context.Context, sessionID string, id datatypes.Identity) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(id); err != nil {
		return fmt.Errorf("identity encode failed: %w", err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(identityKey(sessionID), buf.Bytes()).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("identity write failed: %w", err)
	}
	return nil
}

func historyKey(sessionID string) []byte {
	return []byte("session/v1/" + sessionID + "/history")
}

func identityKey(sessionID string) []byte {
	return []byte("session/v1/" + sessionID + "/identity")
}
