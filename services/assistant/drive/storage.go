// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package drive implements the assistant's file actions: listing, reading,
// and creating files in the user's cloud storage, plus the prompt
// composition that turns an action outcome into LLM instructions. The
// storage backend is abstracted behind the Storage interface so the action
// logic tests without network access.
package drive

import (
	"context"
	"errors"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// ErrFileNotFound reports that no stored file matched the requested name
// after all resolution tiers were exhausted.
var ErrFileNotFound = errors.New("file not found")

// Storage is the backing file store.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Storage interface {
	// ListFiles returns all files in the provider's listing order.
	ListFiles(ctx context.Context) ([]datatypes.FileRef, error)

	// ListFilesByType returns files of one canonical type ("excel",
	// "document", "pdf", "text", "presentation").
	ListFilesByType(ctx context.Context, fileType string) ([]datatypes.FileRef, error)

	// SearchFiles runs a provider-side name search. The query is a
	// provider query expression such as "name = 'x'" or
	// "name contains 'x'".
	SearchFiles(ctx context.Context, query string) ([]datatypes.FileRef, error)

	// ReadFile fetches and decodes one file's content by ID.
	ReadFile(ctx context.Context, fileID string) (*datatypes.FileContent, error)

	// CreateFile creates a plain text file and returns its reference.
	CreateFile(ctx context.Context, name, content string) (*datatypes.FileRef, error)

	// CreateSpreadsheet creates a workbook from column headers and rows
	// and returns its reference.
	CreateSpreadsheet(ctx context.Context, name string, headers []string, rows [][]string) (*datatypes.FileRef, error)
}
