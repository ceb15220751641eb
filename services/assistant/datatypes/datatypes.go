// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes holds the request-scoped value types shared between the
// assistant's intent, action, and provider packages. Everything here is a
// plain value; nothing is persisted by this package.
package datatypes

// Message is a single conversation turn in provider-agnostic form.
type Message struct {
	// Role is one of "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// FileRef identifies a file in the user's cloud drive.
//
// Description:
//
//	A FileRef comes from a live listing call and is authoritative only for
//	the duration of the request that fetched it (see the snapshot contract
//	in the intent package).
type FileRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

// FileContent is the decoded content of a single drive file.
//
// Description:
//
//	Text carries a human-readable rendering (for spreadsheets this is a
//	pre-formatted table preview). Records carries the row data for
//	spreadsheet types. Data carries the raw bytes for binary types.
type FileContent struct {
	Name     string
	MimeType string
	Text     string
	Records  []map[string]string
	Data     []byte
}

// ActionResult is the uniform envelope returned by every action handler.
//
// Description:
//
//	Success reflects whether the operation completed, not whether the
//	outcome is what the user hoped for: an empty listing is Success=true
//	with an empty payload, not an error. Handlers never signal failure
//	through panics or error returns visible to the response composer.
type ActionResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Identity holds the session-scoped user identity fields.
type Identity struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}
