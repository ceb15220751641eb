// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// The chat endpoint speaks a minimal SSE dialect: bare `data:` lines carrying
// JSON objects, no event or id fields. Clients key off the "status" field for
// lifecycle ({"status":"start"} ... {"status":"done"}), "content" for text
// chunks, and "type" for trailing action outcomes.

// sseWriter emits SSE data frames over an HTTP response.
//
// Thread Safety: NOT safe for concurrent use. One writer per request.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter prepares the response for event streaming.
func newSSEWriter(w http.ResponseWriter) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: flusher}
}

// send writes one data frame and flushes it to the client.
func (s *sseWriter) send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal sse frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write sse frame: %w", err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func (s *sseWriter) start() error {
	return s.send(map[string]string{"status": "start"})
}

func (s *sseWriter) content(text string) error {
	return s.send(map[string]string{"content": text})
}

func (s *sseWriter) done() error {
	return s.send(map[string]string{"status": "done"})
}

func (s *sseWriter) fail(message string) error {
	return s.send(map[string]string{"status": "error", "message": message})
}

// typed emits a trailing action-outcome chunk, e.g. email_sent/email_error.
func (s *sseWriter) typed(kind, text string) error {
	return s.send(map[string]string{"type": kind, "content": text})
}
