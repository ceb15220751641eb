// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drive

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/intent"
)

func TestComposePromptListingCapsAtTen(t *testing.T) {
	var files []datatypes.FileRef
	for i := 0; i < 13; i++ {
		files = append(files, datatypes.FileRef{
			Name:     fmt.Sprintf("file_%02d.txt", i),
			MimeType: "text/plain",
		})
	}
	result := datatypes.ActionResult{
		Success: true,
		Message: "Found 13 files in your Google Drive.",
		Payload: map[string]any{"files": files},
	}

	prompt := ComposePrompt("base", intent.KindDriveList, result)
	if !strings.Contains(prompt, "file_09.txt") {
		t.Error("tenth file missing from prompt")
	}
	if strings.Contains(prompt, "file_10.txt") {
		t.Error("eleventh file should not be enumerated")
	}
	if !strings.Contains(prompt, "... and 3 more files") {
		t.Error("overflow line missing")
	}
	if !strings.Contains(prompt, "summarize this information") {
		t.Error("summarize instruction missing")
	}
}

func TestComposePromptReadTruncatesPlainContent(t *testing.T) {
	long := strings.Repeat("x", 600)
	result := datatypes.ActionResult{
		Success: true,
		Payload: map[string]any{
			"file_name": "notes.txt",
			"content":   long,
			"mime_type": "text/plain",
		},
	}

	prompt := ComposePrompt("base", intent.KindDriveRead, result)
	if !strings.Contains(prompt, "... (content truncated)") {
		t.Error("truncation marker missing")
	}
	if strings.Contains(prompt, strings.Repeat("x", 501)) {
		t.Error("content not truncated to the preview cap")
	}
}

func TestComposePromptReadSpreadsheetIsVerbatim(t *testing.T) {
	content := "Excel File Contents:\n\nColumns: Name, Value\n\n" + strings.Repeat("Row data\n", 100)
	result := datatypes.ActionResult{
		Success: true,
		Payload: map[string]any{
			"file_name": "budget.xlsx",
			"content":   content,
			"mime_type": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
	}

	prompt := ComposePrompt("base", intent.KindDriveRead, result)
	if !strings.Contains(prompt, content) {
		t.Error("spreadsheet content was truncated")
	}
	if !strings.Contains(prompt, "EXACT content") {
		t.Error("verbatim display instruction missing")
	}
	if !strings.Contains(prompt, "Do NOT give instructions on how to read the file") {
		t.Error("anti-instruction guard missing")
	}
}

func TestComposePromptCreate(t *testing.T) {
	result := datatypes.ActionResult{
		Success: true,
		Payload: map[string]any{"file_name": "notes.txt", "file_id": "abc123"},
	}

	prompt := ComposePrompt("base", intent.KindDriveCreate, result)
	if !strings.Contains(prompt, "File name: notes.txt") || !strings.Contains(prompt, "File ID: abc123") {
		t.Errorf("prompt missing creation details:\n%s", prompt)
	}
}

func TestComposePromptFailure(t *testing.T) {
	result := datatypes.ActionResult{Message: "Could not find a file named \"ghost\"."}

	prompt := ComposePrompt("base", intent.KindDriveRead, result)
	if !strings.Contains(prompt, "There was an issue with the Google Drive operation") {
		t.Error("failure framing missing")
	}
	if !strings.Contains(prompt, "ghost") {
		t.Error("failure message not carried into the prompt")
	}
	if !strings.Contains(prompt, "suggest alternatives") {
		t.Error("alternatives instruction missing")
	}
}
