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

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/intent"
)

// listingCap bounds how many files the composed prompt enumerates.
const listingCap = 10

// readPreviewCap bounds how much plain-file content the composed prompt
// carries. Spreadsheet content is never truncated: the model is told to
// display it verbatim.
const readPreviewCap = 500

// ComposePrompt turns an action outcome into instructions for the LLM.
//
// Description:
//
//	The base prompt is extended with the operation's results and explicit
//	presentation instructions. Listings are capped at ten entries with a
//	"... and N more files" line. Plain file content is truncated to 500
//	characters; spreadsheet content is passed whole with instructions to
//	display it exactly rather than explain how to read the file. Failed
//	operations ask the model to relay the problem and suggest
//	alternatives.
func ComposePrompt(base string, kind intent.Kind, result datatypes.ActionResult) string {
	if !result.Success {
		return fmt.Sprintf(
			"%s\n\nThere was an issue with the Google Drive operation:\n%s\n\nPlease inform the user about this issue and suggest alternatives if appropriate.",
			base, result.Message)
	}

	switch kind {
	case intent.KindDriveList, intent.KindDriveListType:
		return composeListing(base, result)
	case intent.KindDriveRead:
		return composeRead(base, result)
	case intent.KindDriveCreate:
		return fmt.Sprintf(
			"%s\n\nI've created a file in your Google Drive:\nFile name: %s\nFile ID: %s\n\nPlease inform the user that the file was created successfully.",
			base, payloadString(result, "file_name"), payloadString(result, "file_id"))
	default:
		return base
	}
}

func composeListing(base string, result datatypes.ActionResult) string {
	files, _ := result.Payload["files"].([]datatypes.FileRef)

	var lines []string
	for i, f := range files {
		if i == listingCap {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", f.Name, f.MimeType))
	}
	if len(files) > listingCap {
		lines = append(lines, fmt.Sprintf("- ... and %d more files", len(files)-listingCap))
	}

	return fmt.Sprintf(
		"%s\n\nI've listed the files in your Google Drive. Here are the results:\n%s\n%s\n\nPlease summarize this information for the user in a helpful way.",
		base, result.Message, strings.Join(lines, "\n"))
}

func composeRead(base string, result datatypes.ActionResult) string {
	fileName := payloadString(result, "file_name")
	content := payloadString(result, "content")
	mimeType := payloadString(result, "mime_type")

	if isSpreadsheetMime(mimeType) {
		return fmt.Sprintf(
			"%s\n\nI've read the Excel file '%s' from your Google Drive.\n"+
				"Here's the EXACT content of the file that I want you to display to the user:\n\n%s\n\n"+
				"IMPORTANT: Do NOT give instructions on how to read the file. Instead, display the actual content shown above in a clear, formatted way.\n"+
				"The file has already been read successfully, so just present the data I've provided above.\n"+
				"DO NOT mention Google Drive API or code snippets unless specifically asked.\n"+
				"Simply present the data in a readable format with appropriate formatting.",
			base, fileName, content)
	}

	if len(content) > readPreviewCap {
		content = content[:readPreviewCap] + "... (content truncated)"
	}
	return fmt.Sprintf(
		"%s\n\nI've read the file '%s' from your Google Drive. Here's the content:\n%s\n\nPlease summarize this information for the user in a helpful way.",
		base, fileName, content)
}

// isSpreadsheetMime recognizes spreadsheet content by MIME type.
func isSpreadsheetMime(mimeType string) bool {
	return strings.Contains(mimeType, "spreadsheet") ||
		strings.Contains(mimeType, "excel") ||
		strings.Contains(mimeType, "xlsx") ||
		strings.Contains(mimeType, "xls")
}

// payloadString fetches a string payload field, tolerating absence.
func payloadString(result datatypes.ActionResult, key string) string {
	if result.Payload == nil {
		return ""
	}
	s, _ := result.Payload[key].(string)
	return s
}
