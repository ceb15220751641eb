// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/intent"
)

// DefaultFileContent is written when a create request carries no content.
const DefaultFileContent = "This is a new file created by Agento Assistant."

// textExtensions are the plain-file extensions accepted as-is on create;
// anything else gets ".txt" appended.
var textExtensions = []string{".txt", ".md", ".csv", ".json", ".html", ".xml", ".log"}

// readQuotedNameRe recovers a quoted file name from a read query when the
// classifier extracted nothing.
var readQuotedNameRe = regexp.MustCompile(`["'](.*?)["']\.?\s*(?:file|spreadsheet|document|xlsx|xls)?`)

// readAnchorWords precede a bare file name in read queries ("read X",
// "file X").
var readAnchorWords = []string{"file", "named", "called", "titled", "read", "open", "show", "get"}

// =============================================================================
// Drive Actions
// =============================================================================

// Actions executes classified drive intents against the file store.
//
// Description:
//
//	Every operation returns a uniform ActionResult: a success flag, a
//	user-facing message, and a payload with the operation's artifacts
//	(file listings, file content, created file IDs). Failures are
//	reported inside the result, not as errors, so the caller can always
//	hand the outcome to the response composer.
//
// Thread Safety: Safe for concurrent use.
type Actions struct {
	store    Storage
	resolver *Resolver
	rules    *intent.Rules

	// now is injectable for deterministic default file names in tests.
	now func() time.Time
}

// NewActions builds the drive action executor.
func NewActions(store Storage, rules *intent.Rules) *Actions {
	return &Actions{
		store:    store,
		resolver: NewResolver(store),
		rules:    rules,
		now:      time.Now,
	}
}

// Process executes one classified drive intent.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	kind - One of the drive intent kinds.
//	query - The original user query, used to recover parameters the
//	classifier did not extract.
//	params - Parameters extracted at classification time. May be nil.
func (a *Actions) Process(ctx context.Context, kind intent.Kind, query string, params map[string]string) datatypes.ActionResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "drive.Actions.Process",
		trace.WithAttributes(attribute.String("intent.kind", string(kind))),
	)
	defer span.End()

	if params == nil {
		params = map[string]string{}
	}

	var res datatypes.ActionResult
	switch kind {
	case intent.KindDriveList:
		res = a.list(ctx)
	case intent.KindDriveListType:
		res = a.listType(ctx, query, params)
	case intent.KindDriveRead:
		res = a.read(ctx, query, params)
	case intent.KindDriveCreate:
		res = a.create(ctx, query, params)
	default:
		res = datatypes.ActionResult{Message: "Unknown Google Drive intent."}
	}

	status := "success"
	if !res.Success {
		status = "failure"
	}
	actionsTotal.WithLabelValues(string(kind), status).Inc()
	span.SetAttributes(attribute.Bool("action.success", res.Success))
	return res
}

// list returns every file in the store.
func (a *Actions) list(ctx context.Context) datatypes.ActionResult {
	files, err := a.store.ListFiles(ctx)
	if err != nil {
		return errorResult("Error processing Google Drive request: %v", err)
	}
	if len(files) == 0 {
		return datatypes.ActionResult{
			Success: true,
			Message: "No files found in your Google Drive.",
			Payload: map[string]any{"files": []datatypes.FileRef{}},
		}
	}
	return datatypes.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Found %d files in your Google Drive.", len(files)),
		Payload: map[string]any{"files": files},
	}
}

// listType returns files of one type, recovering the type from the query
// when classification did not pin it down.
func (a *Actions) listType(ctx context.Context, query string, params map[string]string) datatypes.ActionResult {
	fileType := params[intent.ParamFileType]
	if fileType == "" {
		fileType = a.sniffFileType(strings.ToLower(query))
	}
	if fileType == "" {
		return datatypes.ActionResult{
			Message: "Could not determine which file type you want to list.",
		}
	}

	files, err := a.store.ListFilesByType(ctx, fileType)
	if err != nil {
		return errorResult("Error processing Google Drive request: %v", err)
	}
	if len(files) == 0 {
		return datatypes.ActionResult{
			Success: true,
			Message: fmt.Sprintf("No %s files found in your Google Drive.", fileType),
			Payload: map[string]any{"files": []datatypes.FileRef{}},
		}
	}
	return datatypes.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Found %d %s files in your Google Drive.", len(files), fileType),
		Payload: map[string]any{"files": files},
	}
}

// read resolves a file name and returns its content.
func (a *Actions) read(ctx context.Context, query string, params map[string]string) datatypes.ActionResult {
	fileName := params[intent.ParamFileName]
	if fileName == "" {
		fileName = a.readNameFromQuery(query)
	}
	if fileName == "" {
		return datatypes.ActionResult{Message: "Please specify a file name to read."}
	}

	slog.Info("resolving file for read", "file_name", fileName)
	ref, err := a.resolver.Resolve(ctx, fileName)
	if errors.Is(err, ErrFileNotFound) {
		return datatypes.ActionResult{
			Message: fmt.Sprintf("Could not find a file named %q in your Google Drive. Please check the file name and try again.", fileName),
			Payload: map[string]any{"file_name": fileName},
		}
	}
	if err != nil {
		return errorResult("Error processing Google Drive request: %v", err)
	}

	content, err := a.store.ReadFile(ctx, ref.ID)
	if err != nil {
		slog.Error("file content read failed", "file_id", ref.ID, "error", err)
		return datatypes.ActionResult{
			Message: fmt.Sprintf("Error reading file content: %v", err),
			Payload: map[string]any{"file_name": ref.Name},
		}
	}

	return datatypes.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Here is the content of %q:", ref.Name),
		Payload: map[string]any{
			"file_name": ref.Name,
			"content":   content.Text,
			"mime_type": content.MimeType,
		},
	}
}

// create builds a new file, recovering name and content from the query when
// classification did not extract them.
func (a *Actions) create(ctx context.Context, query string, params map[string]string) datatypes.ActionResult {
	lower := strings.ToLower(query)

	fileName := params[intent.ParamFileName]
	if fileName == "" {
		if name, rule, ok := intent.ExtractFirst(a.rules.Drive.CreateNamePatterns, query); ok {
			fileName = name
			slog.Debug("create file name extracted", "rule", rule, "name", name)
		}
	}
	if fileName == "" {
		fileName = fmt.Sprintf("new_file_%d.txt", a.now().Unix())
		slog.Debug("using default file name", "name", fileName)
	}

	content := params[intent.ParamContent]
	if content == "" {
		if c, rule, ok := intent.ExtractFirst(a.rules.Drive.ContentPatterns, query); ok {
			content = c
			slog.Debug("create content extracted", "rule", rule)
		}
	}
	if content == "" {
		content = DefaultFileContent
	}

	fileType := params[intent.ParamFileType]
	if fileType == "" {
		fileType = inferCreateType(lower, fileName)
	}

	isExcel := fileType == "excel" ||
		strings.Contains(lower, "excel") || strings.Contains(lower, "spreadsheet") ||
		strings.HasSuffix(fileName, ".xlsx") || strings.HasSuffix(fileName, ".xls")

	if isExcel {
		return a.createSpreadsheet(ctx, fileName, content)
	}
	return a.createText(ctx, fileName, content)
}

// createSpreadsheet builds a workbook from tabular content or sample data.
func (a *Actions) createSpreadsheet(ctx context.Context, fileName, content string) datatypes.ActionResult {
	headers, rows, ok := ParseTabular(content)
	if !ok {
		slog.Info("content is not tabular, generating sample workbook data")
		headers, rows = SampleData(content)
	}

	if !strings.HasSuffix(fileName, ".xlsx") && !strings.HasSuffix(fileName, ".xls") {
		fileName += ".xlsx"
	}

	ref, err := a.store.CreateSpreadsheet(ctx, fileName, headers, rows)
	if err != nil {
		slog.Error("spreadsheet creation failed", "file_name", fileName, "error", err)
		return errorResult("Error creating Excel file: %v. Please try again with a simpler file name or content.", err)
	}

	slog.Info("spreadsheet created", "file_name", ref.Name, "file_id", ref.ID)
	return datatypes.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Successfully created Excel file %q in Google Drive.", fileName),
		Payload: map[string]any{"file_id": ref.ID, "file_name": ref.Name},
	}
}

// createText builds a plain text file.
func (a *Actions) createText(ctx context.Context, fileName, content string) datatypes.ActionResult {
	if !hasTextExtension(fileName) {
		fileName += ".txt"
	}

	ref, err := a.store.CreateFile(ctx, fileName, content)
	if err != nil {
		slog.Error("file creation failed", "file_name", fileName, "error", err)
		return errorResult("Error creating file: %v. Please try again with a simpler file name or content.", err)
	}

	slog.Info("file created", "file_name", ref.Name, "file_id", ref.ID)
	return datatypes.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Successfully created file %q in Google Drive.", fileName),
		Payload: map[string]any{"file_id": ref.ID, "file_name": ref.Name},
	}
}

// readNameFromQuery recovers a file name from a read query: a quoted name,
// then the word after an anchor word, then the first word that is not a
// stopword.
func (a *Actions) readNameFromQuery(query string) string {
	if m := readQuotedNameRe.FindStringSubmatch(query); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	words := strings.Fields(query)
	lowerWords := strings.Fields(strings.ToLower(query))
	for _, anchor := range readAnchorWords {
		for i, w := range lowerWords {
			if w == anchor && i+1 < len(words) {
				return strings.Trim(words[i+1], `,."';:()`)
			}
		}
	}

	for _, w := range words {
		if len(w) > 2 && !containsWord(a.rules.Drive.ReadStopwords, strings.ToLower(w)) {
			return strings.Trim(w, `,."';:()`)
		}
	}
	return ""
}

// sniffFileType maps query vocabulary to a canonical file type using the
// classifier's keyword groups.
func (a *Actions) sniffFileType(lowerQuery string) string {
	for _, group := range a.rules.Drive.FileTypes {
		for _, kw := range group.Keywords {
			if strings.Contains(lowerQuery, kw) {
				return group.Type
			}
		}
	}
	return ""
}

// inferCreateType decides between excel and text for a new file.
func inferCreateType(lowerQuery, fileName string) string {
	switch {
	case strings.Contains(lowerQuery, "excel") || strings.Contains(lowerQuery, "spreadsheet") ||
		strings.Contains(lowerQuery, "xlsx") || strings.Contains(lowerQuery, "xls"):
		return "excel"
	case strings.Contains(lowerQuery, "text") || strings.Contains(lowerQuery, "txt") ||
		strings.Contains(lowerQuery, "document"):
		return "text"
	case strings.HasSuffix(fileName, ".xlsx") || strings.HasSuffix(fileName, ".xls"):
		return "excel"
	default:
		return "text"
	}
}

// hasTextExtension reports whether the name already ends with an accepted
// plain-file extension.
func hasTextExtension(name string) bool {
	for _, ext := range textExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// containsWord reports whether list contains exactly w.
func containsWord(list []string, w string) bool {
	for _, v := range list {
		if v == w {
			return true
		}
	}
	return false
}

// errorResult formats a failure ActionResult.
func errorResult(format string, args ...any) datatypes.ActionResult {
	return datatypes.ActionResult{Message: fmt.Sprintf(format, args...)}
}
