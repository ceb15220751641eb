// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gdrive is the Google Drive implementation of the assistant's file
// storage: listing, search, content download with Workspace export, and
// file/workbook creation.
package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	storage "github.com/AgentoAI/agento/services/assistant/drive"
	"github.com/AgentoAI/agento/services/assistant/googleauth"
)

// listPageSize is how many files a single listing call fetches.
const listPageSize = 100

// listFields selects the file attributes every listing carries.
const listFields = "files(id, name, mimeType, createdTime, modifiedTime)"

// MIME types for stored and exported content.
const (
	mimeSpreadsheetXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeDocumentDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePresentationPPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	mimeGoogleDoc          = "application/vnd.google-apps.document"
	mimeGoogleSheet        = "application/vnd.google-apps.spreadsheet"
	mimeGooglePresentation = "application/vnd.google-apps.presentation"
)

// typeQueries maps canonical file types to Drive search expressions.
var typeQueries = map[string][]string{
	"excel":        {mimeGoogleSheet, mimeSpreadsheetXLSX, "application/vnd.ms-excel"},
	"document":     {mimeGoogleDoc, mimeDocumentDOCX, "application/msword"},
	"pdf":          {"application/pdf"},
	"text":         {"text/plain", "text/csv"},
	"presentation": {mimeGooglePresentation, mimePresentationPPTX, "application/vnd.ms-powerpoint"},
}

// exportTypes maps Google Workspace types to their download formats.
var exportTypes = map[string]string{
	mimeGoogleDoc:          mimeDocumentDOCX,
	mimeGoogleSheet:        mimeSpreadsheetXLSX,
	mimeGooglePresentation: mimePresentationPPTX,
}

// createMimeByExt infers the upload MIME type from a file extension.
var createMimeByExt = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".xlsx": mimeSpreadsheetXLSX,
	".docx": mimeDocumentDOCX,
	".pdf":  "application/pdf",
}

// Service is the Drive-backed file store.
//
// Thread Safety: Safe for concurrent use.
type Service struct {
	files *drive.FilesService
}

// NewService builds a Drive service from OAuth credential files.
func NewService(ctx context.Context, credentialsFile, tokenFile string) (*Service, error) {
	client, err := googleauth.Client(ctx, credentialsFile, tokenFile, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("drive auth failed: %w", err)
	}
	return NewServiceWithClient(ctx, client)
}

// NewServiceWithClient builds a Drive service over an existing HTTP client.
func NewServiceWithClient(ctx context.Context, client *http.Client) (*Service, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("drive service construction failed: %w", err)
	}
	return &Service{files: svc.Files}, nil
}

// ListFiles returns all files in Drive listing order.
func (s *Service) ListFiles(ctx context.Context) ([]datatypes.FileRef, error) {
	return s.listWith(ctx, "")
}

// SearchFiles runs a Drive query expression ("name = 'x'",
// "name contains 'x'").
func (s *Service) SearchFiles(ctx context.Context, query string) ([]datatypes.FileRef, error) {
	return s.listWith(ctx, query)
}

// ListFilesByType returns files of one canonical type. Unknown types fall
// back to a MIME substring search.
func (s *Service) ListFilesByType(ctx context.Context, fileType string) ([]datatypes.FileRef, error) {
	mimes, ok := typeQueries[strings.ToLower(fileType)]
	if !ok {
		return s.listWith(ctx, fmt.Sprintf("mimeType contains '%s'", fileType))
	}
	terms := make([]string, len(mimes))
	for i, m := range mimes {
		terms[i] = fmt.Sprintf("mimeType = '%s'", m)
	}
	return s.listWith(ctx, strings.Join(terms, " or "))
}

func (s *Service) listWith(ctx context.Context, query string) ([]datatypes.FileRef, error) {
	call := s.files.List().Context(ctx).PageSize(listPageSize).Fields(listFields)
	if query != "" {
		call = call.Q(query)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("drive listing failed: %w", err)
	}

	refs := make([]datatypes.FileRef, 0, len(resp.Files))
	for _, f := range resp.Files {
		refs = append(refs, datatypes.FileRef{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			CreatedTime:  f.CreatedTime,
			ModifiedTime: f.ModifiedTime,
		})
	}
	return refs, nil
}

// ReadFile downloads and decodes one file.
//
// Description:
//
//	Google Workspace files are exported to their Office format first.
//	Spreadsheets are parsed and rendered to the readable text block;
//	plain text decodes directly; anything else is returned as raw bytes.
func (s *Service) ReadFile(ctx context.Context, fileID string) (*datatypes.FileContent, error) {
	meta, err := s.files.Get(fileID).Context(ctx).Fields("name, mimeType").Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, storage.ErrFileNotFound
		}
		return nil, fmt.Errorf("file metadata fetch failed: %w", err)
	}

	mimeType := meta.MimeType
	var resp *http.Response
	if exportMime, ok := exportTypes[mimeType]; ok {
		slog.Info("exporting workspace file", "name", meta.Name, "mime_type", mimeType)
		resp, err = s.files.Export(fileID, exportMime).Context(ctx).Download()
		mimeType = exportMime
	} else {
		resp, err = s.files.Get(fileID).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("file body read failed: %w", err)
	}

	content := &datatypes.FileContent{Name: meta.Name, MimeType: mimeType, Data: data}
	switch {
	case isSpreadsheetMime(mimeType):
		headers, rows, err := ParseWorkbook(bytes.NewReader(data))
		if err != nil {
			content.Text = fmt.Sprintf("Could not read Excel file content: %v", err)
			return content, nil
		}
		content.Text = FormatSheet(headers, rows)
		content.Records = sheetRecords(headers, rows)
	case mimeType == "text/plain" || mimeType == "text/csv":
		content.Text = string(data)
	}
	return content, nil
}

// CreateFile uploads a file, inferring the MIME type from the extension.
func (s *Service) CreateFile(ctx context.Context, name, content string) (*datatypes.FileRef, error) {
	return s.upload(ctx, name, strings.NewReader(content), createMime(name))
}

// CreateSpreadsheet builds an xlsx workbook and uploads it.
func (s *Service) CreateSpreadsheet(ctx context.Context, name string, headers []string, rows [][]string) (*datatypes.FileRef, error) {
	buf, err := BuildWorkbook(headers, rows)
	if err != nil {
		return nil, err
	}
	return s.upload(ctx, name, buf, mimeSpreadsheetXLSX)
}

func (s *Service) upload(ctx context.Context, name string, body io.Reader, mimeType string) (*datatypes.FileRef, error) {
	created, err := s.files.Create(&drive.File{Name: name}).
		Media(body, googleapi.ContentType(mimeType)).
		Fields("id, name, mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive upload failed: %w", err)
	}
	slog.Info("drive file created", "name", created.Name, "id", created.Id, "mime_type", mimeType)
	return &datatypes.FileRef{ID: created.Id, Name: created.Name, MimeType: created.MimeType}, nil
}

func createMime(name string) string {
	if m, ok := createMimeByExt[strings.ToLower(path.Ext(name))]; ok {
		return m
	}
	return "text/plain"
}

func isSpreadsheetMime(mimeType string) bool {
	return strings.Contains(mimeType, "spreadsheet") ||
		mimeType == "application/vnd.ms-excel"
}
