// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AgentoAI/agento/services/assistant/drive"
)

// REST surface over the file store, independent of the chat pipeline.
// Responses follow the {"success": bool, ...} envelope.

// driveGuard rejects drive requests when the integration is disabled.
func (h *Handlers) driveGuard(c *gin.Context) bool {
	if h.svc.DriveStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Google Drive is not configured",
		})
		return false
	}
	return true
}

// HandleDriveList lists all files.
func (h *Handlers) HandleDriveList(c *gin.Context) {
	if !h.driveGuard(c) {
		return
	}
	files, err := h.svc.DriveStore.ListFiles(c.Request.Context())
	if err != nil {
		driveError(c, "list files", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

// HandleDriveListByType lists files of one canonical type.
func (h *Handlers) HandleDriveListByType(c *gin.Context) {
	if !h.driveGuard(c) {
		return
	}
	fileType := c.Param("type")
	files, err := h.svc.DriveStore.ListFilesByType(c.Request.Context(), fileType)
	if err != nil {
		driveError(c, "list files by type", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "file_type": fileType, "files": files})
}

// HandleDriveRead returns one file's content.
//
// Description:
//
//	?format=raw streams the original bytes as a download. The default JSON
//	shape carries decoded text, or "[Binary content]" when the file could
//	not be rendered as text.
func (h *Handlers) HandleDriveRead(c *gin.Context) {
	if !h.driveGuard(c) {
		return
	}
	content, err := h.svc.DriveStore.ReadFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, drive.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "file not found"})
			return
		}
		driveError(c, "read file", err)
		return
	}

	if c.Query("format") == "raw" && len(content.Data) > 0 {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", content.Name))
		c.Data(http.StatusOK, content.MimeType, content.Data)
		return
	}

	text := content.Text
	if text == "" && len(content.Data) > 0 {
		text = "[Binary content]"
	}
	file := gin.H{
		"name":      content.Name,
		"mime_type": content.MimeType,
		"content":   text,
	}
	if len(content.Records) > 0 {
		file["records"] = content.Records
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "file": file})
}

// createFileRequest is the body shape of POST /api/drive/file.
type createFileRequest struct {
	FileName string `json:"file_name" binding:"required"`
	Content  string `json:"content"`
}

// HandleDriveCreate creates a plain text file.
func (h *Handlers) HandleDriveCreate(c *gin.Context) {
	if !h.driveGuard(c) {
		return
	}
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file_name and content are required"})
		return
	}
	ref, err := h.svc.DriveStore.CreateFile(c.Request.Context(), req.FileName, req.Content)
	if err != nil {
		driveError(c, "create file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "file": ref})
}

// createExcelRequest is the body shape of POST /api/drive/excel.
type createExcelRequest struct {
	FileName string     `json:"file_name" binding:"required"`
	Headers  []string   `json:"headers" binding:"required"`
	Rows     [][]string `json:"rows"`
}

// HandleDriveCreateExcel creates a spreadsheet from tabular data.
func (h *Handlers) HandleDriveCreateExcel(c *gin.Context) {
	if !h.driveGuard(c) {
		return
	}
	var req createExcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file_name and headers are required"})
		return
	}
	ref, err := h.svc.DriveStore.CreateSpreadsheet(c.Request.Context(), req.FileName, req.Headers, req.Rows)
	if err != nil {
		driveError(c, "create spreadsheet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "file": ref})
}

// driveError logs and reports a backend failure.
func driveError(c *gin.Context, op string, err error) {
	slog.Error("drive request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
