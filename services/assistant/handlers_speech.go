// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxAudioBytes caps uploaded recordings at 20 MiB.
const maxAudioBytes = 20 << 20

// speechGuard rejects speech requests when Watson is not configured.
func (h *Handlers) speechGuard(c *gin.Context) bool {
	if h.svc.Speech == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Speech services are not configured"})
		return false
	}
	return true
}

// synthesizeRequest is the body shape of POST /api/speech/synthesize.
type synthesizeRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

// HandleSynthesize converts text to WAV audio.
func (h *Handlers) HandleSynthesize(c *gin.Context) {
	if !h.speechGuard(c) {
		return
	}
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	audio, err := h.svc.Speech.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		slog.Error("synthesize failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "audio/wav", audio)
}

// HandleRecognize transcribes an uploaded recording.
//
// Description:
//
//	The request body is the raw audio; its Content-Type header states the
//	encoding. Browsers record as audio/webm, which is the default.
func (h *Handlers) HandleRecognize(c *gin.Context) {
	if !h.speechGuard(c) {
		return
	}

	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioBytes))
	if err != nil || len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio body is required"})
		return
	}

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "audio/webm"
	}

	transcript, err := h.svc.Speech.Transcribe(c.Request.Context(), audio, contentType)
	if err != nil {
		slog.Error("transcribe failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}
