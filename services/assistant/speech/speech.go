// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package speech provides voice input and output for the assistant through
// IBM Watson Text-to-Speech and Speech-to-Text.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/IBM/go-sdk-core/v5/core"
	"github.com/watson-developer-cloud/go-sdk/v2/speechtotextv1"
	"github.com/watson-developer-cloud/go-sdk/v2/texttospeechv1"
)

const (
	// DefaultVoice is the Watson voice used when the caller does not pick one.
	DefaultVoice = "en-US_AllisonV3Voice"

	// DefaultModel is the Watson recognition model for transcription.
	DefaultModel = "en-US_BroadbandModel"

	synthesizeFormat = "audio/wav"
)

// Config holds the Watson service credentials and endpoints.
type Config struct {
	TTSAPIKey string
	TTSURL    string
	STTAPIKey string
	STTURL    string
}

// Service wraps the two Watson speech services.
//
// Thread Safety: Safe for concurrent use.
type Service struct {
	tts *texttospeechv1.TextToSpeechV1
	stt *speechtotextv1.SpeechToTextV1
}

// NewService builds both Watson clients from the given credentials.
func NewService(cfg Config) (*Service, error) {
	tts, err := texttospeechv1.NewTextToSpeechV1(&texttospeechv1.TextToSpeechV1Options{
		Authenticator: &core.IamAuthenticator{ApiKey: cfg.TTSAPIKey},
	})
	if err != nil {
		return nil, fmt.Errorf("text-to-speech init failed: %w", err)
	}
	tts.SetServiceURL(cfg.TTSURL)

	stt, err := speechtotextv1.NewSpeechToTextV1(&speechtotextv1.SpeechToTextV1Options{
		Authenticator: &core.IamAuthenticator{ApiKey: cfg.STTAPIKey},
	})
	if err != nil {
		return nil, fmt.Errorf("speech-to-text init failed: %w", err)
	}
	stt.SetServiceURL(cfg.STTURL)

	return &Service{tts: tts, stt: stt}, nil
}

// Synthesize converts text into WAV audio using the given voice.
// An empty voice falls back to DefaultVoice.
func (s *Service) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	result, _, err := s.tts.SynthesizeWithContext(ctx, &texttospeechv1.SynthesizeOptions{
		Text:   core.StringPtr(text),
		Accept: core.StringPtr(synthesizeFormat),
		Voice:  core.StringPtr(voice),
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize failed: %w", err)
	}
	defer result.Close()

	audio, err := io.ReadAll(result)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	return audio, nil
}

// Transcribe converts recorded audio into text.
//
// Description: Sends the audio to Watson Speech-to-Text with the broadband
// model and joins the transcript of every recognized segment.
// Inputs: audio is the raw recording; contentType describes its encoding,
// for example "audio/webm".
// Outputs: the joined transcript, empty when nothing was recognized.
func (s *Service) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	result, _, err := s.stt.RecognizeWithContext(ctx, &speechtotextv1.RecognizeOptions{
		Audio:       io.NopCloser(bytes.NewReader(audio)),
		ContentType: core.StringPtr(contentType),
		Model:       core.StringPtr(DefaultModel),
	})
	if err != nil {
		return "", fmt.Errorf("recognize failed: %w", err)
	}
	return JoinTranscripts(result), nil
}

// JoinTranscripts flattens Watson recognition results into one transcript,
// taking the first alternative of each segment.
func JoinTranscripts(results *speechtotextv1.SpeechRecognitionResults) string {
	if results == nil {
		return ""
	}
	parts := make([]string, 0, len(results.Results))
	for _, seg := range results.Results {
		if len(seg.Alternatives) == 0 || seg.Alternatives[0].Transcript == nil {
			continue
		}
		parts = append(parts, strings.TrimSpace(*seg.Alternatives[0].Transcript))
	}
	return strings.Join(parts, " ")
}
