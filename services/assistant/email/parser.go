// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package email turns an LLM-drafted email into a sendable message and
// dispatches it. The draft parser is deliberately forgiving: models vary in
// how faithfully they follow the drafting prompt, so recipient, subject,
// and body each have fallback extraction paths.
package email

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultSubject is used when the draft carries no Subject: header.
const DefaultSubject = "Email from Agento Assistant"

// Parse failures surfaced to the user.
var (
	ErrNoRecipient = errors.New("could not extract recipient email address, please specify an email address")
	ErrNoBody      = errors.New("could not extract email body content")
)

// addressRe recognizes a syntactically valid email address token.
var addressRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// signatureMarkers end body collection in header-detection mode. The
// matching line is kept; a short following line is kept as the signer's
// name.
var signatureMarkers = []string{
	"best regards", "sincerely", "regards,", "thank you,", "yours truly", "warm regards",
}

// sendNotices are terminal lines the model appends after the draft; they
// never belong to the body.
var sendNotices = []string{
	"i'll send this email for you",
	"i will send this email for you",
}

// Draft is a parsed, sendable email.
type Draft struct {
	To       string
	Subject  string
	BodyText string
	BodyHTML string
}

// ParseDraft extracts a sendable email from an LLM draft.
//
// Description:
//
//	Headers come from the first "To:" and "Subject:" lines. A missing
//	recipient falls back to the first address token in the original user
//	query; a missing subject falls back to DefaultSubject. The body is
//	collected in three escalating modes: after an explicit "Body:" marker
//	line, after the last header line with signature detection, and
//	finally everything that is not a header. The collected text is also
//	rendered to simple paragraph HTML.
//
// Inputs:
//
//	query - The original user query, used only for recipient fallback.
//	response - The full LLM draft.
//
// Outputs:
//
//	*Draft - The parsed draft.
//	error - ErrNoRecipient or ErrNoBody when a required part is missing.
func ParseDraft(query, response string) (*Draft, error) {
	lines := strings.Split(strings.TrimSpace(response), "\n")

	var to, subject string
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if to == "" && strings.HasPrefix(lower, "to:") {
			to = strings.TrimSpace(strings.TrimSpace(line)[3:])
		} else if subject == "" && strings.HasPrefix(lower, "subject:") {
			subject = strings.TrimSpace(strings.TrimSpace(line)[8:])
		}
	}

	if to == "" {
		to = addressRe.FindString(query)
	}

	bodyLines := collectAfterBodyMarker(lines)
	if bodyLines == nil {
		bodyLines = collectAfterHeaders(lines)
	}
	if len(bodyLines) == 0 {
		bodyLines = collectAggressive(lines)
	}
	bodyText := strings.TrimSpace(strings.Join(bodyLines, "\n"))

	if to == "" {
		return nil, ErrNoRecipient
	}
	if subject == "" {
		subject = DefaultSubject
	}
	if bodyText == "" {
		return nil, ErrNoBody
	}

	return &Draft{
		To:       to,
		Subject:  subject,
		BodyText: bodyText,
		BodyHTML: renderHTML(bodyText),
	}, nil
}

// collectAfterBodyMarker returns the lines after an explicit "Body:" or
// "Email body:" marker line, or nil when no marker exists.
func collectAfterBodyMarker(lines []string) []string {
	marker := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if lower == "body:" || lower == "email body:" {
			marker = i
			break
		}
	}
	if marker < 0 {
		return nil
	}

	body := []string{}
	for _, line := range lines[marker+1:] {
		if isSendNotice(line) {
			break
		}
		body = append(body, line)
	}
	return body
}

// collectAfterHeaders returns the lines after the last header line,
// stopping at a signature (inclusive, plus a short name line) or a send
// notice.
func collectAfterHeaders(lines []string) []string {
	lastHeader := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(lower, "to:") || strings.HasPrefix(lower, "subject:") {
			lastHeader = i
		}
	}
	if lastHeader < 0 {
		return nil
	}

	var body []string
	started := false
	for i := lastHeader + 1; i < len(lines); i++ {
		line := lines[i]
		if !started && strings.TrimSpace(line) == "" {
			continue
		}
		started = true

		lower := strings.ToLower(strings.TrimSpace(line))
		if hasSignatureMarker(lower) {
			body = append(body, line)
			if i+1 < len(lines) && len(strings.TrimSpace(lines[i+1])) < 30 {
				body = append(body, lines[i+1])
			}
			break
		}
		if isSendNotice(line) {
			break
		}
		body = append(body, line)
	}
	return body
}

// collectAggressive takes every line that is not a header or leading blank,
// up to a send notice.
func collectAggressive(lines []string) []string {
	var body []string
	inBody := false
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if !inBody {
			if strings.HasPrefix(lower, "to:") || strings.HasPrefix(lower, "subject:") {
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			inBody = true
		}
		if isSendNotice(line) {
			break
		}
		body = append(body, line)
	}
	return body
}

// renderHTML converts plain body text to simple paragraph HTML: blank-line
// separated paragraphs, single newlines become <br>.
func renderHTML(bodyText string) string {
	var b strings.Builder
	b.WriteString("<div style='font-family: Arial, sans-serif; line-height: 1.6;'>")
	for _, paragraph := range strings.Split(bodyText, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(paragraph, "\n", "<br>"))
	}
	b.WriteString("</div>")
	return b.String()
}

func hasSignatureMarker(lowerLine string) bool {
	for _, m := range signatureMarkers {
		if strings.Contains(lowerLine, m) {
			return true
		}
	}
	return false
}

func isSendNotice(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, n := range sendNotices {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
