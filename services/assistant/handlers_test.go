// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
	"github.com/AgentoAI/agento/services/assistant/drive"
	"github.com/AgentoAI/agento/services/assistant/email"
	"github.com/AgentoAI/agento/services/assistant/identity"
	"github.com/AgentoAI/agento/services/assistant/intent"
	"github.com/AgentoAI/agento/services/assistant/providers"
	"github.com/AgentoAI/agento/services/assistant/session"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeChat struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]datatypes.Message
	opts  []providers.ChatOptions
}

func (f *fakeChat) Chat(ctx context.Context, messages []datatypes.Message, opts providers.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	f.opts = append(f.opts, opts)
	return f.reply, f.err
}

func (f *fakeChat) ChatStream(ctx context.Context, messages []datatypes.Message, opts providers.ChatOptions, fn providers.StreamFunc) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.opts = append(f.opts, opts)
	reply, err := f.reply, f.err
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	// Deliver in two chunks to exercise accumulation.
	mid := len(reply) / 2
	for _, chunk := range []string{reply[:mid], reply[mid:]} {
		if chunk == "" {
			continue
		}
		if err := fn(ctx, []byte(chunk)); err != nil {
			return "", err
		}
	}
	return reply, nil
}

func (f *fakeChat) lastMessages(t *testing.T) []datatypes.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no chat calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

type fakeStorage struct {
	files     []datatypes.FileRef
	contents  map[string]*datatypes.FileContent
	created   []string
	listErr   error
	listCalls int
}

func (f *fakeStorage) ListFiles(ctx context.Context) ([]datatypes.FileRef, error) {
	f.listCalls++
	return f.files, f.listErr
}

func (f *fakeStorage) ListFilesByType(ctx context.Context, fileType string) ([]datatypes.FileRef, error) {
	return f.files, nil
}

func (f *fakeStorage) SearchFiles(ctx context.Context, query string) ([]datatypes.FileRef, error) {
	return nil, nil
}

func (f *fakeStorage) ReadFile(ctx context.Context, fileID string) (*datatypes.FileContent, error) {
	if c, ok := f.contents[fileID]; ok {
		return c, nil
	}
	return nil, drive.ErrFileNotFound
}

func (f *fakeStorage) CreateFile(ctx context.Context, name, content string) (*datatypes.FileRef, error) {
	f.created = append(f.created, name)
	return &datatypes.FileRef{ID: "created-1", Name: name, MimeType: "text/plain"}, nil
}

func (f *fakeStorage) CreateSpreadsheet(ctx context.Context, name string, headers []string, rows [][]string) (*datatypes.FileRef, error) {
	f.created = append(f.created, name)
	return &datatypes.FileRef{ID: "created-2", Name: name}, nil
}

type fakeMailer struct {
	err  error
	sent []string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, to)
	return "msg-1", nil
}

// =============================================================================
// Harness
// =============================================================================

type testServer struct {
	router  *gin.Engine
	chat    *fakeChat
	storage *fakeStorage
	mailer  *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rules, err := intent.GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}

	store, err := session.Open(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("session.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	chat := &fakeChat{reply: "Here you go."}
	storage := &fakeStorage{
		files: []datatypes.FileRef{
			{ID: "f1", Name: "Budget_2025.xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
			{ID: "f2", Name: "notes.txt", MimeType: "text/plain"},
		},
		contents: map[string]*datatypes.FileContent{
			"f2": {Name: "notes.txt", MimeType: "text/plain", Text: "remember the milk"},
		},
	}
	mailer := &fakeMailer{}

	svc := &Service{
		Chat:       chat,
		Dispatcher: intent.NewDefaultDispatcher(rules, chat),
		Sessions:   store,
		Identity:   identity.NewUpdater(store),
		Drive:      drive.NewActions(storage, rules),
		DriveStore: storage,
		Email:      email.NewProcessor(mailer),
	}
	if err := svc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	router := gin.New()
	RegisterRoutes(router.Group(""), NewHandlers(svc))
	return &testServer{router: router, chat: chat, storage: storage, mailer: mailer}
}

func (ts *testServer) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Chat Endpoint
// =============================================================================

func TestHandleMessageChatStream(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.reply = "Goroutines are lightweight threads."

	rec := ts.post(t, "/api/message", `{"message": "explain goroutines"}`)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data: {"status":"start"}`) {
		t.Errorf("missing start frame: %s", body)
	}
	if !strings.Contains(body, `"content":`) {
		t.Errorf("missing content frames: %s", body)
	}
	if !strings.Contains(body, `data: {"status":"done"}`) {
		t.Errorf("missing done frame: %s", body)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), sessionCookie) {
		t.Error("session cookie not set on first contact")
	}

	messages := ts.chat.lastMessages(t)
	if messages[0].Role != "system" || messages[0].Content != chatSystemPrompt {
		t.Errorf("first message = %+v, want system prompt", messages[0])
	}
	if last := messages[len(messages)-1]; last.Role != "user" || last.Content != "explain goroutines" {
		t.Errorf("last message = %+v", last)
	}
}

func TestHandleMessageGetQuery(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get(t, "/api/message?message=hello&model=groq-mixtral")

	if !strings.Contains(rec.Body.String(), `data: {"status":"done"}`) {
		t.Errorf("stream did not complete: %s", rec.Body.String())
	}
	opts := ts.chat.opts[len(ts.chat.opts)-1]
	if opts.Model != "mixtral-8x7b-32768" {
		t.Errorf("model = %q, want alias resolved", opts.Model)
	}
	if opts.Temperature != chatTemperature || opts.MaxTokens != chatMaxTokens {
		t.Errorf("opts = %+v", opts)
	}
}

func TestHandleMessageEmptyMessage(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.post(t, "/api/message", `{"message": ""}`)
	if !strings.Contains(rec.Body.String(), `"status":"error"`) {
		t.Errorf("expected error frame: %s", rec.Body.String())
	}
}

func TestHandleMessageHistoryCarriesAcrossTurns(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.reply = "First answer."

	rec := ts.post(t, "/api/message", `{"message": "first question"}`)
	cookie := rec.Header().Get("Set-Cookie")
	if cookie == "" {
		t.Fatal("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader(`{"message": "second question"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", strings.Split(cookie, ";")[0])
	rec2 := httptest.NewRecorder()
	ts.router.ServeHTTP(rec2, req)

	messages := ts.chat.lastMessages(t)
	var sawFirst bool
	for _, m := range messages {
		if m.Role == "user" && m.Content == "first question" {
			sawFirst = true
		}
	}
	if !sawFirst {
		t.Errorf("history missing prior turn: %+v", messages)
	}
}

// =============================================================================
// Intent Pipelines
// =============================================================================

func TestHandleMessageIdentityUpdate(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.reply = `{"is_identity_update": true, "name": "Alice Johnson", "email": null, "organization": null}`

	rec := ts.post(t, "/api/message", `{"message": "my name is Alice Johnson"}`)

	body := rec.Body.String()
	if !strings.Contains(body, "Your name has been updated to: Alice Johnson") {
		t.Errorf("missing confirmation: %s", body)
	}
	if !strings.Contains(body, `data: {"status":"done"}`) {
		t.Errorf("identity stream did not complete: %s", body)
	}
	// No LLM narration turn for identity updates: the only chat call is
	// the extraction one.
	if len(ts.chat.calls) != 1 {
		t.Errorf("chat calls = %d, want 1 (extraction only)", len(ts.chat.calls))
	}
}

func TestHandleMessageEmailFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.reply = "To: alice@example.com\nSubject: Meeting\nBody:\nHello Alice, see you at 3pm.\n\nBest regards,\nAgento"

	rec := ts.post(t, "/api/message", `{"message": "send an email to alice@example.com about the meeting"}`)

	body := rec.Body.String()
	doneIdx := strings.Index(body, `data: {"status":"done"}`)
	sentIdx := strings.Index(body, `"type":"email_sent"`)
	if doneIdx < 0 || sentIdx < 0 {
		t.Fatalf("missing frames: %s", body)
	}
	if sentIdx < doneIdx {
		t.Error("outcome chunk must trail the done frame")
	}
	if !strings.Contains(body, "✅ Email has been sent successfully!") {
		t.Errorf("missing success notice: %s", body)
	}
	if len(ts.mailer.sent) != 1 || ts.mailer.sent[0] != "alice@example.com" {
		t.Errorf("mailer.sent = %v", ts.mailer.sent)
	}

	// The drafter prompt, not the raw query, goes to the LLM.
	messages := ts.chat.lastMessages(t)
	if last := messages[len(messages)-1]; !strings.Contains(last.Content, "To: <recipient email address>") {
		t.Errorf("draft prompt not used: %q", last.Content)
	}
}

func TestHandleMessageEmailSendFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.reply = "To: bob@example.com\nSubject: Hi\nBody:\nHello Bob."
	ts.mailer.err = errors.New("oauth2: invalid_grant")

	rec := ts.post(t, "/api/message", `{"message": "send an email to bob@example.com saying hi"}`)

	body := rec.Body.String()
	if !strings.Contains(body, `"type":"email_error"`) {
		t.Errorf("missing email_error chunk: %s", body)
	}
	if !strings.Contains(body, "❌ Failed to send email:") {
		t.Errorf("missing failure notice: %s", body)
	}
	if !strings.Contains(body, "authentication has expired") {
		t.Errorf("send error not categorized: %s", body)
	}
}

func TestHandleMessageDriveList(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.post(t, "/api/message", `{"message": "show me my files"}`)

	if ts.storage.listCalls == 0 {
		t.Error("drive listing never fetched")
	}
	// The enhanced prompt carries the listing into the LLM turn.
	messages := ts.chat.lastMessages(t)
	last := messages[len(messages)-1]
	if !strings.Contains(last.Content, "Budget_2025.xlsx") {
		t.Errorf("listing missing from prompt: %q", last.Content)
	}
	if !strings.Contains(rec.Body.String(), `data: {"status":"done"}`) {
		t.Errorf("drive stream did not complete: %s", rec.Body.String())
	}
}

func TestHandleMessageChatErrorFrame(t *testing.T) {
	ts := newTestServer(t)
	ts.chat.err = errors.New("model overloaded")

	rec := ts.post(t, "/api/message", `{"message": "anything at all"}`)

	if !strings.Contains(rec.Body.String(), `"status":"error"`) {
		t.Errorf("expected error frame: %s", rec.Body.String())
	}
}

// =============================================================================
// Drive REST Surface
// =============================================================================

func TestHandleDriveList(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get(t, "/api/drive/files")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"success":true`) || !strings.Contains(body, "Budget_2025.xlsx") {
		t.Errorf("body = %s", body)
	}
}

func TestHandleDriveReadJSON(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get(t, "/api/drive/file/f2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "remember the milk") || !strings.Contains(body, `"mime_type":"text/plain"`) {
		t.Errorf("body = %s", body)
	}
}

func TestHandleDriveReadNotFound(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.get(t, "/api/drive/file/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDriveCreate(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.post(t, "/api/drive/file", `{"file_name": "todo.txt", "content": "ship it"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(ts.storage.created) != 1 || ts.storage.created[0] != "todo.txt" {
		t.Errorf("created = %v", ts.storage.created)
	}
}

func TestHandleDriveCreateMissingName(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.post(t, "/api/drive/file", `{"content": "orphan"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDriveDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rules, err := intent.GetRules()
	if err != nil {
		t.Fatal(err)
	}
	store, err := session.Open(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	chat := &fakeChat{reply: "ok"}
	svc := &Service{
		Chat:       chat,
		Dispatcher: intent.NewDefaultDispatcher(rules, chat),
		Sessions:   store,
		Identity:   identity.NewUpdater(store),
	}
	router := gin.New()
	RegisterRoutes(router.Group(""), NewHandlers(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/drive/files", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// =============================================================================
// Search and Speech Guards
// =============================================================================

func TestHandleSearchUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.post(t, "/api/search", `{"query": "weather"}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleSpeechUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.post(t, "/api/speech/synthesize", `{"text": "hello"}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get(t, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"drive":true`) || !strings.Contains(body, `"search":false`) {
		t.Errorf("integrations not reported: %s", body)
	}
}
