// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the streamed answer",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAskCommand,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Run:   runChatCommand,
}

// messageRequest mirrors the server's /api/message body.
type messageRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// sseFrame is one decoded data frame from the chat stream.
type sseFrame struct {
	Status  string `json:"status"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func runAskCommand(_ *cobra.Command, args []string) {
	client := newClient()
	if err := streamMessage(client, strings.Join(args, " ")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runChatCommand(_ *cobra.Command, args []string) {
	if len(args) > 0 {
		fmt.Printf("Warning: Unexpected arguments ignored: %v\n", args)
	}

	// The cookie jar keeps the session id across turns, so the server
	// carries conversation memory.
	client := newClient()

	fmt.Println("Agento assistant. Type your message, or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		if err := streamMessage(client, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// newClient builds an HTTP client with a cookie jar for session affinity.
func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar, Timeout: 5 * time.Minute}
}

// streamMessage posts one message and prints the SSE stream as it arrives.
func streamMessage(client *http.Client, message string) error {
	body, err := json.Marshal(messageRequest{Message: message, Model: modelFlag})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(serverURL, "/")+"/api/message", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return printStream(resp.Body, os.Stdout)
}

// printStream decodes SSE data frames and writes content to out.
func printStream(r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var frame sseFrame
		if err := json.Unmarshal([]byte(line[len("data: "):]), &frame); err != nil {
			continue
		}

		switch {
		case frame.Status == "error":
			return fmt.Errorf("stream error: %s", frame.Message)
		case frame.Content != "":
			fmt.Fprint(out, frame.Content)
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
