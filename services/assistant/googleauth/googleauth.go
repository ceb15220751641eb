// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package googleauth builds authenticated HTTP clients for Google APIs
// from an OAuth client-credentials file and a stored user token.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Client builds an authenticated HTTP client.
//
// Inputs:
//   - credentialsFile: Path to the OAuth client credentials JSON
//     (downloaded from the Google Cloud console).
//   - tokenFile: Path to a stored user token JSON, produced by a prior
//     consent flow.
//   - scopes: Requested OAuth scopes.
//
// Outputs:
//   - *http.Client: Client that refreshes the token as needed.
//   - error: Non-nil when either file is missing or malformed.
func Client(ctx context.Context, credentialsFile, tokenFile string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("credentials file read failed: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("credentials parse failed: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, err
	}
	return cfg.Client(ctx, tok), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("token file open failed: %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("token file parse failed: %w", err)
	}
	return tok, nil
}
