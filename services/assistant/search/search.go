// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package search wraps the Tavily Search API for web queries raised through
// the assistant.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	tracerName      = "assistant.search"
	defaultEndpoint = "https://api.tavily.com/search"

	defaultMaxResults = 5
	maxQueryLength    = 500
)

// ErrEmptyQuery is returned when a search is requested without a query.
var ErrEmptyQuery = errors.New("search query cannot be empty")

var searchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "agento",
		Subsystem: "search",
		Name:      "requests_total",
		Help:      "Total web search requests, labeled by outcome.",
	},
	[]string{"status"},
)

// request is the Tavily Search API request body.
type request struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	IncludeImages bool   `json:"include_images"`
}

// Result is a single web search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response carries the answer, ranked results and any auxiliary media
// returned for a query.
type Response struct {
	Query             string   `json:"query"`
	Answer            string   `json:"answer"`
	Results           []Result `json:"results"`
	Images            []string `json:"images"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// Client issues Tavily searches.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint overrides the API endpoint. Intended for tests.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// NewClient builds a Tavily client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a web search and returns the answer plus ranked results.
//
// Description: Sends the query to Tavily with answer and image enrichment
// enabled, matching how the assistant surfaces search output to users.
// Inputs: ctx for cancellation; query is the raw user search text.
// Outputs: the decoded response, or an error when the query is empty, the
// key is missing, or the API call fails.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "search.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		searchesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrEmptyQuery
	}
	if len(query) > maxQueryLength {
		query = query[:maxQueryLength]
	}
	if c.apiKey == "" {
		searchesTotal.WithLabelValues("unconfigured").Inc()
		return nil, errors.New("tavily api key not configured")
	}
	span.SetAttributes(attribute.Int("search.query_length", len(query)))

	body, err := json.Marshal(request{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    defaultMaxResults,
		IncludeAnswer: true,
		IncludeImages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		searchesTotal.WithLabelValues("network_error").Inc()
		return nil, fmt.Errorf("search call failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		searchesTotal.WithLabelValues("api_error").Inc()
		return nil, fmt.Errorf("search api returned status %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		searchesTotal.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if resp.Query == "" {
		resp.Query = query
	}

	searchesTotal.WithLabelValues("ok").Inc()
	slog.Info("web search completed", "results", len(resp.Results), "has_answer", resp.Answer != "")
	return &resp, nil
}
