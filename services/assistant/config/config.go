// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads assistant service configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all runtime configuration for the assistant service.
//
// Description:
//
//	Loaded from environment variables at startup via Load(). Third-party
//	credentials keep their conventional variable names (GROQ_API_KEY,
//	TAVILY_API_KEY, WATSON_*); service-owned settings use the AGENTO_
//	prefix. Google and Watson credentials are optional: the service starts
//	without them and degrades the matching features.
//
// Thread Safety: Config is a value type. Safe to copy and share after loading.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	// Env: AGENTO_LISTEN_ADDR (default: ":8080")
	ListenAddr string `validate:"required,hostname_port"`

	// GroqAPIKey authenticates against the Groq inference API.
	// Env: GROQ_API_KEY (required)
	GroqAPIKey string `validate:"required"`

	// DataDir is the directory for the badger session store.
	// Env: AGENTO_DATA_DIR (default: "./data")
	DataDir string `validate:"required"`

	// SessionTTL is how long idle session state is retained.
	// Env: AGENTO_SESSION_TTL (default: "24h")
	SessionTTL time.Duration `validate:"required,min=1m"`

	// GoogleCredentialsFile is the OAuth client secret JSON for Drive and Gmail.
	// Env: AGENTO_GOOGLE_CREDENTIALS (default: "credentials.json")
	GoogleCredentialsFile string

	// GoogleTokenFile is the stored OAuth user token.
	// Env: AGENTO_GOOGLE_TOKEN (default: "token.json")
	GoogleTokenFile string

	// TavilyAPIKey authenticates against the Tavily search API. Optional.
	// Env: TAVILY_API_KEY
	TavilyAPIKey string

	// WatsonTTSAPIKey and WatsonTTSURL configure Text-to-Speech. Optional.
	// Env: WATSON_TTS_APIKEY, WATSON_TTS_URL
	WatsonTTSAPIKey string
	WatsonTTSURL    string `validate:"omitempty,url"`

	// WatsonSTTAPIKey and WatsonSTTURL configure Speech-to-Text. Optional.
	// Env: WATSON_STT_APIKEY, WATSON_STT_URL
	WatsonSTTAPIKey string
	WatsonSTTURL    string `validate:"omitempty,url"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:            envStr("AGENTO_LISTEN_ADDR", ":8080"),
		GroqAPIKey:            os.Getenv("GROQ_API_KEY"),
		DataDir:               envStr("AGENTO_DATA_DIR", "./data"),
		SessionTTL:            envDuration("AGENTO_SESSION_TTL", 24*time.Hour),
		GoogleCredentialsFile: envStr("AGENTO_GOOGLE_CREDENTIALS", "credentials.json"),
		GoogleTokenFile:       envStr("AGENTO_GOOGLE_TOKEN", "token.json"),
		TavilyAPIKey:          os.Getenv("TAVILY_API_KEY"),
		WatsonTTSAPIKey:       os.Getenv("WATSON_TTS_APIKEY"),
		WatsonTTSURL:          os.Getenv("WATSON_TTS_URL"),
		WatsonSTTAPIKey:       os.Getenv("WATSON_STT_APIKEY"),
		WatsonSTTURL:          os.Getenv("WATSON_STT_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// HasGoogle reports whether Drive and Gmail can be enabled.
func (c *Config) HasGoogle() bool {
	return c.GoogleCredentialsFile != "" && c.GoogleTokenFile != ""
}

// HasWatson reports whether the speech endpoints can be enabled.
func (c *Config) HasWatson() bool {
	return c.WatsonTTSAPIKey != "" && c.WatsonTTSURL != "" &&
		c.WatsonSTTAPIKey != "" && c.WatsonSTTURL != ""
}

// envStr reads a string environment variable with a default value.
func envStr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// envDuration reads a duration environment variable with a default value.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Plain integers are treated as hours for operator convenience.
		if n, nerr := strconv.Atoi(val); nerr == nil {
			return time.Duration(n) * time.Hour
		}
		return defaultVal
	}
	return d
}
