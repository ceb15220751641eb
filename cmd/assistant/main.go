// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command assistant starts the Agento personal-assistant API server.
//
// The server needs GROQ_API_KEY. Google Drive/Gmail, Tavily search and
// Watson speech are optional: missing credentials disable the matching
// endpoints instead of failing startup.
//
// Usage:
//
//	GROQ_API_KEY=... go run ./cmd/assistant
//	GROQ_API_KEY=... AGENTO_LISTEN_ADDR=:9090 go run ./cmd/assistant -debug
//
// Example requests:
//
//	curl http://localhost:8080/api/health
//	curl -N -X POST http://localhost:8080/api/message \
//	  -H "Content-Type: application/json" \
//	  -d '{"message": "list all my files"}'
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"

	"github.com/AgentoAI/agento/services/assistant"
	"github.com/AgentoAI/agento/services/assistant/config"
	"github.com/AgentoAI/agento/services/assistant/drive"
	"github.com/AgentoAI/agento/services/assistant/email"
	"github.com/AgentoAI/agento/services/assistant/gdrive"
	"github.com/AgentoAI/agento/services/assistant/gmail"
	"github.com/AgentoAI/agento/services/assistant/identity"
	"github.com/AgentoAI/agento/services/assistant/intent"
	"github.com/AgentoAI/agento/services/assistant/providers"
	"github.com/AgentoAI/agento/services/assistant/search"
	"github.com/AgentoAI/agento/services/assistant/session"
	"github.com/AgentoAI/agento/services/assistant/speech"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation so trace ids flow from incoming headers
	// through every handler span.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		slog.Error("Service construction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("agento-assistant"))
	if *debug {
		router.Use(gin.Logger())
	}
	assistant.RegisterRoutes(router.Group(""), assistant.NewHandlers(svc))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting Agento assistant server", slog.String("address", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down Agento assistant server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildService wires every configured integration into the assistant
// service. The returned cleanup closes the session store.
func buildService(ctx context.Context, cfg *config.Config) (*assistant.Service, func(), error) {
	rules, err := intent.GetRules()
	if err != nil {
		return nil, nil, err
	}

	chat, err := providers.NewGroqChatClient(cfg.GroqAPIKey, "")
	if err != nil {
		return nil, nil, err
	}

	store, err := session.Open(filepath.Join(cfg.DataDir, "sessions"), cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close session store", slog.String("error", err.Error()))
		}
	}

	svc := &assistant.Service{
		Chat:       chat,
		Dispatcher: intent.NewDefaultDispatcher(rules, chat),
		Sessions:   store,
		Identity:   identity.NewUpdater(store),
	}

	// Google Drive + Gmail. Graceful degradation: missing or stale
	// credentials log a warning and leave the features disabled.
	if cfg.HasGoogle() {
		driveSvc, err := gdrive.NewService(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
		if err != nil {
			slog.Warn("Google Drive unavailable, drive actions disabled",
				slog.String("error", err.Error()))
		} else {
			svc.DriveStore = driveSvc
			svc.Drive = drive.NewActions(driveSvc, rules)
			slog.Info("Google Drive integration enabled")
		}

		sender, err := gmail.NewSender(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
		if err != nil {
			slog.Warn("Gmail unavailable, email sending disabled",
				slog.String("error", err.Error()))
		} else {
			svc.Email = email.NewProcessor(sender)
			slog.Info("Gmail integration enabled")
		}
	}

	if cfg.TavilyAPIKey != "" {
		svc.Search = search.NewClient(cfg.TavilyAPIKey)
		slog.Info("Tavily search enabled")
	}

	if cfg.HasWatson() {
		speechSvc, err := speech.NewService(speech.Config{
			TTSAPIKey: cfg.WatsonTTSAPIKey,
			TTSURL:    cfg.WatsonTTSURL,
			STTAPIKey: cfg.WatsonSTTAPIKey,
			STTURL:    cfg.WatsonSTTURL,
		})
		if err != nil {
			slog.Warn("Watson speech unavailable, speech endpoints disabled",
				slog.String("error", err.Error()))
		} else {
			svc.Speech = speechSvc
			slog.Info("Watson speech integration enabled")
		}
	}

	if err := svc.Validate(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
