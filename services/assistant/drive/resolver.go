// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// =============================================================================
// File Name Resolution
// =============================================================================

// Resolver maps a user-supplied file name to a stored file.
//
// Description:
//
//	Three tiers, each only consulted when the previous one found nothing:
//	an exact provider-side name match, a provider-side substring match,
//	and finally a client-side case-insensitive substring scan over the
//	full listing. Among multiple candidates, a case-insensitive exact
//	name match is preferred; otherwise the first candidate in listing
//	order wins.
//
// Thread Safety: Safe for concurrent use.
type Resolver struct {
	store Storage
}

// NewResolver builds a resolver over the given store.
func NewResolver(store Storage) *Resolver {
	return &Resolver{store: store}
}

// Resolve finds the stored file for name.
//
// Outputs:
//
//	datatypes.FileRef - The selected file.
//	error - ErrFileNotFound if every tier came up empty; otherwise the
//	first storage error encountered.
func (r *Resolver) Resolve(ctx context.Context, name string) (datatypes.FileRef, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "drive.Resolver.Resolve",
		trace.WithAttributes(attribute.String("file_name", name)),
	)
	defer span.End()

	escaped := escapeQueryValue(name)

	files, err := r.store.SearchFiles(ctx, fmt.Sprintf("name = '%s'", escaped))
	if err != nil {
		return datatypes.FileRef{}, fmt.Errorf("exact name search failed: %w", err)
	}
	tier := "exact"

	if len(files) == 0 {
		files, err = r.store.SearchFiles(ctx, fmt.Sprintf("name contains '%s'", escaped))
		if err != nil {
			return datatypes.FileRef{}, fmt.Errorf("contains search failed: %w", err)
		}
		tier = "contains"
	}

	if len(files) == 0 {
		all, err := r.store.ListFiles(ctx)
		if err != nil {
			return datatypes.FileRef{}, fmt.Errorf("listing scan failed: %w", err)
		}
		lowerName := strings.ToLower(name)
		for _, f := range all {
			if strings.Contains(strings.ToLower(f.Name), lowerName) {
				files = append(files, f)
			}
		}
		tier = "scan"
	}

	if len(files) == 0 {
		span.SetAttributes(attribute.String("resolve.tier", "none"))
		resolveTotal.WithLabelValues("none").Inc()
		return datatypes.FileRef{}, ErrFileNotFound
	}

	selected := pickCandidate(files, name)
	span.SetAttributes(
		attribute.String("resolve.tier", tier),
		attribute.Int("resolve.candidates", len(files)),
	)
	resolveTotal.WithLabelValues(tier).Inc()
	slog.Debug("file name resolved",
		"requested", name, "selected", selected.Name, "tier", tier, "candidates", len(files))
	return selected, nil
}

// pickCandidate applies the tie-break: case-insensitive exact match first,
// then listing order.
func pickCandidate(files []datatypes.FileRef, name string) datatypes.FileRef {
	lowerName := strings.ToLower(name)
	for _, f := range files {
		if strings.ToLower(f.Name) == lowerName {
			return f
		}
	}
	return files[0]
}

// escapeQueryValue makes a name safe inside a single-quoted provider query
// string.
func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
