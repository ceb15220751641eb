// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"context"
	"strings"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// =============================================================================
// Intent Kinds and Parameters
// =============================================================================

// Kind identifies which action pipeline should handle a query.
type Kind string

const (
	// KindNone means no specialized pipeline claimed the query; it goes
	// to the general chat flow.
	KindNone Kind = ""

	KindIdentity Kind = "identity"
	KindEmail    Kind = "email"

	KindDriveList     Kind = "drive_list"
	KindDriveListType Kind = "drive_list_type"
	KindDriveRead     Kind = "drive_read"
	KindDriveCreate   Kind = "drive_create"
)

// Parameter keys carried in Result.Params.
const (
	ParamFileName = "file_name"
	ParamFileType = "file_type"
	ParamContent  = "content"

	ParamName         = "name"
	ParamEmail        = "email"
	ParamOrganization = "organization"
)

// Result is a classification decision.
type Result struct {
	// Matched reports whether the classifier claimed the query.
	Matched bool

	Kind Kind

	// Params carries extracted values keyed by the Param* constants.
	// Nil when the classifier extracted nothing.
	Params map[string]string
}

// NoMatch is the zero decision: the classifier declined the query.
func NoMatch() Result { return Result{} }

// Match builds a positive decision with no parameters.
func Match(kind Kind) Result { return Result{Matched: true, Kind: kind} }

// MatchWith builds a positive decision carrying parameters.
func MatchWith(kind Kind, params map[string]string) Result {
	return Result{Matched: true, Kind: kind, Params: params}
}

// =============================================================================
// Classifier Contract
// =============================================================================

// FileLister supplies a listing of the user's files for name resolution hints.
type FileLister interface {
	// ListFiles returns file references in the provider's listing order.
	ListFiles(ctx context.Context) ([]datatypes.FileRef, error)
}

// Classifier decides whether a query belongs to one action pipeline.
//
// Description:
//
//	Implementations are stateless and deterministic over (query, snapshot):
//	the same query against the same file snapshot always yields the same
//	decision. Classifiers never perform the action they detect.
type Classifier interface {
	// Name identifies the classifier in logs and metrics.
	Name() string

	// Classify inspects a raw user query. The shared Context provides a
	// lazily-fetched file listing snapshot; classifiers that do not need
	// it never trigger the fetch.
	Classify(ctx context.Context, query string, cc *Context) Result
}

// =============================================================================
// Classification Context
// =============================================================================

// Context carries per-query shared state across classifiers.
//
// Description:
//
//	The file listing snapshot is fetched at most once per query, on first
//	use, and reused by every later consumer. A listing failure degrades to
//	an empty snapshot rather than aborting classification.
//
// Thread Safety: NOT safe for concurrent use. One Context per query.
type Context struct {
	lister FileLister

	fetched  bool
	snapshot []datatypes.FileRef
	listErr  error
}

// NewContext builds a classification context. lister may be nil, in which
// case the snapshot is always empty.
func NewContext(lister FileLister) *Context {
	return &Context{lister: lister}
}

// Snapshot returns the file listing, fetching it on first call.
func (c *Context) Snapshot(ctx context.Context) []datatypes.FileRef {
	if !c.fetched {
		c.fetched = true
		if c.lister != nil {
			c.snapshot, c.listErr = c.lister.ListFiles(ctx)
		}
	}
	return c.snapshot
}

// SnapshotErr reports the listing error, if the fetch happened and failed.
func (c *Context) SnapshotErr() error { return c.listErr }

// =============================================================================
// Shared Helpers
// =============================================================================

// containsAny reports whether the lowercased query contains any needle.
func containsAny(lowerQuery string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowerQuery, n) {
			return true
		}
	}
	return false
}

// trimExtracted normalizes a captured value: surrounding whitespace and
// stray quote characters are stripped.
func trimExtracted(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
