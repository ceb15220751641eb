// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"context"
	"log/slog"
	"path"
	"strings"
)

// =============================================================================
// Drive Intent Classifier
// =============================================================================

// DriveClassifier detects requests to list, read, or create files in the
// user's cloud storage.
//
// Description:
//
//	The decision runs in a fixed order: canonical listing phrases, then a
//	gate requiring some drive or file mention (a bare read verb escapes
//	the gate when the query names a listed file), then file type and file
//	name extraction, then the list / read / create keyword branches, then
//	a short-query file-name shortcut, and finally a listing fallback.
//	The file listing snapshot is only consulted when the keyword evidence
//	alone cannot settle the read branch, so most queries never pay for a
//	listing call.
//
// Thread Safety: Safe for concurrent use.
type DriveClassifier struct {
	rules *Rules
}

// NewDriveClassifier builds a drive classifier over the given rule set.
func NewDriveClassifier(rules *Rules) *DriveClassifier {
	return &DriveClassifier{rules: rules}
}

// Name implements Classifier.
func (d *DriveClassifier) Name() string { return "drive" }

// Classify implements Classifier.
func (d *DriveClassifier) Classify(ctx context.Context, query string, cc *Context) Result {
	lower := strings.ToLower(query)
	dr := &d.rules.Drive

	if containsAny(lower, dr.CanonicalListPhrases) {
		slog.Debug("drive intent: canonical listing phrase")
		return Match(KindDriveList)
	}

	hasDriveMention := containsAny(lower, dr.DriveKeywords)
	hasFileMention := containsAny(lower, dr.FileKeywords)
	if !hasDriveMention && !hasFileMention {
		// A bare "read <name>" query still reads when <name> matches a
		// file in the listing snapshot.
		if containsAny(lower, dr.ReadKeywords) {
			if name, ok := snapshotNameIn(ctx, cc, lower); ok {
				slog.Debug("drive intent: bare read names a listed file", "name", name)
				return MatchWith(KindDriveRead, map[string]string{ParamFileName: name})
			}
		}
		return NoMatch()
	}

	params := map[string]string{}

	// File type: first group with a keyword hit wins.
	for _, group := range dr.FileTypes {
		if containsAny(lower, group.Keywords) {
			params[ParamFileType] = group.Type
			break
		}
	}

	// File name: extraction cascade over the raw, case-preserving query.
	if name, rule, ok := ExtractFirst(dr.FileNamePatterns, query); ok {
		params[ParamFileName] = name
		slog.Debug("drive intent: file name extracted", "rule", rule, "name", name)
	}

	if containsAny(lower, dr.ListKeywords) && hasFileMention {
		if params[ParamFileType] != "" {
			return MatchWith(KindDriveListType, params)
		}
		return MatchWith(KindDriveList, params)
	}

	if containsAny(lower, dr.ReadKeywords) {
		if params[ParamFileName] != "" {
			return MatchWith(KindDriveRead, params)
		}
		// No pattern matched; the listing snapshot may still settle it.
		// This is the first point the snapshot is worth fetching.
		if name, ok := snapshotNameIn(ctx, cc, lower); ok {
			params[ParamFileName] = name
			slog.Debug("drive intent: file name adopted from listing", "name", name)
			return MatchWith(KindDriveRead, params)
		}
		if hasFileMention {
			return MatchWith(KindDriveRead, params)
		}
	}

	if containsAny(lower, dr.CreateKeywords) && hasFileMention {
		if m := dr.classifyContentRe.FindStringSubmatch(query); m != nil {
			params[ParamContent] = strings.TrimSpace(m[1])
		}
		return MatchWith(KindDriveCreate, params)
	}

	// Very short queries that name a known file read that file.
	if len(strings.Fields(lower)) <= 3 {
		if name, ok := snapshotNameIn(ctx, cc, lower); ok {
			params[ParamFileName] = name
			slog.Debug("drive intent: short query names a file", "name", name)
			return MatchWith(KindDriveRead, params)
		}
	}

	// Drive or files mentioned with no recognizable verb: list.
	return MatchWith(KindDriveList, params)
}

// snapshotNameIn scans the file listing for a name contained in the lowered
// query. Names match both as stored and with the extension stripped, so
// "read heroes" finds "Heroes.xlsx". Listing order decides ties; the stored,
// case-preserving name is returned.
func snapshotNameIn(ctx context.Context, cc *Context, lowerQuery string) (string, bool) {
	if cc == nil {
		return "", false
	}
	for _, f := range cc.Snapshot(ctx) {
		if f.Name == "" {
			continue
		}
		lowName := strings.ToLower(f.Name)
		if strings.Contains(lowerQuery, lowName) {
			return f.Name, true
		}
		base := strings.TrimSuffix(lowName, path.Ext(lowName))
		if base != "" && strings.Contains(lowerQuery, base) {
			return f.Name, true
		}
	}
	return "", false
}
