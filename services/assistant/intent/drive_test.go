// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/AgentoAI/agento/services/assistant/datatypes"
)

// fakeLister returns a fixed listing and counts fetches.
type fakeLister struct {
	files []datatypes.FileRef
	err   error
	calls int
}

func (f *fakeLister) ListFiles(_ context.Context) ([]datatypes.FileRef, error) {
	f.calls++
	return f.files, f.err
}

func TestDriveClassifier(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	c := NewDriveClassifier(rules)

	tests := []struct {
		name     string
		query    string
		files    []datatypes.FileRef
		matched  bool
		kind     Kind
		params   map[string]string
	}{
		{
			name:    "canonical listing phrase",
			query:   "list all my files",
			matched: true,
			kind:    KindDriveList,
		},
		{
			name:    "no drive or file mention",
			query:   "what is the weather in Anchorage",
			matched: false,
		},
		{
			name:    "list with file type",
			query:   "show me all my excel files",
			matched: true,
			kind:    KindDriveListType,
			params:  map[string]string{ParamFileType: "excel"},
		},
		{
			name:    "plain list",
			query:   "show me my drive files",
			matched: true,
			kind:    KindDriveList,
		},
		{
			name:    "read named file",
			query:   "open the file called budget.xlsx",
			matched: true,
			kind:    KindDriveRead,
			params:  map[string]string{ParamFileName: "budget.xlsx"},
		},
		{
			name:    "read with quoted extension name",
			query:   `read "notes.txt" from my drive`,
			matched: true,
			kind:    KindDriveRead,
			params:  map[string]string{ParamFileName: "notes.txt"},
		},
		{
			name:  "read adopts listing name with stored casing",
			query: "read the file report_final",
			files: []datatypes.FileRef{
				{ID: "1", Name: "Report_Final"},
				{ID: "2", Name: "other"},
			},
			matched: true,
			kind:    KindDriveRead,
			params:  map[string]string{ParamFileName: "Report_Final"},
		},
		{
			name:  "bare read matches listed file without extension",
			query: "read heroes",
			files: []datatypes.FileRef{
				{ID: "1", Name: "Heroes.xlsx"},
			},
			matched: true,
			kind:    KindDriveRead,
			params:  map[string]string{ParamFileName: "Heroes.xlsx"},
		},
		{
			name:    "bare read with no matching listed file",
			query:   "read heroes",
			matched: false,
		},
		{
			name:    "create with content",
			query:   "create a file called notes with content 'remember the milk'",
			matched: true,
			kind:    KindDriveCreate,
		},
		{
			name:    "fallback to list on bare drive mention",
			query:   "my google drive",
			matched: true,
			kind:    KindDriveList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewContext(&fakeLister{files: tt.files})
			res := c.Classify(context.Background(), tt.query, cc)
			if res.Matched != tt.matched {
				t.Fatalf("Classify(%q).Matched = %v, want %v", tt.query, res.Matched, tt.matched)
			}
			if !tt.matched {
				return
			}
			if res.Kind != tt.kind {
				t.Errorf("Classify(%q).Kind = %q, want %q", tt.query, res.Kind, tt.kind)
			}
			for k, want := range tt.params {
				if got := res.Params[k]; got != want {
					t.Errorf("Classify(%q).Params[%q] = %q, want %q", tt.query, k, got, want)
				}
			}
		})
	}
}

func TestDriveClassifierCreateContentExtraction(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	c := NewDriveClassifier(rules)

	res := c.Classify(context.Background(),
		"create a new file about quarterly planning", NewContext(nil))
	if !res.Matched || res.Kind != KindDriveCreate {
		t.Fatalf("expected create intent, got %+v", res)
	}
	if got := res.Params[ParamContent]; got != "quarterly planning" {
		t.Errorf("content = %q, want %q", got, "quarterly planning")
	}
}

func TestDriveClassifierSnapshotLaziness(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	c := NewDriveClassifier(rules)

	// Keyword evidence settles these queries; the listing must never be
	// fetched for them.
	lister := &fakeLister{files: []datatypes.FileRef{{ID: "1", Name: "heroes"}}}
	for _, query := range []string{
		"list all my files",
		"show me all my excel files",
		"open the file called budget.xlsx",
		"what is the weather",
	} {
		c.Classify(context.Background(), query, NewContext(lister))
	}
	if lister.calls != 0 {
		t.Errorf("listing fetched %d times for keyword-settled queries, want 0", lister.calls)
	}

	// One query, one fetch, even when two branches consult the snapshot.
	lister2 := &fakeLister{files: []datatypes.FileRef{{ID: "1", Name: "heroes"}}}
	cc := NewContext(lister2)
	res := c.Classify(context.Background(), "read the heroes file", cc)
	if !res.Matched || res.Kind != KindDriveRead {
		t.Fatalf("expected read intent, got %+v", res)
	}
	if res.Params[ParamFileName] != "heroes" {
		t.Errorf("file name = %q, want %q", res.Params[ParamFileName], "heroes")
	}
	if lister2.calls != 1 {
		t.Errorf("listing fetched %d times, want 1", lister2.calls)
	}
}

func TestDriveClassifierListingFailureDegrades(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	c := NewDriveClassifier(rules)

	cc := NewContext(&fakeLister{err: errors.New("listing unavailable")})
	res := c.Classify(context.Background(), "read my files", cc)
	if !res.Matched || res.Kind != KindDriveRead {
		t.Fatalf("listing failure should not abort classification, got %+v", res)
	}
	if cc.SnapshotErr() == nil {
		t.Error("SnapshotErr() = nil, want the listing error")
	}
}

func TestDriveClassifierFileTypePrecedence(t *testing.T) {
	rules, err := GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	c := NewDriveClassifier(rules)

	// "spreadsheet" (excel group) and "document" both appear; the excel
	// group is declared first and must win.
	res := c.Classify(context.Background(),
		"list my spreadsheet and document files", NewContext(nil))
	if !res.Matched || res.Kind != KindDriveListType {
		t.Fatalf("expected list_type intent, got %+v", res)
	}
	if got := res.Params[ParamFileType]; got != "excel" {
		t.Errorf("file type = %q, want %q", got, "excel")
	}
}
