// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drive

import (
	"reflect"
	"testing"
)

func TestParseTabularCSV(t *testing.T) {
	headers, rows, ok := ParseTabular("Name, Age, City\nAlice, 30, Anchorage\nBob, 25")
	if !ok {
		t.Fatal("ParseTabular() rejected valid CSV content")
	}
	if !reflect.DeepEqual(headers, []string{"Name", "Age", "City"}) {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"Alice", "30", "Anchorage"}) {
		t.Errorf("row 0 = %v", rows[0])
	}
	// Short rows are padded to the header width.
	if !reflect.DeepEqual(rows[1], []string{"Bob", "25", ""}) {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestParseTabularTSV(t *testing.T) {
	headers, rows, ok := ParseTabular("Name\tValue\nwidget\t7")
	if !ok {
		t.Fatal("ParseTabular() rejected valid TSV content")
	}
	if !reflect.DeepEqual(headers, []string{"Name", "Value"}) {
		t.Errorf("headers = %v", headers)
	}
	if !reflect.DeepEqual(rows[0], []string{"widget", "7"}) {
		t.Errorf("row 0 = %v", rows[0])
	}
}

func TestParseTabularRejectsProse(t *testing.T) {
	if _, _, ok := ParseTabular("just a plain sentence"); ok {
		t.Error("ParseTabular() accepted prose without delimiters")
	}
	if _, _, ok := ParseTabular("one, line, only"); ok {
		t.Error("ParseTabular() accepted single-line content")
	}
}

func TestSampleDataUsesCapitalizedWords(t *testing.T) {
	headers, rows := SampleData("track Revenue and Expenses per Quarter this year")
	if !reflect.DeepEqual(headers, []string{"Revenue", "Expenses", "Quarter"}) {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != sampleRows {
		t.Fatalf("rows = %d, want %d", len(rows), sampleRows)
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			t.Fatalf("row %d width = %d, want %d", i, len(row), len(headers))
		}
	}
}

func TestSampleDataDefaultColumns(t *testing.T) {
	headers, rows := SampleData("inventory")
	if !reflect.DeepEqual(headers, []string{"Name", "Value", "Category"}) {
		t.Errorf("headers = %v", headers)
	}
	if rows[0][0] != "inventory 1" {
		t.Errorf("rows[0][0] = %q", rows[0][0])
	}
	if rows[0][2] != "A" || rows[4][2] != "E" {
		t.Errorf("category column = %q, %q", rows[0][2], rows[4][2])
	}
}

func TestSampleDataDeterministic(t *testing.T) {
	h1, r1 := SampleData("track Revenue and Expenses")
	h2, r2 := SampleData("track Revenue and Expenses")
	if !reflect.DeepEqual(h1, h2) || !reflect.DeepEqual(r1, r2) {
		t.Error("SampleData() is not deterministic")
	}
}
