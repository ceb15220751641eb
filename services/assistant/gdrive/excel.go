// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gdrive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// formattedRowCap bounds how many rows FormatSheet renders.
const formattedRowCap = 10

// BuildWorkbook serializes headers and rows into an xlsx workbook.
func BuildWorkbook(headers []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("workbook cell address failed: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("workbook header write failed: %w", err)
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("workbook cell address failed: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("workbook cell write failed: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook serialize failed: %w", err)
	}
	return buf, nil
}

// ParseWorkbook reads the first sheet of an xlsx workbook into headers and
// rows. An empty sheet returns ok=false.
func ParseWorkbook(r io.Reader) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("workbook open failed: %w", err)
	}
	defer f.Close()

	all, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("workbook rows read failed: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// FormatSheet renders sheet data as the readable text block handed to the
// LLM: the column list, a row-count line, and up to ten "Row N: col: value"
// lines.
func FormatSheet(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return "Excel file is empty (no data found)."
	}

	var b strings.Builder
	b.WriteString("Excel File Contents:\n\n")
	b.WriteString("Columns: " + strings.Join(headers, ", ") + "\n\n")

	shown := len(rows)
	if shown > formattedRowCap {
		shown = formattedRowCap
	}
	fmt.Fprintf(&b, "Showing first %d rows (total rows: %d):\n\n", shown, len(rows))

	for i := 0; i < shown; i++ {
		pairs := make([]string, len(headers))
		for j, h := range headers {
			value := ""
			if j < len(rows[i]) {
				value = rows[i][j]
			}
			pairs[j] = fmt.Sprintf("%s: %s", h, value)
		}
		fmt.Fprintf(&b, "Row %d: %s\n", i+1, strings.Join(pairs, ", "))
	}
	return b.String()
}

// sheetRecords converts sheet data to row maps for the payload.
func sheetRecords(headers []string, rows [][]string) []map[string]string {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(row) {
				rec[h] = row[j]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
