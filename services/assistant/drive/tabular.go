// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drive

import (
	"fmt"
	"regexp"
	"strings"
)

// sampleRows is how many placeholder rows a generated workbook gets.
const sampleRows = 5

// capitalizedWordRe finds capitalized words usable as column names.
var capitalizedWordRe = regexp.MustCompile(`\b([A-Z][a-z]+)\b`)

// ParseTabular interprets free-form content as delimiter-separated rows.
//
// Description:
//
//	Content qualifies when it spans more than one line and its first line
//	contains a comma or a tab. The first line supplies the column headers
//	(comma wins over tab as the delimiter); remaining lines become rows,
//	padded or truncated to the header width.
//
// Outputs:
//
//	headers - Column names from the first line.
//	rows - Data rows, each exactly len(headers) wide.
//	ok - False when the content does not look tabular.
func ParseTabular(content string) (headers []string, rows [][]string, ok bool) {
	if !strings.ContainsAny(content, ",\t") {
		return nil, nil, false
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil, nil, false
	}

	delimiter := "\t"
	if strings.Contains(lines[0], ",") {
		delimiter = ","
	}

	for _, h := range strings.Split(lines[0], delimiter) {
		headers = append(headers, strings.TrimSpace(h))
	}

	for _, line := range lines[1:] {
		values := strings.Split(line, delimiter)
		row := make([]string, len(headers))
		for i := range headers {
			if i < len(values) {
				row[i] = strings.TrimSpace(values[i])
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, true
}

// SampleData fabricates placeholder workbook content from a content hint.
//
// Description:
//
//	Used when a spreadsheet was requested but the content is not tabular.
//	Capitalized words in the hint become column names (up to three); the
//	first column is filled with words from the hint, the second with
//	numbers, the third with letters. With fewer than two capitalized
//	words, the default Name/Value/Category layout is used. The output is
//	a pure function of the hint, so repeated requests produce identical
//	workbooks.
func SampleData(content string) (headers []string, rows [][]string) {
	columns := capitalizedWordRe.FindAllString(content, -1)
	if len(columns) >= 2 {
		if len(columns) > 3 {
			columns = columns[:3]
		}
		headers = columns
	} else {
		headers = []string{"Name", "Value", "Category"}
	}

	var words []string
	for _, w := range strings.Fields(content) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	firstWord := "Item"
	if fields := strings.Fields(content); len(fields) > 0 {
		firstWord = fields[0]
	}

	rows = make([][]string, sampleRows)
	for i := 0; i < sampleRows; i++ {
		row := make([]string, len(headers))
		for j := range headers {
			switch j {
			case 0:
				if len(columns) >= 2 && i < len(words) {
					row[j] = words[i]
				} else {
					row[j] = fmt.Sprintf("%s %d", firstWord, i+1)
				}
			case 1:
				row[j] = fmt.Sprintf("%d", (i*37)%100+1)
			default:
				row[j] = string(rune('A' + i))
			}
		}
		rows[i] = row
	}
	return headers, rows
}
