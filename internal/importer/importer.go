// Package importer reads scan region boundaries from external files. Polygon
// outlines come either from DXF exports of an annotation tool or from plain
// vertex lists in CSV / Excel form.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/tilescan/internal/model"
)

// ImportResult holds the outcome of an import operation.
type ImportResult struct {
	Regions  []model.RegionOutline
	Errors   []string
	Warnings []string
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe. The delimiter that
// produces the most consistent column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// ImportCSV imports region outlines from a CSV file of polygon vertices.
// Expected columns are label, x, y (label optional: two-column files yield a
// single unnamed region). Consecutive rows sharing a label form one outline.
// The delimiter is detected automatically.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	return importVertices(readCSVRows(bytes.NewReader(data), delimiter, &result), "Line", result)
}

// ImportCSVFromReader imports region outlines from a CSV reader with a known
// delimiter. Useful for testing.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}
	return importVertices(readCSVRows(reader, delimiter, &result), "Line", result)
}

// ImportExcel imports region outlines from an Excel file. The first sheet is
// read with the same column layout as the CSV import.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importVertices(rows, "Row", result)
}

// readCSVRows parses the CSV content, recording any parse failure on result.
func readCSVRows(reader io.Reader, delimiter rune, result *ImportResult) [][]string {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return nil
	}
	return records
}

// importVertices is the shared import logic for CSV and Excel vertex lists.
func importVertices(rows [][]string, rowPrefix string, result ImportResult) ImportResult {
	if len(result.Errors) > 0 {
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	start := 0
	if isHeaderRow(rows[0]) {
		start = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	// Accumulate vertices per label, in row order. Rows with a blank label
	// continue the preceding region.
	var order []string
	vertices := map[string]model.Outline{}
	current := ""

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)

		label, x, y, errMsg := parseVertexRow(row, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if label == "" {
			label = current
		}
		if _, seen := vertices[label]; !seen {
			order = append(order, label)
		}
		vertices[label] = append(vertices[label], model.Point2D{X: x, Y: y})
		current = label
	}

	for _, label := range order {
		outline := vertices[label]
		if len(outline) < 3 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped region %q with fewer than 3 vertices", label))
			continue
		}
		result.Regions = append(result.Regions, model.NewRegionOutline(label, outline))
	}

	if len(result.Regions) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No region outlines found")
	}
	return result
}

// parseVertexRow extracts (label, x, y) from one row. Two-column rows are
// unlabeled vertices; three or more columns put the label first.
func parseVertexRow(row []string, rowLabel string) (label string, x, y float64, errMsg string) {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		cells = append(cells, strings.TrimSpace(c))
	}

	var xs, ys string
	switch {
	case len(cells) >= 3:
		label, xs, ys = cells[0], cells[1], cells[2]
	case len(cells) == 2:
		xs, ys = cells[0], cells[1]
	default:
		return "", 0, 0, fmt.Sprintf("%s: Expected at least x and y columns", rowLabel)
	}

	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return "", 0, 0, fmt.Sprintf("%s: Invalid x value '%s'", rowLabel, xs)
	}
	y, err = strconv.ParseFloat(ys, 64)
	if err != nil {
		return "", 0, 0, fmt.Sprintf("%s: Invalid y value '%s'", rowLabel, ys)
	}
	return label, x, y, ""
}

// isHeaderRow reports whether the row looks like a header: any cell that
// should be numeric fails to parse as a number.
func isHeaderRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	numeric := row
	if len(row) >= 3 {
		numeric = row[1:3]
	}
	for _, cell := range numeric {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return true
		}
	}
	return false
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
