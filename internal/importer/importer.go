// Package importer reads obstacle lists from CSV, Excel and DXF files.
// Tables are matched by header names in any order and any case; drawings are
// reduced to one bounding box per closed shape.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// ImportResult holds the results of an import operation. A bad row becomes
// an entry in Errors and the remaining rows are still imported.
type ImportResult struct {
	Obstacles []model.Obstacle
	Errors    []string
	Warnings  []string
}

// OK reports whether the import produced obstacles without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Obstacles) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A rectangle is given either by Width/Height or by MaxX/MaxY; -1 means the
// column is absent.
type ColumnMapping struct {
	Label  int
	X      int
	Y      int
	Width  int
	Height int
	MaxX   int
	MaxY   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":  {"label", "name", "obstacle", "description", "desc", "item", "id"},
	"x":      {"x", "min_x", "minx", "x0", "left"},
	"y":      {"y", "min_y", "miny", "y0", "bottom"},
	"width":  {"width", "w", "length", "len"},
	"height": {"height", "h", "depth", "d"},
	"max_x":  {"max_x", "maxx", "x1", "right"},
	"max_y":  {"max_y", "maxy", "y1", "top"},
}

// Import dispatches on the file extension: .csv and .txt, .xlsx and .xls,
// or .dxf.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xls":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
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

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping label, x, y, width, height and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, X: -1, Y: -1, Width: -1, Height: -1, MaxX: -1, MaxY: -1}
	slots := map[string]*int{
		"label":  &mapping.Label,
		"x":      &mapping.X,
		"y":      &mapping.Y,
		"width":  &mapping.Width,
		"height": &mapping.Height,
		"max_x":  &mapping.MaxX,
		"max_y":  &mapping.MaxY,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, X: 1, Y: 2, Width: 3, Height: 4, MaxX: -1, MaxY: -1}, false
	}
	return mapping, true
}

// missingColumns lists the roles a header mapping cannot do without.
func (m ColumnMapping) missingColumns() []string {
	var missing []string
	if m.X == -1 {
		missing = append(missing, "X")
	}
	if m.Y == -1 {
		missing = append(missing, "Y")
	}
	if m.Width == -1 && m.MaxX == -1 {
		missing = append(missing, "Width or MaxX")
	}
	if m.Height == -1 && m.MaxY == -1 {
		missing = append(missing, "Height or MaxY")
	}
	return missing
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts an Obstacle from a row using the given column mapping.
// Returns the obstacle, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.Obstacle, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Obstacle %d", count+1)
	}

	x, errMsg := parseNumber(row, mapping.X, "x", rowLabel)
	if errMsg != "" {
		return model.Obstacle{}, errMsg, ""
	}
	y, errMsg := parseNumber(row, mapping.Y, "y", rowLabel)
	if errMsg != "" {
		return model.Obstacle{}, errMsg, ""
	}

	var maxX, maxY float64
	if mapping.Width >= 0 {
		w, errMsg := parseNumber(row, mapping.Width, "width", rowLabel)
		if errMsg != "" {
			return model.Obstacle{}, errMsg, ""
		}
		maxX = x + w
	} else {
		maxX, errMsg = parseNumber(row, mapping.MaxX, "max x", rowLabel)
		if errMsg != "" {
			return model.Obstacle{}, errMsg, ""
		}
	}
	if mapping.Height >= 0 {
		h, errMsg := parseNumber(row, mapping.Height, "height", rowLabel)
		if errMsg != "" {
			return model.Obstacle{}, errMsg, ""
		}
		maxY = y + h
	} else {
		maxY, errMsg = parseNumber(row, mapping.MaxY, "max y", rowLabel)
		if errMsg != "" {
			return model.Obstacle{}, errMsg, ""
		}
	}

	if maxX < x || maxY < y {
		return model.Obstacle{}, fmt.Sprintf("%s: Obstacle has negative extent", rowLabel), ""
	}

	var warning string
	if maxX == x || maxY == y {
		warning = fmt.Sprintf("%s: Obstacle '%s' has zero area", rowLabel, label)
	}
	return model.NewObstacle(label, model.NewRect(x, y, maxX, maxY)), "", warning
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

// ImportCSV imports obstacles from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
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
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports obstacles from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports obstacles from an Excel (.xlsx, .xls) file.
// Reads the first sheet and auto-detects column mapping from headers.
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

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if missing := mapping.missingColumns(); len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header: skip it but keep positional mapping
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		obstacle, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Obstacles))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Obstacles = append(result.Obstacles, obstacle)
	}

	return result
}
