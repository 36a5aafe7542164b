package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// ExportExcel writes the report as a workbook with a Summary sheet and one
// sheet each for obstacles, batch results, queries, nearest lookups and grid
// size comparisons.
// Sheets without data are left out.
func ExportExcel(path string, report model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), "Summary"); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Field", "Value"},
		{"Report", report.ID},
		{"Created", report.CreatedAt},
		{"Sheet", fmt.Sprintf("%s (%.0f x %.0f mm)", report.Sheet.Label, report.Sheet.Width, report.Sheet.Height)},
		{"Carpet", fmt.Sprintf("%s (%.0f x %.0f mm)", report.Carpet.Label, report.Carpet.Bounds.Width(), report.Carpet.Bounds.Height())},
		{"Obstacles", len(report.Obstacles)},
		{"Grid Size", report.GridSize},
	}
	if report.Search != nil {
		summary = append(summary,
			[]interface{}{"Found", report.Search.Found},
			[]interface{}{"Candidates", report.Search.Candidates},
		)
		if report.Search.Found {
			summary = append(summary,
				[]interface{}{"X", report.Search.Position.X},
				[]interface{}{"Y", report.Search.Position.Y},
				[]interface{}{"Candidate Index", report.Search.Index},
			)
		}
	}
	if len(report.Batch) > 0 {
		summary = append(summary, []interface{}{"Batch Fits", fmt.Sprintf("%d / %d", report.FitCount(), len(report.Batch))})
	}
	for _, w := range report.Warnings {
		summary = append(summary, []interface{}{"Warning", w})
	}
	if err := writeRows(f, "Summary", summary, header); err != nil {
		return err
	}

	if len(report.Obstacles) > 0 {
		rows := [][]interface{}{{"#", "ID", "Label", "Min X", "Min Y", "Max X", "Max Y"}}
		for i, o := range report.Obstacles {
			rows = append(rows, []interface{}{i, o.ID, o.Label, o.Bounds.MinX, o.Bounds.MinY, o.Bounds.MaxX, o.Bounds.MaxY})
		}
		if err := writeSheet(f, "Obstacles", rows, header); err != nil {
			return err
		}
	}

	if len(report.Batch) > 0 {
		rows := [][]interface{}{{"#", "X", "Y", "Fits"}}
		for i, b := range report.Batch {
			rows = append(rows, []interface{}{i + 1, b.Position.X, b.Position.Y, b.Fits})
		}
		if err := writeSheet(f, "Batch", rows, header); err != nil {
			return err
		}
	}

	if len(report.Queries) > 0 {
		rows := [][]interface{}{{"#", "Min X", "Min Y", "Max X", "Max Y", "Collides", "Hits"}}
		for i, q := range report.Queries {
			rows = append(rows, []interface{}{i + 1, q.Rect.MinX, q.Rect.MinY, q.Rect.MaxX, q.Rect.MaxY, q.Collides, len(q.Hits)})
		}
		if err := writeSheet(f, "Queries", rows, header); err != nil {
			return err
		}
	}

	if len(report.Nearest) > 0 {
		rows := [][]interface{}{{"X", "Y", "Found", "Obstacle", "Label", "Distance"}}
		for _, n := range report.Nearest {
			rows = append(rows, []interface{}{n.Point.X, n.Point.Y, n.Found, n.Obstacle, n.Label, n.Distance})
		}
		if err := writeSheet(f, "Nearest", rows, header); err != nil {
			return err
		}
	}

	if len(report.Comparisons) > 0 {
		rows := [][]interface{}{{"Scenario", "Grid Size", "Candidates", "Found", "X", "Y"}}
		for _, c := range report.Comparisons {
			rows = append(rows, []interface{}{c.Name, c.GridSize, c.Search.Candidates, c.Search.Found, c.Search.Position.X, c.Search.Position.Y})
		}
		if err := writeSheet(f, "Comparisons", rows, header); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows, headerStyle)
}

// writeRows fills sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}
	return nil
}
