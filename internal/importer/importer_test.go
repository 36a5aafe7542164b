package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,X,Y,Width,Height\nSofa,0,0,200,90\nTable,300,100,120,80\n", ','},
		{"semicolon", "Label;X;Y;Width;Height\nSofa;0;0;200;90\nTable;300;100;120;80\n", ';'},
		{"tab", "Label\tX\tY\tWidth\tHeight\nSofa\t0\t0\t200\t90\n", '\t'},
		{"pipe", "Label|X|Y|Width|Height\nSofa|0|0|200|90\n", '|'},
	}
	for _, tt := range tests {
		if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_SizeHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Label", "X", "Y", "Width", "Height"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Label: 0, X: 1, Y: 2, Width: 3, Height: 4, MaxX: -1, MaxY: -1}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_BoundsHeadersReordered(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"MAX_Y", "min_x", " Name ", "max_x", "Min_Y"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Label: 2, X: 1, Y: 4, Width: -1, Height: -1, MaxX: 3, MaxY: 0}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Sofa", "0", "0", "200", "90"})

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.X != 1 || mapping.Height != 4 || mapping.MaxX != -1 {
		t.Errorf("unexpected positional mapping %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_SizeColumns(t *testing.T) {
	data := "Label,X,Y,Width,Height\nSofa,0,0,200,90\nTable,300,100,120,80\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Obstacles) != 2 {
		t.Fatalf("expected 2 obstacles, got %d", len(result.Obstacles))
	}
	if result.Obstacles[0].Label != "Sofa" {
		t.Errorf("expected 'Sofa', got '%s'", result.Obstacles[0].Label)
	}
	if got := result.Obstacles[1].Bounds; got != model.NewRect(300, 100, 420, 180) {
		t.Errorf("unexpected bounds %+v", got)
	}
	if len(result.Obstacles[0].ID) != 8 {
		t.Errorf("expected 8-char ID, got %q", result.Obstacles[0].ID)
	}
}

func TestImportCSVFromReader_BoundsColumns(t *testing.T) {
	data := "name;min_x;min_y;max_x;max_y\nPillar;10;20;30;40\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := result.Obstacles[0].Bounds; got != model.NewRect(10, 20, 30, 40) {
		t.Errorf("unexpected bounds %+v", got)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Sofa,0,0,200,90\nTable,300,100,120,80\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Obstacles) != 2 {
		t.Fatalf("expected 2 obstacles, got %d (errors: %v)", len(result.Obstacles), result.Errors)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "header") {
			t.Errorf("unexpected header warning: %s", w)
		}
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Thing,Across,Up,Wide,Tall\nSofa,0,0,200,90\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Obstacles) != 1 {
		t.Fatalf("expected 1 obstacle, got %d (errors: %v)", len(result.Obstacles), result.Errors)
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	data := "Label,X,Width,Height\nSofa,0,200,90\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Y") {
		t.Fatalf("expected missing Y error, got %v", result.Errors)
	}
	if len(result.Obstacles) != 0 {
		t.Errorf("expected no obstacles, got %d", len(result.Obstacles))
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,X,Y,Width,Height\n" +
		"Good,0,0,10,10\n" +
		"BadX,abc,0,10,10\n" +
		"Negative,0,0,-5,10\n" +
		"Short,0,0\n" +
		"\n" +
		"Also good,20,20,5,5\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Obstacles) != 2 {
		t.Errorf("expected 2 obstacles, got %d", len(result.Obstacles))
	}
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Line 3:") {
		t.Errorf("expected error on Line 3, got %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyLabelAndZeroArea(t *testing.T) {
	data := "Label,X,Y,Width,Height\n,5,5,0,10\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Obstacles) != 1 {
		t.Fatalf("expected 1 obstacle, got %d (errors: %v)", len(result.Obstacles), result.Errors)
	}
	if result.Obstacles[0].Label != "Obstacle 1" {
		t.Errorf("expected generated label, got '%s'", result.Obstacles[0].Label)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "zero area") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected zero area warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obstacles.csv")
	content := "Label;X;Y;Width;Height\nSofa;0;0;200;90\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	if !result.OK() {
		t.Fatalf("expected successful import, errors: %v", result.Errors)
	}
	if result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("expected delimiter warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected 'File is empty', got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obstacles.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Left", "Bottom", "Right", "Top"},
		{"Pillar", 10, 20, 30, 40},
		{"Door", 0, 500, 90, 600},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Obstacles) != 2 {
		t.Fatalf("expected 2 obstacles, got %d", len(result.Obstacles))
	}
	if result.Obstacles[1].Bounds != model.NewRect(0, 500, 90, 600) {
		t.Errorf("unexpected bounds %+v", result.Obstacles[1].Bounds)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Sofa", 0, 0, 200, 90},
		{"Table", 300, 100, 120, 80},
	})

	result := ImportExcel(path)

	if len(result.Obstacles) != 2 {
		t.Fatalf("expected 2 obstacles, got %d (errors: %v)", len(result.Obstacles), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── Dispatch Tests ────────────────────────────────────────

func TestImport_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "obstacles.CSV")
	if err := os.WriteFile(csvPath, []byte("Sofa,0,0,200,90\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := Import(csvPath); len(result.Obstacles) != 1 {
		t.Errorf("expected 1 obstacle from CSV, got %d (errors: %v)", len(result.Obstacles), result.Errors)
	}

	xlsxPath := createTestExcel(t, [][]interface{}{{"Sofa", 0, 0, 200, 90}})
	if result := Import(xlsxPath); len(result.Obstacles) != 1 {
		t.Errorf("expected 1 obstacle from Excel, got %d (errors: %v)", len(result.Obstacles), result.Errors)
	}

	result := Import(filepath.Join(dir, "obstacles.json"))
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Unsupported") {
		t.Errorf("expected unsupported type error, got %v", result.Errors)
	}
}
