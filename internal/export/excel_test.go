package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/tilescan/internal/model"
)

func TestExportExcel_CreatesWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.xlsx")

	if err := ExportExcel(path, buildTestResult(dir)); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("workbook was not created: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected one sheet per region, got %v", sheets)
	}
	if sheets[0] != "RegionA" || sheets[1] != "RegionB" {
		t.Errorf("unexpected sheet names: %v", sheets)
	}

	rows, err := f.GetRows("RegionA")
	if err != nil {
		t.Fatal(err)
	}
	// Header plus four tiles
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "Index" || rows[0][3] != "Center X" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "0" {
		t.Errorf("expected first tile index 0, got %q", rows[1][0])
	}
}

func TestExportExcel_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := ExportExcel(path, model.PlanResult{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("", 2); got != "Region 3" {
		t.Errorf("sheetName(\"\", 2) = %q", got)
	}
	long := "A_very_long_region_name_that_exceeds_the_limit"
	if got := sheetName(long, 0); len(got) != 31 {
		t.Errorf("expected 31-char cap, got %d chars", len(got))
	}
}
