package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/tilescan/internal/model"
)

// excelHeaders is the column layout of each region sheet.
var excelHeaders = []string{"Index", "Row", "Column", "Center X", "Center Y"}

// ExportExcel writes the tile listings to an xlsx workbook, one sheet per
// region plan. The listing mirrors the TileConfiguration files but is meant
// for operators reviewing a plan, not for the stitching pipeline.
func ExportExcel(path string, result model.PlanResult) error {
	if len(result.Plans) == 0 {
		return fmt.Errorf("no plans to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, plan := range result.Plans {
		sheet := sheetName(plan.RegionName, i)
		if i == 0 {
			// Rename the default sheet instead of creating a new one.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("cannot name sheet for region %q: %w", plan.RegionName, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("cannot create sheet for region %q: %w", plan.RegionName, err)
			}
		}

		for col, h := range excelHeaders {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}

		for rowIdx, t := range plan.Tiles {
			values := []interface{}{t.Index, t.Row, t.Col, t.X, t.Y}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(path)
}

// sheetName produces a valid, unique xlsx sheet name for a region. Sheet
// names are capped at 31 characters by the format.
func sheetName(region string, idx int) string {
	name := region
	if name == "" {
		name = fmt.Sprintf("Region %d", idx+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
