package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/tilescan/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	qrSize       = 22.0 // QR code size in mm
)

// planSummary is the data encoded into each page's QR code.
type planSummary struct {
	Region      string  `json:"region"`
	Tiles       int     `json:"tiles"`
	FrameWidth  float64 `json:"frame_width"`
	FrameHeight float64 `json:"frame_height"`
	Overlap     float64 `json:"overlap_percent"`
}

// ExportPDF renders each plan on its own page: the gridded area, the polygon
// outline when present, and every tile rectangle to scale, plus a QR code
// summarizing the plan for quick lookup at the microscope.
func ExportPDF(path string, result model.PlanResult, frame model.Frame, settings model.PlanSettings) error {
	if len(result.Plans) == 0 {
		return fmt.Errorf("no plans to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, plan := range result.Plans {
		pdf.AddPage()
		if err := renderPlanPage(pdf, plan, frame, settings); err != nil {
			return err
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderPlanPage draws a single plan on the current PDF page.
func renderPlanPage(pdf *fpdf.Fpdf, plan model.TilePlan, frame model.Frame, settings model.PlanSettings) error {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Region %s (%.0f x %.0f)", plan.RegionName, plan.Bounds.Width(), plan.Bounds.Height())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Tiles: %d | Frame: %.1f x %.1f | Overlap: %.0f%% | Invert X: %v | Invert Y: %v",
		len(plan.Tiles), frame.Width, frame.Height, settings.OverlapPercent, settings.InvertX, settings.InvertY)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - qrSize - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom

	// Scale the gridded area to fit the drawing region. Tiles may stick out
	// past the area bounds by up to half a frame, so scale against the tile
	// extent rather than the bounds alone.
	extent := plan.Bounds.Expand(frame.Width/2, frame.Height/2)
	scale := math.Min(drawWidth/extent.Width(), drawHeight/extent.Height())

	offsetX := marginLeft + (drawWidth-extent.Width()*scale)/2
	offsetY := drawAreaTop

	toPage := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.X-extent.MinX)*scale, offsetY + (p.Y-extent.MinY)*scale
	}

	// Gridded area background
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	bx, by := toPage(model.Point2D{X: plan.Bounds.MinX, Y: plan.Bounds.MinY})
	pdf.Rect(bx, by, plan.Bounds.Width()*scale, plan.Bounds.Height()*scale, "FD")

	// Tile rectangles
	pdf.SetDrawColor(33, 150, 243)
	pdf.SetLineWidth(0.2)
	for _, t := range plan.Tiles {
		tx, ty := toPage(model.Point2D{X: t.X - frame.Width/2, Y: t.Y - frame.Height/2})
		pdf.Rect(tx, ty, frame.Width*scale, frame.Height*scale, "D")
	}

	// Tile indices, when they stay legible
	if frame.Width*scale > 6 {
		pdf.SetFont("Helvetica", "", 5)
		pdf.SetTextColor(60, 60, 60)
		for _, t := range plan.Tiles {
			tx, ty := toPage(model.Point2D{X: t.X, Y: t.Y})
			pdf.SetXY(tx-3, ty-1.5)
			pdf.CellFormat(6, 3, fmt.Sprintf("%d", t.Index), "", 0, "C", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
	}

	// Polygon outline on top of the tiles
	if len(plan.Outline) >= 3 {
		pdf.SetDrawColor(244, 67, 54)
		pdf.SetLineWidth(0.5)
		for i := range plan.Outline {
			ax, ay := toPage(plan.Outline[i])
			nx, ny := toPage(plan.Outline[(i+1)%len(plan.Outline)])
			pdf.Line(ax, ay, nx, ny)
		}
	}

	return renderPlanQR(pdf, plan, frame, settings)
}

// renderPlanQR places the plan summary QR code in the top-right corner.
func renderPlanQR(pdf *fpdf.Fpdf, plan model.TilePlan, frame model.Frame, settings model.PlanSettings) error {
	summary := planSummary{
		Region:      plan.RegionName,
		Tiles:       len(plan.Tiles),
		FrameWidth:  frame.Width,
		FrameHeight: frame.Height,
		Overlap:     settings.OverlapPercent,
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal plan summary: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code for region %q: %w", plan.RegionName, err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", plan.RegionName, len(plan.Tiles))
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginRight-qrSize, drawAreaTop, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}
