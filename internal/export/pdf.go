// Package export renders run reports: a PDF layout of the sheet, QR-coded
// placement labels, and an Excel workbook of the raw results.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// obstacleColor represents an RGB color for an obstacle.
type obstacleColor struct {
	R, G, B int
}

// obstacleColors are muted so the placed carpet stands out against them.
var obstacleColors = []obstacleColor{
	{R: 144, G: 164, B: 174}, // blue grey
	{R: 161, G: 136, B: 127}, // brown
	{R: 176, G: 190, B: 197}, // light blue grey
	{R: 188, G: 170, B: 164}, // light brown
	{R: 120, G: 144, B: 156}, // slate
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// canvas maps sheet coordinates (origin bottom left, mm) onto the page.
type canvas struct {
	scale   float64
	offsetX float64
	offsetY float64
	height  float64 // canvas height on the page
}

// rect returns the page position and size of r.
func (c canvas) rect(r model.Rect) (x, y, w, h float64) {
	return c.offsetX + r.MinX*c.scale,
		c.offsetY + c.height - r.MaxY*c.scale,
		r.Width() * c.scale,
		r.Height() * c.scale
}

// ExportPDF writes the report as a two-page PDF: the sheet layout with every
// obstacle, keep-out area, checked position and the found placement, then a
// summary of all results.
func ExportPDF(path string, report model.Report) error {
	if report.Sheet.Width <= 0 || report.Sheet.Height <= 0 {
		return fmt.Errorf("sheet has no area to draw")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, report)

	pdf.AddPage()
	renderSummaryPage(pdf, report)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the sheet and everything on it.
func renderLayoutPage(pdf *fpdf.Fpdf, report model.Report) {
	sheet := report.Sheet

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%.0f x %.0f mm)", sheetTitle(sheet), sheet.Width, sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, statusLine(report), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/sheet.Width, drawHeight/sheet.Height)

	c := canvas{
		scale:   scale,
		offsetX: marginLeft + (drawWidth-sheet.Width*scale)/2,
		offsetY: drawAreaTop,
		height:  sheet.Height * scale,
	}
	canvasW := sheet.Width * scale

	// Sheet background
	pdf.SetFillColor(245, 240, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(c.offsetX, c.offsetY, canvasW, c.height, "FD")

	drawExclusions(pdf, c, sheet)
	drawObstacles(pdf, c, report.Obstacles, len(sheet.ExclusionRects()))
	drawBatchMarkers(pdf, c, report)
	drawQueries(pdf, c, report.Queries)
	if report.Placement != nil {
		drawPlacement(pdf, c, *report.Placement, report.Carpet)
	}

	drawDimensionAnnotations(pdf, sheet, c, canvasW)
	drawLegend(pdf, c.offsetY+c.height+6)
}

func sheetTitle(s model.Sheet) string {
	if s.Label != "" {
		return s.Label
	}
	return "Sheet"
}

func statusLine(report model.Report) string {
	status := "Search skipped"
	if report.Search != nil {
		if report.Search.Found {
			status = fmt.Sprintf("Placed at (%.1f, %.1f), candidate %d of %d",
				report.Search.Position.X, report.Search.Position.Y, report.Search.Index+1, report.Search.Candidates)
		} else {
			status = fmt.Sprintf("No position found among %d candidates", report.Search.Candidates)
		}
	}
	return fmt.Sprintf("%s | Obstacles: %d | Batch: %d of %d fit",
		status, len(report.Obstacles), report.FitCount(), len(report.Batch))
}

// drawExclusions renders margins and keep-out zones.
func drawExclusions(pdf *fpdf.Fpdf, c canvas, sheet model.Sheet) {
	for _, r := range sheet.ExclusionRects() {
		zx, zy, zw, zh := c.rect(r)

		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(zx, zy, zw, zh, "FD")
		drawHatchPattern(pdf, zx, zy, zw, zh)

		if zw > 20 && zh > 8 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(180, 0, 0)
			labelW := pdf.GetStringWidth("KEEP OUT")
			pdf.SetXY(zx+(zw-labelW)/2, zy+zh/2-2)
			pdf.CellFormat(labelW, 4, "KEEP OUT", "", 0, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawObstacles renders the report obstacles. The first skip entries are
// the sheet's own exclusions, already drawn by drawExclusions.
func drawObstacles(pdf *fpdf.Fpdf, c canvas, obstacles []model.Obstacle, skip int) {
	for i, o := range obstacles {
		if i < skip {
			continue
		}
		col := obstacleColors[i%len(obstacleColors)]
		ox, oy, ow, oh := c.rect(o.Bounds)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(60, 60, 60)
		pdf.SetLineWidth(0.2)
		pdf.Rect(ox, oy, ow, oh, "FD")

		if ow > 15 && oh > 6 && o.Label != "" {
			pdf.SetFont("Helvetica", "", labelFontSize(ow, oh))
			pdf.SetTextColor(30, 30, 30)
			labelW := pdf.GetStringWidth(o.Label)
			if labelW < ow-2 {
				pdf.SetXY(ox+(ow-labelW)/2, oy+oh/2-2)
				pdf.CellFormat(labelW, 4, o.Label, "", 0, "C", false, 0, "")
			}
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawBatchMarkers outlines the carpet at every batch position, green where
// it fits and red where it does not.
func drawBatchMarkers(pdf *fpdf.Fpdf, c canvas, report model.Report) {
	pdf.SetLineWidth(0.2)
	for _, b := range report.Batch {
		if b.Fits {
			pdf.SetDrawColor(46, 125, 50)
		} else {
			pdf.SetDrawColor(198, 40, 40)
		}
		bx, by, bw, bh := c.rect(report.Carpet.Bounds.MoveTo(b.Position))
		pdf.Rect(bx, by, bw, bh, "D")
	}
}

// drawQueries outlines index query boxes with a dashed line.
func drawQueries(pdf *fpdf.Fpdf, c canvas, queries []model.QueryResult) {
	if len(queries) == 0 {
		return
	}
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.SetLineWidth(0.2)
	for _, q := range queries {
		if q.Collides {
			pdf.SetDrawColor(230, 81, 0)
		} else {
			pdf.SetDrawColor(21, 101, 192)
		}
		qx, qy, qw, qh := c.rect(q.Rect)
		pdf.Rect(qx, qy, qw, qh, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)
}

// drawPlacement renders the found carpet position, following its outline
// when the carpet has one.
func drawPlacement(pdf *fpdf.Fpdf, c canvas, placed model.Rect, carpet model.Carpet) {
	pdf.SetFillColor(76, 175, 80)
	pdf.SetDrawColor(27, 94, 32)
	pdf.SetLineWidth(0.5)

	px, py, pw, ph := c.rect(placed)
	if len(carpet.Outline) >= 3 {
		outline := carpet.Outline.Translate(placed.MinX-carpet.Bounds.MinX, placed.MinY-carpet.Bounds.MinY)
		points := make([]fpdf.PointType, len(outline))
		for i, p := range outline {
			points[i] = fpdf.PointType{
				X: c.offsetX + p.X*c.scale,
				Y: c.offsetY + c.height - p.Y*c.scale,
			}
		}
		pdf.Polygon(points, "FD")
	} else {
		pdf.Rect(px, py, pw, ph, "FD")
	}

	label := carpet.Label
	if label == "" {
		label = "Carpet"
	}
	pdf.SetFont("Helvetica", "B", labelFontSize(pw, ph))
	labelW := pdf.GetStringWidth(label)
	if labelW < pw-2 && ph > 6 {
		pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to indicate exclusion zones.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.Sheet, c canvas, canvasW float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(c.offsetX+(canvasW-wLabelW)/2, c.offsetY+c.height+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, c.offsetX-3, c.offsetY+c.height/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(c.offsetX-3-hLabelW/2, c.offsetY+c.height/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend explains the colors used on the layout page.
func drawLegend(pdf *fpdf.Fpdf, y float64) {
	entries := []struct {
		label   string
		r, g, b int
	}{
		{"Placed carpet", 76, 175, 80},
		{"Obstacle", 144, 164, 174},
		{"Keep-out", 255, 200, 200},
		{"Batch fit", 46, 125, 50},
		{"Batch blocked", 198, 40, 40},
		{"Query", 21, 101, 192},
	}

	pdf.SetFont("Helvetica", "", 7)
	x := marginLeft
	for _, e := range entries {
		pdf.SetFillColor(e.r, e.g, e.b)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(e.label) + 2
		pdf.CellFormat(w, 4, e.label, "", 0, "L", false, 0, "")
		x += w + 8
	}
}

// renderSummaryPage lists every result of the run.
func renderSummaryPage(pdf *fpdf.Fpdf, report model.Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Placement Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	items := []struct {
		label string
		value string
	}{
		{"Carpet", fmt.Sprintf("%s (%.0f x %.0f mm)", report.Carpet.Label, report.Carpet.Bounds.Width(), report.Carpet.Bounds.Height())},
		{"Obstacles", fmt.Sprintf("%d", len(report.Obstacles))},
		{"Grid Size", fmt.Sprintf("%d", report.GridSize)},
		{"Result", statusLine(report)},
	}
	if report.Index != nil {
		items = append(items, struct {
			label string
			value string
		}{"Spatial Index", fmt.Sprintf("%d obstacles, node size %d, cache hits %d / misses %d",
			report.Index.Obstacles, report.Index.NodeSize, report.Index.CacheHits, report.Index.CacheMisses)})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(40, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(200, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(report.Batch) > 0 {
		y = drawTable(pdf, y+5, "Batch Collision Check",
			[]string{"#", "X", "Y", "Fits"}, []float64{20, 40, 40, 30},
			len(report.Batch), func(i int) []string {
				b := report.Batch[i]
				return []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%.1f", b.Position.X), fmt.Sprintf("%.1f", b.Position.Y), yesNo(b.Fits)}
			})
	}
	if len(report.Queries) > 0 {
		y = drawTable(pdf, y+5, "Index Queries",
			[]string{"#", "Query", "Collides", "Obstacles hit"}, []float64{20, 90, 30, 60},
			len(report.Queries), func(i int) []string {
				q := report.Queries[i]
				return []string{fmt.Sprintf("%d", i+1), formatRect(q.Rect), yesNo(q.Collides), fmt.Sprintf("%d", len(q.Hits))}
			})
	}
	if len(report.Nearest) > 0 {
		y = drawTable(pdf, y+5, "Nearest Obstacles",
			[]string{"Point", "Obstacle", "Distance"}, []float64{60, 80, 40},
			len(report.Nearest), func(i int) []string {
				n := report.Nearest[i]
				name := "-"
				if n.Found {
					name = n.Label
				}
				return []string{fmt.Sprintf("(%.1f, %.1f)", n.Point.X, n.Point.Y), name, fmt.Sprintf("%.1f mm", n.Distance)}
			})
	}

	if len(report.Comparisons) > 0 {
		y = drawTable(pdf, y+5, "Grid Size Comparison",
			[]string{"Scenario", "Candidates", "Result"}, []float64{60, 40, 100},
			len(report.Comparisons), func(i int) []string {
				c := report.Comparisons[i]
				result := "not found"
				if c.Search.Found {
					result = fmt.Sprintf("(%.1f, %.1f)", c.Search.Position.X, c.Search.Position.Y)
				}
				return []string{c.Name, fmt.Sprintf("%d", c.Search.Candidates), result}
			})
	}

	if len(report.Warnings) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Warnings", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, w := range report.Warnings {
			if y > pageHeight-marginBottom-10 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, "- "+w, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CarpetFit", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawTable renders a titled table and returns the y position below it.
// Rows that would run off the page are summarized in one line.
func drawTable(pdf *fpdf.Fpdf, y float64, title string, headers []string, colWidths []float64, rows int, row func(i int) []string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i := 0; i < rows; i++ {
		if y > pageHeight-marginBottom-12 {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(100, 6, fmt.Sprintf("... %d more", rows-i), "", 0, "L", false, 0, "")
			return y + 6
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row(i) {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatRect(r model.Rect) string {
	return fmt.Sprintf("(%.1f, %.1f) - (%.1f, %.1f)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
