package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// LabelInfo holds the data encoded into each placement label's QR code.
type LabelInfo struct {
	CarpetID    string  `json:"carpet_id,omitempty"`
	CarpetLabel string  `json:"label"`
	Width       float64 `json:"width_mm"`
	Height      float64 `json:"height_mm"`
	SheetLabel  string  `json:"sheet_label"`
	Source      string  `json:"source"` // "search" or "batch"
	X           float64 `json:"x_mm"`
	Y           float64 `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos lists one label for the searched placement, if any, and
// one for each batch position the carpet fits at, in report order.
func CollectLabelInfos(report model.Report) []LabelInfo {
	base := LabelInfo{
		CarpetID:    report.Carpet.ID,
		CarpetLabel: report.Carpet.Label,
		Width:       report.Carpet.Bounds.Width(),
		Height:      report.Carpet.Bounds.Height(),
		SheetLabel:  report.Sheet.Label,
	}

	var labels []LabelInfo
	if report.Placement != nil {
		l := base
		l.Source = "search"
		l.X, l.Y = report.Placement.MinX, report.Placement.MinY
		labels = append(labels, l)
	}
	for _, b := range report.Batch {
		if !b.Fits {
			continue
		}
		l := base
		l.Source = "batch"
		l.X, l.Y = b.Position.X, b.Position.Y
		labels = append(labels, l)
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per placement from
// CollectLabelInfos. Each label shows the carpet name, size and position,
// and a QR code with the same data as JSON. Labels are laid out on a
// standard label sheet (Avery 5160, 3 columns x 10 rows on US Letter).
func ExportLabels(path string, report model.Report) error {
	labels := CollectLabelInfos(report)
	if len(labels) == 0 {
		return fmt.Errorf("no placements to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label %d: %w", i+1, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := info.CarpetLabel
	if name == "" {
		name = "Carpet"
	}
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ (%.0f, %.0f)", info.X, info.Y), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(textW, 3, info.Source, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
