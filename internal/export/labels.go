package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StowPlan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each item label's QR code. Scanning
// a label with the inventory app resolves the item without typing its id in
// gloves.
type LabelInfo struct {
	ItemID      string  `json:"itemId"`
	Name        string  `json:"name"`
	Width       float64 `json:"width_cm"`
	Depth       float64 `json:"depth_cm"`
	Height      float64 `json:"height_cm"`
	Mass        float64 `json:"mass_kg"`
	Priority    int     `json:"priority"`
	ContainerID string  `json:"containerId,omitempty"`
	Zone        string  `json:"zone,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page). Each label cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
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

// ExportLabels generates a PDF of QR-coded labels for every placed item.
// Each label carries the item name, dimensions, stowage location, and a QR
// code encoding the item metadata as JSON.
func ExportLabels(path string, arr model.Arrangement) error {
	labels := CollectLabelInfos(arr)
	if len(labels) == 0 {
		return fmt.Errorf("no placed items to generate labels for")
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

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ItemID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide.
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

	imgName := fmt.Sprintf("qr_%s", info.ItemID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Item name (bold, larger), truncated to fit.
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := info.Name
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f cm  %.1f kg", info.Width, info.Depth, info.Height, info.Mass)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	location := fmt.Sprintf("%s / %s", info.Zone, info.ContainerID)
	pdf.CellFormat(textW, 3, location, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.SetTextColor(150, 100, 0)
	pdf.CellFormat(textW, 3, fmt.Sprintf("P%d  %s", info.Priority, info.ItemID), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label data for every placed item, in placement
// order.
func CollectLabelInfos(arr model.Arrangement) []LabelInfo {
	var labels []LabelInfo
	for _, p := range arr.Placements {
		it, ok := arr.ItemByID(p.ItemID)
		if !ok {
			continue
		}
		info := LabelInfo{
			ItemID:      it.ItemID,
			Name:        it.Name,
			Width:       it.Width,
			Depth:       it.Depth,
			Height:      it.Height,
			Mass:        it.Mass,
			Priority:    it.Priority,
			ContainerID: p.ContainerID,
		}
		if c, ok := arr.ContainerByID(p.ContainerID); ok {
			info.Zone = c.Zone
		}
		labels = append(labels, info)
	}
	return labels
}
