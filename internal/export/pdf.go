package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StowPlan/internal/model"
)

// itemColor represents an RGB color for a stowed item.
type itemColor struct {
	R, G, B int
}

// itemColors mirrors the color scheme used in the UI container canvas.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
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

// ExportPDF generates the stowage report: one page per container with a
// front-elevation diagram of its contents, then a summary page with
// capacity statistics and waste counts.
func ExportPDF(path string, arr model.Arrangement) error {
	if len(arr.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, c := range arr.Containers {
		pdf.AddPage()
		renderContainerPage(pdf, arr, c, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, arr)

	return pdf.OutputFileAndClose(path)
}

// renderContainerPage draws one container's front view. Items are drawn as
// their width/height faces at their stowed position; the fill lightens with
// depth so buried cargo reads as further away.
func renderContainerPage(pdf *fpdf.Fpdf, arr model.Arrangement, c model.Container, pageNum int) {
	placements := arr.PlacementsIn(c.ContainerID)
	// Deepest first so shallow items draw on top, matching the view from
	// the opening.
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Box.Start.Depth > placements[j].Box.Start.Depth
	})

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Container %d: %s / %s (%.0f x %.0f x %.0f cm)",
		pageNum, c.Zone, c.ContainerID, c.Width, c.Depth, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	usedVolume := 0.0
	for _, p := range placements {
		usedVolume += p.Box.Volume()
	}
	fill := 0.0
	if c.Volume() > 0 {
		fill = usedVolume / c.Volume() * 100
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used volume: %.0f cm3 | Capacity: %.0f cm3 | Fill: %.1f%%",
		len(placements), usedVolume, c.Volume(), fill)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/c.Width, drawHeight/c.Height)
	canvasW := c.Width * scale
	canvasH := c.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container outline.
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range placements {
		col := itemColors[i%len(itemColors)]
		shade := depthShade(p.Box.Start.Depth, c.Depth)
		pw := (p.Box.End.Width - p.Box.Start.Width) * scale
		ph := (p.Box.End.Height - p.Box.Start.Height) * scale
		px := offsetX + p.Box.Start.Width*scale
		// PDF y runs downward; container height runs upward.
		py := offsetY + canvasH - p.Box.End.Height*scale

		pdf.SetFillColor(lighten(col.R, shade), lighten(col.G, shade), lighten(col.B, shade))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			name := p.ItemID
			if it, ok := arr.ItemByID(p.ItemID); ok {
				name = it.Name
			}
			depthInfo := fmt.Sprintf("d %.0f-%.0f", p.Box.Start.Depth, p.Box.End.Depth)

			nameW := pdf.GetStringWidth(name)
			if nameW < pw-2 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2-4)
				pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
			}
			depthW := pdf.GetStringWidth(depthInfo)
			if ph > 14 && depthW < pw-2 {
				pdf.SetXY(px+(pw-depthW)/2, py+ph/2)
				pdf.CellFormat(depthW, 4, depthInfo, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawItemLegend(pdf, arr, placements, offsetY+canvasH+5)
}

// depthShade maps a depth to [0,0.5]: 0 at the opening, 0.5 at the back.
func depthShade(depth, containerDepth float64) float64 {
	if containerDepth <= 0 {
		return 0
	}
	return 0.5 * depth / containerDepth
}

// lighten blends a channel towards white by the given fraction.
func lighten(channel int, fraction float64) int {
	return channel + int(float64(255-channel)*fraction)
}

// drawDimensionAnnotations adds width and height labels outside the
// container rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f cm", c.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f cm", c.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawItemLegend renders a compact legend of stowed items at the bottom of
// the container page.
func drawItemLegend(pdf *fpdf.Fpdf, arr model.Arrangement, placements []model.Placement, startY float64) {
	if len(placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items stowed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range placements {
		col := itemColors[i%len(itemColors)]
		name := p.ItemID
		if it, ok := arr.ItemByID(p.ItemID); ok {
			name = it.Name
		}
		size := p.Box.Size()
		label := fmt.Sprintf("%s (%.0fx%.0fx%.0f)", name, size.Width, size.Depth, size.Height)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws overall statistics and the per-container table.
func renderSummaryPage(pdf *fpdf.Fpdf, arr model.Arrangement) {
	report := model.BuildCapacityReport(arr)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Stowage Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	active, waste, unplaced := 0, 0, 0
	for _, it := range arr.Items {
		switch it.Status {
		case model.StatusActive:
			active++
			if _, ok := arr.PlacementOf(it.ItemID); !ok {
				unplaced++
			}
		case model.StatusWasteExpired, model.StatusWasteDepleted:
			waste++
		}
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Containers", fmt.Sprintf("%d", len(arr.Containers))},
		{"Active Items", fmt.Sprintf("%d", active)},
		{"Unplaced Active Items", fmt.Sprintf("%d", unplaced)},
		{"Waste Items", fmt.Sprintf("%d", waste)},
		{"Overall Fill", fmt.Sprintf("%.1f%%", report.FillPercent())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Container Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{45, 50, 55, 30, 35, 50}
	headers := []string{"Container", "Zone", "Dimensions", "Items", "Fill", "Used / Capacity"}

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
	for i, cc := range report.Containers {
		c, ok := arr.ContainerByID(cc.ContainerID)
		if !ok {
			continue
		}
		xPos = marginLeft
		rowData := []string{
			cc.ContainerID,
			c.Zone,
			fmt.Sprintf("%.0f x %.0f x %.0f cm", c.Width, c.Depth, c.Height),
			fmt.Sprintf("%d", cc.ItemCount),
			fmt.Sprintf("%.1f%%", cc.FillPercent()),
			fmt.Sprintf("%.0f / %.0f cm3", cc.UsedVolume, cc.TotalVolume),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StowPlan - Cargo Stowage Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for a rectangle.
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
