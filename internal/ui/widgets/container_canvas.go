package widgets

import (
	"fmt"
	"image/color"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/StowPlan/internal/model"
)

// Item colors — cycle through these for visual distinction.
var itemColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

// ContainerCanvas renders the front elevation of one container: width across,
// height up, with stowed items shaded by how deep they sit.
type ContainerCanvas struct {
	widget.BaseWidget
	cont       model.Container
	placements []model.Placement
	items      map[string]model.Item
	maxWidth   float32
	maxHeight  float32
}

func NewContainerCanvas(cont model.Container, placements []model.Placement, items map[string]model.Item, maxW, maxH float32) *ContainerCanvas {
	cc := &ContainerCanvas{
		cont:       cont,
		placements: placements,
		items:      items,
		maxWidth:   maxW,
		maxHeight:  maxH,
	}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *ContainerCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newContainerCanvasRenderer(cc)
}

type containerCanvasRenderer struct {
	cc      *ContainerCanvas
	objects []fyne.CanvasObject
}

func newContainerCanvasRenderer(cc *ContainerCanvas) *containerCanvasRenderer {
	r := &containerCanvasRenderer{cc: cc}
	r.rebuild()
	return r
}

func (r *containerCanvasRenderer) scale() float32 {
	contW := float32(r.cc.cont.Width)
	contH := float32(r.cc.cont.Height)
	if contW <= 0 || contH <= 0 {
		return 1
	}
	scaleX := r.cc.maxWidth / contW
	scaleY := r.cc.maxHeight / contH
	if scaleY < scaleX {
		return scaleY
	}
	return scaleX
}

func (r *containerCanvasRenderer) rebuild() {
	r.objects = nil

	cont := r.cc.cont
	scale := r.scale()
	canvasW := float32(cont.Width) * scale
	canvasH := float32(cont.Height) * scale

	// Container interior background
	bg := canvas.NewRectangle(color.NRGBA{R: 55, G: 62, B: 70, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	// Container frame
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 140, G: 140, B: 140, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	border.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, border)

	// Deepest items first so shallow ones overdraw them, matching what the
	// crew sees looking in through the open face.
	sorted := append([]model.Placement(nil), r.cc.placements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Start.Depth > sorted[j].Box.Start.Depth
	})

	for i, p := range sorted {
		col := itemColors[i%len(itemColors)]
		col = shadeByDepth(col, p.Box.Start.Depth, cont.Depth)

		pw := float32(p.Box.End.Width-p.Box.Start.Width) * scale
		ph := float32(p.Box.End.Height-p.Box.Start.Height) * scale
		px := float32(p.Box.Start.Width) * scale
		// Fyne's y axis points down; stowage height goes up.
		py := canvasH - float32(p.Box.End.Height)*scale

		itemRect := canvas.NewRectangle(col)
		itemRect.Resize(fyne.NewSize(pw, ph))
		itemRect.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, itemRect)

		itemBorder := canvas.NewRectangle(color.Transparent)
		itemBorder.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		itemBorder.StrokeWidth = 1
		itemBorder.Resize(fyne.NewSize(pw, ph))
		itemBorder.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, itemBorder)

		// Label (only if big enough)
		if pw > 30 && ph > 16 {
			name := p.ItemID
			if it, ok := r.cc.items[p.ItemID]; ok && it.Name != "" {
				name = it.Name
			}
			label := canvas.NewText(
				fmt.Sprintf("%s\nd %.0f-%.0f", name, p.Box.Start.Depth, p.Box.End.Depth),
				color.White,
			)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, label)
		}
	}
}

// shadeByDepth darkens an item color the deeper it sits, so the front face
// reads like looking into the container.
func shadeByDepth(col color.NRGBA, startDepth, contDepth float64) color.NRGBA {
	if contDepth <= 0 {
		return col
	}
	frac := startDepth / contDepth
	if frac > 0.75 {
		frac = 0.75
	}
	f := 1.0 - frac*0.7
	return color.NRGBA{
		R: uint8(float64(col.R) * f),
		G: uint8(float64(col.G) * f),
		B: uint8(float64(col.B) * f),
		A: col.A,
	}
}

func (r *containerCanvasRenderer) Layout(size fyne.Size)        {}
func (r *containerCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *containerCanvasRenderer) Destroy()                     {}
func (r *containerCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *containerCanvasRenderer) MinSize() fyne.Size {
	scale := r.scale()
	return fyne.NewSize(float32(r.cc.cont.Width)*scale, float32(r.cc.cont.Height)*scale)
}

// RenderStowageResults creates a scrollable container showing every
// container's front elevation plus the capacity summary.
func RenderStowageResults(arr model.Arrangement) fyne.CanvasObject {
	if len(arr.Containers) == 0 {
		return widget.NewLabel("No containers defined. Add containers, then plan stowage.")
	}

	itemsByID := make(map[string]model.Item, len(arr.Items))
	for _, it := range arr.Items {
		itemsByID[it.ItemID] = it
	}

	report := model.BuildCapacityReport(arr)
	capByID := make(map[string]model.ContainerCapacity, len(report.Containers))
	for _, cc := range report.Containers {
		capByID[cc.ContainerID] = cc
	}

	var items []fyne.CanvasObject

	for _, cont := range arr.Containers {
		placements := arr.PlacementsIn(cont.ContainerID)
		cc := capByID[cont.ContainerID]

		header := widget.NewLabel(fmt.Sprintf(
			"%s (%s): %.0f x %.0f x %.0f — %d items, %.1f%% full, %.1f kg",
			cont.ContainerID, cont.Zone, cont.Width, cont.Depth, cont.Height,
			cc.ItemCount, cc.FillPercent(), cc.StowedMass,
		))
		header.TextStyle = fyne.TextStyle{Bold: true}

		contCanvas := NewContainerCanvas(cont, placements, itemsByID, 600, 400)

		items = append(items, header, contCanvas, widget.NewSeparator())
	}

	unplaced := countUnplacedActive(arr)
	if unplaced > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d active items have no stowage position. Run the planner or add containers.",
			unplaced,
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}

	// Per-zone breakdown
	zoneLines := buildZoneBreakdown(arr, report)
	if len(zoneLines) > 1 {
		items = append(items, widget.NewSeparator())
		breakdownHeader := widget.NewLabel("Zone Breakdown:")
		breakdownHeader.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, breakdownHeader)
		for _, line := range zoneLines {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d containers, %.1f%% volume used",
		len(arr.Containers), report.FillPercent(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

func countUnplacedActive(arr model.Arrangement) int {
	n := 0
	for _, it := range arr.Items {
		if !it.IsActive() {
			continue
		}
		if _, ok := arr.PlacementOf(it.ItemID); !ok {
			n++
		}
	}
	return n
}

// buildZoneBreakdown generates per-zone statistics lines: container count,
// stowed items, and volume utilization.
func buildZoneBreakdown(arr model.Arrangement, report model.CapacityReport) []string {
	type zoneStats struct {
		containers int
		items      int
		usedVol    float64
		totalVol   float64
	}

	// Preserve container order with a slice of zone names
	var order []string
	statsMap := make(map[string]*zoneStats)

	for _, cc := range report.Containers {
		if _, exists := statsMap[cc.Zone]; !exists {
			order = append(order, cc.Zone)
			statsMap[cc.Zone] = &zoneStats{}
		}
		s := statsMap[cc.Zone]
		s.containers++
		s.items += cc.ItemCount
		s.usedVol += cc.UsedVolume
		s.totalVol += cc.TotalVolume
	}

	var lines []string
	for _, zone := range order {
		s := statsMap[zone]
		fill := 0.0
		if s.totalVol > 0 {
			fill = (s.usedVol / s.totalVol) * 100.0
		}
		lines = append(lines, fmt.Sprintf(
			"  %s: %d container(s), %d items, %.1f%% full",
			zone, s.containers, s.items, fill,
		))
	}
	return lines
}
