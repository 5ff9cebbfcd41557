package widgets

import (
	"image/color"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/StowPlan/internal/model"
)

// Retrieval highlight colors.
var (
	colorTarget    = color.NRGBA{R: 50, G: 200, B: 50, A: 230}   // Green for the wanted item
	colorBlocker   = color.NRGBA{R: 255, G: 60, B: 60, A: 220}   // Red for items in the way
	colorBystander = color.NRGBA{R: 120, G: 130, B: 145, A: 160} // Grey for everything else
)

// RetrievalPreview is a custom Fyne widget that renders a container's front
// elevation with the retrieval target and its blockers highlighted.
type RetrievalPreview struct {
	widget.BaseWidget
	cont       model.Container
	placements []model.Placement
	targetID   string
	blockers   map[string]bool
	maxWidth   float32
	maxHeight  float32
}

// NewRetrievalPreview creates a retrieval preview widget. blockers holds the
// item ids that must be set aside before the target comes out.
func NewRetrievalPreview(cont model.Container, placements []model.Placement, targetID string, blockers map[string]bool, maxW, maxH float32) *RetrievalPreview {
	rp := &RetrievalPreview{
		cont:       cont,
		placements: placements,
		targetID:   targetID,
		blockers:   blockers,
		maxWidth:   maxW,
		maxHeight:  maxH,
	}
	rp.ExtendBaseWidget(rp)
	return rp
}

func (rp *RetrievalPreview) CreateRenderer() fyne.WidgetRenderer {
	return newRetrievalPreviewRenderer(rp)
}

type retrievalPreviewRenderer struct {
	rp      *RetrievalPreview
	objects []fyne.CanvasObject
}

func newRetrievalPreviewRenderer(rp *RetrievalPreview) *retrievalPreviewRenderer {
	r := &retrievalPreviewRenderer{rp: rp}
	r.rebuild()
	return r
}

func (r *retrievalPreviewRenderer) scale() float32 {
	contW := float32(r.rp.cont.Width)
	contH := float32(r.rp.cont.Height)
	if contW <= 0 || contH <= 0 {
		return 1
	}
	scaleX := r.rp.maxWidth / contW
	scaleY := r.rp.maxHeight / contH
	if scaleY < scaleX {
		return scaleY
	}
	return scaleX
}

func (r *retrievalPreviewRenderer) rebuild() {
	r.objects = nil

	rp := r.rp
	scale := r.scale()
	canvasW := float32(rp.cont.Width) * scale
	canvasH := float32(rp.cont.Height) * scale

	bg := canvas.NewRectangle(color.NRGBA{R: 55, G: 62, B: 70, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 140, G: 140, B: 140, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	border.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, border)

	// Bystanders first, then blockers, then the target on top.
	sorted := append([]model.Placement(nil), rp.placements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return r.rank(sorted[i].ItemID) < r.rank(sorted[j].ItemID)
	})

	for _, p := range sorted {
		col := colorBystander
		stroke := color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		switch {
		case p.ItemID == rp.targetID:
			col = colorTarget
			stroke = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		case rp.blockers[p.ItemID]:
			col = colorBlocker
		}

		pw := float32(p.Box.End.Width-p.Box.Start.Width) * scale
		ph := float32(p.Box.End.Height-p.Box.Start.Height) * scale
		px := float32(p.Box.Start.Width) * scale
		py := canvasH - float32(p.Box.End.Height)*scale

		rect := canvas.NewRectangle(col)
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, rect)

		rectBorder := canvas.NewRectangle(color.Transparent)
		rectBorder.StrokeColor = stroke
		rectBorder.StrokeWidth = 1.5
		rectBorder.Resize(fyne.NewSize(pw, ph))
		rectBorder.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, rectBorder)
	}
}

func (r *retrievalPreviewRenderer) rank(itemID string) int {
	switch {
	case itemID == r.rp.targetID:
		return 2
	case r.rp.blockers[itemID]:
		return 1
	default:
		return 0
	}
}

func (r *retrievalPreviewRenderer) Layout(size fyne.Size)        {}
func (r *retrievalPreviewRenderer) Refresh()                     { r.rebuild() }
func (r *retrievalPreviewRenderer) Destroy()                     {}
func (r *retrievalPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *retrievalPreviewRenderer) MinSize() fyne.Size {
	scale := r.scale()
	w := float32(r.rp.cont.Width) * scale
	h := float32(r.rp.cont.Height) * scale
	if w <= 0 || h <= 0 {
		return fyne.NewSize(100, 100)
	}
	return fyne.NewSize(w, h)
}

// RenderRetrievalPreview creates the preview panel for one retrieval: the
// highlighted container view plus a color legend.
func RenderRetrievalPreview(cont model.Container, placements []model.Placement, targetID string, steps []model.RetrievalStep) fyne.CanvasObject {
	blockers := make(map[string]bool)
	for _, s := range steps {
		if s.Action == model.ActionSetAside {
			blockers[s.ItemID] = true
		}
	}

	preview := NewRetrievalPreview(cont, placements, targetID, blockers, 500, 350)

	legend := container.NewHBox(
		legendSwatch(colorTarget, "Target"),
		legendSwatch(colorBlocker, "Set aside first"),
		legendSwatch(colorBystander, "Undisturbed"),
	)

	return container.NewVBox(preview, legend)
}

func legendSwatch(col color.NRGBA, label string) fyne.CanvasObject {
	swatch := canvas.NewRectangle(col)
	swatch.SetMinSize(fyne.NewSize(14, 14))
	return container.NewHBox(swatch, widget.NewLabel(label))
}
