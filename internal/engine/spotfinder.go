package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/StowPlan/internal/geometry"
	"github.com/piwi3910/StowPlan/internal/model"
)

// Spot is a found placement candidate: the box and the orientation
// (effective width, depth, height) used to produce it.
type Spot struct {
	Box         model.Box
	Orientation model.Coordinates
}

// coordinates are rounded to this many decimals during the grid search so
// stacked base heights compare cleanly across orientations.
const searchPrecision = 3

func roundCoord(v float64) float64 {
	scale := math.Pow10(searchPrecision)
	return math.Round(v*scale) / scale
}

// orientations returns the six axis permutations of the item's extents.
func orientations(it model.Item) [6]model.Coordinates {
	w, d, h := it.Width, it.Depth, it.Height
	return [6]model.Coordinates{
		{Width: w, Depth: d, Height: h},
		{Width: w, Depth: h, Height: d},
		{Width: d, Depth: w, Height: h},
		{Width: d, Depth: h, Height: w},
		{Width: h, Depth: w, Height: d},
		{Width: h, Depth: d, Height: w},
	}
}

// FindSpot searches for a valid, stable, non-overlapping placement of the
// item inside the container. preferShallow controls the depth traversal
// order: true searches from the opening inwards (quick-access stowage for
// high-priority items), false searches from the back wall towards the
// opening, pushing low-priority cargo deep.
//
// The search is first-fit over orientation x base height x depth x width.
// Any returned spot satisfies the bounds, no-overlap, and stability
// invariants exactly (up to tolerance); it is not guaranteed to minimize
// wasted space.
func FindSpot(it model.Item, c model.Container, occupants []BoxRecord, preferShallow bool, settings model.StowSettings) (Spot, bool) {
	dims := c.Dims()

	// Candidate base heights: the floor plus the top of every occupant.
	// A placement may only rest on the floor or directly atop another box.
	heightSet := map[float64]bool{0: true}
	for _, rec := range occupants {
		// Exact tops, not rounded: the support check compares against the
		// occupant's real top within tolerance.
		heightSet[rec.Box.End.Height] = true
	}
	baseHeights := make([]float64, 0, len(heightSet))
	for h := range heightSet {
		baseHeights = append(baseHeights, h)
	}
	sort.Float64s(baseHeights)

	depthStep := settings.GridStep(c.Depth)
	widthStep := settings.GridStep(c.Width)

	for _, o := range orientations(it) {
		// Skip orientations that cannot fit the container at all.
		if o.Width > c.Width+geometry.Tol ||
			o.Depth > c.Depth+geometry.Tol ||
			o.Height > c.Height+geometry.Tol {
			continue
		}

		depths := gridValues(c.Depth-o.Depth, depthStep)
		if !preferShallow {
			reverse(depths)
		}
		widths := gridValues(c.Width-o.Width, widthStep)

		for _, baseH := range baseHeights {
			if baseH+o.Height > c.Height+geometry.Tol {
				continue
			}
			for _, startD := range depths {
				for _, startW := range widths {
					origin := model.Coordinates{
						Width:  startW,
						Depth:  startD,
						Height: baseH,
					}
					candidate := model.Box{
						Start: origin,
						End: model.Coordinates{
							Width:  roundCoord(startW + o.Width),
							Depth:  roundCoord(startD + o.Depth),
							Height: roundCoord(baseH + o.Height),
						},
					}

					if !geometry.WithinBounds(candidate, dims) {
						continue
					}
					if overlapsAny(candidate, occupants) {
						continue
					}
					if !isStable(candidate, baseH, occupants) {
						continue
					}
					return Spot{Box: candidate, Orientation: o}, true
				}
			}
		}
	}
	return Spot{}, false
}

// gridValues enumerates candidate origins from 0 to limit (inclusive) at the
// given step, refined to include the exact flush-against-the-wall origin.
func gridValues(limit, step float64) []float64 {
	if limit < 0 {
		return nil
	}
	var out []float64
	for v := 0.0; v < limit; v += step {
		out = append(out, roundCoord(v))
	}
	// The flush position is usually not on the grid but is often the only
	// spot that fits a snug item.
	last := roundCoord(limit)
	if len(out) == 0 || out[len(out)-1] < last {
		out = append(out, last)
	}
	return out
}

func reverse(vals []float64) {
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
}

func overlapsAny(candidate model.Box, occupants []BoxRecord) bool {
	for _, rec := range occupants {
		if geometry.Overlaps(candidate, rec.Box) {
			return true
		}
	}
	return false
}

// isStable accepts floor placements and placements whose base height matches
// the top of an occupant with overlapping horizontal footprint.
func isStable(candidate model.Box, baseHeight float64, occupants []BoxRecord) bool {
	if math.Abs(baseHeight) < geometry.Tol {
		return true
	}
	for _, rec := range occupants {
		if geometry.Supports(rec.Box, candidate, baseHeight) {
			return true
		}
	}
	return false
}
