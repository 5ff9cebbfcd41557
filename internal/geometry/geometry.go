// Package geometry provides the pure predicates over axis-aligned 3D boxes
// that the stowage engine is built on: overlap, containment, volume, and the
// exit-path blocking test. All comparisons use a small absolute tolerance to
// absorb floating-point error, so boxes that merely share a boundary do not
// count as overlapping.
package geometry

import "github.com/piwi3910/StowPlan/internal/model"

// Tol is the absolute tolerance for coordinate comparisons.
const Tol = 1e-6

// Overlaps reports whether two boxes intersect on all three axes strictly.
// Boundary-touching boxes do not overlap.
func Overlaps(a, b model.Box) bool {
	noOverlapW := a.End.Width <= b.Start.Width+Tol || b.End.Width <= a.Start.Width+Tol
	noOverlapD := a.End.Depth <= b.Start.Depth+Tol || b.End.Depth <= a.Start.Depth+Tol
	noOverlapH := a.End.Height <= b.Start.Height+Tol || b.End.Height <= a.Start.Height+Tol
	return !(noOverlapW || noOverlapD || noOverlapH)
}

// WithinBounds reports whether the box lies fully inside a container of the
// given interior dimensions.
func WithinBounds(b model.Box, dims model.Coordinates) bool {
	return b.Start.Width >= -Tol && b.End.Width <= dims.Width+Tol &&
		b.Start.Depth >= -Tol && b.End.Depth <= dims.Depth+Tol &&
		b.Start.Height >= -Tol && b.End.Height <= dims.Height+Tol
}

// FootprintOverlaps reports whether two boxes overlap in the width/height
// plane, the projection relevant to a straight pull along the depth axis.
func FootprintOverlaps(a, b model.Box) bool {
	noOverlapW := a.End.Width <= b.Start.Width+Tol || b.End.Width <= a.Start.Width+Tol
	noOverlapH := a.End.Height <= b.Start.Height+Tol || b.End.Height <= a.Start.Height+Tol
	return !(noOverlapW || noOverlapH)
}

// BlocksExit reports whether blocker sits in the retrieval path of target.
// Retrieval is a straight pull along the depth axis towards the opening at
// depth 0, so blocker blocks iff its footprint overlaps the target's and it
// ends at or before the target's starting depth.
func BlocksExit(blocker, target model.Box) bool {
	if !FootprintOverlaps(blocker, target) {
		return false
	}
	return blocker.End.Depth <= target.Start.Depth+Tol
}

// Volume returns the box volume. Kept here alongside the other predicates so
// callers that only import the kernel have the full set.
func Volume(b model.Box) float64 {
	return b.Volume()
}

// Supports reports whether lower can act as support for a box based at
// baseHeight with the given horizontal extent: lower's top must match
// baseHeight and the horizontal footprints (width/depth plane) must overlap.
func Supports(lower model.Box, candidate model.Box, baseHeight float64) bool {
	if abs(lower.End.Height-baseHeight) > Tol {
		return false
	}
	noOverlapW := candidate.End.Width <= lower.Start.Width+Tol || lower.End.Width <= candidate.Start.Width+Tol
	noOverlapD := candidate.End.Depth <= lower.Start.Depth+Tol || lower.End.Depth <= candidate.Start.Depth+Tol
	return !(noOverlapW || noOverlapD)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
