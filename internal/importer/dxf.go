package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

type point2D struct {
	X, Y float64
}

// segment is a line between two 2D points, used for chaining disconnected
// LINE entities into closed outlines.
type segment struct {
	start point2D
	end   point2D
}

// ImportContainersDXF reads container front faces from a DXF deck plan.
// Each closed shape (LWPOLYLINE or chain of connected LINEs) becomes one
// container: the bounding box gives width and height, while depth comes
// from the caller since a front elevation has none. All containers are
// assigned to the given zone.
func ImportContainersDXF(path, zone string, depth float64) ImportResult {
	result := ImportResult{}

	if depth <= 0 {
		result.Errors = append(result.Errors, "Container depth must be positive")
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point2D
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			var outline []point2D
			for _, v := range e.Vertices {
				outline = append(outline, point2D{X: v[0], Y: v[1]})
			}
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point2D{X: e.Start[0], Y: e.Start[1]},
				end:   point2D{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Circles, arcs, and text are annotation on a deck plan, not
			// container faces.
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, outline := range outlines {
		minP, maxP := boundingBox(outline)
		width := maxP.X - minP.X
		height := maxP.Y - minP.Y
		if width < 0.01 || height < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", width, height))
			continue
		}
		c := model.NewContainer(zone, width, depth, height)
		c.ContainerID = fmt.Sprintf("dxf-%s-%d", zone, i+1)
		result.Containers = append(result.Containers, c)
	}
	return result
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum endpoint distance to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point2D {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point2D

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only closed chains count as container faces.
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// Largest first so rack outlines come before their inserts.
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})
	return outlines
}

func pointsClose(a, b point2D, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// outlineArea computes the absolute polygon area via the shoelace formula.
func outlineArea(o []point2D) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

func boundingBox(o []point2D) (point2D, point2D) {
	minP := o[0]
	maxP := o[0]
	for _, p := range o[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return minP, maxP
}
