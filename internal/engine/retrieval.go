package engine

import (
	"sort"

	"github.com/piwi3910/StowPlan/internal/geometry"
	"github.com/piwi3910/StowPlan/internal/model"
)

// Blockers returns the occupants that lie between target and the container
// opening: footprint overlap in the width/height plane plus a depth-end at
// or before the target's depth-start. The result is ordered by depth-start
// ascending, which is also the removal order (the occupant nearest the
// opening must come out first).
func Blockers(target model.Box, others []BoxRecord) []BoxRecord {
	var out []BoxRecord
	for _, rec := range others {
		if geometry.BlocksExit(rec.Box, target) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Box.Start.Depth < out[j].Box.Start.Depth
	})
	return out
}

// PlanRetrieval produces the ordered step list to pull one item out of its
// container: a setAside step per blocker (nearest the opening first), then a
// retrieve step for the target. Restoring set-aside items afterwards is the
// caller's concern. names maps item ids to display names and may be nil.
func PlanRetrieval(targetID string, target model.Box, others []BoxRecord, names map[string]string) []model.RetrievalStep {
	var steps []model.RetrievalStep
	for _, blocker := range Blockers(target, others) {
		steps = append(steps, model.RetrievalStep{
			Step:     len(steps) + 1,
			Action:   model.ActionSetAside,
			ItemID:   blocker.ItemID,
			ItemName: names[blocker.ItemID],
		})
	}
	steps = append(steps, model.RetrievalStep{
		Step:     len(steps) + 1,
		Action:   model.ActionRetrieve,
		ItemID:   targetID,
		ItemName: names[targetID],
	})
	return steps
}

// ActiveRecords filters a container's placements down to Active items and
// converts them to box records, excluding the target itself. Only Active
// items participate in blocking computations.
func ActiveRecords(placements []model.Placement, items map[string]model.Item, excludeID string) []BoxRecord {
	var out []BoxRecord
	for _, p := range placements {
		if p.ItemID == excludeID {
			continue
		}
		it, ok := items[p.ItemID]
		if !ok || !it.IsActive() {
			continue
		}
		out = append(out, BoxRecord{ItemID: p.ItemID, Box: p.Box})
	}
	return out
}
