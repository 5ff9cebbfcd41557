package engine

import (
	"sort"

	"github.com/piwi3910/StowPlan/internal/model"
)

// evictionCandidate is a lower-priority occupant of a preferred-zone
// container that could be displaced to make room.
type evictionCandidate struct {
	itemID      string
	priority    int
	containerID string
	box         model.Box
}

// rearrange tries to make room for it in its preferred zone by evicting
// strictly lower-priority occupants. Candidates are tried singly first
// (lowest priority first), then as whole-container batches. An attempt is
// accepted only if the high-priority item fits after the eviction AND every
// evicted occupant can be rehomed in another container; otherwise the layout
// is left untouched and the next strategy is tried.
//
// On success the returned layout replaces the caller's, the returned
// placement is the high-priority item's new home, and steps records one move
// per relocated occupant, numbered from stepBase+1.
func (p *Planner) rearrange(layout *Layout, it model.Item, itemsByID map[string]model.Item, stepBase int) (*Layout, model.PlannedPlacement, []model.RearrangementStep, bool) {
	candidates := p.collectCandidates(layout, it, itemsByID)
	if len(candidates) == 0 {
		return layout, model.PlannedPlacement{}, nil, false
	}

	// Strategy 1: displace one occupant at a time, lowest priority first.
	for _, cand := range candidates {
		if sim, pp, steps, ok := p.tryEviction(layout, it, []evictionCandidate{cand}, cand.containerID, itemsByID, stepBase); ok {
			return sim, pp, steps, true
		}
	}

	// Strategy 2: clear all lower-priority occupants of one container.
	byContainer := make(map[string][]evictionCandidate)
	var containerOrder []string
	for _, cand := range candidates {
		if _, seen := byContainer[cand.containerID]; !seen {
			containerOrder = append(containerOrder, cand.containerID)
		}
		byContainer[cand.containerID] = append(byContainer[cand.containerID], cand)
	}
	for _, cid := range containerOrder {
		batch := byContainer[cid]
		if len(batch) < 2 {
			continue // already tried singly
		}
		if sim, pp, steps, ok := p.tryEviction(layout, it, batch, cid, itemsByID, stepBase); ok {
			return sim, pp, steps, true
		}
	}

	return layout, model.PlannedPlacement{}, nil, false
}

// collectCandidates gathers the preferred-zone occupants whose priority is
// strictly lower than the incoming item's, sorted ascending so the least
// important cargo is displaced first. An item is never evicted in favor of
// an item of equal or lower priority.
func (p *Planner) collectCandidates(layout *Layout, it model.Item, itemsByID map[string]model.Item) []evictionCandidate {
	var out []evictionCandidate
	for _, c := range layout.ContainersInZone(it.PreferredZone) {
		for _, rec := range layout.Occupants(c.ContainerID) {
			occupant, known := itemsByID[rec.ItemID]
			if !known {
				continue // no metadata, cannot rehome it
			}
			if occupant.Priority >= it.Priority {
				continue
			}
			out = append(out, evictionCandidate{
				itemID:      rec.ItemID,
				priority:    occupant.Priority,
				containerID: c.ContainerID,
				box:         rec.Box,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority < out[j].priority
		}
		return out[i].itemID < out[j].itemID
	})
	return out
}

// tryEviction simulates removing the given occupants from sourceID, checks
// that the high-priority item then fits there, and rehomes every evictee in
// some other container. All-or-nothing: any failure abandons the simulation.
func (p *Planner) tryEviction(layout *Layout, it model.Item, evictees []evictionCandidate, sourceID string, itemsByID map[string]model.Item, stepBase int) (*Layout, model.PlannedPlacement, []model.RearrangementStep, bool) {
	source, ok := layout.Container(sourceID)
	if !ok {
		return nil, model.PlannedPlacement{}, nil, false
	}

	sim := layout.Clone()
	for _, ev := range evictees {
		sim.Remove(ev.itemID)
	}

	spot, ok := FindSpot(it, source, sim.Occupants(sourceID), true, p.Settings)
	if !ok {
		return nil, model.PlannedPlacement{}, nil, false
	}

	var steps []model.RearrangementStep
	for _, ev := range evictees {
		evItem := itemsByID[ev.itemID]
		rehomed := false
		for _, target := range sim.Containers() {
			if target.ContainerID == sourceID {
				continue
			}
			// Evictees are placed with the non-preferred strategy: deep,
			// away from the opening.
			newSpot, found := FindSpot(evItem, target, sim.Occupants(target.ContainerID), false, p.Settings)
			if !found {
				continue
			}
			if err := sim.Place(ev.itemID, target.ContainerID, newSpot.Box); err != nil {
				continue
			}
			steps = append(steps, model.RearrangementStep{
				Step:          stepBase + len(steps) + 1,
				Action:        model.ActionMove,
				ItemID:        ev.itemID,
				FromContainer: sourceID,
				FromBox:       ev.box,
				ToContainer:   target.ContainerID,
				ToBox:         newSpot.Box,
			})
			rehomed = true
			break
		}
		if !rehomed {
			return nil, model.PlannedPlacement{}, nil, false
		}
	}

	if err := sim.Place(it.ItemID, sourceID, spot.Box); err != nil {
		return nil, model.PlannedPlacement{}, nil, false
	}
	pp := model.PlannedPlacement{
		ItemID:      it.ItemID,
		ContainerID: sourceID,
		Box:         spot.Box,
	}
	return sim, pp, steps, true
}
