// Package engine implements the stowage core: the spot-finding search, the
// priority-driven placement planner with rearrangement, and the retrieval
// path analysis. The engine performs no I/O; it consumes a snapshot of the
// current layout and returns a diff for the caller to persist atomically.
package engine

import (
	"sort"

	"github.com/piwi3910/StowPlan/internal/model"
)

// Planner orchestrates spot finding across items and containers.
type Planner struct {
	Settings model.StowSettings
}

// New creates a planner with the given settings.
func New(settings model.StowSettings) *Planner {
	return &Planner{Settings: settings}
}

// Plan computes placements for every Active item that does not already have
// one. items is the full catalog (placed occupants included, so their
// priorities and dimensions are known for eviction decisions), containers is
// the full container set, and current is the placement snapshot loaded by
// the caller.
//
// Three phases: preferred zone first, then rearrangement (evicting strictly
// lower-priority occupants), then any container. Items that fail every phase
// are reported in Unplaced, never silently dropped. Re-running with an
// unchanged input set yields an empty diff.
func (p *Planner) Plan(items []model.Item, containers []model.Container, current []model.Placement) model.PlanResult {
	result := model.PlanResult{}

	itemsByID := make(map[string]model.Item, len(items))
	for _, it := range items {
		itemsByID[it.ItemID] = it
	}

	layout := NewLayout(nil)
	for _, c := range containers {
		if err := model.ValidateContainer(c); err != nil {
			result.Invalid = append(result.Invalid, model.InvalidItem{
				ItemID: c.ContainerID, Reason: err.Error(),
			})
			continue
		}
		layout.AddContainer(c)
	}

	placedIDs := make(map[string]bool, len(current))
	for _, pl := range current {
		if _, ok := layout.Container(pl.ContainerID); !ok {
			continue
		}
		if err := layout.Place(pl.ItemID, pl.ContainerID, pl.Box); err == nil {
			placedIDs[pl.ItemID] = true
		}
	}

	// Candidates: Active items without a current placement, validated up
	// front. An invalid item is reported and skipped, the rest proceed.
	var toPlace []model.Item
	for _, it := range items {
		if placedIDs[it.ItemID] || !it.IsActive() {
			continue
		}
		if err := model.ValidateItem(it); err != nil {
			result.Invalid = append(result.Invalid, model.InvalidItem{
				ItemID: it.ItemID, Reason: err.Error(),
			})
			continue
		}
		toPlace = append(toPlace, it)
	}

	// Highest priority first; ties broken by id for deterministic plans.
	sort.SliceStable(toPlace, func(i, j int) bool {
		if toPlace[i].Priority != toPlace[j].Priority {
			return toPlace[i].Priority > toPlace[j].Priority
		}
		return toPlace[i].ItemID < toPlace[j].ItemID
	})

	// planned tracks the final intended position per item, so an evictee
	// moved twice surfaces only its final box in the diff.
	planned := make(map[string]model.PlannedPlacement)
	var plannedOrder []string
	record := func(pp model.PlannedPlacement) {
		if _, seen := planned[pp.ItemID]; !seen {
			plannedOrder = append(plannedOrder, pp.ItemID)
		}
		planned[pp.ItemID] = pp
	}

	// Phase A: preferred zone.
	var deferred []model.Item
	for _, it := range toPlace {
		if it.PreferredZone == "" {
			deferred = append(deferred, it)
			continue
		}
		if pp, ok := p.placeInZone(layout, it, it.PreferredZone); ok {
			record(pp)
		} else {
			deferred = append(deferred, it)
		}
	}

	// Phase B: rearrangement for items that missed their preferred zone.
	var finalPass []model.Item
	stepCounter := 0
	for _, it := range deferred {
		if it.PreferredZone == "" {
			finalPass = append(finalPass, it)
			continue
		}
		// Space may have opened up since Phase A processed this item.
		if pp, ok := p.placeInZone(layout, it, it.PreferredZone); ok {
			record(pp)
			continue
		}
		newLayout, pp, steps, ok := p.rearrange(layout, it, itemsByID, stepCounter)
		if !ok {
			finalPass = append(finalPass, it)
			continue
		}
		layout = newLayout
		stepCounter += len(steps)
		result.Rearrangements = append(result.Rearrangements, steps...)
		for _, step := range steps {
			record(model.PlannedPlacement{
				ItemID:      step.ItemID,
				ContainerID: step.ToContainer,
				Box:         step.ToBox,
			})
		}
		record(pp)
	}

	// Phase C: any container, original order.
	for _, it := range finalPass {
		if pp, ok := p.placeAnywhere(layout, it); ok {
			record(pp)
		} else {
			result.Unplaced = append(result.Unplaced, it.ItemID)
		}
	}

	for _, id := range plannedOrder {
		result.Placements = append(result.Placements, planned[id])
	}
	return result
}

// placeInZone tries every container of the zone in arena order and commits
// the first fit to the layout.
func (p *Planner) placeInZone(layout *Layout, it model.Item, zone string) (model.PlannedPlacement, bool) {
	preferShallow := p.Settings.PrefersShallow(it.Priority)
	for _, c := range layout.ContainersInZone(zone) {
		spot, ok := FindSpot(it, c, layout.Occupants(c.ContainerID), preferShallow, p.Settings)
		if !ok {
			continue
		}
		if err := layout.Place(it.ItemID, c.ContainerID, spot.Box); err != nil {
			continue
		}
		return model.PlannedPlacement{
			ItemID:      it.ItemID,
			ContainerID: c.ContainerID,
			Box:         spot.Box,
		}, true
	}
	return model.PlannedPlacement{}, false
}

// placeAnywhere tries the full container set in arena order.
func (p *Planner) placeAnywhere(layout *Layout, it model.Item) (model.PlannedPlacement, bool) {
	preferShallow := p.Settings.PrefersShallow(it.Priority)
	for _, c := range layout.Containers() {
		spot, ok := FindSpot(it, c, layout.Occupants(c.ContainerID), preferShallow, p.Settings)
		if !ok {
			continue
		}
		if err := layout.Place(it.ItemID, c.ContainerID, spot.Box); err != nil {
			continue
		}
		return model.PlannedPlacement{
			ItemID:      it.ItemID,
			ContainerID: c.ContainerID,
			Box:         spot.Box,
		}, true
	}
	return model.PlannedPlacement{}, false
}
