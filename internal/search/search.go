// Package search answers "where is it and how do I get it out": item lookup
// by id or name, retrieval step planning, and the bookkeeping when an item
// is actually taken out or put back.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/StowPlan/internal/engine"
	"github.com/piwi3910/StowPlan/internal/geometry"
	"github.com/piwi3910/StowPlan/internal/model"
)

// Query selects an item by id or, when the id is empty, by exact name.
type Query struct {
	ItemID string `json:"itemId,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Result is a located item with the steps to extract it.
type Result struct {
	Found     bool                  `json:"found"`
	Item      model.Item            `json:"item,omitempty"`
	Placement model.Placement       `json:"placement,omitempty"`
	Zone      string                `json:"zone,omitempty"`
	Steps     []model.RetrievalStep `json:"retrievalSteps,omitempty"`
}

// Find locates the best matching active item. When several placed items
// share a name, the one costing the fewest retrieval steps wins; among
// equals the earliest expiry goes first so perishables rotate out.
func Find(arr model.Arrangement, q Query) Result {
	itemsByID := make(map[string]model.Item, len(arr.Items))
	names := make(map[string]string, len(arr.Items))
	for _, it := range arr.Items {
		itemsByID[it.ItemID] = it
		names[it.ItemID] = it.Name
	}

	type candidate struct {
		item      model.Item
		placement model.Placement
		placed    bool
		blockers  int
	}
	var candidates []candidate
	for _, it := range arr.Items {
		if !it.IsActive() {
			continue
		}
		if q.ItemID != "" {
			if it.ItemID != q.ItemID {
				continue
			}
		} else if it.Name != q.Name {
			continue
		}
		c := candidate{item: it}
		if p, ok := arr.PlacementOf(it.ItemID); ok {
			c.placed = true
			c.placement = p
			others := engine.ActiveRecords(arr.PlacementsIn(p.ContainerID), itemsByID, it.ItemID)
			c.blockers = len(engine.Blockers(p.Box, others))
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return Result{}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		// Placed items beat unplaced ones; an unplaced match cannot be
		// handed to the crew.
		if a.placed != b.placed {
			return a.placed
		}
		if a.blockers != b.blockers {
			return a.blockers < b.blockers
		}
		if expiresBefore(a.item, b.item) != expiresBefore(b.item, a.item) {
			return expiresBefore(a.item, b.item)
		}
		return a.item.ItemID < b.item.ItemID
	})

	best := candidates[0]
	result := Result{Found: true, Item: best.item}
	if !best.placed {
		return result
	}
	result.Placement = best.placement
	if c, ok := arr.ContainerByID(best.placement.ContainerID); ok {
		result.Zone = c.Zone
	}
	others := engine.ActiveRecords(arr.PlacementsIn(best.placement.ContainerID), itemsByID, best.item.ItemID)
	result.Steps = engine.PlanRetrieval(best.item.ItemID, best.placement.Box, others, names)
	return result
}

func expiresBefore(a, b model.Item) bool {
	if a.ExpiryDate == nil {
		return false
	}
	if b.ExpiryDate == nil {
		return true
	}
	return a.ExpiryDate.Before(*b.ExpiryDate)
}

// Retrieve takes an item out of stowage: its placement is cleared, a use is
// consumed, and the item flips to depleted when that was the last one. The
// input arrangement is not modified.
func Retrieve(arr model.Arrangement, itemID string) (model.Arrangement, model.Item, error) {
	out := arr
	out.Items = append([]model.Item(nil), arr.Items...)
	out.Placements = append([]model.Placement(nil), arr.Placements...)

	idx := -1
	for i, it := range out.Items {
		if it.ItemID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return arr, model.Item{}, fmt.Errorf("unknown item %s", itemID)
	}
	it := &out.Items[idx]
	if !it.IsActive() {
		return arr, model.Item{}, fmt.Errorf("item %s is %s, not retrievable", itemID, it.Status)
	}

	it.CurrentUses++
	if it.UsageLimit != nil && it.RemainingUses() == 0 {
		it.Status = model.StatusWasteDepleted
	}

	for i, p := range out.Placements {
		if p.ItemID == itemID {
			out.Placements = append(out.Placements[:i], out.Placements[i+1:]...)
			break
		}
	}
	return out, *it, nil
}

// PlaceItem records a manual placement, validating that the box is sane,
// fits the container, and collides with nothing already there.
func PlaceItem(arr model.Arrangement, itemID, containerID string, box model.Box) (model.Arrangement, error) {
	if _, ok := arr.ItemByID(itemID); !ok {
		return arr, fmt.Errorf("unknown item %s", itemID)
	}
	c, ok := arr.ContainerByID(containerID)
	if !ok {
		return arr, fmt.Errorf("unknown container %s", containerID)
	}
	if err := model.ValidateBox(box); err != nil {
		return arr, err
	}
	if !geometry.WithinBounds(box, c.Dims()) {
		return arr, fmt.Errorf("box exceeds container %s bounds", containerID)
	}
	for _, p := range arr.PlacementsIn(containerID) {
		if p.ItemID == itemID {
			continue
		}
		if geometry.Overlaps(box, p.Box) {
			return arr, fmt.Errorf("box overlaps item %s", p.ItemID)
		}
	}

	out := arr
	out.Placements = append([]model.Placement(nil), arr.Placements...)
	placement := model.Placement{ItemID: itemID, ContainerID: containerID, Box: box}
	for i, p := range out.Placements {
		if p.ItemID == itemID {
			out.Placements[i] = placement
			return out, nil
		}
	}
	out.Placements = append(out.Placements, placement)
	return out, nil
}

// Suggest returns up to limit item names matching the prefix,
// case-insensitive, for the search box autocomplete. Only active items are
// suggested.
func Suggest(arr model.Arrangement, prefix string, limit int) []string {
	if prefix == "" || limit <= 0 {
		return nil
	}
	lower := strings.ToLower(prefix)
	seen := make(map[string]bool)
	var out []string
	for _, it := range arr.Items {
		if !it.IsActive() || seen[it.Name] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(it.Name), lower) {
			seen[it.Name] = true
			out = append(out, it.Name)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
