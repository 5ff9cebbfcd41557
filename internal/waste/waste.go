// Package waste handles the end of the cargo lifecycle: identifying expired
// and depleted items, staging them into an undocking container under a mass
// limit, and clearing them out once the vehicle departs.
package waste

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/StowPlan/internal/engine"
	"github.com/piwi3910/StowPlan/internal/model"
)

// Item is one piece of identified waste and where it currently sits.
type Item struct {
	ItemID      string    `json:"itemId"`
	Name        string    `json:"name"`
	Reason      string    `json:"reason"` // "expired" or "depleted"
	Mass        float64   `json:"mass"`
	ContainerID string    `json:"containerId,omitempty"`
	Position    model.Box `json:"position,omitempty"`
}

// Identify flips Active items whose expiry date has passed to expired waste,
// then returns every expired or depleted item in the arrangement, with its
// current placement when it has one. Disposed items are gone and are not
// reported again. The returned arrangement carries the status flips.
func Identify(arr model.Arrangement, now time.Time) (model.Arrangement, []Item) {
	out := arr
	out.Items = append([]model.Item(nil), arr.Items...)
	for i := range out.Items {
		it := &out.Items[i]
		if it.IsActive() && it.ExpiryDate != nil && !it.ExpiryDate.After(now) {
			it.Status = model.StatusWasteExpired
		}
	}

	var found []Item
	for _, it := range out.Items {
		var reason string
		switch it.Status {
		case model.StatusWasteExpired:
			reason = "expired"
		case model.StatusWasteDepleted:
			reason = "depleted"
		default:
			continue
		}
		w := Item{
			ItemID: it.ItemID,
			Name:   it.Name,
			Reason: reason,
			Mass:   it.Mass,
		}
		if p, ok := out.PlacementOf(it.ItemID); ok {
			w.ContainerID = p.ContainerID
			w.Position = p.Box
		}
		found = append(found, w)
	}
	return out, found
}

// Manifest summarizes what the undocking vehicle carries away.
type Manifest struct {
	UndockingContainer string    `json:"undockingContainerId"`
	UndockingDate      time.Time `json:"undockingDate"`
	ReturnItems        []Item    `json:"returnItems"`
	TotalMass          float64   `json:"totalWeight"`
	TotalVolume        float64   `json:"totalVolume"`
}

// ReturnPlan is the crew-executable side of a waste return: the unpacking
// steps that free buried waste, the moves into the undocking container, and
// the manifest. LeftBehind lists waste that did not make this departure,
// whether over the mass limit or with no room left in the vehicle.
type ReturnPlan struct {
	Retrievals []model.RetrievalStep     `json:"retrievalSteps,omitempty"`
	Steps      []model.RearrangementStep `json:"steps"`
	Manifest   Manifest                  `json:"manifest"`
	LeftBehind []Item                    `json:"leftBehind,omitempty"`
}

// PlanReturn selects waste for return, heaviest first under the mass budget,
// and stages each selected item into the undocking container. Anything
// expiring by the undocking date counts as waste for this departure. Buried
// waste gets set-aside and retrieve steps before its move. Items are packed
// deep first since nobody retrieves anything from a departing vehicle. The
// arrangement is not modified; applying the steps is the caller's decision.
func PlanReturn(arr model.Arrangement, undockingID string, undockingDate time.Time, maxMass float64, settings model.StowSettings) (ReturnPlan, error) {
	target, ok := arr.ContainerByID(undockingID)
	if !ok {
		return ReturnPlan{}, fmt.Errorf("unknown undocking container %s", undockingID)
	}

	arr, candidates := Identify(arr, undockingDate)
	names := make(map[string]string, len(arr.Items))
	for _, it := range arr.Items {
		names[it.ItemID] = it.Name
	}
	// Heaviest first uses the mass budget greedily; ties broken by id so
	// the plan is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Mass != candidates[j].Mass {
			return candidates[i].Mass > candidates[j].Mass
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})

	plan := ReturnPlan{
		Manifest: Manifest{
			UndockingContainer: undockingID,
			UndockingDate:      undockingDate,
		},
	}

	var occupants []engine.BoxRecord
	for _, p := range arr.PlacementsIn(undockingID) {
		occupants = append(occupants, engine.BoxRecord{ItemID: p.ItemID, Box: p.Box})
	}

	budget := maxMass
	moved := make(map[string]bool)
	for _, cand := range candidates {
		if cand.ContainerID == undockingID {
			// Already aboard the departing vehicle; count it, no move needed.
			plan.Manifest.ReturnItems = append(plan.Manifest.ReturnItems, cand)
			plan.Manifest.TotalMass += cand.Mass
			plan.Manifest.TotalVolume += cand.Position.Volume()
			continue
		}
		if maxMass > 0 && cand.Mass > budget {
			plan.LeftBehind = append(plan.LeftBehind, cand)
			continue
		}
		it, ok := arr.ItemByID(cand.ItemID)
		if !ok {
			continue
		}
		spot, found := engine.FindSpot(it, target, occupants, false, settings)
		if !found {
			plan.LeftBehind = append(plan.LeftBehind, cand)
			continue
		}
		// Unpack buried waste first. Whatever physically sits in front
		// blocks, regardless of its own status.
		var others []engine.BoxRecord
		for _, p := range arr.PlacementsIn(cand.ContainerID) {
			if p.ItemID == cand.ItemID || moved[p.ItemID] {
				continue
			}
			others = append(others, engine.BoxRecord{ItemID: p.ItemID, Box: p.Box})
		}
		if len(engine.Blockers(cand.Position, others)) > 0 {
			for _, s := range engine.PlanRetrieval(cand.ItemID, cand.Position, others, names) {
				s.Step = len(plan.Retrievals) + 1
				plan.Retrievals = append(plan.Retrievals, s)
			}
		}
		moved[cand.ItemID] = true

		occupants = append(occupants, engine.BoxRecord{ItemID: cand.ItemID, Box: spot.Box})
		plan.Steps = append(plan.Steps, model.RearrangementStep{
			Step:          len(plan.Steps) + 1,
			Action:        model.ActionMove,
			ItemID:        cand.ItemID,
			FromContainer: cand.ContainerID,
			FromBox:       cand.Position,
			ToContainer:   undockingID,
			ToBox:         spot.Box,
		})
		plan.Manifest.ReturnItems = append(plan.Manifest.ReturnItems, cand)
		plan.Manifest.TotalMass += cand.Mass
		plan.Manifest.TotalVolume += spot.Box.Volume()
		if maxMass > 0 {
			budget -= cand.Mass
		}
	}
	return plan, nil
}

// ApplyReturnPlan moves the planned items into the undocking container in
// the arrangement.
func ApplyReturnPlan(arr model.Arrangement, plan ReturnPlan) model.Arrangement {
	out := arr
	out.Placements = append([]model.Placement(nil), arr.Placements...)
	for _, step := range plan.Steps {
		moved := false
		for i, p := range out.Placements {
			if p.ItemID == step.ItemID {
				out.Placements[i] = model.Placement{
					ItemID:      step.ItemID,
					ContainerID: step.ToContainer,
					Box:         step.ToBox,
				}
				moved = true
				break
			}
		}
		if !moved {
			out.Placements = append(out.Placements, model.Placement{
				ItemID:      step.ItemID,
				ContainerID: step.ToContainer,
				Box:         step.ToBox,
			})
		}
	}
	return out
}

// CompleteUndocking removes everything stowed in the undocking container:
// placements disappear and the items are marked disposed. Returns the number
// of items that left the station.
func CompleteUndocking(arr model.Arrangement, undockingID string) (model.Arrangement, int) {
	out := arr
	out.Items = append([]model.Item(nil), arr.Items...)

	departed := make(map[string]bool)
	var kept []model.Placement
	for _, p := range arr.Placements {
		if p.ContainerID == undockingID {
			departed[p.ItemID] = true
			continue
		}
		kept = append(kept, p)
	}
	out.Placements = kept

	for i := range out.Items {
		if departed[out.Items[i].ItemID] {
			out.Items[i].Status = model.StatusDisposed
		}
	}
	return out, len(departed)
}
