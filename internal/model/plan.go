package model

// Step action names shared by rearrangement and retrieval plans.
const (
	ActionMove     = "move"
	ActionSetAside = "setAside"
	ActionRetrieve = "retrieve"
)

// PlannedPlacement is one final (itemId, containerId, box) assignment
// produced by the planner. Applied as an upsert by the store.
type PlannedPlacement struct {
	ItemID      string `json:"itemId"`
	ContainerID string `json:"containerId"`
	Box         Box    `json:"position"`
}

// RearrangementStep records one relocation of an existing occupant that was
// required to make room for a higher-priority item.
type RearrangementStep struct {
	Step          int    `json:"step"`
	Action        string `json:"action"` // always "move"
	ItemID        string `json:"itemId"`
	FromContainer string `json:"fromContainer"`
	FromBox       Box    `json:"fromPosition"`
	ToContainer   string `json:"toContainer"`
	ToBox         Box    `json:"toPosition"`
}

// RetrievalStep is one ordered instruction in a retrieval plan: set aside
// each blocker nearest the opening first, then retrieve the target.
type RetrievalStep struct {
	Step     int    `json:"step"`
	Action   string `json:"action"` // "setAside" or "retrieve"
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName,omitempty"`
}

// InvalidItem reports an item rejected before search began.
type InvalidItem struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// PlanResult is the complete outcome of one planning run. The planner never
// commits storage itself; the caller applies Placements atomically.
type PlanResult struct {
	Placements     []PlannedPlacement  `json:"placements"`
	Rearrangements []RearrangementStep `json:"rearrangements"`
	Unplaced       []string            `json:"unplaced"` // item ids that fit nowhere
	Invalid        []InvalidItem       `json:"invalid"`  // rejected before search
}

// Success reports whether every submitted item was placed.
func (r PlanResult) Success() bool {
	return len(r.Unplaced) == 0 && len(r.Invalid) == 0
}
