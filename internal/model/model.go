package model

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is a point (or an extent) along the three container axes.
// Width runs across the opening, depth runs from the opening face (0)
// towards the back wall, height runs from the floor upwards.
type Coordinates struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// Box is an axis-aligned 3D region in a container's local frame.
// End must exceed Start on every axis for the box to be valid.
type Box struct {
	Start Coordinates `json:"startCoordinates"`
	End   Coordinates `json:"endCoordinates"`
}

// NewBox builds a box from an origin and the extents of the placed item.
func NewBox(origin Coordinates, w, d, h float64) Box {
	return Box{
		Start: origin,
		End: Coordinates{
			Width:  origin.Width + w,
			Depth:  origin.Depth + d,
			Height: origin.Height + h,
		},
	}
}

// Size returns the extents of the box along each axis.
func (b Box) Size() Coordinates {
	return Coordinates{
		Width:  b.End.Width - b.Start.Width,
		Depth:  b.End.Depth - b.Start.Depth,
		Height: b.End.Height - b.Start.Height,
	}
}

// Volume returns the product of the three extents.
func (b Box) Volume() float64 {
	s := b.Size()
	return s.Width * s.Depth * s.Height
}

// IsValid reports whether End exceeds Start on every axis and Start is
// non-negative.
func (b Box) IsValid() bool {
	return b.Start.Width >= 0 && b.Start.Depth >= 0 && b.Start.Height >= 0 &&
		b.End.Width > b.Start.Width &&
		b.End.Depth > b.Start.Depth &&
		b.End.Height > b.Start.Height
}

// ItemStatus tracks an item through its lifecycle. Only Active items
// participate in placement and retrieval-blocking computations.
type ItemStatus string

const (
	StatusActive        ItemStatus = "active"
	StatusWasteExpired  ItemStatus = "expired"  // expiry date reached
	StatusWasteDepleted ItemStatus = "depleted" // usage limit reached
	StatusDisposed      ItemStatus = "disposed" // physically removed (undocked)
)

// Item represents a physical cargo item.
type Item struct {
	ItemID        string     `json:"itemId"`
	Name          string     `json:"name"`
	Width         float64    `json:"width"`
	Depth         float64    `json:"depth"`
	Height        float64    `json:"height"`
	Mass          float64    `json:"mass"`     // kg
	Priority      int        `json:"priority"` // 0-100, higher places first
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	UsageLimit    *int       `json:"usageLimit,omitempty"`
	CurrentUses   int        `json:"currentUses"`
	PreferredZone string     `json:"preferredZone,omitempty"`
	Status        ItemStatus `json:"status"`
}

// NewItem creates an item with a generated short ID.
func NewItem(name string, w, d, h, mass float64, priority int) Item {
	return Item{
		ItemID:   uuid.New().String()[:8],
		Name:     name,
		Width:    w,
		Depth:    d,
		Height:   h,
		Mass:     mass,
		Priority: priority,
		Status:   StatusActive,
	}
}

// IsActive reports whether the item is available for placement and counts
// as a retrieval blocker.
func (it Item) IsActive() bool {
	return it.Status == StatusActive
}

// RemainingUses returns how many uses are left, or -1 when unlimited.
func (it Item) RemainingUses() int {
	if it.UsageLimit == nil {
		return -1
	}
	remaining := *it.UsageLimit - it.CurrentUses
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Container represents a storage container aboard the spacecraft.
type Container struct {
	ContainerID string  `json:"containerId"`
	Zone        string  `json:"zone"`
	Width       float64 `json:"width"`
	Depth       float64 `json:"depth"`
	Height      float64 `json:"height"`
}

// NewContainer creates a container with a generated short ID.
func NewContainer(zone string, w, d, h float64) Container {
	return Container{
		ContainerID: uuid.New().String()[:8],
		Zone:        zone,
		Width:       w,
		Depth:       d,
		Height:      h,
	}
}

// Dims returns the container's interior dimensions as Coordinates.
func (c Container) Dims() Coordinates {
	return Coordinates{Width: c.Width, Depth: c.Depth, Height: c.Height}
}

// Volume returns the container's interior volume.
func (c Container) Volume() float64 {
	return c.Width * c.Depth * c.Height
}

// Placement binds exactly one item to exactly one container plus a box in
// the container's local coordinate frame.
type Placement struct {
	ItemID      string `json:"itemId"`
	ContainerID string `json:"containerId"`
	Box         Box    `json:"position"`
}

// Arrangement ties the whole persisted state together for save/load,
// the way a project file does.
type Arrangement struct {
	Name       string       `json:"name"`
	Items      []Item       `json:"items"`
	Containers []Container  `json:"containers"`
	Placements []Placement  `json:"placements"`
	Settings   StowSettings `json:"settings"`
}

// NewArrangement returns an empty arrangement with default settings.
func NewArrangement() Arrangement {
	return Arrangement{
		Name:       "Untitled",
		Items:      []Item{},
		Containers: []Container{},
		Placements: []Placement{},
		Settings:   DefaultSettings(),
	}
}

// ItemByID returns the item with the given id, or false.
func (a Arrangement) ItemByID(id string) (Item, bool) {
	for _, it := range a.Items {
		if it.ItemID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ContainerByID returns the container with the given id, or false.
func (a Arrangement) ContainerByID(id string) (Container, bool) {
	for _, c := range a.Containers {
		if c.ContainerID == id {
			return c, true
		}
	}
	return Container{}, false
}

// PlacementOf returns the placement of the given item, or false. An item
// has at most one placement at any time.
func (a Arrangement) PlacementOf(itemID string) (Placement, bool) {
	for _, p := range a.Placements {
		if p.ItemID == itemID {
			return p, true
		}
	}
	return Placement{}, false
}

// PlacementsIn returns the placements currently in the given container.
func (a Arrangement) PlacementsIn(containerID string) []Placement {
	var out []Placement
	for _, p := range a.Placements {
		if p.ContainerID == containerID {
			out = append(out, p)
		}
	}
	return out
}
