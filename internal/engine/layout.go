package engine

import (
	"fmt"

	"github.com/piwi3910/StowPlan/internal/model"
)

// BoxRecord is one occupied region of a container.
type BoxRecord struct {
	ItemID string
	Box    model.Box
}

// containerState is one arena slot: a container and its ordered occupants.
type containerState struct {
	container model.Container
	boxes     []BoxRecord
}

// Layout is the in-memory simulation state the planner works on: an arena of
// containers, each owning a small ordered collection of box records, with an
// id-to-slot index. A Layout is owned by the planning call that created it;
// phases hand updated copies around instead of mutating shared state.
type Layout struct {
	arena []containerState
	index map[string]int
}

// NewLayout builds a layout over the given containers with no occupants.
// Containers keep their input order, which is also the planner's search order.
func NewLayout(containers []model.Container) *Layout {
	l := &Layout{index: make(map[string]int, len(containers))}
	for _, c := range containers {
		l.AddContainer(c)
	}
	return l
}

// AddContainer appends a container to the arena. Re-adding an existing id
// replaces its definition but keeps its occupants.
func (l *Layout) AddContainer(c model.Container) {
	if idx, ok := l.index[c.ContainerID]; ok {
		l.arena[idx].container = c
		return
	}
	l.index[c.ContainerID] = len(l.arena)
	l.arena = append(l.arena, containerState{container: c})
}

// Clone returns a deep copy, so eviction attempts can be simulated and
// discarded without touching the accepted state.
func (l *Layout) Clone() *Layout {
	out := &Layout{
		arena: make([]containerState, len(l.arena)),
		index: make(map[string]int, len(l.index)),
	}
	for i, cs := range l.arena {
		boxes := make([]BoxRecord, len(cs.boxes))
		copy(boxes, cs.boxes)
		out.arena[i] = containerState{container: cs.container, boxes: boxes}
	}
	for id, idx := range l.index {
		out.index[id] = idx
	}
	return out
}

// Container returns the container definition for an id.
func (l *Layout) Container(id string) (model.Container, bool) {
	idx, ok := l.index[id]
	if !ok {
		return model.Container{}, false
	}
	return l.arena[idx].container, true
}

// Containers returns all containers in arena order.
func (l *Layout) Containers() []model.Container {
	out := make([]model.Container, len(l.arena))
	for i, cs := range l.arena {
		out[i] = cs.container
	}
	return out
}

// ContainersInZone returns the containers of a zone in arena order.
func (l *Layout) ContainersInZone(zone string) []model.Container {
	var out []model.Container
	for _, cs := range l.arena {
		if cs.container.Zone == zone {
			out = append(out, cs.container)
		}
	}
	return out
}

// Occupants returns a copy of the box records in a container.
func (l *Layout) Occupants(containerID string) []BoxRecord {
	idx, ok := l.index[containerID]
	if !ok {
		return nil
	}
	out := make([]BoxRecord, len(l.arena[idx].boxes))
	copy(out, l.arena[idx].boxes)
	return out
}

// Place binds an item to a box in a container, removing any previous
// placement of the same item first so the one-placement-per-item invariant
// holds by construction.
func (l *Layout) Place(itemID, containerID string, box model.Box) error {
	idx, ok := l.index[containerID]
	if !ok {
		return fmt.Errorf("unknown container %s", containerID)
	}
	l.Remove(itemID)
	l.arena[idx].boxes = append(l.arena[idx].boxes, BoxRecord{ItemID: itemID, Box: box})
	return nil
}

// Remove deletes an item's placement, returning where it was.
func (l *Layout) Remove(itemID string) (string, model.Box, bool) {
	for i := range l.arena {
		for j, rec := range l.arena[i].boxes {
			if rec.ItemID == itemID {
				l.arena[i].boxes = append(l.arena[i].boxes[:j], l.arena[i].boxes[j+1:]...)
				return l.arena[i].container.ContainerID, rec.Box, true
			}
		}
	}
	return "", model.Box{}, false
}

// PlacementOf returns the current placement of an item, if any.
func (l *Layout) PlacementOf(itemID string) (model.Placement, bool) {
	for i := range l.arena {
		for _, rec := range l.arena[i].boxes {
			if rec.ItemID == itemID {
				return model.Placement{
					ItemID:      itemID,
					ContainerID: l.arena[i].container.ContainerID,
					Box:         rec.Box,
				}, true
			}
		}
	}
	return model.Placement{}, false
}

// Placements flattens the layout into placement records, arena order first,
// insertion order within a container.
func (l *Layout) Placements() []model.Placement {
	var out []model.Placement
	for i := range l.arena {
		for _, rec := range l.arena[i].boxes {
			out = append(out, model.Placement{
				ItemID:      rec.ItemID,
				ContainerID: l.arena[i].container.ContainerID,
				Box:         rec.Box,
			})
		}
	}
	return out
}
