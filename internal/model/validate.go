package model

import "fmt"

// ValidateItem checks the static constraints an item must satisfy before it
// can enter placement search. A non-nil error means the item is rejected and
// reported, but never aborts processing of other items.
func ValidateItem(it Item) error {
	if it.ItemID == "" {
		return fmt.Errorf("item has no id")
	}
	if it.Width <= 0 || it.Depth <= 0 || it.Height <= 0 {
		return fmt.Errorf("item %s: dimensions must be positive (got %.3f x %.3f x %.3f)",
			it.ItemID, it.Width, it.Depth, it.Height)
	}
	if it.Mass <= 0 {
		return fmt.Errorf("item %s: mass must be positive (got %.3f)", it.ItemID, it.Mass)
	}
	if it.Priority < 0 || it.Priority > 100 {
		return fmt.Errorf("item %s: priority must be in [0,100] (got %d)", it.ItemID, it.Priority)
	}
	if it.UsageLimit != nil {
		if *it.UsageLimit < 0 {
			return fmt.Errorf("item %s: usage limit must be non-negative", it.ItemID)
		}
		if it.CurrentUses < 0 || it.CurrentUses > *it.UsageLimit {
			return fmt.Errorf("item %s: current uses %d outside [0,%d]",
				it.ItemID, it.CurrentUses, *it.UsageLimit)
		}
	}
	return nil
}

// ValidateContainer checks that a container has an id and positive interior
// dimensions.
func ValidateContainer(c Container) error {
	if c.ContainerID == "" {
		return fmt.Errorf("container has no id")
	}
	if c.Width <= 0 || c.Depth <= 0 || c.Height <= 0 {
		return fmt.Errorf("container %s: dimensions must be positive (got %.3f x %.3f x %.3f)",
			c.ContainerID, c.Width, c.Depth, c.Height)
	}
	return nil
}

// ValidateBox rejects malformed boxes (end not strictly beyond start, or a
// negative origin).
func ValidateBox(b Box) error {
	if !b.IsValid() {
		return fmt.Errorf("malformed box: start %+v end %+v", b.Start, b.End)
	}
	return nil
}
