// Package procedure renders planner output as plain-text step sheets the
// crew can print or read off a tablet: stowage procedures from a planning
// run, retrieval procedures for a single item, and waste return procedures
// for an undocking.
package procedure

import (
	"fmt"
	"strings"
	"time"

	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/piwi3910/StowPlan/internal/waste"
)

const divider = "================================================================"

// Generator produces procedure sheets from plan data.
type Generator struct {
	OperatorID string
	Clock      func() time.Time
}

func New(operatorID string) *Generator {
	return &Generator{
		OperatorID: operatorID,
		Clock:      time.Now,
	}
}

// GenerateStowage produces the step sheet for one planning run: first the
// rearrangement moves that free up space, then the new placements, then any
// items the planner could not handle.
func (g *Generator) GenerateStowage(arr model.Arrangement, plan model.PlanResult) string {
	var b strings.Builder

	g.writeHeader(&b, "STOWAGE PROCEDURE", arr.Name)

	step := 1
	if len(plan.Rearrangements) > 0 {
		b.WriteString("-- Rearrangements (free up space first) --\n\n")
		for _, r := range plan.Rearrangements {
			g.writeStep(&b, step, fmt.Sprintf("MOVE %s: %s %s -> %s at %s",
				g.itemLabel(arr, r.ItemID),
				g.containerLabel(arr, r.FromContainer), coord(r.FromBox.Start),
				g.containerLabel(arr, r.ToContainer), coord(r.ToBox.Start)))
			step++
		}
		b.WriteString("\n")
	}

	if len(plan.Placements) > 0 {
		b.WriteString("-- Placements --\n\n")
		for _, p := range plan.Placements {
			g.writeStep(&b, step, fmt.Sprintf("STOW %s in %s at %s",
				g.itemLabel(arr, p.ItemID),
				g.containerLabel(arr, p.ContainerID), coord(p.Box.Start)))
			step++
		}
		b.WriteString("\n")
	}

	if len(plan.Unplaced) > 0 {
		b.WriteString("-- Not placed (no space found, hold for next pass) --\n\n")
		for _, id := range plan.Unplaced {
			b.WriteString(fmt.Sprintf("    !  %s\n", g.itemLabel(arr, id)))
		}
		b.WriteString("\n")
	}
	if len(plan.Invalid) > 0 {
		b.WriteString("-- Rejected items --\n\n")
		for _, inv := range plan.Invalid {
			b.WriteString(fmt.Sprintf("    !  %s: %s\n", inv.ItemID, inv.Reason))
		}
		b.WriteString("\n")
	}

	g.writeFooter(&b, step-1)
	return b.String()
}

// GenerateRetrieval produces the step sheet for fetching one item: set each
// blocker aside in the listed order, retrieve the target, then restore the
// set-aside items in reverse.
func (g *Generator) GenerateRetrieval(arr model.Arrangement, steps []model.RetrievalStep) string {
	var b strings.Builder

	g.writeHeader(&b, "RETRIEVAL PROCEDURE", arr.Name)

	var setAside []model.RetrievalStep
	n := 0
	for _, s := range steps {
		n = s.Step
		switch s.Action {
		case model.ActionSetAside:
			setAside = append(setAside, s)
			g.writeStep(&b, s.Step, fmt.Sprintf("SET ASIDE %s (blocking access)", g.stepLabel(arr, s)))
		case model.ActionRetrieve:
			loc := ""
			if p, ok := arr.PlacementOf(s.ItemID); ok {
				loc = fmt.Sprintf(" from %s at %s", g.containerLabel(arr, p.ContainerID), coord(p.Box.Start))
			}
			g.writeStep(&b, s.Step, fmt.Sprintf("RETRIEVE %s%s", g.stepLabel(arr, s), loc))
		}
	}

	// Restore steps run in reverse so the deepest item goes back first.
	for i := len(setAside) - 1; i >= 0; i-- {
		n++
		g.writeStep(&b, n, fmt.Sprintf("RESTORE %s to its previous position", g.stepLabel(arr, setAside[i])))
	}

	b.WriteString("\n")
	g.writeFooter(&b, n)
	return b.String()
}

// GenerateWasteReturn produces the step sheet for loading an undocking
// container, followed by the return manifest the ground expects.
func (g *Generator) GenerateWasteReturn(arr model.Arrangement, plan waste.ReturnPlan) string {
	var b strings.Builder

	g.writeHeader(&b, "WASTE RETURN PROCEDURE", arr.Name)

	b.WriteString(fmt.Sprintf("Undocking container: %s\n", g.containerLabel(arr, plan.Manifest.UndockingContainer)))
	if !plan.Manifest.UndockingDate.IsZero() {
		b.WriteString(fmt.Sprintf("Undocking date:      %s\n", plan.Manifest.UndockingDate.Format("2006-01-02")))
	}
	b.WriteString("\n")

	step := 0
	if len(plan.Retrievals) > 0 {
		b.WriteString("-- Unpacking (free buried waste first) --\n\n")
		for _, s := range plan.Retrievals {
			step++
			switch s.Action {
			case model.ActionSetAside:
				g.writeStep(&b, step, fmt.Sprintf("SET ASIDE %s (blocking access)", g.stepLabel(arr, s)))
			case model.ActionRetrieve:
				g.writeStep(&b, step, fmt.Sprintf("RETRIEVE %s", g.stepLabel(arr, s)))
			}
		}
		b.WriteString("\n")
	}

	for _, s := range plan.Steps {
		step++
		g.writeStep(&b, step, fmt.Sprintf("MOVE %s: %s %s -> %s at %s",
			g.itemLabel(arr, s.ItemID),
			g.containerLabel(arr, s.FromContainer), coord(s.FromBox.Start),
			g.containerLabel(arr, s.ToContainer), coord(s.ToBox.Start)))
	}
	if len(plan.Steps) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("-- Return manifest --\n\n")
	for _, it := range plan.Manifest.ReturnItems {
		b.WriteString(fmt.Sprintf("    %-10s %-24s %-10s %.1f kg\n", it.ItemID, it.Name, it.Reason, it.Mass))
	}
	b.WriteString(fmt.Sprintf("\n    Total mass:   %.1f kg\n", plan.Manifest.TotalMass))
	b.WriteString(fmt.Sprintf("    Total volume: %.1f\n", plan.Manifest.TotalVolume))

	if len(plan.LeftBehind) > 0 {
		b.WriteString("\n-- Left behind (over mass budget or no room) --\n\n")
		for _, it := range plan.LeftBehind {
			b.WriteString(fmt.Sprintf("    !  %-10s %-24s %.1f kg\n", it.ItemID, it.Name, it.Mass))
		}
	}

	b.WriteString("\n")
	g.writeFooter(&b, step)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, title, arrName string) {
	b.WriteString(divider + "\n")
	b.WriteString(fmt.Sprintf(" %s\n", title))
	if arrName != "" {
		b.WriteString(fmt.Sprintf(" Arrangement: %s\n", arrName))
	}
	b.WriteString(fmt.Sprintf(" Generated:   %s\n", g.Clock().UTC().Format("2006-01-02 15:04 UTC")))
	if g.OperatorID != "" {
		b.WriteString(fmt.Sprintf(" Operator:    %s\n", g.OperatorID))
	}
	b.WriteString(divider + "\n\n")
}

func (g *Generator) writeFooter(b *strings.Builder, steps int) {
	b.WriteString(divider + "\n")
	b.WriteString(fmt.Sprintf(" %d steps. Confirm each checkbox before signing off.\n", steps))
	b.WriteString(divider + "\n")
}

func (g *Generator) writeStep(b *strings.Builder, num int, text string) {
	b.WriteString(fmt.Sprintf("[ ] %2d. %s\n", num, text))
}

// itemLabel resolves an id to "Name (id)" when the item is known.
func (g *Generator) itemLabel(arr model.Arrangement, itemID string) string {
	if it, ok := arr.ItemByID(itemID); ok && it.Name != "" {
		return fmt.Sprintf("%s (%s)", it.Name, it.ItemID)
	}
	return itemID
}

func (g *Generator) stepLabel(arr model.Arrangement, s model.RetrievalStep) string {
	if s.ItemName != "" {
		return fmt.Sprintf("%s (%s)", s.ItemName, s.ItemID)
	}
	return g.itemLabel(arr, s.ItemID)
}

// containerLabel resolves an id to "id (zone)" when the container is known.
func (g *Generator) containerLabel(arr model.Arrangement, containerID string) string {
	if c, ok := arr.ContainerByID(containerID); ok && c.Zone != "" {
		return fmt.Sprintf("%s (%s)", c.ContainerID, c.Zone)
	}
	return containerID
}

func coord(c model.Coordinates) string {
	return fmt.Sprintf("(%g,%g,%g)", c.Width, c.Depth, c.Height)
}
