// Package export writes stowage state out for ground systems: the placement
// manifest as CSV, the full inventory as an Excel workbook, a printable PDF
// stowage report, and QR-coded item labels.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// coordTriple formats coordinates in the interchange form "(w,d,h)" with
// three decimal places.
func coordTriple(c model.Coordinates) string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f)", c.Width, c.Depth, c.Height)
}

// ExportArrangementCSV writes the placement manifest in the interchange
// format ground systems consume: one row per placement with the item id,
// container id, and the start and end coordinate triples.
func ExportArrangementCSV(path string, arr model.Arrangement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"itemId", "containerId", "startCoordinates", "endCoordinates"}); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}
	for _, p := range arr.Placements {
		row := []string{
			p.ItemID,
			p.ContainerID,
			coordTriple(p.Box.Start),
			coordTriple(p.Box.End),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}
	return nil
}

// ExportInventoryExcel writes the full inventory as an Excel workbook with
// an Items sheet and a Containers sheet, the format crews exchange with
// cargo integration on the ground.
func ExportInventoryExcel(path string, arr model.Arrangement) error {
	f := excelize.NewFile()
	defer f.Close()

	itemsSheet := f.GetSheetName(0)
	if err := f.SetSheetName(itemsSheet, "Items"); err != nil {
		return fmt.Errorf("failed to name items sheet: %w", err)
	}
	itemsSheet = "Items"

	header := []interface{}{"itemId", "name", "width", "depth", "height", "mass",
		"priority", "expiry", "usageLimit", "currentUses", "preferredZone", "status", "containerId"}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write items header: %w", err)
	}
	for i, it := range arr.Items {
		expiry := ""
		if it.ExpiryDate != nil {
			expiry = it.ExpiryDate.Format("2006-01-02")
		}
		usage := ""
		if it.UsageLimit != nil {
			usage = fmt.Sprintf("%d", *it.UsageLimit)
		}
		containerID := ""
		if p, ok := arr.PlacementOf(it.ItemID); ok {
			containerID = p.ContainerID
		}
		row := []interface{}{it.ItemID, it.Name, it.Width, it.Depth, it.Height, it.Mass,
			it.Priority, expiry, usage, it.CurrentUses, it.PreferredZone, string(it.Status), containerID}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write item row: %w", err)
		}
	}

	if _, err := f.NewSheet("Containers"); err != nil {
		return fmt.Errorf("failed to add containers sheet: %w", err)
	}
	cHeader := []interface{}{"containerId", "zone", "width", "depth", "height", "itemsStowed"}
	if err := f.SetSheetRow("Containers", "A1", &cHeader); err != nil {
		return fmt.Errorf("failed to write containers header: %w", err)
	}
	for i, c := range arr.Containers {
		row := []interface{}{c.ContainerID, c.Zone, c.Width, c.Depth, c.Height,
			len(arr.PlacementsIn(c.ContainerID))}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Containers", cell, &row); err != nil {
			return fmt.Errorf("failed to write container row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
