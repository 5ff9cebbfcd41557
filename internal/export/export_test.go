package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// buildTestArrangement creates a realistic stowed arrangement for testing.
func buildTestArrangement() model.Arrangement {
	arr := model.NewArrangement()
	arr.Name = "Increment 72"
	arr.Items = []model.Item{
		{ItemID: "001", Name: "Food Pack", Width: 10, Depth: 10, Height: 20, Mass: 5,
			Priority: 80, PreferredZone: "Crew Quarters", Status: model.StatusActive},
		{ItemID: "002", Name: "Oxygen Cylinder", Width: 15, Depth: 15, Height: 50, Mass: 30,
			Priority: 95, PreferredZone: "Airlock", Status: model.StatusActive},
		{ItemID: "003", Name: "Spare Cable", Width: 5, Depth: 5, Height: 5, Mass: 1,
			Priority: 20, Status: model.StatusActive},
	}
	arr.Containers = []model.Container{
		{ContainerID: "contA", Zone: "Crew Quarters", Width: 100, Depth: 85, Height: 200},
		{ContainerID: "contB", Zone: "Airlock", Width: 50, Depth: 85, Height: 200},
	}
	arr.Placements = []model.Placement{
		{ItemID: "001", ContainerID: "contA", Box: model.NewBox(model.Coordinates{}, 10, 10, 20)},
		{ItemID: "002", ContainerID: "contB", Box: model.NewBox(model.Coordinates{}, 15, 15, 50)},
		{ItemID: "003", ContainerID: "contA", Box: model.NewBox(model.Coordinates{Width: 10, Depth: 20}, 5, 5, 5)},
	}
	return arr
}

func TestExportArrangementCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")

	if err := ExportArrangementCSV(path, buildTestArrangement()); err != nil {
		t.Fatalf("ExportArrangementCSV returned error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("exported manifest is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "itemId" || records[0][3] != "endCoordinates" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][0] != "001" || records[1][1] != "contA" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[1][2] != "(0.000,0.000,0.000)" || records[1][3] != "(10.000,10.000,20.000)" {
		t.Errorf("coordinate triples did not format to three decimals: %v", records[1])
	}
	if records[3][2] != "(10.000,20.000,0.000)" {
		t.Errorf("offset start coordinates did not format: %v", records[3])
	}
}

func TestExportInventoryExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	if err := ExportInventoryExcel(path, buildTestArrangement()); err != nil {
		t.Fatalf("ExportInventoryExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Items")
	if err != nil {
		t.Fatalf("missing Items sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 item rows, got %d", len(rows))
	}
	if rows[1][1] != "Food Pack" {
		t.Errorf("unexpected item row: %v", rows[1])
	}
	// The stowed container is joined in.
	if rows[1][12] != "contA" {
		t.Errorf("expected containerId contA, got %v", rows[1])
	}

	cRows, err := f.GetRows("Containers")
	if err != nil {
		t.Fatalf("missing Containers sheet: %v", err)
	}
	if len(cRows) != 3 {
		t.Fatalf("expected header + 2 container rows, got %d", len(cRows))
	}
	if cRows[1][5] != "2" {
		t.Errorf("contA should report 2 stowed items, got %v", cRows[1])
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := ExportPDF(path, buildTestArrangement()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PDF file is empty")
	}
}

func TestExportPDF_NoContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")

	err := ExportPDF(path, model.NewArrangement())
	if err == nil {
		t.Fatal("expected error for arrangement without containers")
	}
	if !strings.Contains(err.Error(), "no containers") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestArrangement()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("labels file is empty")
	}
}

func TestExportLabels_NoPlacements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, model.NewArrangement()); err == nil {
		t.Fatal("expected error when nothing is placed")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestArrangement())

	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}
	first := labels[0]
	if first.ItemID != "001" || first.Name != "Food Pack" {
		t.Errorf("unexpected first label: %+v", first)
	}
	if first.ContainerID != "contA" || first.Zone != "Crew Quarters" {
		t.Errorf("label should carry stowage location: %+v", first)
	}
	if first.Mass != 5 || first.Priority != 80 {
		t.Errorf("label should carry item metadata: %+v", first)
	}
}
