package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("itemId,name,width,depth,height,mass\n001,Food Pack,10,10,20,5\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("itemId;name;width;depth;height;mass\n001;Food Pack;10;10;20;5\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("itemId\tname\twidth\tdepth\theight\tmass\n001\tFood Pack\t10\t10\t20\t5\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── Column Detection Tests ────────────────────────────────

func TestDetectItemColumns_StandardHeaders(t *testing.T) {
	row := []string{"Item ID", "Name", "Width", "Depth", "Height", "Mass", "Priority", "Expiry", "Usage Limit", "Preferred Zone"}
	cols, isHeader := detectItemColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if cols.ID != 0 || cols.Name != 1 || cols.Width != 2 || cols.Depth != 3 || cols.Height != 4 {
		t.Errorf("unexpected mapping: %+v", cols)
	}
	if cols.Mass != 5 || cols.Priority != 6 || cols.Expiry != 7 || cols.UsageLimit != 8 || cols.Zone != 9 {
		t.Errorf("unexpected mapping: %+v", cols)
	}
}

func TestDetectItemColumns_ReorderedAliases(t *testing.T) {
	row := []string{"description", "weight_kg", "prio", "w", "d", "h"}
	cols, isHeader := detectItemColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if cols.Name != 0 || cols.Mass != 1 || cols.Priority != 2 {
		t.Errorf("unexpected mapping: %+v", cols)
	}
	if cols.Width != 3 || cols.Depth != 4 || cols.Height != 5 {
		t.Errorf("unexpected mapping: %+v", cols)
	}
}

func TestDetectContainerColumns_NoHeader(t *testing.T) {
	row := []string{"contA", "Lab", "100", "85", "200"}
	cols, isHeader := detectContainerColumns(row)

	if isHeader {
		t.Error("numeric row must not be treated as a header")
	}
	if cols.ID != 0 || cols.Zone != 1 || cols.Width != 2 {
		t.Errorf("expected positional mapping, got %+v", cols)
	}
}

// ─── Item Import Tests ─────────────────────────────────────

func TestImportItemsCSVFromReader(t *testing.T) {
	csvData := `itemId,name,width,depth,height,mass,priority,expiry,usageLimit,preferredZone
001,Food Pack,10,10,20,5,80,2026-05-20,30,Crew Quarters
002,Oxygen Cylinder,15,15,50,30,95,N/A,100,Airlock
003,First Aid Kit,20,20,10,2,100,2026-07-10,5,Medical Bay
`
	result := ImportItemsCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}

	first := result.Items[0]
	if first.ItemID != "001" || first.Name != "Food Pack" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.Width != 10 || first.Depth != 10 || first.Height != 20 || first.Mass != 5 {
		t.Errorf("dimensions did not parse: %+v", first)
	}
	if first.Priority != 80 || first.PreferredZone != "Crew Quarters" {
		t.Errorf("priority/zone did not parse: %+v", first)
	}
	if first.ExpiryDate == nil || first.ExpiryDate.Format("2006-01-02") != "2026-05-20" {
		t.Errorf("expiry did not parse: %v", first.ExpiryDate)
	}
	if first.UsageLimit == nil || *first.UsageLimit != 30 {
		t.Errorf("usage limit did not parse: %v", first.UsageLimit)
	}

	second := result.Items[1]
	if second.ExpiryDate != nil {
		t.Errorf("N/A expiry should stay nil, got %v", second.ExpiryDate)
	}
}

func TestImportItemsCSVBadRowsReported(t *testing.T) {
	csvData := `itemId,name,width,depth,height,mass,priority
001,Food Pack,10,10,20,5,80
002,,10,10,20,5,80
003,Bad Width,abc,10,20,5,80
004,Bad Priority,10,10,20,5,high
005,Wrench,5,5,30,2,40
`
	result := ImportItemsCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 good items, got %d: %v", len(result.Items), result.Errors)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", result.Errors)
	}
	for _, e := range result.Errors {
		if !strings.HasPrefix(e, "Line ") {
			t.Errorf("error should carry its line number: %q", e)
		}
	}
}

func TestImportItemsCSVGeneratesMissingIDs(t *testing.T) {
	csvData := "name,width,depth,height,mass\nFood Pack,10,10,20,5\n"
	result := ImportItemsCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %v", result.Errors)
	}
	if result.Items[0].ItemID == "" {
		t.Error("expected a generated item ID")
	}
}

func TestImportItemsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	data := "itemId;name;width;depth;height;mass\n001;Food Pack;10;10;20;5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportItemsCSV(path)
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got errors %v", result.Errors)
	}
	// Semicolon detection is surfaced as a warning.
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a semicolon-delimiter warning, got %v", result.Warnings)
	}
}

func TestImportItemsCSVMissingRequiredColumns(t *testing.T) {
	csvData := "itemId,name,priority\n001,Food Pack,80\n"
	result := ImportItemsCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected an error about missing columns")
	}
	if !strings.Contains(result.Errors[0], "Width") {
		t.Errorf("error should name missing columns: %q", result.Errors[0])
	}
}

// ─── Container Import Tests ────────────────────────────────

func TestImportContainersCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "containers.csv")
	data := `containerId,zone,width,depth,height
contA,Crew Quarters,100,85,200
contB,Airlock,50,85,200
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportContainersCSV(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(result.Containers))
	}
	if result.Containers[0].ContainerID != "contA" || result.Containers[0].Zone != "Crew Quarters" {
		t.Errorf("unexpected container: %+v", result.Containers[0])
	}
	if result.Containers[1].Width != 50 || result.Containers[1].Depth != 85 {
		t.Errorf("dimensions did not parse: %+v", result.Containers[1])
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func TestImportItemsExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"itemId", "name", "width", "depth", "height", "mass", "priority"},
		{"001", "Food Pack", 10, 10, 20, 5, 80},
		{"002", "Wrench", 5, 5, 30, 2, 40},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	result := ImportItemsExcel(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[1].Name != "Wrench" || result.Items[1].Priority != 40 {
		t.Errorf("unexpected second item: %+v", result.Items[1])
	}
}

func TestImportItemsExcelMissingFile(t *testing.T) {
	result := ImportItemsExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a missing file")
	}
}

// ─── DXF Geometry Tests ────────────────────────────────────

func TestChainSegmentsClosesRectangle(t *testing.T) {
	segs := []segment{
		{start: point2D{0, 0}, end: point2D{50, 0}},
		{start: point2D{50, 0}, end: point2D{50, 25}},
		{start: point2D{50, 25}, end: point2D{0, 25}},
		{start: point2D{0, 25}, end: point2D{0, 0}},
		// An open stray segment that must not become a container.
		{start: point2D{100, 100}, end: point2D{120, 100}},
	}

	outlines := chainSegments(segs, 0.01)
	if len(outlines) != 1 {
		t.Fatalf("expected 1 closed outline, got %d", len(outlines))
	}
	minP, maxP := boundingBox(outlines[0])
	if maxP.X-minP.X != 50 || maxP.Y-minP.Y != 25 {
		t.Errorf("unexpected bounding box: %v %v", minP, maxP)
	}
}

func TestOutlineArea(t *testing.T) {
	rect := []point2D{{0, 0}, {50, 0}, {50, 25}, {0, 25}}
	if got := outlineArea(rect); got != 1250 {
		t.Errorf("expected area 1250, got %f", got)
	}
	if got := outlineArea(rect[:2]); got != 0 {
		t.Errorf("degenerate outline should have zero area, got %f", got)
	}
}
