// Package importer reads item and container manifests from CSV and Excel
// files. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition, since manifests arrive from many
// ground systems with no two using the same layout.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Bad rows land in
// Errors with their line number; the good rows are still imported.
type ImportResult struct {
	Items      []model.Item
	Containers []model.Container
	Errors     []string
	Warnings   []string
}

// itemColumns maps semantic item-manifest roles to column indices.
type itemColumns struct {
	ID         int
	Name       int
	Width      int
	Depth      int
	Height     int
	Mass       int
	Priority   int
	Expiry     int
	UsageLimit int
	Zone       int
}

// containerColumns maps container-manifest roles to column indices.
type containerColumns struct {
	ID     int
	Zone   int
	Width  int
	Depth  int
	Height int
}

// itemHeaderAliases maps canonical item columns to accepted aliases (all
// lowercase).
var itemHeaderAliases = map[string][]string{
	"id":       {"itemid", "item id", "id"},
	"name":     {"name", "item", "item name", "description", "desc"},
	"width":    {"width", "width_cm", "w"},
	"depth":    {"depth", "depth_cm", "d"},
	"height":   {"height", "height_cm", "h"},
	"mass":     {"mass", "mass_kg", "weight", "weight_kg", "kg"},
	"priority": {"priority", "prio", "p"},
	"expiry":   {"expiry", "expirydate", "expiry date", "expires", "expiration"},
	"usage":    {"usagelimit", "usage limit", "uses", "usage"},
	"zone":     {"preferredzone", "preferred zone", "zone"},
}

// containerHeaderAliases maps canonical container columns to accepted
// aliases.
var containerHeaderAliases = map[string][]string{
	"id":     {"containerid", "container id", "id"},
	"zone":   {"zone", "module", "location"},
	"width":  {"width", "width_cm", "w"},
	"depth":  {"depth", "depth_cm", "d"},
	"height": {"height", "height_cm", "h"},
}

// expiryLayouts are the date formats accepted in manifests.
var expiryLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006"}

// DetectCSVDelimiter determines the most likely CSV delimiter for the data.
// It tries comma, semicolon, tab, and pipe; the delimiter producing the most
// consistent multi-column rows wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		consistent := 0
		for _, row := range records {
			if len(row) == firstCols {
				consistent++
			}
		}
		weighted := consistent*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}
	return best
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// matchHeader returns the canonical role for a header cell, or "".
func matchHeader(aliases map[string][]string, cell string) string {
	normalized := strings.ToLower(strings.TrimSpace(cell))
	for role, list := range aliases {
		for _, alias := range list {
			if normalized == alias {
				return role
			}
		}
	}
	return ""
}

// detectItemColumns examines a header row and maps the item columns.
// Returns the mapping and true if a header was detected, or a positional
// mapping (id, name, width, depth, height, mass, priority, expiry, usage,
// zone) and false otherwise.
func detectItemColumns(row []string) (itemColumns, bool) {
	cols := itemColumns{ID: -1, Name: -1, Width: -1, Depth: -1, Height: -1,
		Mass: -1, Priority: -1, Expiry: -1, UsageLimit: -1, Zone: -1}
	isHeader := false
	for i, cell := range row {
		switch matchHeader(itemHeaderAliases, cell) {
		case "id":
			isHeader = true
			if cols.ID == -1 {
				cols.ID = i
			}
		case "name":
			isHeader = true
			if cols.Name == -1 {
				cols.Name = i
			}
		case "width":
			isHeader = true
			if cols.Width == -1 {
				cols.Width = i
			}
		case "depth":
			isHeader = true
			if cols.Depth == -1 {
				cols.Depth = i
			}
		case "height":
			isHeader = true
			if cols.Height == -1 {
				cols.Height = i
			}
		case "mass":
			isHeader = true
			if cols.Mass == -1 {
				cols.Mass = i
			}
		case "priority":
			isHeader = true
			if cols.Priority == -1 {
				cols.Priority = i
			}
		case "expiry":
			isHeader = true
			if cols.Expiry == -1 {
				cols.Expiry = i
			}
		case "usage":
			isHeader = true
			if cols.UsageLimit == -1 {
				cols.UsageLimit = i
			}
		case "zone":
			isHeader = true
			if cols.Zone == -1 {
				cols.Zone = i
			}
		}
	}
	if !isHeader {
		return itemColumns{ID: 0, Name: 1, Width: 2, Depth: 3, Height: 4,
			Mass: 5, Priority: 6, Expiry: 7, UsageLimit: 8, Zone: 9}, false
	}
	return cols, true
}

func detectContainerColumns(row []string) (containerColumns, bool) {
	cols := containerColumns{ID: -1, Zone: -1, Width: -1, Depth: -1, Height: -1}
	isHeader := false
	for i, cell := range row {
		switch matchHeader(containerHeaderAliases, cell) {
		case "id":
			isHeader = true
			if cols.ID == -1 {
				cols.ID = i
			}
		case "zone":
			isHeader = true
			if cols.Zone == -1 {
				cols.Zone = i
			}
		case "width":
			isHeader = true
			if cols.Width == -1 {
				cols.Width = i
			}
		case "depth":
			isHeader = true
			if cols.Depth == -1 {
				cols.Depth = i
			}
		case "height":
			isHeader = true
			if cols.Height == -1 {
				cols.Height = i
			}
		}
	}
	if !isHeader {
		return containerColumns{ID: 0, Zone: 1, Width: 2, Depth: 3, Height: 4}, false
	}
	return cols, true
}

func parseDimension(rowLabel, field, raw string) (float64, string) {
	if raw == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, field, raw)
	}
	return v, ""
}

// parseItemRow extracts an Item from one manifest row.
func parseItemRow(row []string, cols itemColumns, rowLabel string) (model.Item, string, string) {
	name := getCell(row, cols.Name)
	if name == "" {
		return model.Item{}, fmt.Sprintf("%s: Missing item name", rowLabel), ""
	}

	w, errMsg := parseDimension(rowLabel, "width", getCell(row, cols.Width))
	if errMsg != "" {
		return model.Item{}, errMsg, ""
	}
	d, errMsg := parseDimension(rowLabel, "depth", getCell(row, cols.Depth))
	if errMsg != "" {
		return model.Item{}, errMsg, ""
	}
	h, errMsg := parseDimension(rowLabel, "height", getCell(row, cols.Height))
	if errMsg != "" {
		return model.Item{}, errMsg, ""
	}
	mass, errMsg := parseDimension(rowLabel, "mass", getCell(row, cols.Mass))
	if errMsg != "" {
		return model.Item{}, errMsg, ""
	}

	priority := 0
	if raw := getCell(row, cols.Priority); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid priority '%s'", rowLabel, raw), ""
		}
		priority = p
	}

	it := model.NewItem(name, w, d, h, mass, priority)
	if id := getCell(row, cols.ID); id != "" {
		it.ItemID = id
	}
	it.PreferredZone = getCell(row, cols.Zone)

	var warning string
	if raw := getCell(row, cols.Expiry); raw != "" && !strings.EqualFold(raw, "n/a") {
		parsed := false
		for _, layout := range expiryLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				it.ExpiryDate = &ts
				parsed = true
				break
			}
		}
		if !parsed {
			warning = fmt.Sprintf("%s: Unrecognized expiry date '%s', ignoring", rowLabel, raw)
		}
	}
	if raw := getCell(row, cols.UsageLimit); raw != "" && !strings.EqualFold(raw, "n/a") {
		limit, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(raw), " uses"))
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid usage limit '%s'", rowLabel, raw), warning
		}
		it.UsageLimit = &limit
	}

	if err := model.ValidateItem(it); err != nil {
		return model.Item{}, fmt.Sprintf("%s: %v", rowLabel, err), warning
	}
	return it, "", warning
}

// parseContainerRow extracts a Container from one manifest row.
func parseContainerRow(row []string, cols containerColumns, rowLabel string) (model.Container, string) {
	zone := getCell(row, cols.Zone)
	if zone == "" {
		return model.Container{}, fmt.Sprintf("%s: Missing zone", rowLabel)
	}
	w, errMsg := parseDimension(rowLabel, "width", getCell(row, cols.Width))
	if errMsg != "" {
		return model.Container{}, errMsg
	}
	d, errMsg := parseDimension(rowLabel, "depth", getCell(row, cols.Depth))
	if errMsg != "" {
		return model.Container{}, errMsg
	}
	h, errMsg := parseDimension(rowLabel, "height", getCell(row, cols.Height))
	if errMsg != "" {
		return model.Container{}, errMsg
	}

	c := model.NewContainer(zone, w, d, h)
	if id := getCell(row, cols.ID); id != "" {
		c.ContainerID = id
	}
	if err := model.ValidateContainer(c); err != nil {
		return model.Container{}, fmt.Sprintf("%s: %v", rowLabel, err)
	}
	return c, ""
}

// readCSV loads a file, detects the delimiter, and returns all records.
func readCSV(path string) ([][]string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, warnings, fmt.Errorf("cannot read CSV: %w", err)
	}
	return records, warnings, nil
}

// readExcel loads the first sheet of an Excel workbook.
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read Excel data: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}
	return rows, nil
}

// ImportItemsCSV imports an item manifest from a CSV file.
func ImportItemsCSV(path string) ImportResult {
	records, warnings, err := readCSV(path)
	result := ImportResult{Warnings: warnings}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	return importItemRows(records, "Line", result.Warnings)
}

// ImportItemsCSVFromReader imports an item manifest with a known delimiter.
func ImportItemsCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read CSV: %v", err))
		return result
	}
	return importItemRows(records, "Line", nil)
}

// ImportItemsExcel imports an item manifest from the first sheet of an Excel
// workbook.
func ImportItemsExcel(path string) ImportResult {
	rows, err := readExcel(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importItemRows(rows, "Row", nil)
}

// ImportContainersCSV imports a container manifest from a CSV file.
func ImportContainersCSV(path string) ImportResult {
	records, warnings, err := readCSV(path)
	result := ImportResult{Warnings: warnings}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	return importContainerRows(records, "Line", result.Warnings)
}

// ImportContainersExcel imports a container manifest from the first sheet of
// an Excel workbook.
func ImportContainersExcel(path string) ImportResult {
	rows, err := readExcel(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importContainerRows(rows, "Row", nil)
}

func importItemRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	cols, hasHeader := detectItemColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		var missing []string
		if cols.Name == -1 {
			missing = append(missing, "Name")
		}
		if cols.Width == -1 {
			missing = append(missing, "Width")
		}
		if cols.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if cols.Height == -1 {
			missing = append(missing, "Height")
		}
		if cols.Mass == -1 {
			missing = append(missing, "Mass")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		it, errMsg, warning := parseItemRow(rows[i], cols, rowLabel)
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Items = append(result.Items, it)
	}
	return result
}

func importContainerRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	cols, hasHeader := detectContainerColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		var missing []string
		if cols.Zone == -1 {
			missing = append(missing, "Zone")
		}
		if cols.Width == -1 {
			missing = append(missing, "Width")
		}
		if cols.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if cols.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		c, errMsg := parseContainerRow(rows[i], cols, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Containers = append(result.Containers, c)
	}
	return result
}
