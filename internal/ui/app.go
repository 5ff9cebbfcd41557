package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/StowPlan/internal/engine"
	"github.com/piwi3910/StowPlan/internal/export"
	"github.com/piwi3910/StowPlan/internal/importer"
	"github.com/piwi3910/StowPlan/internal/logbook"
	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/piwi3910/StowPlan/internal/procedure"
	"github.com/piwi3910/StowPlan/internal/search"
	"github.com/piwi3910/StowPlan/internal/simulation"
	"github.com/piwi3910/StowPlan/internal/store"
	"github.com/piwi3910/StowPlan/internal/ui/widgets"
	"github.com/piwi3910/StowPlan/internal/waste"
)

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	arr     model.Arrangement
	st      *store.Store
	config  model.AppConfig
	presets model.PresetLibrary
	log     *logbook.Logbook
	history *History
	simDate time.Time
	tabs    *container.AppTabs

	// UI references for dynamic updates
	itemsContainer      *fyne.Container
	containersContainer *fyne.Container
	stowageContainer    *fyne.Container
	wasteContainer      *fyne.Container
}

func NewApp(window fyne.Window) *App {
	config, err := store.LoadConfig(store.DefaultConfigPath())
	if err != nil {
		config = model.DefaultAppConfig()
	}
	presets, err := store.LoadPresets(store.DefaultPresetsPath())
	if err != nil {
		presets = model.DefaultPresetLibrary()
	}
	st, err := store.Open(store.DefaultStatePath())
	if err != nil {
		st = store.New(store.DefaultStatePath())
	}
	arr := st.Snapshot()
	arr.Settings = config.Settings

	now := time.Now().UTC()
	return &App{
		window:  window,
		arr:     arr,
		st:      st,
		config:  config,
		presets: presets,
		log:     logbook.Open(logbook.DefaultPath()),
		history: NewHistory(),
		simDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Arrangement", func() {
			a.pushHistory("New Arrangement")
			a.arr = model.NewArrangement()
			a.arr.Settings = a.config.Settings
			a.refreshAll()
		}),
		fyne.NewMenuItem("Open...", func() {
			a.openState()
		}),
		fyne.NewMenuItem("Save", func() {
			a.saveState(a.st.Path())
		}),
		fyne.NewMenuItem("Save As...", func() {
			a.saveStateAs()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Items from CSV...", func() {
			a.importFile(importer.ImportItemsCSV)
		}),
		fyne.NewMenuItem("Import Items from Excel...", func() {
			a.importFile(importer.ImportItemsExcel)
		}),
		fyne.NewMenuItem("Import Containers from CSV...", func() {
			a.importFile(importer.ImportContainersCSV)
		}),
		fyne.NewMenuItem("Import Containers from Excel...", func() {
			a.importFile(importer.ImportContainersExcel)
		}),
		fyne.NewMenuItem("Import Deck Plan from DXF...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Placement Manifest (CSV)...", func() {
			a.exportFile("manifest.csv", export.ExportArrangementCSV)
		}),
		fyne.NewMenuItem("Export Inventory Workbook (Excel)...", func() {
			a.exportFile("inventory.xlsx", export.ExportInventoryExcel)
		}),
		fyne.NewMenuItem("Export Stowage Report (PDF)...", func() {
			a.exportFile("stowage-report.pdf", export.ExportPDF)
		}),
		fyne.NewMenuItem("Export Item Labels (PDF)...", func() {
			a.exportFile("labels.pdf", export.ExportLabels)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup / Restore...", func() {
			a.showBackupDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.redo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Items", func() {
			a.pushHistory("Clear Items")
			a.arr.Items = nil
			a.arr.Placements = nil
			a.refreshAll()
		}),
		fyne.NewMenuItem("Clear All Containers", func() {
			a.pushHistory("Clear Containers")
			a.arr.Containers = nil
			a.arr.Placements = nil
			a.refreshAll()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Plan Stowage", func() {
			a.runPlan()
			a.tabs.SelectIndex(2) // Switch to Stowage tab
		}),
		fyne.NewMenuItem("Find Item...", func() {
			a.showFindItemDialog()
		}),
		fyne.NewMenuItem("Place Item Manually...", func() {
			a.showPlaceItemDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Identify Waste", func() {
			a.tabs.SelectIndex(3)
			a.refreshWasteList()
		}),
		fyne.NewMenuItem("Plan Waste Return...", func() {
			a.showWasteReturnDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Simulate Days...", func() {
			a.showSimulationDialog()
		}),
		fyne.NewMenuItem("Container Presets...", func() {
			a.showPresetsDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About StowPlan",
		"StowPlan — Cargo Stowage Planner\n\n"+
			"A desktop application for planning cargo stowage,\n"+
			"retrieval, and waste return on crewed spacecraft.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	itemsTab := container.NewTabItem("Items", a.buildItemsPanel())
	containersTab := container.NewTabItem("Containers", a.buildContainersPanel())
	stowageTab := container.NewTabItem("Stowage", a.buildStowagePanel())
	wasteTab := container.NewTabItem("Waste", a.buildWastePanel())

	a.tabs = container.NewAppTabs(itemsTab, containersTab, stowageTab, wasteTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	return a.tabs
}

// ─── History / State Helpers ───────────────────────────────

func (a *App) pushHistory(label string) {
	a.history.Push(MakeSnapshot(a.arr, label))
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.arr, ""))
	if !ok {
		return
	}
	a.arr = snap.Restore(a.arr)
	a.refreshAll()
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.arr, ""))
	if !ok {
		return
	}
	a.arr = snap.Restore(a.arr)
	a.refreshAll()
}

func (a *App) refreshAll() {
	a.refreshItemsList()
	a.refreshContainersList()
	a.refreshStowageView()
	a.refreshWasteList()
}

// logEvent appends a logbook entry; a failed append never blocks the crew.
func (a *App) logEvent(action logbook.Action, itemID string, details logbook.Details) {
	err := a.log.Append(logbook.Entry{
		OperatorID: a.config.OperatorID,
		Action:     action,
		ItemID:     itemID,
		Details:    details,
	})
	if err != nil {
		fmt.Printf("logbook append failed: %v\n", err)
	}
}

// ─── Items Panel ───────────────────────────────────────────

func (a *App) buildItemsPanel() fyne.CanvasObject {
	a.itemsContainer = container.NewVBox()
	a.refreshItemsList()

	addBtn := widget.NewButtonWithIcon("Add Item", theme.ContentAddIcon(), func() {
		a.showItemDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Cargo Items", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.itemsContainer),
	)
}

func (a *App) refreshItemsList() {
	if a.itemsContainer == nil {
		return
	}
	a.itemsContainer.RemoveAll()

	if len(a.arr.Items) == 0 {
		a.itemsContainer.Add(widget.NewLabel("No items yet. Click 'Add Item' or import a manifest."))
		return
	}

	header := container.NewGridWithColumns(9,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("W x D x H (cm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Mass (kg)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Priority", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Zone", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Status", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.itemsContainer.Add(header)
	a.itemsContainer.Add(widget.NewSeparator())

	for i := range a.arr.Items {
		idx := i // capture
		it := a.arr.Items[idx]
		row := container.NewGridWithColumns(9,
			widget.NewLabel(it.ItemID),
			widget.NewLabel(it.Name),
			widget.NewLabel(fmt.Sprintf("%.0f x %.0f x %.0f", it.Width, it.Depth, it.Height)),
			widget.NewLabel(fmt.Sprintf("%.1f", it.Mass)),
			widget.NewLabel(fmt.Sprintf("%d", it.Priority)),
			widget.NewLabel(it.PreferredZone),
			widget.NewLabel(string(it.Status)),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit item", func() {
				a.showItemDialog(idx)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Remove item", func() {
				a.pushHistory("Remove Item")
				removed := a.arr.Items[idx].ItemID
				a.arr.Items = append(a.arr.Items[:idx], a.arr.Items[idx+1:]...)
				a.arr = store.RemovePlacement(a.arr, removed)
				a.refreshAll()
			}),
		)
		a.itemsContainer.Add(row)
	}
}

// showItemDialog adds a new item when idx < 0, otherwise edits the item at idx.
func (a *App) showItemDialog(idx int) {
	var it model.Item
	title, confirm := "Add Item", "Add"
	if idx >= 0 {
		it = a.arr.Items[idx]
		title, confirm = "Edit Item", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Item name")
	nameEntry.SetText(it.Name)

	widthEntry := widget.NewEntry()
	depthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	massEntry := widget.NewEntry()
	priorityEntry := widget.NewEntry()
	if idx >= 0 {
		widthEntry.SetText(fmt.Sprintf("%g", it.Width))
		depthEntry.SetText(fmt.Sprintf("%g", it.Depth))
		heightEntry.SetText(fmt.Sprintf("%g", it.Height))
		massEntry.SetText(fmt.Sprintf("%g", it.Mass))
		priorityEntry.SetText(fmt.Sprintf("%d", it.Priority))
	} else {
		priorityEntry.SetText("50")
	}

	expiryEntry := widget.NewEntry()
	expiryEntry.SetPlaceHolder("YYYY-MM-DD, empty = none")
	if it.ExpiryDate != nil {
		expiryEntry.SetText(it.ExpiryDate.Format("2006-01-02"))
	}

	usageEntry := widget.NewEntry()
	usageEntry.SetPlaceHolder("empty = unlimited")
	if it.UsageLimit != nil {
		usageEntry.SetText(fmt.Sprintf("%d", *it.UsageLimit))
	}

	zoneEntry := widget.NewEntry()
	zoneEntry.SetPlaceHolder("Preferred zone")
	zoneEntry.SetText(it.PreferredZone)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Depth (cm)", depthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
			widget.NewFormItem("Mass (kg)", massEntry),
			widget.NewFormItem("Priority (0-100)", priorityEntry),
			widget.NewFormItem("Expiry Date", expiryEntry),
			widget.NewFormItem("Usage Limit", usageEntry),
			widget.NewFormItem("Preferred Zone", zoneEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			mass, _ := strconv.ParseFloat(massEntry.Text, 64)
			prio, _ := strconv.Atoi(priorityEntry.Text)
			if w <= 0 || d <= 0 || h <= 0 {
				dialog.ShowError(fmt.Errorf("width, depth, and height must be > 0"), a.window)
				return
			}
			if prio < 0 || prio > 100 {
				dialog.ShowError(fmt.Errorf("priority must be between 0 and 100"), a.window)
				return
			}

			var expiry *time.Time
			if s := strings.TrimSpace(expiryEntry.Text); s != "" {
				t, err := time.Parse("2006-01-02", s)
				if err != nil {
					dialog.ShowError(fmt.Errorf("expiry date must be YYYY-MM-DD"), a.window)
					return
				}
				expiry = &t
			}
			var usage *int
			if s := strings.TrimSpace(usageEntry.Text); s != "" {
				n, err := strconv.Atoi(s)
				if err != nil || n < 0 {
					dialog.ShowError(fmt.Errorf("usage limit must be a non-negative number"), a.window)
					return
				}
				usage = &n
			}

			if idx < 0 {
				a.pushHistory("Add Item")
				item := model.NewItem(nameEntry.Text, w, d, h, mass, prio)
				item.ExpiryDate = expiry
				item.UsageLimit = usage
				item.PreferredZone = zoneEntry.Text
				a.arr.Items = append(a.arr.Items, item)
			} else {
				a.pushHistory("Edit Item")
				a.arr.Items[idx].Name = nameEntry.Text
				a.arr.Items[idx].Width = w
				a.arr.Items[idx].Depth = d
				a.arr.Items[idx].Height = h
				a.arr.Items[idx].Mass = mass
				a.arr.Items[idx].Priority = prio
				a.arr.Items[idx].ExpiryDate = expiry
				a.arr.Items[idx].UsageLimit = usage
				a.arr.Items[idx].PreferredZone = zoneEntry.Text
			}
			a.refreshItemsList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 480))
	form.Show()
}

// ─── Containers Panel ──────────────────────────────────────

func (a *App) buildContainersPanel() fyne.CanvasObject {
	a.containersContainer = container.NewVBox()
	a.refreshContainersList()

	addBtn := widget.NewButtonWithIcon("Add Container", theme.ContentAddIcon(), func() {
		a.showAddContainerDialog()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Stowage Containers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.containersContainer),
	)
}

func (a *App) refreshContainersList() {
	if a.containersContainer == nil {
		return
	}
	a.containersContainer.RemoveAll()

	if len(a.arr.Containers) == 0 {
		a.containersContainer.Add(widget.NewLabel("No containers defined. Click 'Add Container' or import a deck plan."))
		return
	}

	header := container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Zone", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("W x D x H (cm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Items", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.containersContainer.Add(header)
	a.containersContainer.Add(widget.NewSeparator())

	for i := range a.arr.Containers {
		idx := i
		c := a.arr.Containers[idx]
		row := container.NewGridWithColumns(6,
			widget.NewLabel(c.ContainerID),
			widget.NewLabel(c.Zone),
			widget.NewLabel(fmt.Sprintf("%.0f x %.0f x %.0f", c.Width, c.Depth, c.Height)),
			widget.NewLabel(fmt.Sprintf("%d", len(a.arr.PlacementsIn(c.ContainerID)))),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit container", func() {
				a.showEditContainerDialog(idx)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Remove container and its placements", func() {
				a.pushHistory("Remove Container")
				removed := a.arr.Containers[idx].ContainerID
				a.arr.Containers = append(a.arr.Containers[:idx], a.arr.Containers[idx+1:]...)
				kept := a.arr.Placements[:0]
				for _, p := range a.arr.Placements {
					if p.ContainerID != removed {
						kept = append(kept, p)
					}
				}
				a.arr.Placements = kept
				a.refreshAll()
			}),
		)
		a.containersContainer.Add(row)
	}
}

func (a *App) showAddContainerDialog() {
	zoneEntry := widget.NewEntry()
	zoneEntry.SetPlaceHolder("e.g., Crew Quarters")

	widthEntry := widget.NewEntry()
	depthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()

	// Preset dropdown fills the dimension fields.
	presetNames := make([]string, 0, len(a.presets.Containers)+1)
	presetNames = append(presetNames, "Custom")
	for _, p := range a.presets.Containers {
		presetNames = append(presetNames, p.Name)
	}
	presetSelect := widget.NewSelect(presetNames, func(selected string) {
		for _, p := range a.presets.Containers {
			if p.Name == selected {
				widthEntry.SetText(fmt.Sprintf("%g", p.Width))
				depthEntry.SetText(fmt.Sprintf("%g", p.Depth))
				heightEntry.SetText(fmt.Sprintf("%g", p.Height))
				break
			}
		}
	})
	presetSelect.PlaceHolder = "Select a preset size..."

	form := dialog.NewForm("Add Container", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Preset", presetSelect),
			widget.NewFormItem("Zone", zoneEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Depth (cm)", depthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			if w <= 0 || d <= 0 || h <= 0 {
				dialog.ShowError(fmt.Errorf("width, depth, and height must be > 0"), a.window)
				return
			}
			a.pushHistory("Add Container")
			a.arr.Containers = append(a.arr.Containers, model.NewContainer(zoneEntry.Text, w, d, h))
			a.refreshContainersList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 360))
	form.Show()
}

func (a *App) showEditContainerDialog(idx int) {
	c := a.arr.Containers[idx]

	zoneEntry := widget.NewEntry()
	zoneEntry.SetText(c.Zone)

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%g", c.Width))

	depthEntry := widget.NewEntry()
	depthEntry.SetText(fmt.Sprintf("%g", c.Depth))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(fmt.Sprintf("%g", c.Height))

	form := dialog.NewForm("Edit Container", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Zone", zoneEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Depth (cm)", depthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			if w <= 0 || d <= 0 || h <= 0 {
				dialog.ShowError(fmt.Errorf("width, depth, and height must be > 0"), a.window)
				return
			}
			a.pushHistory("Edit Container")
			a.arr.Containers[idx].Zone = zoneEntry.Text
			a.arr.Containers[idx].Width = w
			a.arr.Containers[idx].Depth = d
			a.arr.Containers[idx].Height = h
			a.refreshAll()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// ─── Stowage Panel ─────────────────────────────────────────

func (a *App) buildStowagePanel() fyne.CanvasObject {
	a.stowageContainer = container.NewStack(
		widget.NewLabel("No stowage planned yet. Add items and containers, then run Plan Stowage."),
	)
	planBtn := widget.NewButtonWithIcon("Plan Stowage", theme.MediaPlayIcon(), func() {
		a.runPlan()
	})
	a.refreshStowageView()
	return container.NewBorder(
		container.NewHBox(layout.NewSpacer(), planBtn),
		nil, nil, nil,
		a.stowageContainer,
	)
}

func (a *App) refreshStowageView() {
	if a.stowageContainer == nil {
		return
	}
	a.stowageContainer.RemoveAll()
	a.stowageContainer.Add(widgets.RenderStowageResults(a.arr))
	a.stowageContainer.Refresh()
}

func (a *App) runPlan() {
	if len(a.arr.Items) == 0 {
		dialog.ShowInformation("Nothing to plan", "Add at least one item first.", a.window)
		return
	}
	if len(a.arr.Containers) == 0 {
		dialog.ShowInformation("No containers", "Add at least one container first.", a.window)
		return
	}

	planner := engine.New(a.arr.Settings)
	result := planner.Plan(a.arr.Items, a.arr.Containers, a.arr.Placements)

	if len(result.Placements) == 0 && len(result.Rearrangements) == 0 &&
		len(result.Unplaced) == 0 && len(result.Invalid) == 0 {
		dialog.ShowInformation("Nothing to do", "Every active item already has a position.", a.window)
		return
	}

	a.pushHistory("Plan Stowage")
	a.arr = store.ApplyPlan(a.arr, result)

	for _, r := range result.Rearrangements {
		a.logEvent(logbook.ActionRearrangement, r.ItemID, logbook.Details{
			FromContainer: r.FromContainer,
			ToContainer:   r.ToContainer,
			Reason:        "displaced for higher priority item",
		})
	}
	for _, p := range result.Placements {
		a.logEvent(logbook.ActionPlacement, p.ItemID, logbook.Details{ToContainer: p.ContainerID})
	}

	a.refreshAll()
	a.showPlanSummary(result)
}

func (a *App) showPlanSummary(result model.PlanResult) {
	gen := procedure.New(a.config.OperatorID)
	sheet := gen.GenerateStowage(a.arr, result)

	text := widget.NewLabel(sheet)
	text.TextStyle = fyne.TextStyle{Monospace: true}

	d := dialog.NewCustom("Stowage Procedure", "Close", container.NewVScroll(text), a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

// ─── Find / Retrieve ───────────────────────────────────────

func (a *App) showFindItemDialog() {
	queryEntry := widget.NewEntry()
	queryEntry.SetPlaceHolder("Item id or name")

	form := dialog.NewForm("Find Item", "Search", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Item", queryEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			q := strings.TrimSpace(queryEntry.Text)
			if q == "" {
				return
			}
			res := search.Find(a.arr, search.Query{ItemID: q, Name: q})
			if !res.Found {
				dialog.ShowInformation("Not Found",
					fmt.Sprintf("No active item matches %q.", q), a.window)
				return
			}
			a.showRetrievalDialog(res)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 160))
	form.Show()
}

func (a *App) showRetrievalDialog(res search.Result) {
	if (res.Placement == model.Placement{}) {
		dialog.ShowInformation("Not Stowed",
			fmt.Sprintf("%s (%s) is known but has no stowage position.", res.Item.Name, res.Item.ItemID),
			a.window)
		return
	}

	gen := procedure.New(a.config.OperatorID)
	sheet := gen.GenerateRetrieval(a.arr, res.Steps)
	text := widget.NewLabel(sheet)
	text.TextStyle = fyne.TextStyle{Monospace: true}

	content := container.NewVBox()
	if cont, ok := a.arr.ContainerByID(res.Placement.ContainerID); ok {
		preview := widgets.RenderRetrievalPreview(cont,
			a.arr.PlacementsIn(cont.ContainerID), res.Item.ItemID, res.Steps)
		content.Add(preview)
	}
	content.Add(container.NewVScroll(text))

	d := dialog.NewCustomConfirm("Retrieval Plan", "Retrieve Now", "Close", content,
		func(ok bool) {
			if !ok {
				return
			}
			a.retrieveItem(res.Item.ItemID)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(640, 640))
	d.Show()
}

func (a *App) retrieveItem(itemID string) {
	a.pushHistory("Retrieve Item")
	updated, it, err := search.Retrieve(a.arr, itemID)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.arr = updated
	a.logEvent(logbook.ActionRetrieval, itemID, logbook.Details{})

	msg := fmt.Sprintf("%s retrieved.", it.Name)
	if it.UsageLimit != nil {
		msg += fmt.Sprintf(" %d uses remaining.", it.RemainingUses())
	}
	if it.Status == model.StatusWasteDepleted {
		msg += " The item is now depleted and flagged as waste."
	}
	dialog.ShowInformation("Retrieved", msg, a.window)
	a.refreshAll()
}

// showPlaceItemDialog stows one item by hand at an exact position, for the
// cases where the crew already moved something and the plan must catch up.
func (a *App) showPlaceItemDialog() {
	if len(a.arr.Items) == 0 || len(a.arr.Containers) == 0 {
		dialog.ShowInformation("Nothing to Place", "Add items and containers first.", a.window)
		return
	}

	itemEntry := widget.NewEntry()
	itemEntry.SetPlaceHolder("Item id")

	containerNames := make([]string, len(a.arr.Containers))
	for i, c := range a.arr.Containers {
		containerNames[i] = c.ContainerID
	}
	containerSelect := widget.NewSelect(containerNames, nil)
	containerSelect.SetSelected(containerNames[0])

	wEntry := widget.NewEntry()
	wEntry.SetText("0")
	dEntry := widget.NewEntry()
	dEntry.SetText("0")
	hEntry := widget.NewEntry()
	hEntry.SetText("0")

	form := dialog.NewForm("Place Item Manually", "Place", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Item ID", itemEntry),
			widget.NewFormItem("Container", containerSelect),
			widget.NewFormItem("Width offset (cm)", wEntry),
			widget.NewFormItem("Depth offset (cm)", dEntry),
			widget.NewFormItem("Height offset (cm)", hEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			itemID := strings.TrimSpace(itemEntry.Text)
			it, found := a.arr.ItemByID(itemID)
			if !found {
				dialog.ShowError(fmt.Errorf("unknown item %s", itemID), a.window)
				return
			}
			w, _ := strconv.ParseFloat(wEntry.Text, 64)
			d, _ := strconv.ParseFloat(dEntry.Text, 64)
			h, _ := strconv.ParseFloat(hEntry.Text, 64)
			origin := model.Coordinates{Width: w, Depth: d, Height: h}
			box := model.NewBox(origin, it.Width, it.Depth, it.Height)

			updated, err := search.PlaceItem(a.arr, itemID, containerSelect.Selected, box)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.pushHistory("Place Item")
			a.arr = updated
			a.logEvent(logbook.ActionUpdateLocation, itemID, logbook.Details{
				ToContainer: containerSelect.Selected,
				Reason:      "manual placement",
			})
			a.refreshAll()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 320))
	form.Show()
}

// ─── Waste Panel ───────────────────────────────────────────

func (a *App) buildWastePanel() fyne.CanvasObject {
	a.wasteContainer = container.NewVBox()
	a.refreshWasteList()

	planBtn := widget.NewButtonWithIcon("Plan Waste Return", theme.MailSendIcon(), func() {
		a.showWasteReturnDialog()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Waste Items", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			planBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.wasteContainer),
	)
}

func (a *App) refreshWasteList() {
	if a.wasteContainer == nil {
		return
	}
	a.wasteContainer.RemoveAll()

	updated, wasteItems := waste.Identify(a.arr, a.simDate)
	a.arr = updated
	if len(wasteItems) == 0 {
		a.wasteContainer.Add(widget.NewLabel("No expired or depleted items."))
		return
	}

	header := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Reason", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Mass (kg)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Location", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	a.wasteContainer.Add(header)
	a.wasteContainer.Add(widget.NewSeparator())

	for _, w := range wasteItems {
		location := "unstowed"
		if w.ContainerID != "" {
			location = w.ContainerID
		}
		row := container.NewGridWithColumns(5,
			widget.NewLabel(w.ItemID),
			widget.NewLabel(w.Name),
			widget.NewLabel(w.Reason),
			widget.NewLabel(fmt.Sprintf("%.1f", w.Mass)),
			widget.NewLabel(location),
		)
		a.wasteContainer.Add(row)
	}
}

func (a *App) showWasteReturnDialog() {
	if len(a.arr.Containers) == 0 {
		dialog.ShowInformation("No containers", "Add the undocking container first.", a.window)
		return
	}

	ids := make([]string, len(a.arr.Containers))
	for i, c := range a.arr.Containers {
		ids[i] = c.ContainerID
	}
	containerSelect := widget.NewSelect(ids, nil)
	containerSelect.SetSelected(ids[0])

	dateEntry := widget.NewEntry()
	dateEntry.SetText(a.simDate.AddDate(0, 0, 7).Format("2006-01-02"))

	massEntry := widget.NewEntry()
	massEntry.SetPlaceHolder("0 = unlimited")
	massEntry.SetText("0")

	form := dialog.NewForm("Plan Waste Return", "Plan", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Undocking Container", containerSelect),
			widget.NewFormItem("Undocking Date", dateEntry),
			widget.NewFormItem("Max Return Mass (kg)", massEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			date, err := time.Parse("2006-01-02", strings.TrimSpace(dateEntry.Text))
			if err != nil {
				dialog.ShowError(fmt.Errorf("undocking date must be YYYY-MM-DD"), a.window)
				return
			}
			maxMass, _ := strconv.ParseFloat(massEntry.Text, 64)

			plan, err := waste.PlanReturn(a.arr, containerSelect.Selected, date, maxMass, a.arr.Settings)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.showWasteReturnPlan(plan)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 260))
	form.Show()
}

func (a *App) showWasteReturnPlan(plan waste.ReturnPlan) {
	gen := procedure.New(a.config.OperatorID)
	sheet := gen.GenerateWasteReturn(a.arr, plan)
	text := widget.NewLabel(sheet)
	text.TextStyle = fyne.TextStyle{Monospace: true}

	d := dialog.NewCustomConfirm("Waste Return Plan", "Load Container", "Close",
		container.NewVScroll(text),
		func(ok bool) {
			if !ok {
				return
			}
			a.pushHistory("Load Waste Return")
			a.arr = waste.ApplyReturnPlan(a.arr, plan)
			for _, s := range plan.Steps {
				a.logEvent(logbook.ActionRearrangement, s.ItemID, logbook.Details{
					FromContainer: s.FromContainer,
					ToContainer:   s.ToContainer,
					Reason:        "staged for waste return",
				})
			}
			a.refreshAll()
			a.confirmUndocking(plan.Manifest.UndockingContainer)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(700, 550))
	d.Show()
}

func (a *App) confirmUndocking(containerID string) {
	dialog.ShowConfirm("Complete Undocking",
		fmt.Sprintf("Mark container %s as departed?\n\nEverything inside is disposed and its space is freed.", containerID),
		func(ok bool) {
			if !ok {
				return
			}
			a.pushHistory("Complete Undocking")
			updated, count := waste.CompleteUndocking(a.arr, containerID)
			a.arr = updated
			a.logEvent(logbook.ActionDisposal, "", logbook.Details{
				FromContainer: containerID,
				Reason:        fmt.Sprintf("%d items returned for disposal", count),
			})
			a.refreshAll()
			dialog.ShowInformation("Undocking Complete",
				fmt.Sprintf("%d items disposed with container %s.", count, containerID), a.window)
		},
		a.window,
	)
}

// ─── Simulation ────────────────────────────────────────────

func (a *App) showSimulationDialog() {
	daysEntry := widget.NewEntry()
	daysEntry.SetText("1")

	usedEntry := widget.NewEntry()
	usedEntry.SetPlaceHolder("Item ids or names, comma separated")

	form := dialog.NewForm("Simulate Days", "Run", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Days", daysEntry),
			widget.NewFormItem("Items Used Per Day", usedEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			days, err := strconv.Atoi(daysEntry.Text)
			if err != nil || days <= 0 {
				dialog.ShowError(fmt.Errorf("days must be a positive number"), a.window)
				return
			}

			var perDay []simulation.ItemRef
			for _, tok := range strings.Split(usedEntry.Text, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				if _, ok := a.arr.ItemByID(tok); ok {
					perDay = append(perDay, simulation.ItemRef{ItemID: tok})
				} else {
					perDay = append(perDay, simulation.ItemRef{Name: tok})
				}
			}

			a.pushHistory("Simulate Days")
			updated, result := simulation.Run(a.arr, a.simDate, days, perDay)
			a.arr = updated
			a.simDate = result.NewDate
			a.logEvent(logbook.ActionSimulation, "", logbook.Details{
				Reason: fmt.Sprintf("advanced %d day(s) to %s", days, result.NewDate.Format("2006-01-02")),
			})
			a.refreshAll()
			a.showSimulationSummary(result)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 200))
	form.Show()
}

func (a *App) showSimulationSummary(result simulation.Result) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Current date is now %s.\n\n", result.NewDate.Format("2006-01-02")))
	for _, day := range result.Days {
		b.WriteString(fmt.Sprintf("%s:\n", day.Date.Format("2006-01-02")))
		for _, u := range day.Used {
			b.WriteString(fmt.Sprintf("  used %s", u.Name))
			if u.RemainingUses >= 0 {
				b.WriteString(fmt.Sprintf(" (%d uses left)", u.RemainingUses))
			}
			b.WriteString("\n")
		}
		for _, e := range day.Expired {
			b.WriteString(fmt.Sprintf("  EXPIRED %s\n", e.Name))
		}
		for _, d := range day.Depleted {
			b.WriteString(fmt.Sprintf("  DEPLETED %s\n", d.Name))
		}
		if len(day.Used) == 0 && len(day.Expired) == 0 && len(day.Depleted) == 0 {
			b.WriteString("  no changes\n")
		}
	}

	text := widget.NewLabel(b.String())
	text.TextStyle = fyne.TextStyle{Monospace: true}
	d := dialog.NewCustom("Simulation Result", "Close", container.NewVScroll(text), a.window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

// ─── State Persistence ─────────────────────────────────────

// saveState commits the working copy through the store so the file on disk
// always reflects one consistent arrangement.
func (a *App) saveState(path string) {
	a.st.Replace(a.arr)
	var err error
	if path == a.st.Path() {
		err = a.st.Save()
	} else {
		err = a.st.SaveAs(path)
	}
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.config.LastStatePath = path
	a.config.AddRecentFile(path)
	a.saveConfig()
}

func (a *App) saveStateAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		a.saveState(writer.URI().Path())
	}, a.window)
	d.SetFileName(a.arr.Name + ".json")
	d.Show()
}

func (a *App) openState() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		st, err := store.Open(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.pushHistory("Open Arrangement")
		a.st = st
		a.arr = st.Snapshot()
		a.config.LastStatePath = path
		a.config.AddRecentFile(path)
		a.saveConfig()
		a.refreshAll()
	}, a.window)
	d.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importFile(importFn func(string) importer.ImportResult) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importFn(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) importDXF() {
	zoneEntry := widget.NewEntry()
	zoneEntry.SetPlaceHolder("Zone for the imported containers")

	depthEntry := widget.NewEntry()
	depthEntry.SetPlaceHolder("Container depth in cm")
	depthEntry.SetText("85")

	form := dialog.NewForm("Import Deck Plan", "Choose File", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Zone", zoneEntry),
			widget.NewFormItem("Depth (cm)", depthEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			depth, _ := strconv.ParseFloat(depthEntry.Text, 64)
			if depth <= 0 {
				dialog.ShowError(fmt.Errorf("depth must be > 0"), a.window)
				return
			}
			zone := zoneEntry.Text

			dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()
				result := importer.ImportContainersDXF(reader.URI().Path(), zone, depth)
				a.handleImportResult(result)
			}, a.window)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 200))
	form.Show()
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	if len(result.Warnings) > 0 {
		fmt.Printf("Import warnings: %v\n", result.Warnings)
	}

	if len(result.Items) == 0 && len(result.Containers) == 0 {
		return
	}

	a.pushHistory("Import")
	if len(result.Items) > 0 {
		a.arr.Items = append(a.arr.Items, result.Items...)
		for _, it := range result.Items {
			a.logEvent(logbook.ActionImport, it.ItemID, logbook.Details{})
		}
	}
	a.arr.Containers = append(a.arr.Containers, result.Containers...)
	a.refreshAll()

	msg := fmt.Sprintf("Imported %d items and %d containers.", len(result.Items), len(result.Containers))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) exportFile(defaultName string, exportFn func(string, model.Arrangement) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := exportFn(path, a.arr); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			a.logEvent(logbook.ActionExport, "", logbook.Details{
				Reason: fmt.Sprintf("exported %s", filepath.Base(path)),
			})
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}
