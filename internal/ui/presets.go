package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/StowPlan/internal/model"
	"github.com/piwi3910/StowPlan/internal/store"
)

// ─── Container Presets Dialog ──────────────────────────────

func (a *App) showPresetsDialog() {
	presetList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		presetList.RemoveAll()

		if len(a.presets.Containers) == 0 {
			presetList.Add(widget.NewLabel("No container presets defined."))
			return
		}

		header := container.NewGridWithColumns(5,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("W x D x H (cm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Volume (L)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		presetList.Add(header)
		presetList.Add(widget.NewSeparator())

		for i := range a.presets.Containers {
			idx := i
			p := a.presets.Containers[idx]
			row := container.NewGridWithColumns(5,
				widget.NewLabel(p.Name),
				widget.NewLabel(fmt.Sprintf("%.1f x %.1f x %.1f", p.Width, p.Depth, p.Height)),
				widget.NewLabel(fmt.Sprintf("%.1f", p.Width*p.Depth*p.Height/1000.0)),
				newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit preset", func() {
					a.showEditPresetDialog(idx, refreshList)
				}),
				newIconButtonWithTooltip(theme.DeleteIcon(), "Remove preset", func() {
					a.presets.Containers = append(a.presets.Containers[:idx], a.presets.Containers[idx+1:]...)
					a.savePresets()
					refreshList()
				}),
			)
			presetList.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Preset", theme.ContentAddIcon(), func() {
		a.showAddPresetDialog(refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importPresets(refreshList)
	})

	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportPresets()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(presetList),
	)

	d := dialog.NewCustom("Container Presets", "Close", content, a.window)
	d.Resize(fyne.NewSize(620, 480))
	d.Show()
}

func (a *App) showAddPresetDialog(onDone func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Preset name")
	nameEntry.SetText("New Container")

	widthEntry := widget.NewEntry()
	widthEntry.SetText("50.2")

	depthEntry := widget.NewEntry()
	depthEntry.SetText("42.5")

	heightEntry := widget.NewEntry()
	heightEntry.SetText("24.1")

	form := dialog.NewForm("Add Container Preset", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
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

			preset := model.NewContainerPreset(nameEntry.Text, w, d, h)
			a.presets.Containers = append(a.presets.Containers, preset)
			a.savePresets()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

func (a *App) showEditPresetDialog(idx int, onDone func()) {
	p := a.presets.Containers[idx]

	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%g", p.Width))

	depthEntry := widget.NewEntry()
	depthEntry.SetText(fmt.Sprintf("%g", p.Depth))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(fmt.Sprintf("%g", p.Height))

	form := dialog.NewForm("Edit Container Preset", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Depth (cm)", depthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			a.presets.Containers[idx].Name = nameEntry.Text
			a.presets.Containers[idx].Width, _ = strconv.ParseFloat(widthEntry.Text, 64)
			a.presets.Containers[idx].Depth, _ = strconv.ParseFloat(depthEntry.Text, 64)
			a.presets.Containers[idx].Height, _ = strconv.ParseFloat(heightEntry.Text, 64)
			a.savePresets()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importPresets(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := store.ImportPresets(reader.URI().Path(), a.presets)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		a.presets = merged
		a.savePresets()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Library now contains %d container presets.", len(a.presets.Containers)),
			a.window)
	}, a.window)
}

func (a *App) exportPresets() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := store.SavePresets(writer.URI().Path(), a.presets); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Presets exported to %s", writer.URI().Path()),
				a.window)
		}
	}, a.window)
	d.SetFileName("presets.json")
	d.Show()
}

// savePresets persists the current preset library to disk.
func (a *App) savePresets() {
	if err := store.SavePresets(store.DefaultPresetsPath(), a.presets); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), a.window)
	}
}
