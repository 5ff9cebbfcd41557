// StowPlan — Cargo Stowage Planner
//
// A cross-platform desktop application for planning cargo stowage,
// retrieval, and waste return on crewed spacecraft.
//
// Build:
//   go build -o stowplan ./cmd/stowplan
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o stowplan.exe ./cmd/stowplan
//   GOOS=darwin  GOARCH=amd64 go build -o stowplan-darwin ./cmd/stowplan
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/StowPlan/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.stowplan")
	application.Settings().SetTheme(ui.NewStowPlanTheme())

	window := application.NewWindow("StowPlan — Cargo Stowage Planner")

	appUI := ui.NewApp(window)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.Show()

	application.Run()
}
