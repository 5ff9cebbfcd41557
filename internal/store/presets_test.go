package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StowPlan/internal/model"
)

func TestLoadPresetsCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	lib, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(lib.Containers) == 0 {
		t.Fatal("expected built-in presets")
	}
	// The first load writes the defaults back to disk.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("presets file was not created")
	}
}

func TestImportPresetsSkipsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.json")

	incoming := model.PresetLibrary{Containers: []model.ContainerPreset{
		model.NewContainerPreset("CTB Single", 50.2, 42.5, 24.1),
		model.NewContainerPreset("Soft Stowage Bag", 40, 40, 40),
	}}
	if err := SavePresets(path, incoming); err != nil {
		t.Fatal(err)
	}

	existing := model.DefaultPresetLibrary()
	before := len(existing.Containers)

	merged, err := ImportPresets(path, existing)
	if err != nil {
		t.Fatalf("ImportPresets failed: %v", err)
	}
	if len(merged.Containers) != before+1 {
		t.Errorf("expected %d presets after merge, got %d", before+1, len(merged.Containers))
	}
}
