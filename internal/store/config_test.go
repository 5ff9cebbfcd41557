package store

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/StowPlan/internal/model"
)

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.OperatorID = "ops-77"
	cfg.Settings.HighPriorityThreshold = 80
	cfg.AddRecentFile("/tmp/increment-72.json")

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.OperatorID != "ops-77" {
		t.Errorf("expected OperatorID=ops-77, got %s", loaded.OperatorID)
	}
	if loaded.Settings.HighPriorityThreshold != 80 {
		t.Errorf("expected threshold=80, got %d", loaded.Settings.HighPriorityThreshold)
	}
	if len(loaded.RecentFiles) != 1 {
		t.Errorf("expected 1 recent file, got %d", len(loaded.RecentFiles))
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.RecentFiles == nil {
		t.Error("RecentFiles should not be nil")
	}
	if cfg.Settings.GridDivisor != model.DefaultSettings().GridDivisor {
		t.Error("expected default settings")
	}
}
