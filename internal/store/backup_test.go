package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StowPlan/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.OperatorID = "ops-12"
	arr := sampleArrangement()

	if err := ExportAllData(path, cfg, arr); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version == "" {
		t.Error("expected a version in the backup")
	}
	if backup.Config.OperatorID != "ops-12" {
		t.Errorf("config did not round-trip: %+v", backup.Config)
	}
	if len(backup.Arrangement.Items) != 1 {
		t.Errorf("arrangement did not round-trip: %+v", backup.Arrangement)
	}
}

func TestImportAllDataRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for backup without version")
	}
}
