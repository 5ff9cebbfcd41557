package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/StowPlan/internal/model"
)

// BackupData is the top-level structure for import/export of all application
// data: the user configuration plus the full arrangement.
type BackupData struct {
	Version     string            `json:"version"`
	CreatedAt   string            `json:"created_at"`
	Config      model.AppConfig   `json:"config"`
	Arrangement model.Arrangement `json:"arrangement"`
}

// ExportAllData exports the configuration and arrangement to a single JSON
// file at the specified path, for hand-over between workstations.
func ExportAllData(exportPath string, config model.AppConfig, arr model.Arrangement) error {
	backup := BackupData{
		Version:     stateVersion,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:      config,
		Arrangement: arr,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config and state.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure RecentFiles is never nil
	if backup.Config.RecentFiles == nil {
		backup.Config.RecentFiles = []string{}
	}
	return backup, nil
}
