// Package store persists the stowage state: the arrangement file, user
// configuration, container presets, and full-data backups. Everything is
// plain JSON under ~/.stowplan/ or at user-chosen paths.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/StowPlan/internal/model"
)

// stateVersion is written into every state file for forward compatibility.
const stateVersion = "1.0.0"

// StateFile is the on-disk envelope around an arrangement.
type StateFile struct {
	Version     string            `json:"version"`
	SavedAt     time.Time         `json:"saved_at"`
	Arrangement model.Arrangement `json:"arrangement"`
}

// DefaultStateDir returns the default directory for application data.
// On all platforms this is ~/.stowplan/
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stowplan")
}

// DefaultStatePath returns the default path for the arrangement state file.
func DefaultStatePath() string {
	return filepath.Join(DefaultStateDir(), "state.json")
}

// SaveState writes the arrangement to the given path. The write goes through
// a temp file plus rename so a crash mid-write never leaves a torn state
// file behind. Parent directories are created as needed.
func SaveState(path string, arr model.Arrangement) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	envelope := StateFile{
		Version:     stateVersion,
		SavedAt:     time.Now().UTC(),
		Arrangement: arr,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// LoadState reads the arrangement from the given path.
// If the file does not exist, it returns an empty arrangement with default
// settings and no error, so a fresh install starts cleanly.
func LoadState(path string) (model.Arrangement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewArrangement(), nil
		}
		return model.Arrangement{}, fmt.Errorf("failed to read state file: %w", err)
	}
	var envelope StateFile
	if err := json.Unmarshal(data, &envelope); err != nil {
		return model.Arrangement{}, fmt.Errorf("failed to parse state file: %w", err)
	}
	if envelope.Version == "" {
		return model.Arrangement{}, fmt.Errorf("invalid state file: missing version field")
	}
	arr := envelope.Arrangement
	// Ensure the slices are never nil
	if arr.Items == nil {
		arr.Items = []model.Item{}
	}
	if arr.Containers == nil {
		arr.Containers = []model.Container{}
	}
	if arr.Placements == nil {
		arr.Placements = []model.Placement{}
	}
	return arr, nil
}

// ApplyPlan folds a plan result into the arrangement's placements: every
// planned placement replaces the item's previous one or is appended. Items
// the planner left alone keep their positions.
func ApplyPlan(arr model.Arrangement, result model.PlanResult) model.Arrangement {
	index := make(map[string]int, len(arr.Placements))
	for i, p := range arr.Placements {
		index[p.ItemID] = i
	}
	for _, pp := range result.Placements {
		p := model.Placement{
			ItemID:      pp.ItemID,
			ContainerID: pp.ContainerID,
			Box:         pp.Box,
		}
		if i, ok := index[pp.ItemID]; ok {
			arr.Placements[i] = p
			continue
		}
		index[pp.ItemID] = len(arr.Placements)
		arr.Placements = append(arr.Placements, p)
	}
	return arr
}

// RemovePlacement drops an item's placement from the arrangement, if any.
func RemovePlacement(arr model.Arrangement, itemID string) model.Arrangement {
	for i, p := range arr.Placements {
		if p.ItemID == itemID {
			arr.Placements = append(arr.Placements[:i], arr.Placements[i+1:]...)
			return arr
		}
	}
	return arr
}
