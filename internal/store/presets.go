package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/StowPlan/internal/model"
)

// DefaultPresetsPath returns the default file path for the container preset
// library. This is located at ~/.stowplan/presets.json.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultStateDir(), "presets.json")
}

// SavePresets writes the preset library to the specified JSON file.
// It creates parent directories if they do not exist.
func SavePresets(path string, lib model.PresetLibrary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPresets reads the preset library from the specified JSON file.
// If the file does not exist, it returns the built-in library and saves it.
func LoadPresets(path string) (model.PresetLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lib := model.DefaultPresetLibrary()
			if saveErr := SavePresets(path, lib); saveErr != nil {
				return lib, saveErr
			}
			return lib, nil
		}
		return model.PresetLibrary{}, err
	}
	var lib model.PresetLibrary
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.PresetLibrary{}, err
	}
	return lib, nil
}

// ImportPresets imports a preset library from a user-specified JSON file,
// merging it with the existing library. Duplicate names are skipped.
func ImportPresets(path string, existing model.PresetLibrary) (model.PresetLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.PresetLibrary
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	names := make(map[string]bool, len(existing.Containers))
	for _, p := range existing.Containers {
		names[p.Name] = true
	}
	for _, p := range imported.Containers {
		if !names[p.Name] {
			existing.Containers = append(existing.Containers, p)
			names[p.Name] = true
		}
	}
	return existing, nil
}
