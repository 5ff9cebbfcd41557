package model

import "github.com/google/uuid"

// ContainerPreset is a reusable container definition for the standard cargo
// transfer bag (CTB) family and rack inserts, so operators do not retype
// dimensions for every new container.
type ContainerPreset struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// NewContainerPreset creates a preset with a generated ID.
func NewContainerPreset(name string, w, d, h float64) ContainerPreset {
	return ContainerPreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  w,
		Depth:  d,
		Height: h,
	}
}

// ToContainer instantiates a container in the given zone from this preset.
func (cp ContainerPreset) ToContainer(zone string) Container {
	c := NewContainer(zone, cp.Width, cp.Depth, cp.Height)
	return c
}

// PresetLibrary holds the saved container presets.
type PresetLibrary struct {
	Containers []ContainerPreset `json:"containers"`
}

// DefaultPresetLibrary returns the built-in presets. Dimensions are interior
// envelopes in centimeters (CTB sizes per the cargo integration handbook).
func DefaultPresetLibrary() PresetLibrary {
	return PresetLibrary{
		Containers: []ContainerPreset{
			NewContainerPreset("CTB Half", 23.5, 42.5, 24.1),
			NewContainerPreset("CTB Single", 50.2, 42.5, 24.1),
			NewContainerPreset("CTB Double", 50.2, 42.5, 50.0),
			NewContainerPreset("CTB Triple", 74.3, 52.7, 50.0),
			NewContainerPreset("M-01 Rack Insert", 105.0, 85.0, 200.0),
		},
	}
}
