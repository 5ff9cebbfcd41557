package model

// StowSettings holds planner configuration.
type StowSettings struct {
	// GridDivisor controls the coarse search grid: the step along each
	// horizontal axis is container dimension / GridDivisor.
	GridDivisor int `json:"grid_divisor"`
	// MinGridStep is the floor for the grid step, so small containers do
	// not explode the search space resolution.
	MinGridStep float64 `json:"min_grid_step"`
	// HighPriorityThreshold marks items that should be stowed shallow
	// (close to the opening) for quick access.
	HighPriorityThreshold int `json:"high_priority_threshold"`
}

// DefaultSettings returns the planner defaults.
func DefaultSettings() StowSettings {
	return StowSettings{
		GridDivisor:           20,
		MinGridStep:           0.05,
		HighPriorityThreshold: 75,
	}
}

// PrefersShallow reports whether an item of the given priority should be
// placed close to the opening.
func (s StowSettings) PrefersShallow(priority int) bool {
	return priority >= s.HighPriorityThreshold
}

// GridStep returns the search increment for a container dimension.
func (s StowSettings) GridStep(dim float64) float64 {
	divisor := s.GridDivisor
	if divisor <= 0 {
		divisor = DefaultSettings().GridDivisor
	}
	step := dim / float64(divisor)
	if step < s.MinGridStep {
		step = s.MinGridStep
	}
	return step
}
