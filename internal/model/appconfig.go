package model

// AppConfig holds user-level application preferences persisted between
// sessions, separate from the arrangement state itself.
type AppConfig struct {
	RecentFiles   []string     `json:"recent_files"`
	LastStatePath string       `json:"last_state_path"`
	OperatorID    string       `json:"operator_id"` // recorded in logbook entries
	Settings      StowSettings `json:"settings"`
}

// DefaultAppConfig returns the configuration used on first launch.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		RecentFiles: []string{},
		Settings:    DefaultSettings(),
	}
}

// maxRecentFiles caps the recent-file list.
const maxRecentFiles = 8

// AddRecentFile inserts a path at the head of the recent list, removing
// duplicates and trimming to the cap.
func (c *AppConfig) AddRecentFile(path string) {
	out := []string{path}
	for _, p := range c.RecentFiles {
		if p != path && len(out) < maxRecentFiles {
			out = append(out, p)
		}
	}
	c.RecentFiles = out
}
