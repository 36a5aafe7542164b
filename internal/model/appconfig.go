package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Engine defaults applied to every request that leaves them unset
	Workers        int `json:"workers" yaml:"workers"`
	GridSize       int `json:"grid_size" yaml:"grid_size"`
	IndexNodeSize  int `json:"index_node_size" yaml:"index_node_size"`
	IndexCacheSize int `json:"index_cache_size" yaml:"index_cache_size"` // Cached spatial indexes, 0 = no cache

	// Default sheet used when a request omits one
	DefaultSheetWidth  float64 `json:"default_sheet_width" yaml:"default_sheet_width"`
	DefaultSheetHeight float64 `json:"default_sheet_height" yaml:"default_sheet_height"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"`   // "debug", "info", "warn", "error"
	LogFormat string `json:"log_format" yaml:"log_format"` // "json" or "console"

	RecentRequests []string `json:"recent_requests" yaml:"recent_requests"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		Workers:            defaults.Workers,
		GridSize:           defaults.GridSize,
		IndexNodeSize:      defaults.IndexNodeSize,
		IndexCacheSize:     8,
		DefaultSheetWidth:  2000,
		DefaultSheetHeight: 1000,
		LogLevel:           "info",
		LogFormat:          "console",
		RecentRequests:     []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Workers = c.Workers
	if c.GridSize > 0 {
		s.GridSize = c.GridSize
	}
	if c.IndexNodeSize > 1 {
		s.IndexNodeSize = c.IndexNodeSize
	}
}

// AddRecentRequest records a request path at the front of the recent list,
// dropping duplicates and keeping at most max entries.
func (c *AppConfig) AddRecentRequest(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentRequests {
		if p != path && len(recent) < max {
			recent = append(recent, p)
		}
	}
	c.RecentRequests = recent
}
