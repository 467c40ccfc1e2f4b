package model

// AppConfig holds application-wide preferences and default search settings.
type AppConfig struct {
	// Default search parameters applied to new runs
	DefaultMode               string  `json:"default_mode"`
	DefaultMinImages          int     `json:"default_min_images"`
	DefaultMaxImages          int     `json:"default_max_images"`
	DefaultNumTrials          int     `json:"default_num_trials"`
	DefaultPopulationSize     int     `json:"default_population_size"`
	DefaultGenerations        int     `json:"default_generations"`
	DefaultMutationRate       float64 `json:"default_mutation_rate"`
	DefaultCrossoverRate      float64 `json:"default_crossover_rate"`
	DefaultPadding            int     `json:"default_padding"`
	DefaultDesiredAspectRatio float64 `json:"default_desired_aspect_ratio"`

	// Application preferences
	DefaultOutputFormat string   `json:"default_output_format"` // "jpg" or "png"
	RecentDirectories   []string `json:"recent_directories"`
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMode:               defaults.Mode.String(),
		DefaultMinImages:          defaults.MinImages,
		DefaultMaxImages:          defaults.MaxImages,
		DefaultNumTrials:          defaults.NumTrials,
		DefaultPopulationSize:     defaults.PopulationSize,
		DefaultGenerations:        defaults.Generations,
		DefaultMutationRate:       defaults.MutationRate,
		DefaultCrossoverRate:      defaults.CrossoverRate,
		DefaultPadding:            defaults.Padding,
		DefaultDesiredAspectRatio: defaults.DesiredAspectRatio,
		DefaultOutputFormat:       "jpg",
		RecentDirectories:         []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// SearchSettings struct. Used when starting a run so it inherits the user's
// saved defaults before CLI flags are applied on top.
func (c AppConfig) ApplyToSettings(s *SearchSettings) {
	if mode, err := ParseSearchMode(c.DefaultMode); err == nil {
		s.Mode = mode
	}
	s.MinImages = c.DefaultMinImages
	s.MaxImages = c.DefaultMaxImages
	s.NumTrials = c.DefaultNumTrials
	s.PopulationSize = c.DefaultPopulationSize
	s.Generations = c.DefaultGenerations
	s.MutationRate = c.DefaultMutationRate
	s.CrossoverRate = c.DefaultCrossoverRate
	s.Padding = c.DefaultPadding
	s.DesiredAspectRatio = c.DefaultDesiredAspectRatio
}
