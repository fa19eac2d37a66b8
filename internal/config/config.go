// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() returning defaults; Load() layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Rubric names the built-in code legend: standard or extended.
	Rubric string `koanf:"rubric"`

	// LegendFile optionally points at a YAML legend that replaces the
	// built-in rubric wholesale.
	LegendFile string `koanf:"legend_file"`

	// OutDir is where all outputs are written.
	OutDir string `koanf:"out_dir"`

	// OutFile is the detailed results CSV name inside OutDir.
	OutFile string `koanf:"out_file"`

	// GroupBy selects the summary grouping key: player or week.
	GroupBy string `koanf:"group_by"`

	// Letter-grade thresholds; a score at or above a threshold earns
	// that letter.
	ThresholdA float64 `koanf:"threshold_a"`
	ThresholdB float64 `koanf:"threshold_b"`
	ThresholdC float64 `koanf:"threshold_c"`
	ThresholdD float64 `koanf:"threshold_d"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Rubric:     "standard",
		OutDir:     "out",
		OutFile:    "results.csv",
		GroupBy:    "player",
		ThresholdA: 90,
		ThresholdB: 80,
		ThresholdC: 70,
		ThresholdD: 60,
	}
}
