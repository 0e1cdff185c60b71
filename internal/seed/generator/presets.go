package generator

// Preset defines a named configuration for sample content generation.
type Preset string

const (
	// PresetDemo creates one easy puzzle per game type and fills
	// today's daily board.
	PresetDemo Preset = "demo"

	// PresetVariety creates one puzzle per game type per difficulty.
	PresetVariety Preset = "variety"

	// PresetDailyWeek creates enough puzzles to rotate a full week of
	// daily boards without repeats.
	PresetDailyWeek Preset = "daily-week"

	// PresetStressTest creates a large catalog for load testing.
	PresetStressTest Preset = "stress-test"
)

// PresetConfig holds the generation parameters for a preset.
type PresetConfig struct {
	// Puzzles per game type
	PerType int

	// Whether to cycle through all difficulties or stay on easy
	VaryDifficulty bool

	// Number of consecutive daily boards to assign, starting from the
	// run's start date (0 = no assignments)
	DailyDays int
}

// GetPresetConfig returns the configuration for a preset.
func GetPresetConfig(preset Preset) PresetConfig {
	switch preset {
	case PresetDemo:
		return PresetConfig{
			PerType:        1,
			VaryDifficulty: false,
			DailyDays:      1,
		}

	case PresetVariety:
		return PresetConfig{
			PerType:        4,
			VaryDifficulty: true,
			DailyDays:      1,
		}

	case PresetDailyWeek:
		return PresetConfig{
			PerType:        8,
			VaryDifficulty: true,
			DailyDays:      7,
		}

	case PresetStressTest:
		return PresetConfig{
			PerType:        25,
			VaryDifficulty: true,
			DailyDays:      0,
		}

	default:
		return GetPresetConfig(PresetDemo)
	}
}

// Presets returns every known preset in documentation order.
func Presets() []Preset {
	return []Preset{PresetDemo, PresetVariety, PresetDailyWeek, PresetStressTest}
}
