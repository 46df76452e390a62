package entropy

// Config carries the tunable search parameters. The presets trade
// simulation volume and playout quality for strength; temperature
// adds deliberate noise to the final move choice at lower levels.
type Config struct {
	MaxSimulations        int
	PlayoutHeuristicProb  float64
	SelectionTemperature  float64
	RaveConstant          float64
	ExplorationConstant   float64
	ExpansionSampleLimit  int
	PlayoutSampleLimit    int
}

// ConfigForDifficulty maps a numeric difficulty code to its preset.
// Unknown codes fall through to the strongest preset.
func ConfigForDifficulty(level int) Config {
	cfg := Config{
		RaveConstant:         300.0,
		ExplorationConstant:  1.0,
		ExpansionSampleLimit: 15,
		PlayoutSampleLimit:   5,
	}
	switch level {
	case 3:
		cfg.MaxSimulations = 30_000
		cfg.PlayoutHeuristicProb = 0.05
		cfg.SelectionTemperature = 0.5
	case 5:
		cfg.MaxSimulations = 80_000
		cfg.PlayoutHeuristicProb = 0.15
		cfg.SelectionTemperature = 0.1
	default:
		cfg.MaxSimulations = 1_000_000
		cfg.PlayoutHeuristicProb = 0.30
		cfg.SelectionTemperature = 0.0
	}
	return cfg
}
