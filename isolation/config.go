package isolation

// Config controls search depth and which search features are active.
// The toggles exist so experiments can measure each feature's
// contribution in isolation; production presets enable all of them.
type Config struct {
	Difficulty int
	MaxDepth   int

	UseTT         bool
	UseKillers    bool
	UseHistory    bool
	UseAspiration bool
	UsePVS        bool
	UseNullMove   bool
}

// ConfigForDifficulty maps a difficulty level to its preset. Unknown
// levels get the strongest preset.
func ConfigForDifficulty(level int) Config {
	cfg := Config{
		Difficulty:    level,
		UseTT:         true,
		UseKillers:    true,
		UseHistory:    true,
		UseAspiration: true,
		UsePVS:        true,
		UseNullMove:   true,
	}
	switch level {
	case 3:
		cfg.MaxDepth = 5
	case 5:
		cfg.MaxDepth = 7
	default:
		cfg.Difficulty = 7
		cfg.MaxDepth = 10
	}
	return cfg
}
