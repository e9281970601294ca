package lessons

// Config holds generation settings.
type Config struct {
	// MaxTokens caps lesson output. Zero leaves it to the provider.
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	// ThinkingBudget is passed to providers that support extended reasoning.
	ThinkingBudget       int `mapstructure:"thinking_budget"`
	LookupThinkingBudget int `mapstructure:"lookup_thinking_budget"`
	LookupMaxTokens      int `mapstructure:"lookup_max_tokens"`
	RecapMaxTokens       int `mapstructure:"recap_max_tokens"`
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:            0,
		Temperature:          0.7,
		ThinkingBudget:       32768,
		LookupThinkingBudget: 4000,
		LookupMaxTokens:      0,
		RecapMaxTokens:       768,
	}
}
