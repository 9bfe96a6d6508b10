package quizgen

// Config controls the behavior of the Generator.
type Config struct {
	// MaxTokens is the token budget for the LLM response. A 40-question
	// quiz needs considerably more than a summary.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}
