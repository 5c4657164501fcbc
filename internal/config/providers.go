package config

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderGoogle = "google"
)

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOllama:
		return "mistral-small3.2:24b"
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderGemini:
		return "gemini-1.5-flash"
	default:
		return ""
	}
}

func isTextProvider(name string) bool {
	switch name {
	case ProviderOllama, ProviderOpenAI, ProviderGemini:
		return true
	default:
		return false
	}
}
