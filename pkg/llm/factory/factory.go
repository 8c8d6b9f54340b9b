package factory

import (
	"fmt"

	"spark-journal-be/pkg/llm"
	"spark-journal-be/pkg/llm/gemini"
	"spark-journal-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, geminiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
