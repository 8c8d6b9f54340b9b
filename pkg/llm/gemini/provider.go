package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spark-journal-be/pkg/llm"
)

// GeminiProvider calls the Google generative-language REST API.
type GeminiProvider struct {
	APIKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiProvider{
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	contents := make([]geminiContent, len(history))
	for i, msg := range history {
		role := msg.Role
		// Gemini uses "model" where others use "assistant"
		if role == "assistant" {
			role = "model"
		}
		contents[i] = geminiContent{
			Parts: []geminiPart{{Text: msg.Content}},
			Role:  role,
		}
	}

	payload := geminiRequest{
		Contents: contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1/models/%s:generateContent", model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error: status %d, body: %s", res.StatusCode, string(resBody))
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(geminiRes.Candidates) == 0 || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
