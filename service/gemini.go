package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator implements TextGenerator on top of the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator using the default model
func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{
		client: client,
		model:  defaultGeminiModel,
	}
}

// GenerateText sends the prompt to Gemini and returns the concatenated
// text parts of the first candidate
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("calling Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("Gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	if b.Len() == 0 {
		return "", errors.New("Gemini returned no text content")
	}

	return b.String(), nil
}
