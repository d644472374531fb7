package insights

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"
)

// GeminiGenerator calls the Generative Language API with an API key.
type GeminiGenerator struct {
	service *genai.Service
	model   string
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator bound to one model, for example
// "models/gemini-1.5-pro".
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key")
	}

	service, err := genai.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}

	return &GeminiGenerator{service: service, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := &genai.GenerateContentRequest{
		Contents: []*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{{Text: prompt}},
			},
		},
	}

	resp, err := g.service.Models.GenerateContent(g.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
