package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// LLMService is the structured-extraction capability: given a system
// instruction describing a JSON shape and a user message carrying the
// document payload, it returns text believed to contain JSON. No schema
// enforcement happens here; the orchestrator parses defensively.
type LLMService interface {
	GenerateJSON(ctx context.Context, system, user string, maxTokens int32, temperature float32) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(apiKey, modelName string) (LLMService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateJSON implements LLMService.
func (g *geminiService) GenerateJSON(ctx context.Context, system, user string, maxTokens int32, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   maxTokens,
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
