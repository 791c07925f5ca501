package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrNoContent = errors.New("no content generated")

type GeminiClient struct {
	client      *genai.Client
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		temperature: 0.7,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate sends a single text prompt to the named model and returns the
// concatenated text parts of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	m := c.client.GenerativeModel(model)
	m.SetTemperature(c.temperature)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoContent
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
