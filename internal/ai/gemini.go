package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// geminiGenerator wraps the Gemini SDK behind the textGenerator surface.
// No timeout or retry is applied here; a hung call stalls only the
// conversation that issued it.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiNormalizer builds a Normalizer backed by the Gemini API.
func NewGeminiNormalizer(ctx context.Context, apiKey, model string, log logger.Logger) (Normalizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	gen := &geminiGenerator{
		client: client,
		model:  client.GenerativeModel(model),
	}
	return newNormalizer(gen, log), nil
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
