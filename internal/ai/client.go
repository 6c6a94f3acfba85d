package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash-lite"

const defaultTemperature = float32(0.7)

// Explainer produces natural-language explanations of HTTP traffic.
type Explainer interface {
	Explain(ctx context.Context, args ExplainArgs) (string, error)
}

// GeminiExplainer implements Explainer against the Gemini API.
type GeminiExplainer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiExplainer creates an explainer backed by the Gemini API.
func NewGeminiExplainer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiExplainer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiExplainer{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Explain sends the rendered prompt to the model and returns its text reply.
func (e *GeminiExplainer) Explain(ctx context.Context, args ExplainArgs) (string, error) {
	if args.Request == nil {
		return "", fmt.Errorf("explain: request is required")
	}

	prompt := buildPrompt(args)

	e.logger.Debug("requesting explanation",
		slog.String("model", e.model),
		slog.String("mode", string(args.Mode)),
		slog.Int("prompt_chars", len(prompt)))

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(defaultTemperature),
		SystemInstruction: genai.NewContentFromText(
			systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("model returned an empty explanation")
	}

	e.logger.Debug("received explanation", slog.Int("chars", len(text)))
	return text, nil
}
