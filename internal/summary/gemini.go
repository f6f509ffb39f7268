package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"budgetreport/internal/retry"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-3-flash-preview"

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("summary: empty response from model")

// generator is the slice of *genai.Models the summarizer needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini summarizes through the Gemini API.
type Gemini struct {
	models generator
	model  string
	retry  retry.Config
	logger *slog.Logger
}

// NewGemini creates a Gemini API client for apiKey.
func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing GOOGLE_GENERATIVE_AI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model, logger), nil
}

func newGemini(models generator, model string, logger *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{models: models, model: model, retry: retry.DefaultGeminiConfig, logger: logger}
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// Summarize implements Summarizer.
func (g *Gemini) Summarize(ctx context.Context, in Input) (string, error) {
	prompt := BuildPrompt(in)
	g.logger.DebugContext(ctx, "Requesting weekly summary", "model", g.model, "prompt_chars", len(prompt))

	return retry.Do(ctx, g.retry, func(ctx context.Context, attempt int) (string, error) {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			g.logger.WarnContext(ctx, "Gemini request failed", "attempt", attempt, "error", err)
			return "", fmt.Errorf("generate content: %w", err)
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", retry.Permanent(ErrEmptyResponse)
		}
		return text, nil
	})
}
