// Package extractor turns raw bank email text into structured transaction
// candidates using a generative model.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mvaldivia/soltrack/internal/config"

	"google.golang.org/genai"
)

// GeminiExtractor extracts transactions from email text via the Gemini API.
// The API key is read from the GEMINI_API_KEY environment variable by the
// client itself.
type GeminiExtractor struct {
	client *genai.Client
	cfg    config.ExtractorConfig
	logger *slog.Logger
}

func NewGeminiExtractor(ctx context.Context, cfg config.ExtractorConfig, logger *slog.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, cfg: cfg, logger: logger}, nil
}

// Extract sends the email to the model and returns the parsed candidates.
// An empty body yields no candidates without calling the model.
func (e *GeminiExtractor) Extract(ctx context.Context, subject, body string) ([]Candidate, error) {
	if strings.TrimSpace(body) == "" {
		e.logger.Warn("empty email body, skipping extraction")
		return nil, nil
	}

	userMessage := fmt.Sprintf("Subject: %s\n\n%s", subject, body)
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: systemPrompt + "\n" + userMessage}},
		},
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: e.cfg.MaxTokens,
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.cfg.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	return ParseCandidates(raw, e.logger)
}
