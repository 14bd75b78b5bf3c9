package changelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"telegram-dispatch/internal/config"
)

const summarizeInstruction = "You write release notes. Given a list of commit subjects, produce a short " +
	"changelog grouped by theme, in plain text, suitable for a Telegram message. " +
	"Do not invent changes that are not in the list."

// geminiSummarizer summarizes commit lists with the Gemini API.
type geminiSummarizer struct {
	client     *genai.Client
	log        *slog.Logger
	config     *genai.GenerateContentConfig
	modelName  string
	maxRetries int
	retryDelay time.Duration
}

// NewGeminiSummarizer creates a Summarizer backed by the Gemini API.
// It returns (nil, nil) when no API key is configured, which disables
// summarization without being an error.
func NewGeminiSummarizer(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Summarizer, error) {
	if cfg.APIKey == "" {
		log.Info("No Gemini API key configured, changelog summarization disabled")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	contentConfig := &genai.GenerateContentConfig{
		Temperature: &cfg.Temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: summarizeInstruction}},
		},
	}

	logger := log.With("component", "gemini_summarizer")
	logger.Info("Gemini summarizer initialized", "model", cfg.Model)
	return &geminiSummarizer{
		client:     client,
		log:        logger,
		config:     contentConfig,
		modelName:  cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// Summarize produces a short changelog from the rendered commit list.
func (s *geminiSummarizer) Summarize(ctx context.Context, notes string) (string, error) {
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: notes}}},
	}

	resp, err := s.generateWithRetries(ctx, contents)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty summary")
	}
	return text, nil
}

// generateWithRetries calls the Gemini API, retrying on transient 500/503
// responses up to the configured limit.
func (s *geminiSummarizer) generateWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= s.maxRetries; i++ {
		resp, err = s.client.Models.GenerateContent(ctx, s.modelName, contents, s.config)
		if err == nil {
			return resp, nil
		}

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < s.maxRetries {
				s.log.WarnContext(ctx, "Gemini API call failed, retrying",
					"attempt", i+1, "max_retries", s.maxRetries, "code", apiErr.Code, "delay", s.retryDelay)
				time.Sleep(s.retryDelay)
				continue
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", s.maxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return nil, err
}
