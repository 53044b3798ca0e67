/*
Package geminiservice produces the free-text health narrative for a reading.
It owns the prompt, the Gemini client, the response cache and the conversion
of the model's plain text into display markdown.
*/
package geminiservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Vitalog/internal/apperror"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const requestTimeout = 30 * time.Second

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no content found in Gemini response")

// Narrator turns a reading and profile into free-form advisory text.
type Narrator interface {
	GenerateNarrative(ctx context.Context, pc PromptContext) (string, error)
}

// Generator sends a finished prompt to a model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiNarrator calls the Gemini API once per request. Failures are
// returned to the caller as external API errors; there are no retries.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

func NewGeminiNarrator(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("server is not configured for AI analysis: GEMINI_API_KEY is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

func (g *GeminiNarrator) Close() error {
	return g.client.Close()
}

func (g *GeminiNarrator) GenerateNarrative(ctx context.Context, pc PromptContext) (string, error) {
	return g.Generate(ctx, BuildNarrativePrompt(pc))
}

// Generate implements Generator.
func (g *GeminiNarrator) Generate(ctx context.Context, prompt string) (string, error) {
	logger := zerolog.Ctx(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.GenerativeModel(g.model).GenerateContent(reqCtx, genai.Text(prompt))
	if err != nil {
		logger.Warn().Err(err).Str("model", g.model).Msg("Gemini request failed")
		return "", apperror.NewExternalAPIError(err, "Gemini")
	}

	text, err := responseText(resp)
	if err != nil {
		logger.Warn().Err(err).Str("model", g.model).Msg("Gemini returned no usable text")
		return "", apperror.NewExternalAPIError(err, "Gemini")
	}

	logger.Info().
		Str("model", g.model).
		Dur("latency", time.Since(start)).
		Int("chars", len(text)).
		Msg("Gemini narrative generated")
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
