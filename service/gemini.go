package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deltajournal-backend/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// GenerationRequest is one completion call. Zero TopP/TopK keep the model defaults.
type GenerationRequest struct {
	Prompt      string
	Temperature float32
	TopP        float32
	TopK        int32
	// Schema, when set, constrains the response to JSON of that shape
	Schema *genai.Schema
}

// TextGenerator produces model text for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// NewGeminiClient creates a Gemini client. Without an API key it returns nil and
// AI calls fail with ErrAINotConfigured when invoked.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI features disabled")
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	logger.Info("Gemini client initialized")
	return client, nil
}

// GeminiGenerator implements TextGenerator on the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator wraps client. An empty model selects DefaultGeminiModel.
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g == nil || g.client == nil {
		return "", ErrAINotConfigured
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(req.Temperature)
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.TopK > 0 {
		model.SetTopK(req.TopK)
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("model returned no candidates")
	}

	var text strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.Content == nil {
			logger.Warn("gemini: candidate has no content", "index", i, "finish_reason", candidate.FinishReason)
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		// The first candidate with content is the answer.
		if text.Len() > 0 {
			break
		}
	}

	if text.Len() == 0 {
		return "", errors.New("model returned empty content")
	}
	return text.String(), nil
}
