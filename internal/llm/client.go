// Package llm abstracts the remote generative-model provider behind a small
// opaque interface: prompt text plus generation parameters in, response text
// or a typed failure out.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerateParams are the per-call generation knobs.
type GenerateParams struct {
	Temperature     float32
	MaxOutputTokens int32
	// JSONResponse requests a JSON MIME type from the provider. The response
	// may still be malformed; callers must repair and parse defensively.
	JSONResponse bool
}

// DefaultParams returns conservative settings for structured output.
func DefaultParams() GenerateParams {
	return GenerateParams{
		Temperature:     0.2,
		MaxOutputTokens: 2048,
		JSONResponse:    true,
	}
}

// Client is the abstraction over remote generative providers.
type Client interface {
	// Generate produces text for a prompt. Failures may be transient
	// (timeout, overload, rate limit) or permanent; classify with IsTransient.
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// NewGeminiClient creates a Gemini-backed client. The API key is required;
// its absence disables the remote path entirely at the orchestrator level,
// so this constructor is only reached when a credential exists.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate produces text for a prompt with the given parameters.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(params.Temperature)
	if params.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(params.MaxOutputTokens)
	}
	if params.JSONResponse {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
