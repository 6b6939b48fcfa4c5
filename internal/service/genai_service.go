package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"roadmap_backend/internal/config"

	"google.golang.org/genai"
)

// GenAIGenerator is the ContentGenerator backed by the official Go SDK.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, cfg config.AIConfig) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	baseURL, version := splitAPIVersion(cfg.BaseURL)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{client: client, model: cfg.Model}, nil
}

func (g *GenAIGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			body, _ := json.Marshal(map[string]any{"error": apiErr})
			return "", &UpstreamError{StatusCode: apiErr.Code, Body: string(body)}
		}
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return "", nil
	}
	return cand.Content.Parts[0].Text, nil
}

// asAPIError accepts the SDK error as a value or a pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// splitAPIVersion turns ".../v1beta" into (".../", "v1beta") since the SDK
// appends the version itself.
func splitAPIVersion(baseURL string) (string, string) {
	trimmed := strings.TrimRight(baseURL, "/")
	last := path.Base(trimmed)
	if strings.HasPrefix(last, "v1") {
		return strings.TrimSuffix(trimmed, last), last
	}
	if trimmed == "" {
		return "", ""
	}
	return trimmed + "/", ""
}
