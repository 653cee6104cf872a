package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jeanpaul/learnsimply/internal/schema"
)

const (
	DefaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGoogleModel   = "gemini-2.5-flash"
)

type GoogleProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGoogle(baseURL, apiKey, model string) *GoogleProvider {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}
	if model == "" {
		model = DefaultGoogleModel
	}
	return &GoogleProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

func (g *GoogleProvider) Name() string { return "google" }

func (g *GoogleProvider) ModelName() string { return g.model }

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   any      `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

func (g *GoogleProvider) Generate(ctx context.Context, r Request) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: r.Prompt}}}},
	}
	cfg := &geminiGenConfig{Temperature: r.Temperature}
	if r.Schema != nil {
		cfg.ResponseMimeType = "application/json"
		cfg.ResponseSchema = geminiSchema(r.Schema)
	}
	if cfg.Temperature != nil || cfg.ResponseSchema != nil {
		body.GenerationConfig = cfg
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google API error: %s", friendlyProviderError(err))
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("google API error: %s", friendlyProviderError(err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", newAPIError("google", resp.StatusCode, b)
	}

	var out geminiResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("google: decode response: %w", err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("google: prompt blocked: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// Models lists the generateContent-capable models of the configured key.
func (g *GoogleProvider) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models?pageSize=50", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google API error: %s", friendlyProviderError(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, newAPIError("google", resp.StatusCode, b)
	}

	var result struct {
		Models []struct {
			Name    string   `json:"name"`
			Methods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	var models []string
	for _, m := range result.Models {
		for _, method := range m.Methods {
			if method == "generateContent" {
				models = append(models, strings.TrimPrefix(m.Name, "models/"))
				break
			}
		}
	}
	return models, nil
}

func geminiSchema(s any) any {
	switch v := s.(type) {
	case schema.Schema:
		return schema.ForGemini(v)
	case map[string]any:
		return schema.ForGemini(schema.Schema(v))
	}
	return s
}
