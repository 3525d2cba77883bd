package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-tarot-be/pkg/llm"
)

type GeminiProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (llm.Result, error) {
	options := llm.BuildOptions(opts)

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return llm.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		model,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return llm.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return llm.Result{}, &llm.GenerationError{Provider: "gemini", Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Result{}, &llm.GenerationError{Provider: "gemini", Retryable: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return llm.Result{}, &llm.GenerationError{
			Provider:  "gemini",
			Code:      resp.StatusCode,
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == 429,
			Err:       fmt.Errorf("status %d, body: %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	var genResp geminiGenerateResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return llm.Result{}, &llm.GenerationError{Provider: "gemini", Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return llm.Result{}, &llm.GenerationError{Provider: "gemini", Err: fmt.Errorf("empty candidate list")}
	}

	return llm.Result{
		Text:     genResp.Candidates[0].Content.Parts[0].Text,
		Model:    model,
		Provider: "gemini",
	}, nil
}
