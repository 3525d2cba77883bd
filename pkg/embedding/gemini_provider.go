package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiEmbeddingModel = "text-embedding-004"

type GeminiProvider struct {
	apiKey string
	client *http.Client
}

var _ Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"task_type,omitempty"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbedding `json:"embedding"`
}

type geminiBatchResponse struct {
	Embeddings []geminiEmbedding `json:"embeddings"`
}

func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := geminiEmbedRequest{
		Model:    "models/" + geminiEmbeddingModel,
		Content:  geminiContent{Parts: []geminiContentPart{{Text: text}}},
		TaskType: "RETRIEVAL_QUERY",
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		geminiEmbeddingModel,
	)

	body, err := p.post(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var res geminiEmbedResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unmarshal gemini embedding: %w", err)
	}
	return res.Embedding.Values, nil
}

func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	requests := make([]geminiEmbedRequest, len(texts))
	for i, text := range texts {
		requests[i] = geminiEmbedRequest{
			Model:    "models/" + geminiEmbeddingModel,
			Content:  geminiContent{Parts: []geminiContentPart{{Text: text}}},
			TaskType: "RETRIEVAL_DOCUMENT",
		}
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:batchEmbedContents",
		geminiEmbeddingModel,
	)

	body, err := p.post(ctx, endpoint, geminiBatchRequest{Requests: requests})
	if err != nil {
		return nil, err
	}

	var res geminiBatchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unmarshal gemini batch embedding: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(res.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (p *GeminiProvider) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	reqJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: "gemini", Status: res.StatusCode, Body: string(body)}
	}
	return body, nil
}
