package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"healthsearch/models"
)

// OllamaEmbedder generates embeddings through a local Ollama instance.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
	dimension  int
}

// NewOllamaEmbedder creates an Ollama-backed embedder. It embeds a probe
// text once to verify the model is reachable and to learn the vector
// dimension the model reports.
func NewOllamaEmbedder(ctx context.Context, baseURL, model string) (*OllamaEmbedder, error) {
	e := &OllamaEmbedder{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	probe, err := e.embed(probeCtx, "dimension probe")
	if err != nil {
		return nil, fmt.Errorf("ollama embedding model not available: %w", err)
	}
	e.dimension = len(probe)

	return e, nil
}

// Encode implements Embedder.
func (e *OllamaEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	vec, err := e.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	// Ollama does not guarantee unit-length output.
	return normalize(vec), nil
}

// embed calls Ollama's embedding API.
func (e *OllamaEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(models.OllamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp models.OllamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if len(ollamaResp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}
	return ollamaResp.Embedding, nil
}

// Dimension implements Embedder.
func (e *OllamaEmbedder) Dimension() int {
	return e.dimension
}

// ModelName implements Embedder.
func (e *OllamaEmbedder) ModelName() string {
	return "ollama/" + e.model
}

var _ Embedder = (*OllamaEmbedder)(nil)
