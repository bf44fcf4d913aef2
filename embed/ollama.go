package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// Ollama asks a local Ollama server for embeddings.
type Ollama struct {
	baseURL string
	model   string
	dim     int
	client  *http.Client
}

func NewOllama(opts ...Option) *Ollama {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	client := o.Client
	if client == nil {
		client = defaultClient()
	}
	return &Ollama{
		baseURL: strings.TrimRight(o.URL, "/"),
		model:   o.Model,
		dim:     o.Dim,
		client:  client,
	}
}

type ollamaEmbedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResp struct {
	Embedding []float64 `json:"embedding"`
}

func (c *Ollama) Model() string { return c.model }

func (c *Ollama) Dim() int { return c.dim }

func (c *Ollama) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	body, _ := json.Marshal(ollamaEmbedReq{Model: c.model, Prompt: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return pgvector.Vector{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("ollama embed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pgvector.Vector{}, fmt.Errorf("ollama embed: status %d", resp.StatusCode)
	}

	var result ollamaEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return pgvector.Vector{}, fmt.Errorf("ollama embed decode: %w", err)
	}

	out := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	vec := pgvector.NewVector(out)
	if err := checkDim(vec, c.dim); err != nil {
		return pgvector.Vector{}, fmt.Errorf("ollama model %s: %w", c.model, err)
	}
	return vec, nil
}
