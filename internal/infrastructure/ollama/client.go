// Package ollama is a minimal client for the two Ollama endpoints the
// archiver needs: /api/generate with an attached image for captions, and
// /api/embed for embeddings.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const describePrompt = "Please describe this image in detail. Include information about objects, " +
	"people, activities, setting, colors and any notable elements."

const _defaultRetryDelay = 2 * time.Second

type Client struct {
	baseURL     string
	visionModel string
	embedModel  string
	maxRetries  int
	retryDelay  time.Duration
	client      *http.Client
}

func New(baseURL, visionModel, embedModel string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		visionModel: visionModel,
		embedModel:  embedModel,
		maxRetries:  maxRetries,
		retryDelay:  _defaultRetryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Describe captions the image at imagePath with the vision model. Transient
// request failures are retried with exponential backoff.
func (c *Client) Describe(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("ollama - Describe - os.ReadFile: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.visionModel,
		Prompt: describePrompt,
		Images: []string{base64.StdEncoding.EncodeToString(data)},
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("ollama - Describe - json.Marshal: %w", err)
	}

	respBody, err := c.postWithRetry(ctx, "/api/generate", body)
	if err != nil {
		return "", fmt.Errorf("ollama - Describe: %w", err)
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ollama - Describe - json.Unmarshal: %w", err)
	}

	return cleanDescription(result.Response), nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed sends a batch of texts to the embed model and returns their vectors.
// The returned slice has the same length and order as the input.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{
		Model: c.embedModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama - Embed - json.Marshal: %w", err)
	}

	respBody, err := c.postWithRetry(ctx, "/api/embed", body)
	if err != nil {
		return nil, fmt.Errorf("ollama - Embed: %w", err)
	}

	var result embedResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("ollama - Embed - json.Unmarshal: %w", err)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama - Embed: expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	return result.Embeddings, nil
}

// EmbedSingle embeds a single text.
func (c *Client) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	results, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

func (c *Client) postWithRetry(ctx context.Context, path string, body []byte) ([]byte, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		respBody, err := c.post(ctx, path, body)
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		if attempt == c.maxRetries || ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("c.client.Do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// cleanDescription drops preamble lines like "Here's a description of the
// image:" and joins the remaining lines into a single paragraph.
func cleanDescription(description string) string {
	description = strings.TrimSpace(description)

	var cleaned []string
	started := false

	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if !started && (strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "This image") || line == "") {
			continue
		}

		started = true
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	if len(cleaned) == 0 {
		return description
	}

	return strings.Join(cleaned, " ")
}
