package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(server.URL, "llava:latest", "nomic-embed-text", 5*time.Second, maxRetries)
	c.retryDelay = time.Millisecond

	return c
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.jpg")
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDescribe(t *testing.T) {
	var gotReq generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "A red barn in a field."})
	}, 1)

	desc, err := c.Describe(context.Background(), writeImage(t))
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if desc != "A red barn in a field." {
		t.Errorf("description = %q", desc)
	}
	if gotReq.Model != "llava:latest" {
		t.Errorf("model = %q, want llava:latest", gotReq.Model)
	}
	if len(gotReq.Images) != 1 || gotReq.Images[0] == "" {
		t.Error("request carries no image payload")
	}
	if gotReq.Stream {
		t.Error("request asks for streaming")
	}
}

func TestDescribeStripsPreamble(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{
			Response: "Here's a detailed description of the image:\n\nA red barn in a field.\nThe sky is overcast.",
		})
	}, 1)

	desc, err := c.Describe(context.Background(), writeImage(t))
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	want := "A red barn in a field. The sky is overcast."
	if desc != want {
		t.Errorf("description = %q, want %q", desc, want)
	}
}

func TestDescribeMissingFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for a missing file")
	}, 1)

	_, err := c.Describe(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestDescribeRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "A cat."})
	}, 3)

	desc, err := c.Describe(context.Background(), writeImage(t))
	if err != nil {
		t.Fatalf("Describe failed after retries: %v", err)
	}

	if desc != "A cat." {
		t.Errorf("description = %q, want %q", desc, "A cat.")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestDescribeGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still broken", http.StatusInternalServerError)
	}, 2)

	_, err := c.Describe(context.Background(), writeImage(t))
	if err == nil {
		t.Fatal("expected error after exhausting retries, got nil")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestEmbed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %q, want /api/embed", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q, want nomic-embed-text", req.Model)
		}
		out := make([][]float32, len(req.Input))
		for i := range out {
			out[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(embedResponse{Embeddings: out})
	}, 1)

	vectors, err := c.Embed(context.Background(), []string{"a barn", "a cat"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[1][0] != 1 {
		t.Errorf("vectors out of order: %v", vectors)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for empty input")
	}, 1)

	vectors, err := c.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed(nil) failed: %v", err)
	}
	if vectors != nil {
		t.Errorf("Embed(nil) = %v, want nil", vectors)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1, 2}}})
	}, 1)

	_, err := c.Embed(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatal("expected error for mismatched embedding count, got nil")
	}
}

func TestEmbedSingle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.1, 0.2, 0.3}}})
	}, 1)

	vec, err := c.EmbedSingle(context.Background(), "a barn")
	if err != nil {
		t.Fatalf("EmbedSingle failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain text untouched",
			"A red barn in a field.",
			"A red barn in a field.",
		},
		{
			"here preamble dropped",
			"Here is what I see:\nA red barn.",
			"A red barn.",
		},
		{
			"this image preamble dropped",
			"This image shows the following.\n\nA red barn.",
			"A red barn.",
		},
		{
			"lines joined",
			"A red barn.\nAn overcast sky.",
			"A red barn. An overcast sky.",
		},
		{
			"all preamble keeps original",
			"Here is the description.",
			"Here is the description.",
		},
		{
			"whitespace trimmed",
			"  \n A red barn. \n ",
			"A red barn.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanDescription(tt.in); got != tt.want {
				t.Errorf("cleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
