package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NammaThalle/grocery-tracker/internal/llm"
)

func newTestServer(t *testing.T, handler func(t *testing.T, r *http.Request, body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		handler(t, r, body)

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "```json\n"},
					{"text": `{"items": [{"name": "Milk", "total_price": 28.0}]}`},
					{"text": "\n```"},
				}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestTranscribeFreeText(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, r *http.Request, body map[string]any) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
	})
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gemini-2.0-flash"}, nil)
	got, err := c.Transcribe(context.Background(), llm.Request{Kind: llm.KindFreeText, Text: "milk 28"})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if !strings.Contains(got, `"Milk"`) {
		t.Errorf("response = %q", got)
	}
}

func TestTranscribeReceiptImageSendsInlineData(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, r *http.Request, body map[string]any) {
		contents, _ := body["contents"].([]any)
		if len(contents) != 1 {
			t.Fatalf("contents = %v", body["contents"])
		}
		parts, _ := contents[0].(map[string]any)["parts"].([]any)
		if len(parts) != 2 {
			t.Fatalf("parts = %d, want prompt + image", len(parts))
		}
		inline, _ := parts[1].(map[string]any)["inline_data"].(map[string]any)
		if inline["mime_type"] != "image/png" {
			t.Errorf("mime = %v", inline["mime_type"])
		}
		if inline["data"] == "" {
			t.Error("image data missing")
		}
	})
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := c.Transcribe(context.Background(), llm.Request{
		Kind:      llm.KindReceiptImage,
		ImageData: []byte{1, 2, 3},
		ImageMIME: "image/png",
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
}

func TestTranscribeInvalidRequests(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)

	if _, err := c.Transcribe(context.Background(), llm.Request{Kind: llm.KindFreeText}); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := c.Transcribe(context.Background(), llm.Request{Kind: llm.KindReceiptImage}); err == nil {
		t.Error("expected error for missing image")
	}
	if _, err := c.Transcribe(context.Background(), llm.Request{Kind: "bogus"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	if _, err := c.Transcribe(context.Background(), llm.Request{Kind: llm.KindFreeText, Text: "x"}); err == nil {
		t.Error("expected error on non-2xx status")
	}
}
