package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/NammaThalle/grocery-tracker/internal/llm"
)

// Transcribe implements llm.Transcriber over the generateContent REST
// endpoint. Receipt images ride along as inline base64 parts; free
// text goes as a single text part with the message embedded in the
// prompt.
func (c *Client) Transcribe(ctx context.Context, req llm.Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.transcribe.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"kind", string(req.Kind),
		"text_len", len(req.Text),
		"image_bytes", len(req.ImageData),
	)

	var parts []map[string]any
	switch req.Kind {
	case llm.KindReceiptImage:
		if len(req.ImageData) == 0 {
			return "", fmt.Errorf("receipt_image request without image data")
		}
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = []map[string]any{
			{"text": llm.ReceiptPrompt()},
			{"inline_data": map[string]any{
				"mime_type": mime,
				"data":      base64.StdEncoding.EncodeToString(req.ImageData),
			}},
		}
	case llm.KindFreeText:
		if strings.TrimSpace(req.Text) == "" {
			return "", fmt.Errorf("free_text request without text")
		}
		parts = []map[string]any{
			{"text": llm.TextExpensePrompt(req.Text)},
		}
	default:
		return "", fmt.Errorf("unknown request kind %q", req.Kind)
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature": c.cfg.Temperature,
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Error("llm.transcribe.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("gemini request: %w", err)
	}

	var gc struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gc); err != nil {
		c.logger.Error("llm.transcribe.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gc.Candidates) == 0 {
		c.logger.Error("llm.transcribe.no_candidates",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var b strings.Builder
	for _, p := range gc.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty text in gemini response")
	}

	c.logger.Info("llm.transcribe.ok",
		"req_id", rid,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
