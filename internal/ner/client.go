// Package ner talks to an external entity-model inference service. The model
// itself is out of scope; this package only carries the request/response
// contract and validates what comes back before anyone trusts it.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPClient calls a JSON inference endpoint:
// POST {url} {"text": "..."} -> {"entities": {"PERSON": ["..."], ...}}
type HTTPClient struct {
	url     string
	httpcli *http.Client
	logger  *slog.Logger
}

type inferenceRequest struct {
	Text string `json:"text"`
}

type inferenceResponse struct {
	Entities map[string][]string `json:"entities"`
}

func NewHTTPClient(url string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		url:     url,
		httpcli: &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ExtractEntities posts the text and returns the validated category map.
func (c *HTTPClient) ExtractEntities(ctx context.Context, text string) (map[string][]string, error) {
	body, err := json.Marshal(inferenceRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal ner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpcli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner inference call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read ner response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("ner.inference.status", "status", resp.StatusCode)
		return nil, fmt.Errorf("ner inference returned status %d", resp.StatusCode)
	}

	if err := validateResponse(raw); err != nil {
		return nil, fmt.Errorf("ner response rejected: %w", err)
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	return parsed.Entities, nil
}
