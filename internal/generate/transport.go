package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxResponseSize = 10 << 20

// transport posts JSON to a provider endpoint with retries.
type transport struct {
	provider string
	opts     options
}

// postJSON sends payload to url and decodes a 200 response into out.
func (t *transport) postJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return NewFatalError(fmt.Errorf("encode request: %w", err))
	}

	requestID := uuid.New().String()
	attempts := max(t.opts.retry.MaxAttempts, 1)
	log := t.opts.logger.With("provider", t.provider, "request_id", requestID)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		data, err := t.do(ctx, url, requestID, headers, body)
		if err == nil {
			log.Debug("Generation request complete", "attempt", attempt, "elapsed", time.Since(start))
			if err := json.Unmarshal(data, out); err != nil {
				return NewFatalError(fmt.Errorf("decode %s response: %w", t.provider, err))
			}
			return nil
		}
		lastErr = err
		if IsFatal(err) {
			return err
		}
		if attempt < attempts {
			wait := t.opts.retry.backoff(attempt)
			log.Debug("Generation request failed, retrying",
				"attempt", attempt,
				"max_attempts", attempts,
				"backoff", wait,
				"error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return lastErr
}

func (t *transport) do(ctx context.Context, url, requestID string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.opts.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewFatalError(ctx.Err())
		}
		return nil, NewTransientError(fmt.Errorf("%s request failed: %w", t.provider, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read %s response: %w", t.provider, err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(t.provider, resp.StatusCode, data)
	}
	return data, nil
}
