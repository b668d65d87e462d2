package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teknova-erp/resource-api/internal/domain"
	"go.uber.org/zap"
)

// RemoteBackend talks to a hosted record API. Fetch, replace and remove are
// retried on transient failures; insert is never retried because a blind
// retry may create duplicate records.
type RemoteBackend struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
	logger     *zap.Logger
}

// RemoteConfig holds configuration for the remote record API client.
type RemoteConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// NewRemoteBackend creates a client for the hosted record API.
func NewRemoteBackend(cfg *RemoteConfig, logger *zap.Logger) (*RemoteBackend, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote backend requires a base URL")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	return &RemoteBackend{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

func (r *RemoteBackend) FetchAll(ctx context.Context, kind domain.Kind) ([]json.RawMessage, error) {
	body, err := r.doWithRetry(ctx, http.MethodGet, r.collectionURL(kind), nil)
	if err != nil {
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s collection: %w", kind, err)
	}
	return records, nil
}

func (r *RemoteBackend) FetchOne(ctx context.Context, kind domain.Kind, id int) (json.RawMessage, error) {
	body, err := r.doWithRetry(ctx, http.MethodGet, r.recordURL(kind, id), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (r *RemoteBackend) Insert(ctx context.Context, kind domain.Kind, record json.RawMessage) (json.RawMessage, error) {
	// Single attempt: insert is not idempotent.
	body, _, err := r.do(ctx, http.MethodPost, r.collectionURL(kind), record)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (r *RemoteBackend) Replace(ctx context.Context, kind domain.Kind, id int, record json.RawMessage) (json.RawMessage, error) {
	body, err := r.doWithRetry(ctx, http.MethodPut, r.recordURL(kind, id), record)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (r *RemoteBackend) Remove(ctx context.Context, kind domain.Kind, id int) (bool, error) {
	_, err := r.doWithRetry(ctx, http.MethodDelete, r.recordURL(kind, id), nil)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RemoteBackend) collectionURL(kind domain.Kind) string {
	return fmt.Sprintf("%s/records/%s", r.baseURL, kind)
}

func (r *RemoteBackend) recordURL(kind domain.Kind, id int) string {
	return fmt.Sprintf("%s/records/%s/%d", r.baseURL, kind, id)
}

// doWithRetry performs an idempotent request, retrying transient failures
// with linear backoff.
func (r *RemoteBackend) doWithRetry(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
			r.logger.Debug("retrying record API request",
				zap.String("method", method),
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
			)
		}
		body, retryable, err := r.do(ctx, method, url, payload)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// do performs a single request. The second return value reports whether the
// failure is transient and the request may be retried.
func (r *RemoteBackend) do(ctx context.Context, method, url string, payload []byte) ([]byte, bool, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("record API %s %s: status %d", method, url, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("record API %s %s: status %d: %s", method, url, resp.StatusCode, body)
	}
	return body, false, nil
}
