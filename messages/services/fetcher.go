package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"message-search-backend/messages/models"

	"go.uber.org/zap"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	userAgent           = "message-search-backend/1.0"
	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 64 << 20
)

// Fetcher retrieves the full message record set from the upstream source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Record, error)
}

// UpstreamError reports a failed upstream fetch.
type UpstreamError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPFetcher fetches messages with a single GET against a fixed URL.
type HTTPFetcher struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPFetcher creates a fetcher for url. A non-positive timeout falls back to DefaultFetchTimeout.
func NewHTTPFetcher(logger *zap.Logger, url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]models.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "build request", URL: f.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	started := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "request", URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{
			Op:         "request",
			URL:        f.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UpstreamError{Op: "read body", URL: f.url, Err: err}
	}

	records, err := DecodeRecords(body)
	if err != nil {
		return nil, &UpstreamError{Op: "decode body", URL: f.url, Err: err}
	}

	f.logger.Debug("Fetched messages from upstream",
		zap.String("url", f.url),
		zap.Int("count", len(records)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return records, nil
}

type itemsEnvelope struct {
	Items json.RawMessage `json:"items"`
	// Total is informational only; counts are always computed from Items.
	Total json.RawMessage `json:"total"`
}

// DecodeRecords normalizes an upstream body into records.
// Accepted shapes are {"items": [...]} and a bare array. Any other valid JSON yields no records.
func DecodeRecords(body []byte) ([]models.Record, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	switch body[0] {
	case '[':
		return decodeArray(body)
	case '{':
		var envelope itemsEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		items := bytes.TrimSpace(envelope.Items)
		if len(items) == 0 || items[0] != '[' {
			return []models.Record{}, nil
		}
		return decodeArray(items)
	default:
		return []models.Record{}, nil
	}
}

func decodeArray(data []byte) ([]models.Record, error) {
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}
