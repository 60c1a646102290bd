// Package service provides the remote transport and in-process event bus
// used by the sync pipeline.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/allisson/leasehold/internal/errors"
	syncDomain "github.com/allisson/leasehold/internal/sync/domain"
)

// HTTPTransport delivers actions to the remote sync endpoint over HTTP and
// doubles as the reachability prober.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates an HTTPTransport for the given base endpoint.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Push delivers one action payload to the remote endpoint.
func (t *HTTPTransport) Push(ctx context.Context, action string) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/sync/push",
		strings.NewReader(action),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to build push request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "push request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.New(fmt.Sprintf("push rejected with status %d", resp.StatusCode))
	}
	return nil
}

// Pull fetches the full remote record set.
func (t *HTTPTransport) Pull(ctx context.Context) ([]*syncDomain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/sync/pull", nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build pull request")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "pull request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.New(fmt.Sprintf("pull rejected with status %d", resp.StatusCode))
	}

	var records []*syncDomain.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode pull response")
	}
	return records, nil
}

// IsOnline probes the remote endpoint. Any HTTP response counts as online;
// only transport-level failures count as offline.
func (t *HTTPTransport) IsOnline(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.baseURL+"/sync/push", nil)
	if err != nil {
		return false
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck
	return true
}
