package sampledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/activscan/internal/domain/types"
)

const (
	defaultTimeout = 30 * time.Second
	errorBodyLimit = 4 << 10
)

// ErrStatus is returned when the service answers with a non-2xx status.
var ErrStatus = errors.New("unexpected status")

// Client talks to a running scanner.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service at baseURL. A timeout <= 0
// uses 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// CheckHealth fails unless GET /healthz answers 200.
func (c *Client) CheckHealth(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", "", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Score uploads a CSV batch and decodes the JSON result.
func (c *Client) Score(ctx context.Context, csvBody io.Reader) (types.Batch, error) {
	resp, err := c.do(ctx, http.MethodPost, "/score", "text/csv", csvBody, "application/json")
	if err != nil {
		return types.Batch{}, err
	}
	defer resp.Body.Close()

	var out types.Batch
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Batch{}, fmt.Errorf("decode score response: %w", err)
	}
	return out, nil
}

// Download copies the labeled CSV of a stored batch to w.
func (c *Client) Download(ctx context.Context, batchID string, w io.Writer) error {
	resp, err := c.do(ctx, http.MethodGet, "/results/"+batchID, "", nil, "text/csv")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read result %s: %w", batchID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("%w: %s %s: %s: %s", ErrStatus, method, path, resp.Status, strings.TrimSpace(string(b)))
	}
	return resp, nil
}
