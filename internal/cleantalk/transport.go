package cleantalk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 5 * time.Second

	maxBodySize = 1 << 20
)

// NewHTTPClient returns a client meant to be shared between the per-request
// Client values.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 100
	transport.MaxConnsPerHost = 100

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

type response struct {
	statusCode int
	body       []byte
}

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) (*response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &response{statusCode: resp.StatusCode, body: data}, nil
}
