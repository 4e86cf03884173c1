package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// HTTPSource fetches the catalog with a single GET.
type HTTPSource struct {
	url    string
	client *http.Client
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets the client used for the request.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPSource returns a source reading url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: constants.DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *HTTPSource) Name() string {
	return s.url
}

// Fetch implements Source. The request bypasses caches.
func (s *HTTPSource) Fetch(ctx context.Context) ([]vehicles.Vehicle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.NewFetchError(s.url, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.NewFetchError(s.url, "source unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.FetchError{
			Source:     s.url,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.NewFetchError(s.url, "read body", err)
	}
	return DecodeJSON(s.url, body)
}
