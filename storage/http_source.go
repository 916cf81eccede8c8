package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"trivia-finder/models"
)

// HTTPSource fetches a published CSV over HTTP(S).
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource returns an HTTPSource whose requests time out after timeout.
// A zero timeout leaves requests bounded only by the caller's context.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	return &HTTPSource{client: &http.Client{Timeout: timeout}}
}

// NewHTTPSourceWithClient wraps an existing client.
func NewHTTPSourceWithClient(c *http.Client) *HTTPSource {
	return &HTTPSource{client: c}
}

// Fetch downloads and parses the table at locator. Any non-2xx status is an error.
func (s *HTTPSource) Fetch(ctx context.Context, locator string) ([]*models.RawVenue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: get %q: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("http: get %q: unexpected status %s", locator, resp.Status)
	}

	return ParseCSV(resp.Body)
}

// FileSource reads a CSV from the local filesystem. Locators may be bare
// paths or file:// URLs.
type FileSource struct{}

// Fetch opens and parses the file named by locator.
func (FileSource) Fetch(_ context.Context, locator string) ([]*models.RawVenue, error) {
	path := strings.TrimPrefix(locator, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file: open %q: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}
