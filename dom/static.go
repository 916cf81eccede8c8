package dom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"trivia-finder/widget"
)

// StaticDocument is a host page parsed once. Its mounts never change.
type StaticDocument struct {
	source string
	mounts []widget.MountPoint
}

// NewStaticDocument parses page markup held in memory.
func NewStaticDocument(source, markup string) (*StaticDocument, error) {
	mounts, err := ParseMounts(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &StaticDocument{source: source, mounts: mounts}, nil
}

// LoadStatic reads a host page from an http(s) URL or a local path.
func LoadStatic(ctx context.Context, locator string, client *http.Client) (*StaticDocument, error) {
	body, err := open(ctx, locator, client)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	mounts, err := ParseMounts(body)
	if err != nil {
		return nil, fmt.Errorf("dom: %s: %w", locator, err)
	}
	return &StaticDocument{source: locator, mounts: mounts}, nil
}

func open(ctx context.Context, locator string, client *http.Client) (io.ReadCloser, error) {
	if !strings.HasPrefix(locator, "http://") && !strings.HasPrefix(locator, "https://") {
		f, err := os.Open(strings.TrimPrefix(locator, "file://"))
		if err != nil {
			return nil, fmt.Errorf("dom: open page: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("dom: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dom: fetch page: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("dom: fetch page: HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Source names where the page came from.
func (d *StaticDocument) Source() string { return d.source }

// Mounts returns the mounts found when the page was parsed.
func (d *StaticDocument) Mounts() ([]widget.MountPoint, error) {
	out := make([]widget.MountPoint, len(d.mounts))
	copy(out, d.mounts)
	return out, nil
}
