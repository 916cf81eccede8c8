package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"trivia-finder/models"
	"trivia-finder/storage"
	"trivia-finder/utils"
)

// ErrNoDataSource is returned before any fetch when no locator is configured.
var ErrNoDataSource = errors.New("no data source configured")

// LoadError reports a failed fetch or parse of a dataset.
type LoadError struct {
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fetches a dataset through the source matching the locator's scheme
// and ingests it. It holds no per-call state.
type Loader struct {
	sources  map[string]storage.VenueSource
	fallback storage.VenueSource
	ingester *Ingester
	logger   *utils.Logger
}

// NewLoader returns a Loader that reads bare paths and file:// locators from
// disk. Register further schemes with WithSource.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{
		sources:  map[string]storage.VenueSource{"file": storage.FileSource{}},
		fallback: storage.FileSource{},
		ingester: NewIngester(logger),
		logger:   logger,
	}
}

// WithSource registers src for each scheme and returns the Loader.
func (l *Loader) WithSource(src storage.VenueSource, schemes ...string) *Loader {
	for _, s := range schemes {
		l.sources[strings.ToLower(s)] = src
	}
	return l
}

// Load fetches and ingests the dataset named by locator.
func (l *Loader) Load(ctx context.Context, locator string) ([]*models.Venue, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, ErrNoDataSource
	}

	src := l.sourceFor(locator)
	if src == nil {
		return nil, &LoadError{Locator: locator, Err: fmt.Errorf("unsupported locator scheme")}
	}

	l.logger.Debug("[loader] Fetching %s", locator)
	raw, err := src.Fetch(ctx, locator)
	if err != nil {
		return nil, &LoadError{Locator: locator, Err: err}
	}

	return l.ingester.Ingest(raw), nil
}

func (l *Loader) sourceFor(locator string) storage.VenueSource {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare path (a one-letter scheme is a Windows drive)
		return l.fallback
	}
	return l.sources[strings.ToLower(u.Scheme)]
}
