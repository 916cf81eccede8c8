package widget

import (
	"errors"

	"trivia-finder/services"
)

var (
	// ErrNotReady is returned when an instance is asked to load before its
	// spatial view exists.
	ErrNotReady = errors.New("widget: spatial view not initialised")

	// ErrNoMapContainer marks a mount that has nowhere to draw the map.
	ErrNoMapContainer = errors.New("widget: mount has no map container")

	// ErrDiscoveryExhausted means the bounded discovery retry gave up. An
	// empty page is valid, so callers treat this as a silent no-op.
	ErrDiscoveryExhausted = errors.New("widget: no mounts found")
)

// IsConfigurationError reports whether err means no data source could be resolved.
func IsConfigurationError(err error) bool {
	return errors.Is(err, services.ErrNoDataSource)
}

// IsLoadError reports whether err is a dataset fetch or parse failure.
func IsLoadError(err error) bool {
	var le *services.LoadError
	return errors.As(err, &le)
}
