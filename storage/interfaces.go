package storage

import (
	"context"

	"trivia-finder/models"
)

// VenueSource fetches the raw venue table behind a locator.
type VenueSource interface {
	Fetch(ctx context.Context, locator string) ([]*models.RawVenue, error)
}

// VenueWriter is the interface any export backend must satisfy.
type VenueWriter interface {
	Write(venues []*models.Venue) error
	Close() error
}
