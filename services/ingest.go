package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"trivia-finder/models"
	"trivia-finder/utils"
)

// Ingester transforms raw table rows into venue records.
type Ingester struct {
	logger *utils.Logger
}

// NewIngester creates an Ingester with the given logger.
func NewIngester(logger *utils.Logger) *Ingester {
	return &Ingester{logger: logger}
}

// Ingest keeps every row that has both a venue name and an address and
// numbers the kept rows from 0 in input order.
func (in *Ingester) Ingest(raw []*models.RawVenue) []*models.Venue {
	result := make([]*models.Venue, 0, len(raw))

	for i, r := range raw {
		name := normaliseText(r.Venue)
		address := normaliseText(r.Address)
		if name == "" || address == "" {
			in.logger.Debug("[ingest] Dropping row %d: name=%q address=%q", i+1, name, address)
			continue
		}

		result = append(result, &models.Venue{
			ID:       len(result),
			Name:     name,
			Address:  address,
			Location: normaliseText(r.Location),
			Day:      normaliseText(r.Day),
			DayTime:  normaliseText(r.DayTime),
			Special:  normaliseText(r.Special),
			Website:  strings.TrimSpace(r.Website),
			Phone:    normaliseText(r.Phone),
			Lat:      parseCoordinate(r.Latitude),
			Lng:      parseCoordinate(r.Longitude),
		})
	}

	in.logger.Info("[ingest] Ingested %d → %d venues (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parseCoordinate parses leniently: blank or non-numeric text yields NaN,
// which keeps the venue off the map but in the list.
func parseCoordinate(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
