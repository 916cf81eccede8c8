package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"trivia-finder/models"
)

// Column names recognised in the venue table header.
const (
	ColVenue     = "venue"
	ColAddress   = "address"
	ColLocation  = "location"
	ColDay       = "day"
	ColDayTime   = "day_time"
	ColSpecial   = "special"
	ColWebsite   = "website"
	ColPhone     = "phone"
	ColLatitude  = "latitude"
	ColLongitude = "longitude"
)

// Columns is the canonical column order, used for both reading and export.
var Columns = []string{
	ColVenue, ColAddress, ColLocation, ColDay, ColDayTime,
	ColSpecial, ColWebsite, ColPhone, ColLatitude, ColLongitude,
}

// ErrMissingColumn marks a table whose header lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// ParseCSV reads a delimited table with a header row into raw venue rows.
// An empty input is a valid table with no rows. Short rows read missing cells
// as empty; unknown columns are ignored.
func ParseCSV(r io.Reader) ([]*models.RawVenue, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []*models.RawVenue{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	index := headerIndex(header)
	for _, required := range []string{ColVenue, ColAddress} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv: %w: %q", ErrMissingColumn, required)
		}
	}

	rows := make([]*models.RawVenue, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}

		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		rows = append(rows, &models.RawVenue{
			Venue:     cell(ColVenue),
			Address:   cell(ColAddress),
			Location:  cell(ColLocation),
			Day:       cell(ColDay),
			DayTime:   cell(ColDayTime),
			Special:   cell(ColSpecial),
			Website:   cell(ColWebsite),
			Phone:     cell(ColPhone),
			Latitude:  cell(ColLatitude),
			Longitude: cell(ColLongitude),
		})
	}
	return rows, nil
}

// headerIndex maps normalised column names to their position. The first
// occurrence of a duplicated column wins.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}
