package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"trivia-finder/models"
)

// CSVWriter exports venues in the same column layout the loader reads, so an
// export can be fed back in as a data source. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w, err := NewCSVStream(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewCSVStream writes the header to w and returns a writer for the rows.
func NewCSVStream(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVWriter{writer: cw}, cw.Error()
}

// Write appends one row per venue.
func (c *CSVWriter) Write(venues []*models.Venue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range venues {
		row := []string{
			v.Name,
			v.Address,
			v.Location,
			v.Day,
			v.DayTime,
			v.Special,
			v.Website,
			v.Phone,
			formatCoord(v.Lat),
			formatCoord(v.Lng),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}

func formatCoord(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
