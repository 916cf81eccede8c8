package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trivia-finder/storage"
)

func TestLoaderMissingLocator(t *testing.T) {
	l := NewLoader(newTestLogger())
	for _, loc := range []string{"", "   "} {
		if _, err := l.Load(context.Background(), loc); !errors.Is(err, ErrNoDataSource) {
			t.Errorf("Load(%q) err = %v; want ErrNoDataSource", loc, err)
		}
	}
}

func TestLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("venue,address,day,location\nPub A,1 St,Monday,North\n,2 St,Tuesday,South\n"))
	}))
	defer srv.Close()

	l := NewLoader(newTestLogger()).WithSource(storage.NewHTTPSource(time.Second), "http", "https")
	venues, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(venues) != 1 || venues[0].Name != "Pub A" {
		t.Errorf("got %+v", venues)
	}
}

func TestLoaderWrapsFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(newTestLogger()).WithSource(storage.NewHTTPSource(time.Second), "http")
	_, err := l.Load(context.Background(), srv.URL)

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v; want *LoadError", err)
	}
	if le.Locator != srv.URL {
		t.Errorf("Locator: got %q", le.Locator)
	}
}

func TestLoaderMalformedTableIsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("name,street\nPub,1 St\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(newTestLogger()).Load(context.Background(), path)
	var le *LoadError
	if !errors.As(err, &le) || !errors.Is(err, storage.ErrMissingColumn) {
		t.Errorf("err = %v; want LoadError wrapping ErrMissingColumn", err)
	}
}

func TestLoaderUnknownScheme(t *testing.T) {
	_, err := NewLoader(newTestLogger()).Load(context.Background(), "ftp://example.com/venues.csv")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Errorf("err = %v; want *LoadError", err)
	}
}
