package services

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"trivia-finder/models"
)

func TestSummarizeCounts(t *testing.T) {
	venues := []*models.Venue{
		{Day: "Monday", Location: "North", Lat: -37.8, Lng: 144.9},
		{Day: "Monday", Location: "South", Lat: math.NaN(), Lng: 144.9},
		{Day: "Friday", Location: "North", Lat: 0, Lng: 0},
		{Day: "", Location: ""},
	}

	s := Summarize(venues)
	if s.Total != 4 {
		t.Errorf("Total: got %d, want 4", s.Total)
	}
	if s.Placeable != 1 {
		t.Errorf("Placeable: got %d, want 1", s.Placeable)
	}
	if s.VenuesByDay["Monday"] != 2 || s.VenuesByDay["Friday"] != 1 {
		t.Errorf("VenuesByDay: got %v", s.VenuesByDay)
	}
	if s.VenuesByRegion["North"] != 2 || len(s.VenuesByRegion) != 2 {
		t.Errorf("VenuesByRegion: got %v", s.VenuesByRegion)
	}
}

func TestSummaryPrintOrdersDays(t *testing.T) {
	s := Summarize([]*models.Venue{{Day: "Sunday"}, {Day: "Monday"}})
	var buf bytes.Buffer
	s.Print(&buf)

	out := buf.String()
	if strings.Index(out, "Monday") > strings.Index(out, "Sunday") {
		t.Errorf("days should print in weekday order:\n%s", out)
	}
	if !strings.Contains(out, "No location data") {
		t.Errorf("expected empty location note:\n%s", out)
	}
}
