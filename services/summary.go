package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"trivia-finder/models"
)

// Summary holds counts over a loaded or filtered venue set.
type Summary struct {
	Total          int
	Placeable      int
	VenuesByDay    map[string]int
	VenuesByRegion map[string]int
}

// Summarize counts venues per day and per location. Venues without a value
// for a field are not counted under it.
func Summarize(venues []*models.Venue) *Summary {
	s := &Summary{
		VenuesByDay:    make(map[string]int),
		VenuesByRegion: make(map[string]int),
	}
	for _, v := range venues {
		s.Total++
		if v.Placeable() {
			s.Placeable++
		}
		if v.Day != "" {
			s.VenuesByDay[v.Day]++
		}
		if v.Location != "" {
			s.VenuesByRegion[v.Location]++
		}
	}
	return s
}

// Print writes the summary as a small terminal report.
func (s *Summary) Print(w io.Writer) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "  Venues: \033[1m%d\033[0m  (on map: %d, list only: %d)\n",
		s.Total, s.Placeable, s.Total-s.Placeable)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n", sep)

	fmt.Fprintf(w, "\033[1;33m  By day\033[0m\n  %s\n", thin)
	if len(s.VenuesByDay) == 0 {
		fmt.Fprintf(w, "  No day data\n")
	}
	days := make([]*models.Venue, 0, len(s.VenuesByDay))
	for d := range s.VenuesByDay {
		days = append(days, &models.Venue{Day: d})
	}
	for _, d := range DayOptions(days) {
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(d, 28), strings.Repeat("█", s.VenuesByDay[d]), s.VenuesByDay[d])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  By location\033[0m\n  %s\n", thin)
	if len(s.VenuesByRegion) == 0 {
		fmt.Fprintf(w, "  No location data\n")
	}
	type locCount struct {
		loc   string
		count int
	}
	locs := make([]locCount, 0, len(s.VenuesByRegion))
	for loc, cnt := range s.VenuesByRegion {
		locs = append(locs, locCount{loc, cnt})
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].count != locs[j].count {
			return locs[i].count > locs[j].count
		}
		return locs[i].loc < locs[j].loc
	})
	for _, lc := range locs {
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(lc.loc, 28), strings.Repeat("█", lc.count), lc.count)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
