package services

import (
	"sort"
	"strings"

	"trivia-finder/models"
)

var dayOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// unknownDay ranks unrecognised values after Sunday.
const unknownDay = 7

// DayOptions returns the distinct non-empty days in display order: recognised
// weekday names in calendar order, then everything else lexicographically.
func DayOptions(venues []*models.Venue) []string {
	days := distinct(venues, func(v *models.Venue) string { return v.Day })
	sort.SliceStable(days, func(i, j int) bool {
		ri, rj := dayRank(days[i]), dayRank(days[j])
		if ri != rj {
			return ri < rj
		}
		return days[i] < days[j]
	})
	return days
}

func dayRank(day string) int {
	if r, ok := dayOrder[strings.ToLower(strings.TrimSpace(day))]; ok {
		return r
	}
	return unknownDay
}

// LocationOptions returns the distinct non-empty locations of the venues
// matching day, sorted lexicographically.
func LocationOptions(venues []*models.Venue, day string) []string {
	matching := Visible(venues, models.FilterState{Day: day, Location: models.AllOption})
	locs := distinct(matching, func(v *models.Venue) string { return v.Location })
	sort.Strings(locs)
	return locs
}

// ReconcileLocation keeps current when it is still offered, otherwise falls
// back to the All sentinel.
func ReconcileLocation(options []string, current string) string {
	if current == models.AllOption {
		return current
	}
	for _, o := range options {
		if o == current {
			return current
		}
	}
	return models.AllOption
}

// Visible returns the venues passing both filters, preserving input order.
// It never mutates venues.
func Visible(venues []*models.Venue, f models.FilterState) []*models.Venue {
	out := make([]*models.Venue, 0, len(venues))
	for _, v := range venues {
		if (f.Day == models.AllOption || f.Day == v.Day) &&
			(f.Location == models.AllOption || f.Location == v.Location) {
			out = append(out, v)
		}
	}
	return out
}

func distinct(venues []*models.Venue, field func(*models.Venue) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range venues {
		val := field(v)
		if val == "" {
			continue
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
