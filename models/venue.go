package models

import "math"

// AllOption is the sentinel selector value meaning "do not filter on this field".
const AllOption = "All"

// RawVenue holds one unprocessed row of the venue table exactly as it was read.
// Every field is text; nothing is validated yet.
type RawVenue struct {
	Venue     string
	Address   string
	Location  string
	Day       string
	DayTime   string
	Special   string
	Website   string
	Phone     string
	Latitude  string
	Longitude string
}

// Venue is the cleaned, immutable record used by the filter engine and both views.
// ID is assigned in ingestion order and is the join key between markers and cards.
type Venue struct {
	ID       int
	Name     string
	Address  string
	Location string
	Day      string
	DayTime  string
	Special  string
	Website  string
	Phone    string
	Lat      float64
	Lng      float64
}

// Placeable reports whether the venue can be drawn on the map. Non-finite and zero
// coordinates both count as missing; such venues are still listed.
func (v *Venue) Placeable() bool {
	if math.IsNaN(v.Lat) || math.IsInf(v.Lat, 0) || math.IsNaN(v.Lng) || math.IsInf(v.Lng, 0) {
		return false
	}
	return v.Lat != 0 && v.Lng != 0
}

// Position returns the venue's coordinates.
func (v *Venue) Position() LatLng {
	return LatLng{Lat: v.Lat, Lng: v.Lng}
}

// FilterState holds the two cascading selector values.
type FilterState struct {
	Day      string
	Location string
}

// DefaultFilter returns the All/All filter used after every (re)load.
func DefaultFilter() FilterState {
	return FilterState{Day: AllOption, Location: AllOption}
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Bounds is a lat/lng bounding box. The zero value is empty.
type Bounds struct {
	South, West, North, East float64
	set                      bool
}

// Extend grows the box to include p.
func (b *Bounds) Extend(p LatLng) {
	if !b.set {
		b.South, b.North = p.Lat, p.Lat
		b.West, b.East = p.Lng, p.Lng
		b.set = true
		return
	}
	b.South = math.Min(b.South, p.Lat)
	b.North = math.Max(b.North, p.Lat)
	b.West = math.Min(b.West, p.Lng)
	b.East = math.Max(b.East, p.Lng)
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool {
	return !b.set
}

// Center returns the midpoint of the box.
func (b Bounds) Center() LatLng {
	return LatLng{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
}
