// Package widget holds the per-mount state machine that keeps a venue map and
// a venue list in sync with two cascading filters, plus the manager that
// discovers mounts and starts them once the mapping provider is ready.
//
// Rendering technology is kept behind the small capability interfaces in this
// file; the filter engine and data model never see them.
package widget

import "trivia-finder/models"

// MapOptions configures a newly constructed map.
type MapOptions struct {
	Center models.LatLng
	Zoom   int
	// HidePOILabels suppresses the provider's own points of interest so venue
	// markers stand out.
	HidePOILabels     bool
	MapTypeControl    bool
	StreetViewControl bool
}

// MapProvider is the external mapping runtime.
type MapProvider interface {
	// Loaded reports whether the provider's runtime is already available,
	// which lets a late-booting page skip waiting for the ready callback.
	Loaded() bool
	NewMap(container string, opts MapOptions) (MapView, error)
}

// MapView is one map viewport.
type MapView interface {
	Zoom() int
	SetZoom(zoom int)
	PanTo(p models.LatLng)
	FitBounds(b models.Bounds)
	NewMarker(p models.LatLng, title string) Marker
	NewPopup() Popup
}

// Marker is a clickable point on a map.
type Marker interface {
	OnClick(fn func())
	Remove()
}

// Popup is a detail bubble anchored to a marker.
type Popup interface {
	SetContent(markup string)
	Open(anchor Marker)
}

// Option is one entry of a filter selector.
type Option struct {
	Value string
	Label string
}

// Selector is a single-choice filter control.
type Selector interface {
	SetOptions(opts []Option, selected string)
	OnChange(fn func(value string))
}

// Card is one rendered list entry.
type Card struct {
	VenueID   int
	ElementID string
	Markup    string
}

// ListView is the venue list panel.
type ListView interface {
	Render(cards []Card)
	RenderEmpty(markup string)
	SetHighlighted(venueID int, on bool)
	ScrollIntoView(venueID int)
	OnCardClick(fn func(venueID int))
}

// StatusView is the loading indicator, reused for persistent error messages.
type StatusView interface {
	Show(markup string)
	Hide()
}

// Views bundles the host-provided controls of one mount. Any field may be nil
// when the host page omits that element.
type Views struct {
	Day      Selector
	Location Selector
	List     ListView
	Status   StatusView
}

// MountPoint describes one mount found in a host document.
type MountPoint struct {
	// Key identifies the mount across repeated discovery passes.
	Key string
	// DataURL is the per-mount data-source override, empty when absent.
	DataURL string
	Title   string
	// MapContainer names the map element; empty when the mount has none.
	MapContainer string
	HasDay       bool
	HasLocation  bool
	HasList      bool
	HasStatus    bool
}

// Document is a host page that can be scanned for mounts.
type Document interface {
	Mounts() ([]MountPoint, error)
}

// Host turns a discovered mount into live controls.
type Host interface {
	Bind(mp MountPoint) (Views, error)
}
