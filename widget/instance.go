package widget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"trivia-finder/models"
	"trivia-finder/services"
	"trivia-finder/utils"
)

// State is the lifecycle position of an Instance.
type State int

const (
	Uninitialized State = iota
	SpatialViewReady
	DataLoaded
	Rendered
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case SpatialViewReady:
		return "spatial-view-ready"
	case DataLoaded:
		return "data-loaded"
	case Rendered:
		return "rendered"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Labels for the sentinel selector entries.
const (
	AllDaysLabel      = "All Days"
	AllLocationsLabel = "All Locations"
	LoadingMessage    = "Loading trivia nights..."
)

// Settings are the instance-wide defaults shared by every mount.
type Settings struct {
	DefaultDataURL  string
	Center          models.LatLng
	Zoom            int
	SingleVenueZoom int
	SelectedZoom    int
}

// DatasetLoader fetches and ingests one dataset.
type DatasetLoader interface {
	Load(ctx context.Context, locator string) ([]*models.Venue, error)
}

// SelectionSource says which view produced a Selection.
type SelectionSource int

const (
	MarkerClick SelectionSource = iota
	CardClick
)

// Selection is the single message both views produce when a venue is picked.
type Selection struct {
	VenueID int
	Source  SelectionSource
}

// Instance binds one mount to its own venues, filters, markers and map. It is
// not safe for concurrent use: every call, including view callbacks, must come
// from the goroutine driving this mount.
type Instance struct {
	id       string
	mount    MountPoint
	views    Views
	settings Settings
	loader   DatasetLoader
	logger   *utils.Logger

	state   State
	venues  []*models.Venue
	filter  models.FilterState
	days    []string
	regions []string

	mapView     MapView
	popup       Popup
	markers     map[int]Marker
	highlighted int
	lastErr     error
}

// NewInstance wires the mount's controls to a fresh Instance. Nothing is
// fetched or drawn until InitSpatialView and Load are called.
func NewInstance(mp MountPoint, views Views, loader DatasetLoader, settings Settings, logger *utils.Logger) *Instance {
	in := &Instance{
		id:          uuid.NewString(),
		mount:       mp,
		views:       views,
		settings:    settings,
		loader:      loader,
		logger:      logger,
		filter:      models.DefaultFilter(),
		markers:     make(map[int]Marker),
		highlighted: -1,
	}

	if views.Day != nil {
		views.Day.OnChange(in.SetDay)
	}
	if views.Location != nil {
		views.Location.OnChange(in.SetLocation)
	}
	if views.List != nil {
		views.List.OnCardClick(func(venueID int) {
			in.Select(Selection{VenueID: venueID, Source: CardClick})
		})
	}
	return in
}

func (in *Instance) ID() string                 { return in.id }
func (in *Instance) Mount() MountPoint          { return in.mount }
func (in *Instance) State() State               { return in.state }
func (in *Instance) Filter() models.FilterState { return in.filter }
func (in *Instance) Venues() []*models.Venue    { return in.venues }
func (in *Instance) DayOptions() []string       { return in.days }
func (in *Instance) LocationOptions() []string  { return in.regions }
func (in *Instance) MarkerCount() int           { return len(in.markers) }
func (in *Instance) Err() error                 { return in.lastErr }

// HasMarker reports whether the venue currently has a marker on the map.
func (in *Instance) HasMarker(venueID int) bool {
	_, ok := in.markers[venueID]
	return ok
}

// CardElementID is the element id given to the venue's list card. The prefix
// keeps ids unique when several mounts share a page.
func (in *Instance) CardElementID(venueID int) string {
	return fmt.Sprintf("tf-%s-venue-%d", in.id[:8], venueID)
}

// Visible recomputes the filtered subset from the current filter.
func (in *Instance) Visible() []*models.Venue {
	return services.Visible(in.venues, in.filter)
}

// Highlighted returns the highlighted card's venue id, if any.
func (in *Instance) Highlighted() (int, bool) {
	return in.highlighted, in.highlighted >= 0
}

// DataURL returns the locator this instance loads from.
func (in *Instance) DataURL() string {
	if in.mount.DataURL != "" {
		return in.mount.DataURL
	}
	return in.settings.DefaultDataURL
}

// InitSpatialView constructs the map. Calling it again is a no-op.
func (in *Instance) InitSpatialView(provider MapProvider) error {
	if in.state != Uninitialized {
		return nil
	}
	if in.mount.MapContainer == "" {
		in.logger.Warn("[widget] %s: map element not found", in.mount.Key)
		return ErrNoMapContainer
	}

	m, err := provider.NewMap(in.mount.MapContainer, MapOptions{
		Center:        in.settings.Center,
		Zoom:          in.settings.Zoom,
		HidePOILabels: true,
	})
	if err != nil {
		in.fail(err, "Error", err.Error())
		return fmt.Errorf("widget: init map for %s: %w", in.mount.Key, err)
	}

	in.mapView = m
	in.popup = m.NewPopup()
	in.state = SpatialViewReady
	in.logger.Debug("[widget] %s: map ready", in.mount.Key)
	return nil
}

// Load fetches the dataset and renders the initial, unfiltered view. On
// failure a persistent message replaces the loading indicator and nothing
// else changes: a first load leaves the instance in its pre-load state with
// empty filters and views, while a failed reload is not a reset and keeps
// the venues, filters, markers and state of the last successful load.
func (in *Instance) Load(ctx context.Context) error {
	if in.state == Uninitialized {
		return ErrNotReady
	}

	in.showStatus(services.RenderStatus("", LoadingMessage))

	venues, err := in.loader.Load(ctx, in.DataURL())
	if err != nil {
		msg := "Failed to load CSV"
		if IsConfigurationError(err) {
			msg = "CSV URL missing"
		}
		in.fail(err, "Error", msg)
		return err
	}

	in.lastErr = nil
	in.venues = venues
	in.filter = models.DefaultFilter()
	in.state = DataLoaded
	in.logger.Info("[widget] %s: loaded %d venues", in.mount.Key, len(venues))

	in.setupFilters()
	in.apply()
	in.hideStatus()
	return nil
}

// SetDay is the day selector's change handler.
func (in *Instance) SetDay(day string) {
	if in.state < DataLoaded {
		return
	}
	in.filter.Day = day
	in.updateLocationFilter()
	in.apply()
}

// SetLocation is the location selector's change handler.
func (in *Instance) SetLocation(location string) {
	if in.state < DataLoaded {
		return
	}
	in.filter.Location = location
	in.apply()
}

// Select is the one consumer of selection messages from both views.
func (in *Instance) Select(sel Selection) {
	v := in.visibleByID(sel.VenueID)
	if v == nil {
		in.logger.Debug("[widget] %s: ignoring selection of hidden venue %d", in.mount.Key, sel.VenueID)
		return
	}

	if sel.Source == CardClick && in.mapView != nil && v.Placeable() {
		in.mapView.PanTo(v.Position())
		in.mapView.SetZoom(in.settings.SelectedZoom)
	}

	if mk, ok := in.markers[v.ID]; ok && in.popup != nil {
		content, err := services.RenderPopup(v)
		if err != nil {
			in.logger.Error("[widget] %s: render popup %d: %v", in.mount.Key, v.ID, err)
		} else {
			in.popup.SetContent(content)
			in.popup.Open(mk)
		}
	}

	in.highlight(v.ID)
}

// Close removes every marker this instance placed.
func (in *Instance) Close() {
	in.clearMarkers()
}

func (in *Instance) setupFilters() {
	in.days = services.DayOptions(in.venues)
	if in.views.Day != nil {
		in.views.Day.SetOptions(options(AllDaysLabel, in.days), in.filter.Day)
	}
	in.updateLocationFilter()
}

func (in *Instance) updateLocationFilter() {
	in.regions = services.LocationOptions(in.venues, in.filter.Day)
	in.filter.Location = services.ReconcileLocation(in.regions, in.filter.Location)
	if in.views.Location != nil {
		in.views.Location.SetOptions(options(AllLocationsLabel, in.regions), in.filter.Location)
	}
}

func (in *Instance) apply() {
	visible := in.Visible()
	in.renderMarkers(visible)
	in.renderList(visible)
	in.fitViewport(visible)
	in.state = Rendered
}

func (in *Instance) clearMarkers() {
	for id, mk := range in.markers {
		mk.Remove()
		delete(in.markers, id)
	}
}

func (in *Instance) renderMarkers(visible []*models.Venue) {
	if in.mapView == nil {
		return
	}
	in.clearMarkers()

	for _, v := range visible {
		if !v.Placeable() {
			continue
		}
		id := v.ID
		mk := in.mapView.NewMarker(v.Position(), v.Name)
		mk.OnClick(func() {
			in.Select(Selection{VenueID: id, Source: MarkerClick})
		})
		in.markers[id] = mk
	}
}

func (in *Instance) renderList(visible []*models.Venue) {
	in.highlighted = -1
	if in.views.List == nil {
		return
	}
	if len(visible) == 0 {
		in.views.List.RenderEmpty(services.RenderEmptyState())
		return
	}

	cards := make([]Card, 0, len(visible))
	for _, v := range visible {
		elementID := in.CardElementID(v.ID)
		markup, err := services.RenderCard(v, elementID)
		if err != nil {
			in.logger.Error("[widget] %s: render card %d: %v", in.mount.Key, v.ID, err)
			continue
		}
		cards = append(cards, Card{VenueID: v.ID, ElementID: elementID, Markup: markup})
	}
	in.views.List.Render(cards)
}

// fitViewport frames every placeable visible venue. A lone venue is not
// zoomed in past SingleVenueZoom.
func (in *Instance) fitViewport(visible []*models.Venue) {
	if in.mapView == nil || len(visible) == 0 {
		return
	}

	var b models.Bounds
	placed := 0
	for _, v := range visible {
		if v.Placeable() {
			b.Extend(v.Position())
			placed++
		}
	}
	if placed == 0 {
		return
	}

	in.mapView.FitBounds(b)
	if placed == 1 {
		in.mapView.SetZoom(min(in.mapView.Zoom(), in.settings.SingleVenueZoom))
	}
}

func (in *Instance) highlight(venueID int) {
	if in.views.List != nil {
		if in.highlighted >= 0 && in.highlighted != venueID {
			in.views.List.SetHighlighted(in.highlighted, false)
		}
		in.views.List.SetHighlighted(venueID, true)
		in.views.List.ScrollIntoView(venueID)
	}
	in.highlighted = venueID
}

func (in *Instance) visibleByID(venueID int) *models.Venue {
	for _, v := range in.Visible() {
		if v.ID == venueID {
			return v
		}
	}
	return nil
}

func (in *Instance) fail(err error, title, message string) {
	in.lastErr = err
	in.logger.Error("[widget] %s: %v", in.mount.Key, err)
	in.showStatus(services.RenderStatus(title, message))
}

func (in *Instance) showStatus(markup string) {
	if in.views.Status != nil {
		in.views.Status.Show(markup)
	}
}

func (in *Instance) hideStatus() {
	if in.views.Status != nil {
		in.views.Status.Hide()
	}
}

func options(allLabel string, values []string) []Option {
	opts := make([]Option, 0, len(values)+1)
	opts = append(opts, Option{Value: models.AllOption, Label: allLabel})
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}
