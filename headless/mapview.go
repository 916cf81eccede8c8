// Package headless is an in-memory mapping provider and host page. It keeps
// the same state a browser map and DOM would (camera, markers, popups,
// selector options, list cards) so instances can be driven and inspected
// without a browser, and renders that state as an HTML snapshot.
package headless

import (
	"fmt"
	"math"
	"sync"

	geojson "github.com/paulmach/go.geojson"

	"trivia-finder/models"
	"trivia-finder/widget"
)

const (
	// MaxZoom is the closest zoom level the provider supports.
	MaxZoom  = 21
	tileSize = 256
)

// Provider creates MapViews of a fixed pixel size. It may be shared by
// instances starting concurrently; each MapView belongs to one instance.
type Provider struct {
	mu     sync.Mutex
	width  int
	height int
	loaded bool
	maps   map[string]*MapView
	order  []string
}

// NewProvider returns a provider whose maps are width x height pixels.
// loaded controls what Loaded reports before SetLoaded is called.
func NewProvider(width, height int, loaded bool) *Provider {
	return &Provider{
		width:  width,
		height: height,
		loaded: loaded,
		maps:   make(map[string]*MapView),
	}
}

// Loaded reports whether the provider runtime is available.
func (p *Provider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// SetLoaded marks the runtime as available.
func (p *Provider) SetLoaded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = true
}

// NewMap creates a map drawn into container.
func (p *Provider) NewMap(container string, opts widget.MapOptions) (widget.MapView, error) {
	if container == "" {
		return nil, fmt.Errorf("headless: empty map container")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.maps[container]; ok {
		return nil, fmt.Errorf("headless: container %q already holds a map", container)
	}
	mv := &MapView{
		container: container,
		width:     p.width,
		height:    p.height,
		center:    opts.Center,
		zoom:      clampZoom(opts.Zoom),
		opts:      opts,
	}
	p.maps[container] = mv
	p.order = append(p.order, container)
	return mv, nil
}

// Map returns the map drawn into container, or nil.
func (p *Provider) Map(container string) *MapView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maps[container]
}

// Maps returns every map in creation order.
func (p *Provider) Maps() []*MapView {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*MapView, 0, len(p.order))
	for _, c := range p.order {
		out = append(out, p.maps[c])
	}
	return out
}

// MapView is an in-memory map viewport using Web Mercator tile maths.
type MapView struct {
	container string
	width     int
	height    int
	center    models.LatLng
	zoom      int
	opts      widget.MapOptions

	markers []*Marker
	popups  []*Popup
	created int
}

func (m *MapView) Container() string          { return m.container }
func (m *MapView) Center() models.LatLng      { return m.center }
func (m *MapView) Options() widget.MapOptions { return m.opts }
func (m *MapView) Zoom() int                  { return m.zoom }

// SetZoom moves the camera to zoom, clamped to the supported range.
func (m *MapView) SetZoom(zoom int) { m.zoom = clampZoom(zoom) }

// PanTo recentres the camera.
func (m *MapView) PanTo(p models.LatLng) { m.center = p }

// FitBounds centres on b and picks the largest zoom at which b fits the
// viewport. An empty box is ignored.
func (m *MapView) FitBounds(b models.Bounds) {
	if b.IsEmpty() {
		return
	}
	m.center = b.Center()
	m.zoom = fitZoom(b, m.width, m.height)
}

// NewMarker places a marker on the map.
func (m *MapView) NewMarker(p models.LatLng, title string) widget.Marker {
	mk := &Marker{view: m, position: p, title: title}
	m.markers = append(m.markers, mk)
	m.created++
	return mk
}

// NewPopup creates a closed popup bound to this map.
func (m *MapView) NewPopup() widget.Popup {
	pp := &Popup{}
	m.popups = append(m.popups, pp)
	return pp
}

// Markers returns the markers currently on the map.
func (m *MapView) Markers() []*Marker {
	out := make([]*Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// MarkersCreated counts every marker ever placed, removed ones included.
func (m *MapView) MarkersCreated() int { return m.created }

// MarkerTitled returns the live marker with the given title, or nil.
func (m *MapView) MarkerTitled(title string) *Marker {
	for _, mk := range m.markers {
		if mk.title == title {
			return mk
		}
	}
	return nil
}

// OpenPopup returns the popup currently shown, or nil.
func (m *MapView) OpenPopup() *Popup {
	for _, pp := range m.popups {
		if pp.open {
			return pp
		}
	}
	return nil
}

// MarkersGeoJSON exports the live marker layer as point features.
func (m *MapView) MarkersGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, mk := range m.markers {
		f := geojson.NewPointFeature([]float64{mk.position.Lng, mk.position.Lat})
		f.ID = i
		f.SetProperty("title", mk.title)
		fc.AddFeature(f)
	}
	return fc
}

func (m *MapView) detach(mk *Marker) {
	for i, live := range m.markers {
		if live == mk {
			m.markers = append(m.markers[:i], m.markers[i+1:]...)
			break
		}
	}
	for _, pp := range m.popups {
		if pp.anchor == mk {
			pp.open = false
			pp.anchor = nil
		}
	}
}

// Marker is a point on a MapView.
type Marker struct {
	view     *MapView
	position models.LatLng
	title    string
	onClick  func()
	removed  bool
}

func (mk *Marker) Position() models.LatLng { return mk.position }
func (mk *Marker) Title() string           { return mk.title }
func (mk *Marker) Removed() bool           { return mk.removed }

// OnClick sets the click handler.
func (mk *Marker) OnClick(fn func()) { mk.onClick = fn }

// Remove takes the marker off its map and closes any popup anchored to it.
func (mk *Marker) Remove() {
	if mk.removed {
		return
	}
	mk.removed = true
	mk.view.detach(mk)
}

// Click simulates a user click. Removed markers ignore clicks.
func (mk *Marker) Click() {
	if mk.removed || mk.onClick == nil {
		return
	}
	mk.onClick()
}

// Popup is a detail bubble shown above one marker at a time.
type Popup struct {
	content string
	anchor  *Marker
	open    bool
}

func (pp *Popup) Content() string { return pp.content }
func (pp *Popup) Anchor() *Marker { return pp.anchor }
func (pp *Popup) IsOpen() bool    { return pp.open }

// SetContent replaces the popup markup.
func (pp *Popup) SetContent(markup string) { pp.content = markup }

// Open shows the popup above anchor. Anchors from another provider are ignored.
func (pp *Popup) Open(anchor widget.Marker) {
	mk, ok := anchor.(*Marker)
	if !ok || mk.removed {
		return
	}
	pp.anchor = mk
	pp.open = true
}

func clampZoom(z int) int {
	return max(0, min(z, MaxZoom))
}

// fitZoom returns the largest zoom at which b spans no more than the
// viewport in either direction.
func fitZoom(b models.Bounds, width, height int) int {
	latFraction := (mercatorY(b.North) - mercatorY(b.South)) / math.Pi

	lngDiff := b.East - b.West
	if lngDiff < 0 {
		lngDiff += 360
	}
	lngFraction := lngDiff / 360

	return min(zoomFor(height, latFraction), zoomFor(width, lngFraction), MaxZoom)
}

func zoomFor(px int, fraction float64) int {
	if fraction <= 0 || px <= 0 {
		return MaxZoom
	}
	z := math.Floor(math.Log2(float64(px) / tileSize / fraction))
	return clampZoom(int(z))
}

func mercatorY(lat float64) float64 {
	s := math.Sin(lat * math.Pi / 180)
	y := math.Log((1+s)/(1-s)) / 2
	return math.Max(math.Min(y, math.Pi), -math.Pi) / 2
}
