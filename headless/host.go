package headless

import (
	"fmt"

	"trivia-finder/widget"
)

// Mount holds the controls bound for one mount point. Controls the mount
// does not declare are nil.
type Mount struct {
	Point    widget.MountPoint
	Day      *Selector
	Location *Selector
	List     *ListView
	Status   *StatusView
}

// Host binds mounts to in-memory controls. It is not safe for concurrent
// use: Bind must only be called from Manager.Discover, which runs on the
// caller's goroutine.
type Host struct {
	mounts map[string]*Mount
	order  []string
}

// NewHost returns a host with no bound mounts.
func NewHost() *Host {
	return &Host{mounts: make(map[string]*Mount)}
}

// Bind creates controls for every element mp declares.
func (h *Host) Bind(mp widget.MountPoint) (widget.Views, error) {
	if _, ok := h.mounts[mp.Key]; ok {
		return widget.Views{}, fmt.Errorf("headless: mount %q already bound", mp.Key)
	}

	m := &Mount{Point: mp}
	var views widget.Views
	if mp.HasDay {
		m.Day = &Selector{}
		views.Day = m.Day
	}
	if mp.HasLocation {
		m.Location = &Selector{}
		views.Location = m.Location
	}
	if mp.HasList {
		m.List = NewListView()
		views.List = m.List
	}
	if mp.HasStatus {
		m.Status = &StatusView{}
		views.Status = m.Status
	}

	h.mounts[mp.Key] = m
	h.order = append(h.order, mp.Key)
	return views, nil
}

// Mount returns the controls bound for key, or nil.
func (h *Host) Mount(key string) *Mount { return h.mounts[key] }

// Mounts returns the bound mounts in bind order.
func (h *Host) Mounts() []*Mount {
	out := make([]*Mount, 0, len(h.order))
	for _, k := range h.order {
		out = append(out, h.mounts[k])
	}
	return out
}

// FullMount is a mount point declaring every control, with its map drawn
// into "<key>-map".
func FullMount(key, dataURL string) widget.MountPoint {
	return widget.MountPoint{
		Key:          key,
		DataURL:      dataURL,
		MapContainer: key + "-map",
		HasDay:       true,
		HasLocation:  true,
		HasList:      true,
		HasStatus:    true,
	}
}

// Page is an in-memory host document whose mounts can be added at any time,
// as a page script inserting markup after load would. Add and Mounts must not
// race.
type Page struct {
	mounts []widget.MountPoint
}

// NewPage returns a page holding mounts.
func NewPage(mounts ...widget.MountPoint) *Page {
	return &Page{mounts: mounts}
}

// Add appends a mount to the page.
func (p *Page) Add(mp widget.MountPoint) { p.mounts = append(p.mounts, mp) }

// Mounts returns every mount on the page.
func (p *Page) Mounts() ([]widget.MountPoint, error) {
	out := make([]widget.MountPoint, len(p.mounts))
	copy(out, p.mounts)
	return out, nil
}
