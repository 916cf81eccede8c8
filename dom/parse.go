// Package dom finds widget mount points in host pages, either in static HTML
// or in a live page loaded by a headless browser.
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"trivia-finder/widget"
)

// Markup the host page uses to declare a mount and its controls. Child
// controls are matched by class or by id.
const (
	ContainerClass   = "trivia-finder-container"
	KeyAttr          = "data-trivia-finder-key"
	DataURLAttr      = "data-csv-url"
	TitleClass       = "trivia-finder-title"
	DayFilter        = "triviaFinderDayFilter"
	LocationFilter   = "triviaFinderLocationFilter"
	MapElement       = "triviaFinderMap"
	VenueList        = "triviaFinderVenueList"
	LoadingIndicator = "triviaFinderLoadingIndicator"
)

// ParseMounts returns every mount in the document, in document order. A
// mount is keyed by its id, then by its KeyAttr stamp, and otherwise by its
// position ("mount-1" onwards). Positional keys are only stable while the
// markup does not change.
func ParseMounts(r io.Reader) ([]widget.MountPoint, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}

	var mounts []widget.MountPoint
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, ContainerClass) {
			mounts = append(mounts, mountPoint(n, len(mounts)+1))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return mounts, nil
}

func mountPoint(n *html.Node, position int) widget.MountPoint {
	key := attr(n, "id")
	if key == "" {
		key = attr(n, KeyAttr)
	}
	if key == "" {
		key = fmt.Sprintf("mount-%d", position)
	}

	mp := widget.MountPoint{
		Key:     key,
		DataURL: strings.TrimSpace(attr(n, DataURLAttr)),
	}
	if t := find(n, func(c *html.Node) bool { return hasClass(c, TitleClass) }); t != nil {
		mp.Title = strings.TrimSpace(textContent(t))
	}
	if m := findControl(n, MapElement); m != nil {
		mp.MapContainer = attr(m, "id")
		if mp.MapContainer == "" {
			mp.MapContainer = key + "-map"
		}
	}
	mp.HasDay = findControl(n, DayFilter) != nil
	mp.HasLocation = findControl(n, LocationFilter) != nil
	mp.HasList = findControl(n, VenueList) != nil
	mp.HasStatus = findControl(n, LoadingIndicator) != nil
	return mp
}

func findControl(root *html.Node, name string) *html.Node {
	return find(root, func(c *html.Node) bool {
		return hasClass(c, name) || attr(c, "id") == name
	})
}

// find searches the descendants of root depth-first. Nested mounts own
// their own controls and are not searched.
func find(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if hasClass(c, ContainerClass) {
			continue
		}
		if match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
