package headless

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trivia-finder/widget"
)

const snapshotTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}Trivia Finder{{end}}</title>
</head>
<body>
<div class="trivia-finder-container" id="{{.Key}}" data-state="{{.State}}"{{if .DataURL}} data-csv-url="{{.DataURL}}"{{end}}>
{{- if .Title}}
<h2 class="trivia-finder-title">{{.Title}}</h2>
{{- end}}
{{- if .Day}}
<select class="triviaFinderDayFilter">
{{- range .Day}}
<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
{{- end}}
{{- if .Location}}
<select class="triviaFinderLocationFilter">
{{- range .Location}}
<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
{{- end}}
{{- if .StatusVisible}}
<div class="triviaFinderLoadingIndicator">{{.Status}}</div>
{{- end}}
{{- if .Map}}
<div class="triviaFinderMap" id="{{.Map.Container}}" data-center="{{.Map.Center}}" data-zoom="{{.Map.Zoom}}" data-markers="{{.Map.Markers}}">
{{- if .Map.Popup}}
<div class="trivia-popup">{{.Map.Popup}}</div>
{{- end}}
</div>
{{- end}}
<div class="triviaFinderVenueList">
{{- range .Cards}}
{{.}}
{{- end}}
{{- if .Empty}}
{{.Empty}}
{{- end}}
</div>
</div>
</body>
</html>
`

var snapshotPage = template.Must(template.New("snapshot").Parse(snapshotTemplate))

type snapshotOption struct {
	Value, Label string
	Selected     bool
}

type snapshotMap struct {
	Container string
	Center    string
	Zoom      int
	Markers   string
	Popup     template.HTML
}

type snapshot struct {
	Key, Title, State, DataURL string
	Day, Location              []snapshotOption
	Status                     template.HTML
	StatusVisible              bool
	Map                        *snapshotMap
	Cards                      []template.HTML
	Empty                      template.HTML
}

// WriteSnapshot renders the current state of one instance as a standalone
// HTML page. Card, popup and status markup were escaped when the instance
// rendered them and are embedded as is. mv may be nil for a mount without
// a map.
func WriteSnapshot(w io.Writer, in *widget.Instance, m *Mount, mv *MapView) error {
	s := snapshot{
		Key:      m.Point.Key,
		Title:    m.Point.Title,
		State:    in.State().String(),
		DataURL:  m.Point.DataURL,
		Day:      selectorOptions(m.Day),
		Location: selectorOptions(m.Location),
	}

	if m.Status != nil && m.Status.Visible() {
		s.Status = template.HTML(m.Status.Markup())
		s.StatusVisible = true
	}
	if m.List != nil {
		for _, c := range m.List.Cards() {
			s.Cards = append(s.Cards, template.HTML(c.Markup))
		}
		s.Empty = template.HTML(m.List.Empty())
	}

	if mv != nil {
		markers, err := mv.MarkersGeoJSON().MarshalJSON()
		if err != nil {
			return fmt.Errorf("snapshot: marshal markers: %w", err)
		}
		sm := &snapshotMap{
			Container: mv.Container(),
			Center:    fmt.Sprintf("%.6f,%.6f", mv.Center().Lat, mv.Center().Lng),
			Zoom:      mv.Zoom(),
			Markers:   string(markers),
		}
		if pp := mv.OpenPopup(); pp != nil {
			sm.Popup = template.HTML(pp.Content())
		}
		s.Map = sm
	}

	if err := snapshotPage.Execute(w, s); err != nil {
		return fmt.Errorf("snapshot: render %s: %w", m.Point.Key, err)
	}
	return nil
}

// WriteSnapshotFile writes the snapshot to dir/<key>.html and returns the path.
func WriteSnapshotFile(dir string, in *widget.Instance, m *Mount, mv *MapView) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("snapshot: create output dir: %w", err)
	}
	path := filepath.Join(dir, snapshotName(m.Point.Key))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("snapshot: create file %q: %w", path, err)
	}
	if err := WriteSnapshot(f, in, m, mv); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func snapshotName(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return name + ".html"
}

func selectorOptions(s *Selector) []snapshotOption {
	if s == nil {
		return nil
	}
	out := make([]snapshotOption, 0, len(s.Options()))
	for _, o := range s.Options() {
		out = append(out, snapshotOption{Value: o.Value, Label: o.Label, Selected: o.Value == s.Selected()})
	}
	return out
}
