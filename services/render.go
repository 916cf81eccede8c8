package services

import (
	"html/template"
	"strings"

	"trivia-finder/models"
)

// Markup for list cards, popups and the status/empty panels. html/template
// escapes every interpolated field for its context, including website hrefs.
const markupTemplates = `
{{define "details"}}
{{- if .Address}}<div class="{{.Row}}"><span class="{{.Icon}}">📍</span><span class="{{.Text}}">{{.Address}}</span></div>{{end}}
{{- if .Day}}<div class="{{.Row}}"><span class="{{.Icon}}">📅</span><span class="{{.Text}}"><strong>{{.Day}}</strong>{{if .DayTime}} at {{.DayTime}}{{end}}</span></div>{{end}}
{{- if .Special}}<div class="{{.Row}}"><span class="{{.Icon}}">⭐</span><span class="{{.Text}}">{{.Special}}</span></div>{{end}}
{{- if .Phone}}<div class="{{.Row}}"><span class="{{.Icon}}">📞</span><span class="{{.Text}}">{{.Phone}}</span></div>{{end}}
{{- if .Website}}<div class="{{.Row}}"><span class="{{.Icon}}">🔗</span><a class="{{.Link}}" href="{{.Website}}" target="_blank" rel="noopener">Visit Website</a></div>{{end}}
{{- end}}

{{define "card" -}}
<div class="trivia-venue-card" id="{{.ElementID}}" data-venue-id="{{.ID}}">
<div class="trivia-venue-header"><h3 class="trivia-venue-name">{{.Name}}</h3></div>
<div class="trivia-venue-body">{{template "details" .}}</div>
</div>
{{- end}}

{{define "popup" -}}
<div class="trivia-custom-info-window">
<div class="trivia-custom-info-header"><h3 class="trivia-custom-info-title">{{.Name}}</h3></div>
<div class="trivia-custom-info-body">{{template "details" .}}</div>
</div>
{{- end}}

{{define "empty" -}}
<div class="trivia-empty-state"><h3>No venues found</h3><p>Try adjusting filters</p></div>
{{- end}}

{{define "status" -}}
{{if .Title}}<div><strong>{{.Title}}</strong><br>{{.Message}}</div>{{else}}{{.Message}}{{end}}
{{- end}}
`

var markup = template.Must(template.New("markup").Parse(markupTemplates))

type detailClasses struct {
	Row, Icon, Text, Link string
}

var (
	cardClasses = detailClasses{
		Row:  "trivia-venue-detail",
		Icon: "trivia-venue-detail-icon",
		Text: "trivia-venue-detail-text",
		Link: "trivia-venue-website",
	}
	popupClasses = detailClasses{
		Row:  "trivia-info-detail-row",
		Icon: "trivia-info-detail-icon",
		Text: "trivia-info-detail-text",
		Link: "trivia-info-detail-link",
	}
)

type venueView struct {
	*models.Venue
	detailClasses
	ElementID string
}

// RenderCard returns the list-card markup for v. elementID becomes the card's
// id attribute; apart from it the output depends only on v.
func RenderCard(v *models.Venue, elementID string) (string, error) {
	return execute("card", venueView{Venue: v, detailClasses: cardClasses, ElementID: elementID})
}

// RenderPopup returns the detail-popup markup for v.
func RenderPopup(v *models.Venue) (string, error) {
	return execute("popup", venueView{Venue: v, detailClasses: popupClasses})
}

// RenderEmptyState returns the list placeholder shown when nothing is visible.
func RenderEmptyState() string {
	s, _ := execute("empty", nil)
	return s
}

// RenderStatus returns the loading-indicator markup. An empty title renders
// the message alone.
func RenderStatus(title, message string) string {
	s, _ := execute("status", struct{ Title, Message string }{title, message})
	return s
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := markup.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
