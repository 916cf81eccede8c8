package services

import (
	"strings"
	"testing"

	"trivia-finder/models"
)

func TestRenderCardEscapesFields(t *testing.T) {
	v := &models.Venue{
		ID:      3,
		Name:    `<script>alert("x")</script>`,
		Address: "1 & 2 St",
		Day:     "Monday",
		DayTime: "7pm",
	}

	html, err := RenderCard(v, "tf-card-3")
	if err != nil {
		t.Fatalf("RenderCard: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("name was not escaped: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected escaped name in %s", html)
	}
	if !strings.Contains(html, "1 &amp; 2 St") {
		t.Errorf("expected escaped address in %s", html)
	}
	if !strings.Contains(html, `data-venue-id="3"`) || !strings.Contains(html, `id="tf-card-3"`) {
		t.Errorf("card identifiers missing: %s", html)
	}
	if !strings.Contains(html, "<strong>Monday</strong> at 7pm") {
		t.Errorf("day row missing: %s", html)
	}
}

func TestRenderOmitsEmptyOptionalRows(t *testing.T) {
	v := &models.Venue{ID: 1, Name: "Pub", Address: "1 St"}

	card, err := RenderCard(v, "c1")
	if err != nil {
		t.Fatal(err)
	}
	popup, err := RenderPopup(v)
	if err != nil {
		t.Fatal(err)
	}

	for name, html := range map[string]string{"card": card, "popup": popup} {
		for _, icon := range []string{"📅", "⭐", "📞", "🔗"} {
			if strings.Contains(html, icon) {
				t.Errorf("%s should omit the %s row for an empty field: %s", name, icon, html)
			}
		}
		if !strings.Contains(html, "📍") {
			t.Errorf("%s should keep the address row: %s", name, html)
		}
	}
}

func TestRenderPopupWebsiteLink(t *testing.T) {
	v := &models.Venue{Name: "Pub", Address: "1 St", Website: "https://pub.example.com/?a=1&b=2"}
	html, err := RenderPopup(v)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, `href="https://pub.example.com/?a=1&amp;b=2"`) {
		t.Errorf("website href not escaped as expected: %s", html)
	}
	if !strings.Contains(html, `rel="noopener"`) {
		t.Errorf("website link should open safely: %s", html)
	}
}

func TestRenderRejectsScriptURL(t *testing.T) {
	v := &models.Venue{Name: "Pub", Address: "1 St", Website: "javascript:alert(1)"}
	html, err := RenderCard(v, "c")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "javascript:") {
		t.Errorf("script URL leaked into href: %s", html)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	v := &models.Venue{ID: 2, Name: "Pub", Address: "1 St", Special: "Wings", Phone: "555"}
	a, _ := RenderCard(v, "same")
	b, _ := RenderCard(v, "same")
	if a != b {
		t.Error("RenderCard should be deterministic")
	}
	p1, _ := RenderPopup(v)
	p2, _ := RenderPopup(v)
	if p1 != p2 {
		t.Error("RenderPopup should be deterministic")
	}
}

func TestRenderStatusAndEmptyState(t *testing.T) {
	if got := RenderStatus("Error", "CSV URL missing"); got != "<div><strong>Error</strong><br>CSV URL missing</div>" {
		t.Errorf("RenderStatus = %q", got)
	}
	if got := RenderStatus("", "Loading trivia nights..."); got != "Loading trivia nights..." {
		t.Errorf("RenderStatus without title = %q", got)
	}
	if !strings.Contains(RenderEmptyState(), "No venues found") {
		t.Errorf("RenderEmptyState = %q", RenderEmptyState())
	}
}
