package dom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-finder/headless"
	"trivia-finder/utils"
	"trivia-finder/widget"
)

const hostPage = `<!DOCTYPE html>
<html><body>
<div class="entry-content">
  <div class="trivia-finder-container" id="north" data-csv-url=" https://example.com/north.csv ">
    <h2 class="trivia-finder-title"> Northside <em>Trivia</em> </h2>
    <select class="triviaFinderDayFilter"></select>
    <select id="triviaFinderLocationFilter"></select>
    <div class="triviaFinderLoadingIndicator">Loading trivia nights...</div>
    <div class="map-wrap"><div class="triviaFinderMap" id="north-map"></div></div>
    <div class="triviaFinderVenueList"></div>
  </div>
  <section class="wide trivia-finder-container">
    <div class="triviaFinderMap"></div>
    <div class="triviaFinderVenueList"></div>
  </section>
</div>
</body></html>`

func TestParseMounts(t *testing.T) {
	mounts, err := ParseMounts(strings.NewReader(hostPage))
	require.NoError(t, err)
	require.Len(t, mounts, 2)

	assert.Equal(t, widget.MountPoint{
		Key:          "north",
		DataURL:      "https://example.com/north.csv",
		Title:        "Northside Trivia",
		MapContainer: "north-map",
		HasDay:       true,
		HasLocation:  true,
		HasList:      true,
		HasStatus:    true,
	}, mounts[0])

	assert.Equal(t, widget.MountPoint{
		Key:          "mount-2",
		MapContainer: "mount-2-map",
		HasList:      true,
	}, mounts[1])
}

func TestParseMountsNestedContainerOwnsItsControls(t *testing.T) {
	page := `<div class="trivia-finder-container" id="outer">
		<div class="trivia-finder-container" id="inner"><div class="triviaFinderMap" id="m"></div></div>
	</div>`

	mounts, err := ParseMounts(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, mounts, 2)
	assert.Equal(t, "outer", mounts[0].Key)
	assert.Empty(t, mounts[0].MapContainer)
	assert.Equal(t, "m", mounts[1].MapContainer)
}

func TestParseMountsNone(t *testing.T) {
	mounts, err := ParseMounts(strings.NewReader(`<p class="trivia-finder">nothing here</p>`))
	require.NoError(t, err)
	assert.Empty(t, mounts)
}

func TestStaticDocument(t *testing.T) {
	doc, err := NewStaticDocument("inline", hostPage)
	require.NoError(t, err)
	assert.Equal(t, "inline", doc.Source())

	first, err := doc.Mounts()
	require.NoError(t, err)
	first[0].Key = "changed"

	again, err := doc.Mounts()
	require.NoError(t, err)
	assert.Equal(t, "north", again[0].Key)
}

func TestLoadStaticFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(hostPage), 0644))

	for _, locator := range []string{path, "file://" + path} {
		doc, err := LoadStatic(context.Background(), locator, http.DefaultClient)
		require.NoError(t, err)
		mounts, _ := doc.Mounts()
		assert.Len(t, mounts, 2)
	}

	_, err := LoadStatic(context.Background(), filepath.Join(t.TempDir(), "missing.html"), http.DefaultClient)
	assert.Error(t, err)
}

func TestLoadStaticFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(hostPage))
	}))
	defer srv.Close()

	doc, err := LoadStatic(context.Background(), srv.URL+"/page", srv.Client())
	require.NoError(t, err)
	mounts, _ := doc.Mounts()
	assert.Len(t, mounts, 2)

	_, err = LoadStatic(context.Background(), srv.URL+"/gone", srv.Client())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFindChromeBinaryOverride(t *testing.T) {
	assert.Equal(t, "/opt/custom/chrome", FindChromeBinary("/opt/custom/chrome"))
}

func TestAllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)
	assert.Len(t, AllocatorOptions(""), base+6)
	assert.Len(t, AllocatorOptions("/usr/bin/chromium"), base+7)
}

// liveMarkup re-parses its markup on every call, as a live page does.
type liveMarkup struct {
	markup string
}

func (l *liveMarkup) Mounts() ([]widget.MountPoint, error) {
	return ParseMounts(strings.NewReader(l.markup))
}

func stampedMount(key, dataURL string) string {
	return `<div class="trivia-finder-container" ` + KeyAttr + `="` + key + `" data-csv-url="` + dataURL + `">` +
		`<div class="triviaFinderMap"></div><div class="triviaFinderVenueList"></div></div>`
}

func TestParseMountsPrefersStampedKey(t *testing.T) {
	markup := `<div class="trivia-finder-container" id="named" ` + KeyAttr + `="trivia-finder-9"></div>` +
		stampedMount("trivia-finder-1", "a.csv")
	mounts, err := ParseMounts(strings.NewReader(markup))
	require.NoError(t, err)
	require.Len(t, mounts, 2)
	assert.Equal(t, "named", mounts[0].Key)
	assert.Equal(t, "trivia-finder-1", mounts[1].Key)
	assert.Equal(t, "trivia-finder-1-map", mounts[1].MapContainer)
}

func TestInsertedMountDoesNotRebindExisting(t *testing.T) {
	doc := &liveMarkup{markup: `<body>` + stampedMount("trivia-finder-1", "a.csv") + `</body>`}
	host := headless.NewHost()
	m := widget.NewManager(nil, doc, host, headless.NewProvider(640, 480, false), nil,
		widget.Settings{Zoom: 12, SingleVenueZoom: 15, SelectedZoom: 15},
		widget.ManagerConfig{DiscoveryMaxAttempts: 1, MaxConcurrency: 1}, utils.Discard())

	added, err := m.Discover()
	require.NoError(t, err)
	require.Len(t, added, 1)

	doc.markup = `<body>` + stampedMount("trivia-finder-2", "b.csv") + stampedMount("trivia-finder-1", "a.csv") + `</body>`
	added, err = m.Discover()
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "b.csv", added[0].Mount().DataURL)

	byURL := map[string]int{}
	for _, mount := range host.Mounts() {
		byURL[mount.Point.DataURL]++
	}
	assert.Equal(t, map[string]int{"a.csv": 1, "b.csv": 1}, byURL)
}

func TestStampScriptTargetsMounts(t *testing.T) {
	assert.Contains(t, stampScript, `".`+ContainerClass+`"`)
	assert.Contains(t, stampScript, `el.hasAttribute("`+KeyAttr+`")`)
	assert.Contains(t, stampScript, `el.setAttribute("`+KeyAttr+`", "`+stampPrefix+`" + seq)`)
}
