// Package tui is an interactive terminal host for one widget instance. The
// filters, list and map are the headless controls; the model only turns key
// presses into the same events a page would send and draws the result.
package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trivia-finder/headless"
	"trivia-finder/models"
	"trivia-finder/widget"
)

type pane int

const (
	dayPane pane = iota
	locationPane
	listPane
	paneCount
)

var (
	colorAccent = lipgloss.Color("212")
	colorDim    = lipgloss.Color("243")
	colorError  = lipgloss.Color("203")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(colorDim)
	focusStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	detailsStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	sectionMargin = lipgloss.NewStyle().MarginTop(1)
)

// Model is the bubbletea model driving one instance.
type Model struct {
	in      *widget.Instance
	mount   *headless.Mount
	mapView *headless.MapView

	keys   keyMap
	help   help.Model
	focus  pane
	cursor int
}

// New returns a model over an instance bound to mount. mapView may be nil.
func New(in *widget.Instance, mount *headless.Mount, mapView *headless.MapView) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(colorDim)
	h.Styles.FullKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(colorDim)

	return Model{
		in:      in,
		mount:   mount,
		mapView: mapView,
		keys:    defaultKeyMap(),
		help:    h,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Pane):
			if msg.String() == "shift+tab" {
				m.focus = (m.focus + paneCount - 1) % paneCount
			} else {
				m.focus = (m.focus + 1) % paneCount
			}
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
		case key.Matches(msg, m.keys.Next):
			m.step(1)
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.in.Visible())-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if v := m.current(); v != nil {
				if m.mount.List == nil || !m.mount.List.Click(v.ID) {
					m.in.Select(widget.Selection{VenueID: v.ID, Source: widget.CardClick})
				}
			}
		case key.Matches(msg, m.keys.Pin):
			if v := m.current(); v != nil && m.in.HasMarker(v.ID) {
				m.in.Select(widget.Selection{VenueID: v.ID, Source: widget.MarkerClick})
			}
		}
	}
	return m, nil
}

// step moves the focused selector by delta options, wrapping around.
func (m *Model) step(delta int) {
	sel := m.focusedSelector()
	if sel == nil {
		return
	}
	values := sel.Values()
	if len(values) == 0 {
		return
	}
	idx := 0
	for i, v := range values {
		if v == sel.Selected() {
			idx = i
		}
	}
	next := (idx + delta + len(values)) % len(values)
	if sel.Choose(values[next]) {
		m.cursor = 0
	}
}

func (m *Model) focusedSelector() *headless.Selector {
	switch m.focus {
	case dayPane:
		return m.mount.Day
	case locationPane:
		return m.mount.Location
	}
	return nil
}

func (m Model) current() *models.Venue {
	visible := m.in.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return visible[m.cursor]
}

func (m Model) View() string {
	sections := []string{titleStyle.Render(m.title())}

	sections = append(sections,
		m.selectorLine("Day", m.mount.Day, dayPane)+"   "+m.selectorLine("Location", m.mount.Location, locationPane))

	if line := m.statusLine(); line != "" {
		sections = append(sections, sectionMargin.Render(line))
	}

	sections = append(sections, sectionMargin.Render(m.listView()))

	if v := m.highlightedVenue(); v != nil {
		sections = append(sections, sectionMargin.Render(detailsStyle.Render(details(v))))
	}
	if m.mapView != nil {
		sections = append(sections, sectionMargin.Render(m.mapLine()))
	}

	sections = append(sections, sectionMargin.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) title() string {
	if m.mount.Point.Title != "" {
		return printable(m.mount.Point.Title)
	}
	return "Trivia Finder"
}

func (m Model) selectorLine(label string, sel *headless.Selector, p pane) string {
	if sel == nil {
		return ""
	}
	current := sel.Selected()
	for _, o := range sel.Options() {
		if o.Value == sel.Selected() {
			current = o.Label
		}
	}
	value := "‹ " + printable(current) + " ›"
	if m.focus == p {
		value = focusStyle.Render(value)
	}
	return labelStyle.Render(label+":") + " " + value
}

func (m Model) statusLine() string {
	err := m.in.Err()
	switch {
	case err == nil && m.in.State() < widget.Rendered:
		return dimStyle.Render(widget.LoadingMessage)
	case err == nil:
		return ""
	case widget.IsConfigurationError(err):
		return errorStyle.Render("Error: CSV URL missing")
	default:
		return errorStyle.Render("Error: Failed to load CSV")
	}
}

func (m Model) listView() string {
	visible := m.in.Visible()
	if len(visible) == 0 {
		return "No venues found\n" + dimStyle.Render("Try adjusting filters")
	}

	highlighted, hasHighlight := m.in.Highlighted()
	var b strings.Builder
	for i, v := range visible {
		prefix := "  "
		if i == m.cursor && m.focus == listPane {
			prefix = cursorStyle.Render("> ")
		} else if i == m.cursor {
			prefix = "> "
		}
		name := printable(v.Name)
		if hasHighlight && v.ID == highlighted {
			name = cursorStyle.Render("★ " + name)
		}
		meta := printable(strings.TrimSpace(strings.Join([]string{v.Day, v.Location}, " ")))
		if !m.in.HasMarker(v.ID) {
			meta = strings.TrimSpace(meta + " (no map position)")
		}
		fmt.Fprintf(&b, "%s%s  %s", prefix, name, dimStyle.Render(meta))
		if i < len(visible)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) highlightedVenue() *models.Venue {
	id, ok := m.in.Highlighted()
	if !ok {
		return nil
	}
	for _, v := range m.in.Visible() {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (m Model) mapLine() string {
	c := m.mapView.Center()
	line := fmt.Sprintf("Map %.4f, %.4f  zoom %d  %d markers", c.Lat, c.Lng, m.mapView.Zoom(), len(m.mapView.Markers()))
	if pp := m.mapView.OpenPopup(); pp != nil && pp.Anchor() != nil {
		line += "  popup: " + printable(pp.Anchor().Title())
	}
	return dimStyle.Render(line)
}

func details(v *models.Venue) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(printable(v.Name))}
	add := func(icon, text string) {
		if text = printable(text); text != "" {
			lines = append(lines, icon+" "+text)
		}
	}
	add("📍", v.Address)
	if v.Day != "" {
		when := v.Day
		if v.DayTime != "" {
			when += " at " + v.DayTime
		}
		add("📅", when)
	}
	add("⭐", v.Special)
	add("📞", v.Phone)
	add("🔗", v.Website)
	return strings.Join(lines, "\n")
}

// printable drops control characters from dataset text so a cell cannot
// carry terminal escape sequences. Tabs and line breaks become spaces.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// Run starts an interactive session and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
