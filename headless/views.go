package headless

import (
	"sort"

	"trivia-finder/widget"
)

// Selector is an in-memory single-choice control.
type Selector struct {
	options  []widget.Option
	selected string
	onChange func(string)
}

// SetOptions replaces the entries and the current choice.
func (s *Selector) SetOptions(opts []widget.Option, selected string) {
	s.options = append(s.options[:0:0], opts...)
	s.selected = selected
}

// OnChange sets the handler Choose invokes.
func (s *Selector) OnChange(fn func(value string)) { s.onChange = fn }

func (s *Selector) Options() []widget.Option { return s.options }
func (s *Selector) Selected() string         { return s.selected }

// Values returns the option values in display order.
func (s *Selector) Values() []string {
	out := make([]string, len(s.options))
	for i, o := range s.options {
		out[i] = o.Value
	}
	return out
}

// Choose simulates the user picking value. Values not offered are ignored.
func (s *Selector) Choose(value string) bool {
	for _, o := range s.options {
		if o.Value == value {
			s.selected = value
			if s.onChange != nil {
				s.onChange(value)
			}
			return true
		}
	}
	return false
}

// ListView is an in-memory venue list panel.
type ListView struct {
	cards       []widget.Card
	empty       string
	highlighted map[int]bool
	scrolledTo  int
	onClick     func(int)
}

// NewListView returns an empty list.
func NewListView() *ListView {
	return &ListView{highlighted: make(map[int]bool), scrolledTo: -1}
}

// Render replaces the list with cards. Fresh cards carry no highlight.
func (l *ListView) Render(cards []widget.Card) {
	l.cards = append(l.cards[:0:0], cards...)
	l.empty = ""
	l.resetMarks()
}

// RenderEmpty replaces the list with a placeholder.
func (l *ListView) RenderEmpty(markup string) {
	l.cards = nil
	l.empty = markup
	l.resetMarks()
}

func (l *ListView) resetMarks() {
	clear(l.highlighted)
	l.scrolledTo = -1
}

// SetHighlighted toggles the highlight on a rendered card.
func (l *ListView) SetHighlighted(venueID int, on bool) {
	if l.card(venueID) == nil {
		return
	}
	if on {
		l.highlighted[venueID] = true
	} else {
		delete(l.highlighted, venueID)
	}
}

// ScrollIntoView records which card was last scrolled to.
func (l *ListView) ScrollIntoView(venueID int) {
	if l.card(venueID) != nil {
		l.scrolledTo = venueID
	}
}

// OnCardClick sets the handler Click invokes.
func (l *ListView) OnCardClick(fn func(venueID int)) { l.onClick = fn }

// Click simulates a click on a rendered card.
func (l *ListView) Click(venueID int) bool {
	if l.card(venueID) == nil || l.onClick == nil {
		return false
	}
	l.onClick(venueID)
	return true
}

func (l *ListView) Cards() []widget.Card { return l.cards }
func (l *ListView) Empty() string        { return l.empty }
func (l *ListView) ScrolledTo() int      { return l.scrolledTo }

// Highlighted returns the highlighted venue ids in ascending order.
func (l *ListView) Highlighted() []int {
	out := make([]int, 0, len(l.highlighted))
	for id := range l.highlighted {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// IDs returns the venue ids of the rendered cards in order.
func (l *ListView) IDs() []int {
	out := make([]int, len(l.cards))
	for i, c := range l.cards {
		out[i] = c.VenueID
	}
	return out
}

func (l *ListView) card(venueID int) *widget.Card {
	for i := range l.cards {
		if l.cards[i].VenueID == venueID {
			return &l.cards[i]
		}
	}
	return nil
}

// StatusView is the in-memory loading indicator.
type StatusView struct {
	markup  string
	visible bool
}

// Show displays markup.
func (s *StatusView) Show(markup string) {
	s.markup = markup
	s.visible = true
}

// Hide hides the indicator.
func (s *StatusView) Hide() { s.visible = false }

func (s *StatusView) Markup() string { return s.markup }
func (s *StatusView) Visible() bool  { return s.visible }
