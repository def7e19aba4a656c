// ABOUTME: Ordered store of time-aligned word markers
// ABOUTME: Bulk generation, sequential tagging, selection, and playhead resolution
package marker

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrNoMoreWords reports that sequential tagging has consumed the whole
// word list. Tagging resumes once the caller supplies more words.
var ErrNoMoreWords = errors.New("no more words to tag")

// Marker is a user-placed time annotation. Index is stable identity:
// assigned at creation and never renumbered, even when other markers
// are removed. PositionMs is not force-clamped; a marker dragged
// slightly outside clean bounds keeps its position.
type Marker struct {
	Index      int
	Label      string
	PositionMs float64
	Selected   bool
}

// Store owns all markers plus the word list driving sequential tagging.
// Markers are not kept sorted by position: a manual move may cross
// another marker, and the word order is the utterance order, so
// position lookups always scan the full set.
type Store struct {
	markers   []*Marker
	words     []string
	cursor    int
	nextIndex int
}

// NewStore creates an empty marker store
func NewStore() *Store {
	return &Store{nextIndex: 1}
}

// SetWords replaces the word list, destroying all existing markers.
// Called when the transcription text changes.
func (s *Store) SetWords(words []string) {
	s.Clear()
	s.words = words
}

// Words returns the current word list
func (s *Store) Words() []string {
	return s.words
}

// SplitWords breaks transcript text into its whitespace-separated words
func SplitWords(text string) []string {
	return strings.Fields(text)
}

// GenerateEven replaces all markers with one per word, evenly spaced
// strictly inside (0, totalMs): word i lands at totalMs/(n+1)*(i+1).
func (s *Store) GenerateEven(words []string, totalMs float64) {
	s.SetWords(words)

	n := len(words)
	if n == 0 || totalMs <= 0 {
		return
	}

	spacing := totalMs / float64(n+1)
	s.markers = make([]*Marker, n)
	for i, w := range words {
		s.markers[i] = &Marker{
			Index:      i + 1,
			Label:      w,
			PositionMs: spacing * float64(i+1),
		}
	}
	s.nextIndex = n + 1
}

// TagNext advances the sequential-tagging cursor: if the cursor
// addresses an existing marker it is repositioned to nowMs, otherwise
// a new marker for the cursor's word is created there. Returns
// ErrNoMoreWords past the end of the word list.
func (s *Store) TagNext(nowMs float64) (*Marker, error) {
	if s.cursor >= len(s.words) {
		return nil, ErrNoMoreWords
	}

	if s.cursor < len(s.markers) {
		m := s.markers[s.cursor]
		m.PositionMs = nowMs
		s.cursor++
		return m, nil
	}

	m := &Marker{
		Index:      s.nextIndex,
		Label:      s.words[s.cursor],
		PositionMs: nowMs,
	}
	s.markers = append(s.markers, m)
	s.nextIndex++
	s.cursor++
	return m, nil
}

// ResetCursor rewinds sequential tagging to the first word
func (s *Store) ResetCursor() {
	s.cursor = 0
}

// Move repositions a marker. No reordering or renumbering happens even
// when the new position crosses another marker.
func (s *Store) Move(m *Marker, newMs float64) {
	m.PositionMs = newMs
}

// Select marks m as the single selected marker
func (s *Store) Select(m *Marker) {
	for _, other := range s.markers {
		other.Selected = false
	}
	m.Selected = true
}

// SelectNone clears any selection
func (s *Store) SelectNone() {
	for _, m := range s.markers {
		m.Selected = false
	}
}

// Selected returns the selected marker, or nil
func (s *Store) Selected() *Marker {
	for _, m := range s.markers {
		if m.Selected {
			return m
		}
	}
	return nil
}

// NearestAtOrBefore returns the marker with the greatest position at or
// before tMs, or nil if none qualifies. Full scan: manual moves may
// have broken position order, so sorted-order shortcuts are unsound.
func (s *Store) NearestAtOrBefore(tMs float64) *Marker {
	var best *Marker
	for _, m := range s.markers {
		if m.PositionMs > tMs {
			continue
		}
		if best == nil || m.PositionMs > best.PositionMs {
			best = m
		}
	}
	return best
}

// NearestTo returns the marker closest to tMs within toleranceMs, or nil
func (s *Store) NearestTo(tMs, toleranceMs float64) *Marker {
	var best *Marker
	bestDist := toleranceMs
	for _, m := range s.markers {
		if d := math.Abs(m.PositionMs - tMs); d <= bestDist {
			best = m
			bestDist = d
		}
	}
	return best
}

// Remove deletes a marker. Remaining markers keep their indices; the
// sequential-tagging cursor moves back if it was past the removed slot.
func (s *Store) Remove(m *Marker) {
	for i, other := range s.markers {
		if other == m {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			if s.cursor > i {
				s.cursor--
			}
			return
		}
	}
}

// Clear removes all markers, the selection, and rewinds the cursor.
// Called on file reload or transcription edit.
func (s *Store) Clear() {
	s.markers = nil
	s.cursor = 0
	s.nextIndex = 1
}

// Markers returns the markers in creation order. Borrowed references:
// callers must not hold them across store mutations.
func (s *Store) Markers() []*Marker {
	return s.markers
}

// Len returns the marker count
func (s *Store) Len() int {
	return len(s.markers)
}

// sortedByIndex returns a copy ordered by stable index
func (s *Store) sortedByIndex() []*Marker {
	out := make([]*Marker, len(s.markers))
	copy(out, s.markers)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
