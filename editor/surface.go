package editor

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
)

// Surface is an in-memory overlay store. It implements Decorator and
// keeps whatever was last set for each style.
type Surface struct {
	mu       sync.Mutex
	sets     map[StyleID][]Decoration
	onChange func(style StyleID)
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{sets: make(map[StyleID][]Decoration)}
}

// OnChange registers a callback invoked after every SetDecorations call.
// The callback runs outside the surface lock.
func (s *Surface) OnChange(fn func(style StyleID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SetDecorations replaces the overlay set of style.
func (s *Surface) SetDecorations(style StyleID, decorations []Decoration) {
	s.mu.Lock()
	if len(decorations) == 0 {
		delete(s.sets, style)
	} else {
		set := make([]Decoration, len(decorations))
		copy(set, decorations)
		s.sets[style] = set
	}
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(style)
	}
}

// Decorations returns a copy of the current set of style.
func (s *Surface) Decorations(style StyleID) []Decoration {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[style]
	out := make([]Decoration, len(set))
	copy(out, set)
	return out
}

// Count returns the number of overlays currently set for style.
func (s *Surface) Count(style StyleID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sets[style])
}

// Snapshot returns a deep copy of all non-empty overlay sets.
func (s *Surface) Snapshot() map[StyleID][]Decoration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[StyleID][]Decoration, len(s.sets))
	for id, set := range s.sets {
		cp := make([]Decoration, len(set))
		copy(cp, set)
		out[id] = cp
	}
	return out
}

// ClearAll removes every overlay set.
func (s *Surface) ClearAll() {
	s.mu.Lock()
	s.sets = make(map[StyleID][]Decoration)
	s.mu.Unlock()
}

// exportedStyle is the JSON shape of one overlay channel.
type exportedStyle struct {
	Style       StyleID      `json:"style"`
	Label       string       `json:"label"`
	Z           int          `json:"z"`
	Decorations []Decoration `json:"decorations"`
}

// WriteJSON writes the surface as a JSON array of styles ordered by Z,
// for consumption by editor plugins.
func (s *Surface) WriteJSON(w io.Writer) error {
	snap := s.Snapshot()
	out := make([]exportedStyle, 0, len(snap))
	for id, set := range snap {
		st := LookupStyle(id)
		out = append(out, exportedStyle{Style: id, Label: st.Label, Z: st.Z, Decorations: set})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].Style < out[j].Style
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
