package chipsfx

type (
	// Song is a list of patterns and an arrangement telling in which order the
	// patterns are played. The same pattern can appear many times in the
	// arrangement.
	Song struct {
		Name        string
		Patterns    []Pattern
		Arrangement []int `yaml:",flow"`
	}
)

// AddPattern appends a pattern to the pattern list and returns its index.
func (s *Song) AddPattern(p Pattern) int {
	s.Patterns = append(s.Patterns, p)
	return len(s.Patterns) - 1
}

// AddPatternToArrangement appends a reference to pattern index to the end of
// the arrangement. Returns false, doing nothing, if the index does not refer
// to an existing pattern.
func (s *Song) AddPatternToArrangement(index int) bool {
	if index < 0 || index >= len(s.Patterns) {
		return false
	}
	s.Arrangement = append(s.Arrangement, index)
	return true
}

// RemovePatternFromArrangement removes the entry at position pos of the
// arrangement. Out of range positions are ignored.
func (s *Song) RemovePatternFromArrangement(pos int) bool {
	if pos < 0 || pos >= len(s.Arrangement) {
		return false
	}
	s.Arrangement = append(s.Arrangement[:pos], s.Arrangement[pos+1:]...)
	return true
}

// ArrangedPatterns calls yield for every arrangement entry that refers to an
// existing pattern, in order. Entries referring to missing patterns are
// skipped.
func (s *Song) ArrangedPatterns(yield func(pos int, p *Pattern) bool) {
	for pos, index := range s.Arrangement {
		if index < 0 || index >= len(s.Patterns) {
			continue
		}
		if !yield(pos, &s.Patterns[index]) {
			return
		}
	}
}

// TotalDuration is the length of the arranged song in seconds.
func (s *Song) TotalDuration() float64 {
	ret := 0.0
	for _, p := range s.ArrangedPatterns {
		ret += p.Duration()
	}
	return ret
}

// TotalSteps is the number of played steps over the whole arrangement.
func (s *Song) TotalSteps() int {
	ret := 0
	for _, p := range s.ArrangedPatterns {
		ret += p.Len()
	}
	return ret
}

// Copy makes a deep copy of the song.
func (s *Song) Copy() Song {
	return Song{
		Name:        s.Name,
		Patterns:    append([]Pattern(nil), s.Patterns...),
		Arrangement: append([]int(nil), s.Arrangement...),
	}
}
