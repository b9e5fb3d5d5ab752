package network

// Rewind reconstructs the state as it existed after the expansion at the
// given path level by replaying the stored path prefix from scratch over
// the retained per-step neighborhoods. Subtractive removal is never
// attempted.
//
// Level -1 is the "before the seed" sentinel and restores the seed-only
// state, equivalent to level 0. A target outside [-1, len(path)) is a no-op
// returning the state unchanged.
func (s *ExpansionState) Rewind(level int) *ExpansionState {
	if len(s.Path) == 0 || level < -1 || level >= len(s.Path) {
		return s
	}
	if level < 0 {
		level = 0
	}

	next := NewExpansionState()
	for _, entry := range s.Path[:level+1] {
		next.apply(entry)
	}
	return next
}

// Reset returns the seed-only state. On an empty state it is a no-op.
func (s *ExpansionState) Reset() *ExpansionState {
	return s.Rewind(-1)
}
