package reorder

// DragEvent is what the gesture layer reports when a drag completes: the
// ancestor chains of the source and destination containers and the indices
// within them. Missing indices count as zero.
type DragEvent struct {
	From     Chain `json:"from"`
	To       Chain `json:"to"`
	OldIndex *int  `json:"oldIndex,omitempty"`
	NewIndex *int  `json:"newIndex,omitempty"`
}

// Normalize turns the event into a Move. onBad receives identifiers that could
// not be parsed.
func (e DragEvent) Normalize(onBad func(raw string)) Move {
	return Move{
		From:     ResolvePath(e.From, onBad),
		To:       ResolvePath(e.To, onBad),
		OldIndex: intOrZero(e.OldIndex),
		NewIndex: intOrZero(e.NewIndex),
	}
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Index is a convenience for building events with explicit indices.
func Index(i int) *int { return &i }
