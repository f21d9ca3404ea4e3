package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start uint32
	End   uint32
}

// NewSpan builds a span from int offsets. It fails when an offset is negative,
// does not fit in 32 bits, or when start > end.
func NewSpan(start, end int) (Span, error) {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return Span{}, fmt.Errorf("span start %d: %w", start, err)
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return Span{}, fmt.Errorf("span end %d: %w", end, err)
	}
	sp := Span{Start: s, End: e}
	if !sp.Valid() {
		return Span{}, fmt.Errorf("span start %d after end %d", start, end)
	}
	return sp, nil
}

func (s Span) Valid() bool {
	return s.Start <= s.End
}

func (s Span) Len() uint32 {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}
