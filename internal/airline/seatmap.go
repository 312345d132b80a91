package airline

import (
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
)

// SeatMap renders the cabin as text, one line per row:
//
//	[X] occupied  [R] reserved  [B] blocked  [ ] available
func (f *Flight) SeatMap() string {
	var b strings.Builder
	b.WriteString("   ")
	for c := 1; c <= f.template.Cols; c++ {
		fmt.Fprintf(&b, "%3d", c)
	}
	b.WriteByte('\n')

	for r := 1; r <= f.template.Rows; r++ {
		fmt.Fprintf(&b, "%2d ", r)
		for _, letter := range f.template.LettersFor(r) {
			s, ok := f.seats[fmt.Sprintf("%d%s", r, letter)]
			if !ok {
				b.WriteString("   ")
				continue
			}
			b.WriteString(SeatGlyph(s.Status()))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// SeatGlyph is the three character cell used for a seat status.
func SeatGlyph(status seating.Status) string {
	switch status {
	case seating.StatusOccupied:
		return "[X]"
	case seating.StatusReserved:
		return "[R]"
	case seating.StatusBlocked:
		return "[B]"
	default:
		return "[ ]"
	}
}
