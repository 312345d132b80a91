package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
)

type seatStyles struct {
	row      lipgloss.Style
	legend   lipgloss.Style
	byStatus map[seating.Status]lipgloss.Style
}

func newSeatStyles() seatStyles {
	return seatStyles{
		row:    lipgloss.NewStyle().Width(4).Foreground(lipgloss.Color("8")),
		legend: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		byStatus: map[seating.Status]lipgloss.Style{
			seating.StatusAvailable: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			seating.StatusOccupied:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			seating.StatusReserved:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			seating.StatusBlocked:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true),
		},
	}
}

// renderSeatMap draws the cabin row by row with one colored cell per seat.
// A blank line separates cabins.
func renderSeatMap(f *airline.Flight, styles seatStyles) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s -> %s\n", f.Number(), f.Origin(), f.Destination())

	var cabin seating.Class = -1
	for r := 1; r <= f.Rows(); r++ {
		class := f.Template().CabinFor(r).Class
		if class != cabin {
			if cabin >= 0 {
				b.WriteByte('\n')
			}
			b.WriteString(styles.legend.Render(class.String()))
			b.WriteByte('\n')
			cabin = class
		}

		b.WriteString(styles.row.Render(fmt.Sprintf("%d", r)))
		for c := 0; ; c++ {
			id, ok := f.SeatAt(r, c)
			if !ok {
				break
			}
			seat, err := f.Seat(id)
			if err != nil {
				b.WriteString("   ")
				continue
			}
			b.WriteString(styles.byStatus[seat.Status()].Render(airline.SeatGlyph(seat.Status())))
		}
		b.WriteByte('\n')
	}

	b.WriteString(styles.legend.Render("[X] occupied  [R] reserved  [B] blocked  [ ] available"))
	b.WriteByte('\n')
	return b.String()
}
