package storage

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
)

var csvHeader = []string{
	"Flight Number", "Origin", "Destination", "Departure",
	"First Name", "Last Name", "Phone", "Email", "Seat",
}

const csvTimeLayout = "2006-01-02 15:04"

// ExportCSV writes one row per passenger. A flight without passengers still
// gets a row with empty passenger columns.
func ExportCSV(w io.Writer, flights []*airline.Flight) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, f := range flights {
		departure := ""
		if !f.Departure().IsZero() {
			departure = f.Departure().Format(csvTimeLayout)
		}
		base := []string{f.Number(), f.Origin(), f.Destination(), departure}

		passengers := f.Passengers()
		if len(passengers) == 0 {
			if err := cw.Write(append(base, "", "", "", "", "")); err != nil {
				return fmt.Errorf("failed to write flight %s: %w", f.Number(), err)
			}
			continue
		}
		for _, p := range passengers {
			row := append(append([]string{}, base...), p.FirstName, p.LastName, p.Phone, p.Email, p.SeatID())
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write flight %s: %w", f.Number(), err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
