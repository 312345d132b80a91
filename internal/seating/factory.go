package seating

import "math/rand"

// Generate builds the full seat inventory for a template, ordered row by row.
// Each row's price is drawn once from its cabin tier and shared by every seat
// in the row.
func Generate(t Template, basePrice float64, rng *rand.Rand) []*Seat {
	seats := make([]*Seat, 0, t.Rows*t.Cols)
	for row := 1; row <= t.Rows; row++ {
		cabin := t.CabinFor(row)
		price := cabin.Multiplier*basePrice + jitter(rng, cabin.JitterFactor*basePrice)
		for col := range cabin.Letters {
			id, _ := t.SeatID(row, col)
			seats = append(seats, newSeat(id, row, col, cabin.Class, price))
		}
	}
	return seats
}

func jitter(rng *rand.Rand, bound float64) float64 {
	n := int(bound)
	if n <= 0 || rng == nil {
		return 0
	}
	return float64(rng.Intn(n))
}
