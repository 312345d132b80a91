// Package storage persists the airline's flights and passengers.
//
// Every backend stores the same snapshot record per flight. Loading
// generates a fresh inventory, reapplies the saved seat prices, reservations
// and blocks, then re-seats passengers through Flight.AddPassenger, so a
// corrupt record can never produce a double-booked seat.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
	"github.com/google/uuid"
)

// Gateway is the persistence contract used by the service layer.
type Gateway interface {
	SaveAll(ctx context.Context, flights []*airline.Flight) error
	LoadAll(ctx context.Context) ([]*airline.Flight, error)
	Close() error
}

// Snapshot is the top-level document of file backends.
type Snapshot struct {
	Flights []FlightRecord `json:"flights" cbor:"flights"`
}

type FlightRecord struct {
	FlightNumber  string            `json:"flightNumber" cbor:"flightNumber"`
	Origin        string            `json:"origin" cbor:"origin"`
	Destination   string            `json:"destination" cbor:"destination"`
	DepartureTime string            `json:"departureTime" cbor:"departureTime"`
	BasePrice     float64           `json:"basePrice,omitempty" cbor:"basePrice,omitempty"`
	Rows          int               `json:"rows" cbor:"rows"`
	Cols          int               `json:"cols" cbor:"cols"`
	Passengers    []PassengerRecord `json:"passengers" cbor:"passengers"`
	Seats         []SeatRecord      `json:"seats,omitempty" cbor:"seats,omitempty"`
}

// SeatRecord keeps the price of a seat and, for reserved and blocked seats,
// the status. Occupancy is carried by the passengers.
type SeatRecord struct {
	SeatNumber string  `json:"seatNumber" cbor:"seatNumber"`
	Price      float64 `json:"price" cbor:"price"`
	Status     string  `json:"status,omitempty" cbor:"status,omitempty"`
}

type PassengerRecord struct {
	ID          string `json:"id,omitempty" cbor:"id,omitempty"`
	FirstName   string `json:"firstName" cbor:"firstName"`
	LastName    string `json:"lastName" cbor:"lastName"`
	PhoneNumber string `json:"phoneNumber" cbor:"phoneNumber"`
	Email       string `json:"email,omitempty" cbor:"email,omitempty"`
	SeatNumber  string `json:"seatNumber" cbor:"seatNumber"`
}

// NewRecord captures a flight through its read accessors.
func NewRecord(f *airline.Flight) FlightRecord {
	rec := FlightRecord{
		FlightNumber: f.Number(),
		Origin:       f.Origin(),
		Destination:  f.Destination(),
		BasePrice:    f.BasePrice(),
		Rows:         f.Rows(),
		Cols:         f.Cols(),
		Passengers:   []PassengerRecord{},
	}
	if !f.Departure().IsZero() {
		rec.DepartureTime = f.Departure().UTC().Format(time.RFC3339)
	}
	for _, seat := range f.Seats() {
		sr := SeatRecord{SeatNumber: seat.ID(), Price: seat.Price()}
		if seat.Reserved() || seat.Blocked() {
			sr.Status = seat.Status().String()
		}
		rec.Seats = append(rec.Seats, sr)
	}
	for _, p := range f.Passengers() {
		rec.Passengers = append(rec.Passengers, PassengerRecord{
			ID:          p.ID.String(),
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			PhoneNumber: p.Phone,
			Email:       p.Email,
			SeatNumber:  p.SeatID(),
		})
	}
	return rec
}

// Flight rebuilds the flight. Saved seat prices and statuses are applied
// first, then passengers are re-added in order and their seats revalidated.
// Records without seats keep the generated prices.
func (r FlightRecord) Flight() (*airline.Flight, error) {
	d := airline.Details{
		Number:      r.FlightNumber,
		Origin:      r.Origin,
		Destination: r.Destination,
		BasePrice:   r.BasePrice,
	}
	if r.DepartureTime != "" {
		dep, err := time.Parse(time.RFC3339, r.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("flight %s: invalid departure time: %w", r.FlightNumber, err)
		}
		d.Departure = dep
	}

	tmpl := seating.Boeing777
	if r.Rows > 0 {
		tmpl = tmpl.WithRows(r.Rows)
	}
	if r.Cols > 0 {
		tmpl.Cols = r.Cols
	}

	f := airline.NewFlight(d, airline.WithTemplate(tmpl))
	for _, sr := range r.Seats {
		status, err := seating.ParseStatus(sr.Status)
		if err != nil {
			return nil, fmt.Errorf("flight %s: seat %s: %w", r.FlightNumber, sr.SeatNumber, err)
		}
		if status == seating.StatusOccupied {
			status = seating.StatusAvailable
		}
		if err := f.RestoreSeat(sr.SeatNumber, sr.Price, status); err != nil {
			return nil, fmt.Errorf("flight %s: restore seat: %w", r.FlightNumber, err)
		}
	}
	for _, pr := range r.Passengers {
		p := airline.NewPassenger(pr.FirstName, pr.LastName, pr.PhoneNumber, pr.Email)
		if pr.ID != "" {
			id, err := uuid.Parse(pr.ID)
			if err != nil {
				return nil, fmt.Errorf("flight %s: invalid passenger id %q: %w", r.FlightNumber, pr.ID, err)
			}
			p.ID = id
		}
		if pr.SeatNumber != "" {
			if err := p.RequestSeat(pr.SeatNumber); err != nil {
				return nil, err
			}
		}
		if err := f.AddPassenger(p); err != nil {
			return nil, fmt.Errorf("flight %s: restore passenger %s: %w", r.FlightNumber, p.FullName(), err)
		}
	}
	return f, nil
}

// NewSnapshot captures a list of flights.
func NewSnapshot(flights []*airline.Flight) Snapshot {
	s := Snapshot{Flights: make([]FlightRecord, 0, len(flights))}
	for _, f := range flights {
		s.Flights = append(s.Flights, NewRecord(f))
	}
	return s
}

// Restore rebuilds every flight in the snapshot.
func (s Snapshot) Restore() ([]*airline.Flight, error) {
	flights := make([]*airline.Flight, 0, len(s.Flights))
	for _, rec := range s.Flights {
		f, err := rec.Flight()
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, nil
}
