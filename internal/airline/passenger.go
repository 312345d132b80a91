package airline

import (
	"fmt"

	"github.com/google/uuid"
)

// Passenger is a traveller. Seat assignment is owned by the Flight the
// passenger belongs to; the passenger only records the seat id.
type Passenger struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Email     string

	seatID string
	flight string
}

// NewPassenger creates a detached, unseated passenger with a fresh id.
func NewPassenger(firstName, lastName, phone, email string) *Passenger {
	return &Passenger{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     email,
	}
}

func (p *Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}

// SeatID returns the assigned seat, or the requested seat of a detached
// passenger. Empty when unseated.
func (p *Passenger) SeatID() string { return p.seatID }

func (p *Passenger) HasSeat() bool { return p.seatID != "" }

// FlightNumber returns the flight that owns the passenger, empty if detached.
func (p *Passenger) FlightNumber() string { return p.flight }

// RequestSeat records the seat a detached passenger wants. Flight.AddPassenger
// only accepts the passenger if exactly that seat can be assigned.
func (p *Passenger) RequestSeat(seatID string) error {
	if p.flight != "" {
		return fmt.Errorf("%w: passenger %s already boarded on %s", ErrPassengerAttached, p.ID, p.flight)
	}
	p.seatID = seatID
	return nil
}

// Clone returns a detached, unseated copy with a new id. A seated passenger
// has to be re-bound explicitly through a Flight; seat state is never copied.
func (p *Passenger) Clone() *Passenger {
	return NewPassenger(p.FirstName, p.LastName, p.Phone, p.Email)
}
