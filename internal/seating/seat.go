package seating

import (
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/google/uuid"
)

var (
	ErrSeatNotAvailable  = fmt.Errorf("%w: seat not available", errs.ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: invalid seat transition", errs.ErrConflict)
	ErrNoPassenger       = fmt.Errorf("%w: passenger is required", errs.ErrValidation)
	ErrInvalidPrice      = fmt.Errorf("%w: seat price must be positive", errs.ErrValidation)
)

// Class is the service tier of a seat.
type Class int

const (
	ClassEconomy Class = iota
	ClassPremium
	ClassBusiness
	ClassFirst
)

func (c Class) String() string {
	switch c {
	case ClassFirst:
		return "First"
	case ClassBusiness:
		return "Business"
	case ClassPremium:
		return "Premium"
	case ClassEconomy:
		return "Economy"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Status is the occupancy state of a seat.
type Status int

const (
	StatusAvailable Status = iota
	StatusOccupied
	StatusReserved
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusOccupied:
		return "occupied"
	case StatusReserved:
		return "reserved"
	case StatusBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus accepts the String form, ignoring case. An empty string is
// StatusAvailable.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "available":
		return StatusAvailable, nil
	case "occupied":
		return StatusOccupied, nil
	case "reserved":
		return StatusReserved, nil
	case "blocked":
		return StatusBlocked, nil
	default:
		return 0, fmt.Errorf("%w: unknown seat status %q", errs.ErrValidation, s)
	}
}

// Seat is a single addressable cabin position. It knows nothing about the
// flight it belongs to; the occupying passenger is held by id only.
//
// Status is StatusOccupied exactly when the seat holds a passenger id.
type Seat struct {
	id        string
	row       int
	col       int
	class     Class
	price     float64
	status    Status
	passenger uuid.UUID
}

func newSeat(id string, row, col int, class Class, price float64) *Seat {
	return &Seat{
		id:     id,
		row:    row,
		col:    col,
		class:  class,
		price:  price,
		status: StatusAvailable,
	}
}

func (s Seat) ID() string { return s.id }
func (s Seat) Row() int { return s.row }
func (s Seat) Column() int { return s.col }
func (s Seat) Class() Class { return s.class }
func (s Seat) Price() float64 { return s.price }
func (s Seat) Status() Status { return s.status }
func (s Seat) Available() bool { return s.status == StatusAvailable }
func (s Seat) Occupied() bool { return s.status == StatusOccupied }
func (s Seat) Reserved() bool { return s.status == StatusReserved }
func (s Seat) Blocked() bool { return s.status == StatusBlocked }

// PassengerID returns the occupying passenger, if any.
func (s Seat) PassengerID() (uuid.UUID, bool) {
	if s.status != StatusOccupied {
		return uuid.Nil, false
	}
	return s.passenger, true
}

// Assign occupies an available seat. The seat is left untouched on failure.
func (s *Seat) Assign(passenger uuid.UUID) error {
	if passenger == uuid.Nil {
		return ErrNoPassenger
	}
	if s.status != StatusAvailable {
		return fmt.Errorf("%w: %s is %s", ErrSeatNotAvailable, s.id, s.status)
	}
	s.status = StatusOccupied
	s.passenger = passenger
	return nil
}

// Clear vacates an occupied seat and returns the passenger that held it.
// Clearing a seat that is not occupied is a no-op.
func (s *Seat) Clear() (uuid.UUID, bool) {
	if s.status != StatusOccupied {
		return uuid.Nil, false
	}
	previous := s.passenger
	s.passenger = uuid.Nil
	s.status = StatusAvailable
	return previous, true
}

func (s *Seat) Reserve() error {
	return s.transition(StatusAvailable, StatusReserved)
}

func (s *Seat) Unreserve() error {
	return s.transition(StatusReserved, StatusAvailable)
}

// Block takes an available seat out of service. Reserved seats must be
// unreserved first.
func (s *Seat) Block() error {
	return s.transition(StatusAvailable, StatusBlocked)
}

func (s *Seat) Unblock() error {
	return s.transition(StatusBlocked, StatusAvailable)
}

// Reprice replaces the price drawn at generation, e.g. with a saved one.
func (s *Seat) Reprice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("%w: %s %.2f", ErrInvalidPrice, s.id, price)
	}
	s.price = price
	return nil
}

func (s *Seat) transition(from, to Status) error {
	if s.status != from {
		return fmt.Errorf("%w: %s is %s, want %s", ErrInvalidTransition, s.id, s.status, from)
	}
	s.status = to
	return nil
}
