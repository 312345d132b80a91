// Package ticket holds the fare table and lifecycle of flight tickets.
//
// A ticket refers to its flight and passenger by key only; Resolve looks both
// up against the owning airline and reports ErrNotFound once either is gone.
package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
	"github.com/google/uuid"
)

type Class int

const (
	ClassEconomy Class = iota
	ClassBusiness
	ClassFirst
)

func (c Class) String() string {
	switch c {
	case ClassEconomy:
		return "Economy"
	case ClassBusiness:
		return "Business"
	case ClassFirst:
		return "First"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass accepts the class names case-insensitively, including
// "FirstClass".
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy":
		return ClassEconomy, nil
	case "business":
		return ClassBusiness, nil
	case "first", "firstclass", "first class":
		return ClassFirst, nil
	}
	return 0, fmt.Errorf("%w: unknown ticket class %q", errs.ErrValidation, s)
}

type Status int

const (
	StatusReserved Status = iota
	StatusConfirmed
	StatusCheckedIn
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusReserved:
		return "reserved"
	case StatusConfirmed:
		return "confirmed"
	case StatusCheckedIn:
		return "checked_in"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Fare returns the fixed fare of a ticket class.
func Fare(c Class) float64 {
	switch c {
	case ClassFirst:
		return 1000.0
	case ClassBusiness:
		return 500.0
	default:
		return 200.0
	}
}

var (
	ErrInvalidTicket  = fmt.Errorf("%w: invalid ticket", errs.ErrValidation)
	ErrInvalidState   = fmt.Errorf("%w: ticket is not in the required state", errs.ErrConflict)
	ErrNotAnUpgrade   = fmt.Errorf("%w: upgrade must be to a higher class", errs.ErrConflict)
	ErrTicketNotFound = fmt.Errorf("%w: ticket", errs.ErrNotFound)
)

// Ticket is a booking document for one passenger on one flight.
type Ticket struct {
	Number       string
	PassengerID  uuid.UUID
	FlightNumber string
	SeatID       string
	Class        Class
	Status       Status
	Fare         float64
	BookedAt     time.Time
}

// NewNumber generates a ticket number such as "TKT-1A2B3C4D".
func NewNumber() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// New issues a Reserved ticket priced from the fare table.
func New(number string, passengerID uuid.UUID, flightNumber string, class Class, bookedAt time.Time) (*Ticket, error) {
	if number == "" || passengerID == uuid.Nil || flightNumber == "" {
		return nil, ErrInvalidTicket
	}
	if class < ClassEconomy || class > ClassFirst {
		return nil, fmt.Errorf("%w: class %d", ErrInvalidTicket, int(class))
	}
	return &Ticket{
		Number:       number,
		PassengerID:  passengerID,
		FlightNumber: flightNumber,
		Class:        class,
		Status:       StatusReserved,
		Fare:         Fare(class),
		BookedAt:     bookedAt,
	}, nil
}

func (t *Ticket) Confirm() error {
	if t.Status != StatusReserved {
		return fmt.Errorf("%w: cannot confirm %s ticket %s", ErrInvalidState, t.Status, t.Number)
	}
	t.Status = StatusConfirmed
	return nil
}

// CheckIn is only allowed from Confirmed.
func (t *Ticket) CheckIn() error {
	if t.Status != StatusConfirmed {
		return fmt.Errorf("%w: cannot check in %s ticket %s", ErrInvalidState, t.Status, t.Number)
	}
	t.Status = StatusCheckedIn
	return nil
}

// Cancel fails once the ticket is checked in or already cancelled.
func (t *Ticket) Cancel() error {
	if t.Status == StatusCheckedIn || t.Status == StatusCancelled {
		return fmt.Errorf("%w: cannot cancel %s ticket %s", ErrInvalidState, t.Status, t.Number)
	}
	t.Status = StatusCancelled
	return nil
}

// Upgrade moves the ticket to a strictly higher class and reprices it.
// The ticket is unchanged on failure.
func (t *Ticket) Upgrade(to Class) error {
	if t.Status == StatusCancelled || t.Status == StatusCheckedIn {
		return fmt.Errorf("%w: cannot upgrade %s ticket %s", ErrInvalidState, t.Status, t.Number)
	}
	if to <= t.Class || to > ClassFirst {
		return fmt.Errorf("%w: %s to %s", ErrNotAnUpgrade, t.Class, to)
	}
	t.Class = to
	t.Fare = Fare(to)
	return nil
}

func (t *Ticket) Active() bool {
	return t.Status != StatusCancelled
}

// ClassForSeat maps a cabin class to the ticket class sold for it.
func ClassForSeat(s seating.Class) Class {
	switch s {
	case seating.ClassFirst:
		return ClassFirst
	case seating.ClassBusiness:
		return ClassBusiness
	default:
		return ClassEconomy
	}
}

// Resolver looks up the entities a ticket refers to.
type Resolver interface {
	Flight(number string) (*airline.Flight, error)
	Passenger(flightNumber string, id uuid.UUID) (*airline.Passenger, error)
}

// Resolve returns the flight and passenger the ticket refers to.
func (t *Ticket) Resolve(r Resolver) (*airline.Flight, *airline.Passenger, error) {
	f, err := r.Flight(t.FlightNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("ticket %s: %w", t.Number, err)
	}
	p, err := r.Passenger(t.FlightNumber, t.PassengerID)
	if err != nil {
		return nil, nil, fmt.Errorf("ticket %s: %w", t.Number, err)
	}
	return f, p, nil
}
