package airline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Airline is the registry of flights. It owns every Flight it holds and
// routes passenger and booking operations to them by flight number.
//
// Airline is not safe for concurrent use; callers serialize access.
type Airline struct {
	Name string

	flights []*Flight
	index   map[string]*Flight
}

func New(name string) *Airline {
	return &Airline{
		Name:  name,
		index: make(map[string]*Flight),
	}
}

func flightKey(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// AddFlight registers a flight. Empty and duplicate flight numbers are rejected.
func (a *Airline) AddFlight(f *Flight) error {
	if f == nil {
		return ErrNilFlight
	}
	key := flightKey(f.Number())
	if key == "" {
		return ErrInvalidFlightNumber
	}
	if _, exists := a.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFlight, f.Number())
	}
	a.flights = append(a.flights, f)
	a.index[key] = f
	return nil
}

// UpdateFlight replaces the flight registered under number. The replacement
// may carry a new number as long as it does not collide with another flight.
func (a *Airline) UpdateFlight(number string, f *Flight) error {
	if f == nil {
		return ErrNilFlight
	}
	oldKey := flightKey(number)
	old, ok := a.index[oldKey]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFlightNotFound, number)
	}
	newKey := flightKey(f.Number())
	if newKey == "" {
		return ErrInvalidFlightNumber
	}
	if other, exists := a.index[newKey]; exists && other != old {
		return fmt.Errorf("%w: %s", ErrDuplicateFlight, f.Number())
	}

	for i, cur := range a.flights {
		if cur == old {
			a.flights[i] = f
			break
		}
	}
	delete(a.index, oldKey)
	a.index[newKey] = f
	return nil
}

// RemoveFlight drops a flight together with its seats and passengers.
func (a *Airline) RemoveFlight(number string) (*Flight, error) {
	key := flightKey(number)
	f, ok := a.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFlightNotFound, number)
	}
	for i, cur := range a.flights {
		if cur == f {
			a.flights = append(a.flights[:i], a.flights[i+1:]...)
			break
		}
	}
	delete(a.index, key)
	return f, nil
}

func (a *Airline) Flight(number string) (*Flight, error) {
	f, ok := a.index[flightKey(number)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFlightNotFound, number)
	}
	return f, nil
}

// Flights returns the registered flights in insertion order.
func (a *Airline) Flights() []*Flight {
	out := make([]*Flight, len(a.flights))
	copy(out, a.flights)
	return out
}

// SetFlights replaces the whole registry, typically after a load. Nothing is
// replaced if any flight is invalid.
func (a *Airline) SetFlights(flights []*Flight) error {
	next := New(a.Name)
	for _, f := range flights {
		if err := next.AddFlight(f); err != nil {
			return err
		}
	}
	a.flights = next.flights
	a.index = next.index
	return nil
}

// SearchFlights matches query case-insensitively against flight number,
// origin and destination. An empty query matches every flight.
func (a *Airline) SearchFlights(query string) []*Flight {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Flight
	for _, f := range a.flights {
		if contains(q, f.Number(), f.Origin(), f.Destination()) {
			out = append(out, f)
		}
	}
	return out
}

// SearchPassengers matches query case-insensitively against passenger first
// name, last name and phone across all flights.
func (a *Airline) SearchPassengers(query string) []*Passenger {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Passenger
	for _, f := range a.flights {
		for _, p := range f.roster {
			if contains(q, p.FirstName, p.LastName, p.FullName(), p.Phone) {
				out = append(out, p)
			}
		}
	}
	return out
}

func contains(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// AddPassenger boards a detached passenger onto a flight.
func (a *Airline) AddPassenger(flightNumber string, p *Passenger) error {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return err
	}
	return f.AddPassenger(p)
}

// RemovePassenger removes a passenger from a flight, vacating their seat.
func (a *Airline) RemovePassenger(flightNumber string, id uuid.UUID) error {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return err
	}
	return f.RemovePassengerByID(id)
}

func (a *Airline) Passenger(flightNumber string, id uuid.UUID) (*Passenger, error) {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return nil, err
	}
	return f.Passenger(id)
}

// FindPassenger resolves a passenger id across all flights.
func (a *Airline) FindPassenger(id uuid.UUID) (*Passenger, *Flight, error) {
	for _, f := range a.flights {
		if p, ok := f.byID[id]; ok {
			return p, f, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrPassengerNotFound, id)
}

// AllPassengers returns every boarded passenger, flight by flight.
func (a *Airline) AllPassengers() []*Passenger {
	var out []*Passenger
	for _, f := range a.flights {
		out = append(out, f.roster...)
	}
	return out
}

// BookSeat seats a passenger already on the flight's roster.
func (a *Airline) BookSeat(flightNumber string, passengerID uuid.UUID, seatID string) error {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return err
	}
	p, err := f.Passenger(passengerID)
	if err != nil {
		return err
	}
	return f.AssignSeat(p, seatID)
}

// CancelBooking vacates the passenger's seat. The passenger stays on the
// roster, unseated.
func (a *Airline) CancelBooking(flightNumber string, passengerID uuid.UUID) error {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return err
	}
	return f.UnseatPassenger(passengerID)
}

// ChangeBooking moves a seated passenger to newSeatID. If the new seat cannot
// be assigned the old seat is restored and the assignment error is returned.
func (a *Airline) ChangeBooking(flightNumber string, passengerID uuid.UUID, newSeatID string) error {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return err
	}
	p, err := f.Passenger(passengerID)
	if err != nil {
		return err
	}
	oldSeat := p.SeatID()
	if oldSeat == "" {
		return fmt.Errorf("%w: %s", ErrNotSeated, passengerID)
	}
	if normalizeSeatID(newSeatID) == oldSeat {
		return nil
	}

	if err := f.UnassignSeat(oldSeat); err != nil {
		return err
	}
	assignErr := f.AssignSeat(p, newSeatID)
	if assignErr == nil {
		return nil
	}
	if err := f.AssignSeat(p, oldSeat); err != nil {
		return errors.Join(assignErr, fmt.Errorf("restore seat %s: %w", oldSeat, err))
	}
	return assignErr
}

func (a *Airline) AvailableSeats(flightNumber string) ([]string, error) {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return nil, err
	}
	return f.AvailableSeats(), nil
}

// IsSeatValid reports whether a letter-row grid label such as "AA5" falls
// within the flight's row and column extents.
func (a *Airline) IsSeatValid(flightNumber, label string) bool {
	f, err := a.Flight(flightNumber)
	if err != nil {
		return false
	}
	return f.ContainsGridPosition(label)
}

// CheckConsistency verifies the seat/passenger invariants of every flight.
func (a *Airline) CheckConsistency() error {
	for _, f := range a.flights {
		if err := f.CheckConsistency(); err != nil {
			return fmt.Errorf("flight %s: %w", f.Number(), err)
		}
	}
	return nil
}
