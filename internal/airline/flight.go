package airline

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
	"github.com/google/uuid"
)

const (
	// DefaultBasePrice is used when a flight is created without a fare.
	DefaultBasePrice = 500.0

	// FlatFare is the per-seat amount of the legacy revenue report.
	FlatFare = 100.0
)

// Details are the scheduling attributes of a flight.
type Details struct {
	Number      string
	Origin      string
	Destination string
	Departure   time.Time
	BasePrice   float64
}

// Option configures a new Flight.
type Option func(*Flight)

// WithTemplate selects the aircraft layout. The default is seating.Boeing777.
func WithTemplate(t seating.Template) Option {
	return func(f *Flight) { f.template = t }
}

// WithRand sets the source used for seat price jitter.
func WithRand(rng *rand.Rand) Option {
	return func(f *Flight) { f.rng = rng }
}

// Flight owns its seat inventory and its roster of passengers.
//
// Every passenger with a seat id has an occupied seat holding that
// passenger's id, and every occupied seat holds a passenger on the roster.
// Flight is not safe for concurrent use.
type Flight struct {
	details  Details
	template seating.Template
	rng      *rand.Rand

	seats  map[string]*seating.Seat
	order  []*seating.Seat
	roster []*Passenger
	byID   map[uuid.UUID]*Passenger
}

// NewFlight creates a flight with a freshly generated seat inventory.
func NewFlight(d Details, opts ...Option) *Flight {
	if d.BasePrice <= 0 {
		d.BasePrice = DefaultBasePrice
	}
	f := &Flight{
		details:  d,
		template: seating.Boeing777,
		byID:     make(map[uuid.UUID]*Passenger),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f.setInventory(seating.Generate(f.template, d.BasePrice, f.rng))
	return f
}

func (f *Flight) setInventory(seats []*seating.Seat) {
	f.order = seats
	f.seats = make(map[string]*seating.Seat, len(seats))
	for _, s := range seats {
		f.seats[s.ID()] = s
	}
}

func (f *Flight) Number() string { return f.details.Number }
func (f *Flight) Origin() string { return f.details.Origin }
func (f *Flight) Destination() string { return f.details.Destination }
func (f *Flight) Departure() time.Time { return f.details.Departure }
func (f *Flight) BasePrice() float64 { return f.details.BasePrice }
func (f *Flight) Details() Details { return f.details }
func (f *Flight) Template() seating.Template { return f.template }
func (f *Flight) Rows() int { return f.template.Rows }
func (f *Flight) Cols() int { return f.template.Cols }
func (f *Flight) SeatAt(row, col int) (string, bool) { return f.template.SeatID(row, col) }

func normalizeSeatID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func (f *Flight) lookup(seatID string) (*seating.Seat, error) {
	s, ok := f.seats[normalizeSeatID(seatID)]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnknownSeat, seatID, f.details.Number)
	}
	return s, nil
}

// Seat returns a snapshot of one seat.
func (f *Flight) Seat(seatID string) (seating.Seat, error) {
	s, err := f.lookup(seatID)
	if err != nil {
		return seating.Seat{}, err
	}
	return *s, nil
}

// Seats returns snapshots of the whole inventory in row order.
func (f *Flight) Seats() []seating.Seat {
	out := make([]seating.Seat, len(f.order))
	for i, s := range f.order {
		out[i] = *s
	}
	return out
}

// AvailableSeats returns the ids of available seats in row order.
func (f *Flight) AvailableSeats() []string {
	var ids []string
	for _, s := range f.order {
		if s.Available() {
			ids = append(ids, s.ID())
		}
	}
	return ids
}

func (f *Flight) OccupiedSeats() int {
	n := 0
	for _, s := range f.order {
		if s.Occupied() {
			n++
		}
	}
	return n
}

func (f *Flight) IsSeatValid(seatID string) bool {
	_, ok := f.seats[normalizeSeatID(seatID)]
	return ok
}

func (f *Flight) IsSeatAvailable(seatID string) bool {
	s, ok := f.seats[normalizeSeatID(seatID)]
	return ok && s.Available()
}

func (f *Flight) IsSeatOccupied(seatID string) bool {
	s, ok := f.seats[normalizeSeatID(seatID)]
	return ok && s.Occupied()
}

// ContainsGridPosition validates a letter-row grid label such as "AA5"
// against the aircraft's row and column extents.
func (f *Flight) ContainsGridPosition(label string) bool {
	return f.template.ContainsGridPosition(label)
}

// AssignSeat seats a passenger from the roster. It fails without side effects
// when the seat is unknown or not available, or the passenger is missing, not
// on this flight, or already seated elsewhere.
func (f *Flight) AssignSeat(p *Passenger, seatID string) error {
	if p == nil {
		return ErrNilPassenger
	}
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	if f.byID[p.ID] != p {
		return fmt.Errorf("%w: %s on %s", ErrNotOnFlight, p.ID, f.details.Number)
	}
	if p.seatID == s.ID() && s.Occupied() {
		return nil
	}
	if p.seatID != "" {
		return fmt.Errorf("%w: %s holds %s", ErrAlreadySeated, p.ID, p.seatID)
	}
	if err := s.Assign(p.ID); err != nil {
		return err
	}
	p.seatID = s.ID()
	return nil
}

// UnassignSeat vacates a seat and clears the occupant's seat id. Vacating a
// seat that is not occupied is a no-op.
func (f *Flight) UnassignSeat(seatID string) error {
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	if pid, ok := s.Clear(); ok {
		if p := f.byID[pid]; p != nil {
			p.seatID = ""
		}
	}
	return nil
}

// UnseatPassenger vacates the seat held by a passenger on the roster.
func (f *Flight) UnseatPassenger(id uuid.UUID) error {
	p, err := f.Passenger(id)
	if err != nil {
		return err
	}
	if p.seatID == "" {
		return fmt.Errorf("%w: %s", ErrNotSeated, id)
	}
	return f.UnassignSeat(p.seatID)
}

// AddPassenger boards a detached passenger. A passenger that carries a
// requested seat id is only added if exactly that seat can be assigned.
func (f *Flight) AddPassenger(p *Passenger) error {
	if p == nil || p.ID == uuid.Nil {
		return ErrNilPassenger
	}
	if p.flight != "" {
		return fmt.Errorf("%w: %s is on %s", ErrPassengerAttached, p.ID, p.flight)
	}
	if _, exists := f.byID[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrPassengerAttached, p.ID)
	}

	var seat *seating.Seat
	if p.seatID != "" {
		s, err := f.lookup(p.seatID)
		if err != nil {
			return err
		}
		if !s.Available() {
			return fmt.Errorf("%w: %s is %s", seating.ErrSeatNotAvailable, s.ID(), s.Status())
		}
		seat = s
	}

	p.flight = f.details.Number
	p.seatID = ""
	f.roster = append(f.roster, p)
	f.byID[p.ID] = p

	if seat != nil {
		if err := seat.Assign(p.ID); err != nil {
			return err
		}
		p.seatID = seat.ID()
	}
	return nil
}

// RemovePassenger removes the passenger seated in seatID, vacating the seat
// and dropping them from the roster together.
func (f *Flight) RemovePassenger(seatID string) error {
	p, err := f.PassengerAt(seatID)
	if err != nil {
		return err
	}
	return f.RemovePassengerByID(p.ID)
}

// RemovePassengerByID removes a passenger whether or not they are seated.
func (f *Flight) RemovePassengerByID(id uuid.UUID) error {
	p, err := f.Passenger(id)
	if err != nil {
		return err
	}
	if p.seatID != "" {
		if s, ok := f.seats[p.seatID]; ok {
			s.Clear()
		}
	}
	for i, r := range f.roster {
		if r == p {
			f.roster = append(f.roster[:i], f.roster[i+1:]...)
			break
		}
	}
	delete(f.byID, id)
	p.seatID = ""
	p.flight = ""
	return nil
}

// Passenger resolves a passenger id against the roster.
func (f *Flight) Passenger(id uuid.UUID) (*Passenger, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrPassengerNotFound, id, f.details.Number)
	}
	return p, nil
}

// PassengerAt returns the passenger occupying seatID.
func (f *Flight) PassengerAt(seatID string) (*Passenger, error) {
	s, err := f.lookup(seatID)
	if err != nil {
		return nil, err
	}
	pid, ok := s.PassengerID()
	if !ok {
		return nil, fmt.Errorf("%w: nobody in %s", ErrPassengerNotFound, s.ID())
	}
	return f.Passenger(pid)
}

// Passengers returns the roster in boarding order.
func (f *Flight) Passengers() []*Passenger {
	out := make([]*Passenger, len(f.roster))
	copy(out, f.roster)
	return out
}

// SeatedPassengers returns the occupants of the cabin in seat order.
func (f *Flight) SeatedPassengers() []*Passenger {
	var out []*Passenger
	for _, s := range f.order {
		if pid, ok := s.PassengerID(); ok {
			if p := f.byID[pid]; p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

// PassengerSeats maps occupied seat ids to passenger names.
func (f *Flight) PassengerSeats() map[string]string {
	out := make(map[string]string)
	for _, p := range f.roster {
		if p.seatID != "" {
			out[p.seatID] = p.FullName()
		}
	}
	return out
}

func (f *Flight) ReserveSeat(seatID string) error {
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	return s.Reserve()
}

func (f *Flight) CancelReservation(seatID string) error {
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	return s.Unreserve()
}

func (f *Flight) BlockSeat(seatID string) error {
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	return s.Block()
}

func (f *Flight) UnblockSeat(seatID string) error {
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	return s.Unblock()
}

// Revenue sums the prices of occupied seats.
func (f *Flight) Revenue() float64 {
	total := 0.0
	for _, s := range f.order {
		if s.Occupied() {
			total += s.Price()
		}
	}
	return total
}

// FlatFareRevenue charges FlatFare per occupied seat regardless of price.
func (f *Flight) FlatFareRevenue() float64 {
	return FlatFare * float64(f.OccupiedSeats())
}

// Revise returns a copy of the flight with new details. Passengers keep their
// ids and seats. The seat inventory, including reservations and blocks, is
// carried over; it is regenerated at the new fare when the base price changes.
func (f *Flight) Revise(d Details) (*Flight, error) {
	if d.BasePrice <= 0 {
		d.BasePrice = DefaultBasePrice
	}
	nf := &Flight{
		details:  d,
		template: f.template,
		rng:      f.rng,
		byID:     make(map[uuid.UUID]*Passenger, len(f.roster)),
	}

	if d.BasePrice == f.details.BasePrice {
		seats := make([]*seating.Seat, len(f.order))
		for i, s := range f.order {
			c := *s
			seats[i] = &c
		}
		nf.setInventory(seats)
	} else {
		nf.setInventory(seating.Generate(nf.template, d.BasePrice, nf.rng))
		for _, old := range f.order {
			if err := nf.carryStatus(old); err != nil {
				return nil, fmt.Errorf("flight %s: %w", f.details.Number, err)
			}
		}
	}

	for _, p := range f.roster {
		c := *p
		c.flight = d.Number
		nf.roster = append(nf.roster, &c)
		nf.byID[c.ID] = &c
	}
	return nf, nil
}

func (f *Flight) carryStatus(old *seating.Seat) error {
	s, err := f.lookup(old.ID())
	if err != nil {
		return err
	}
	switch {
	case old.Occupied():
		pid, _ := old.PassengerID()
		return s.Assign(pid)
	case old.Reserved():
		return s.Reserve()
	case old.Blocked():
		return s.Block()
	}
	return nil
}

// RestoreSeat reapplies a saved price and a Reserved or Blocked status to a
// seat of a freshly generated inventory. Occupancy is not restored here; it
// follows the passengers. A non-positive price keeps the generated one.
func (f *Flight) RestoreSeat(seatID string, price float64, status seating.Status) error {
	s, err := f.lookup(seatID)
	if err != nil {
		return err
	}
	if price > 0 {
		if err := s.Reprice(price); err != nil {
			return err
		}
	}
	switch status {
	case seating.StatusReserved:
		return s.Reserve()
	case seating.StatusBlocked:
		return s.Block()
	}
	return nil
}

// CheckConsistency verifies the seat/passenger invariants.
func (f *Flight) CheckConsistency() error {
	for _, p := range f.roster {
		if p.seatID == "" {
			continue
		}
		s, ok := f.seats[p.seatID]
		if !ok {
			return fmt.Errorf("passenger %s holds unknown seat %s", p.ID, p.seatID)
		}
		pid, occupied := s.PassengerID()
		if !occupied || pid != p.ID {
			return fmt.Errorf("passenger %s holds %s but the seat does not point back", p.ID, p.seatID)
		}
	}
	for _, s := range f.order {
		pid, ok := s.PassengerID()
		if !ok {
			continue
		}
		p := f.byID[pid]
		if p == nil {
			return fmt.Errorf("seat %s is held by %s who is not on the roster", s.ID(), pid)
		}
		if p.seatID != s.ID() {
			return fmt.Errorf("seat %s is held by %s who thinks they are in %q", s.ID(), pid, p.seatID)
		}
	}
	return nil
}
