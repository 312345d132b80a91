package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/baggage"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/ticket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *operationsServiceImpl) AddPassenger(ctx context.Context, number string, req *models.AddPassengerRequest) (*models.Passenger, error) {
	if req == nil || strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: firstName and lastName are required", errs.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	p, err := s.board(f, models.PassengerInfo{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	}, req.SeatID)
	if err != nil {
		return nil, err
	}

	s.changed(ctx)
	return toPassenger(p), nil
}

// board adds a new passenger to f, seated in seatID when one is given.
func (s *operationsServiceImpl) board(f *airline.Flight, info models.PassengerInfo, seatID string) (*airline.Passenger, error) {
	p := airline.NewPassenger(
		strings.TrimSpace(info.FirstName),
		strings.TrimSpace(info.LastName),
		strings.TrimSpace(info.Phone),
		strings.TrimSpace(info.Email),
	)
	if seatID != "" {
		if err := p.RequestSeat(seatID); err != nil {
			return nil, err
		}
	}
	if err := f.AddPassenger(p); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight":    f.Number(),
		"passenger": p.ID.String(),
		"seat":      p.SeatID(),
	}).Info("Passenger added")
	s.notifySeat(f, p.SeatID())
	return p, nil
}

// RemovePassenger drops a passenger from the flight. Their open tickets are
// cancelled and their baggage record is discarded.
func (s *operationsServiceImpl) RemovePassenger(ctx context.Context, number, passengerID string) error {
	pid, err := parsePassengerID(passengerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return err
	}
	if err := s.unboard(f, pid); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *operationsServiceImpl) unboard(f *airline.Flight, pid uuid.UUID) error {
	p, err := f.Passenger(pid)
	if err != nil {
		return err
	}
	seatID := p.SeatID()
	if err := f.RemovePassengerByID(pid); err != nil {
		return err
	}

	for _, t := range s.tickets {
		if t.PassengerID != pid || t.FlightNumber != f.Number() {
			continue
		}
		if t.Status != ticket.StatusCheckedIn && t.Active() {
			if err := t.Cancel(); err != nil {
				s.logger.WithError(err).WithField("ticket", t.Number).Warn("Failed to cancel ticket")
			}
		}
		t.SeatID = ""
	}
	delete(s.bags, bagKey{flight: f.Number(), passenger: pid})

	s.logger.WithFields(logrus.Fields{
		"flight":    f.Number(),
		"passenger": pid.String(),
	}).Info("Passenger removed")
	s.notifySeat(f, seatID)
	return nil
}

func (s *operationsServiceImpl) SearchPassengers(ctx context.Context, query string) []*models.Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.airline.SearchPassengers(query)
	out := make([]*models.Passenger, 0, len(found))
	for _, p := range found {
		out = append(out, toPassenger(p))
	}
	return out
}

// BookSeat seats an unseated passenger or moves a seated one to seatID.
func (s *operationsServiceImpl) BookSeat(ctx context.Context, number, passengerID, seatID string) (*models.Passenger, error) {
	pid, err := parsePassengerID(passengerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(seatID) == "" {
		return nil, fmt.Errorf("%w: seatId is required", errs.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	p, err := f.Passenger(pid)
	if err != nil {
		return nil, err
	}

	oldSeat := p.SeatID()
	if oldSeat == "" {
		err = s.airline.BookSeat(f.Number(), pid, seatID)
	} else {
		err = s.airline.ChangeBooking(f.Number(), pid, seatID)
	}
	if err != nil {
		return nil, err
	}

	s.syncTicketSeats(f.Number(), pid, p.SeatID())
	s.logger.WithFields(logrus.Fields{
		"flight":    f.Number(),
		"passenger": pid.String(),
		"from":      oldSeat,
		"seat":      p.SeatID(),
	}).Info("Seat booked")
	if oldSeat != p.SeatID() {
		s.notifySeat(f, oldSeat)
	}
	s.notifySeat(f, p.SeatID())
	s.changed(ctx)
	return toPassenger(p), nil
}

// CancelSeat vacates the passenger's seat; the passenger stays on the flight.
func (s *operationsServiceImpl) CancelSeat(ctx context.Context, number, passengerID string) error {
	pid, err := parsePassengerID(passengerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return err
	}
	if err := s.cancelSeat(f, pid); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *operationsServiceImpl) cancelSeat(f *airline.Flight, pid uuid.UUID) error {
	p, err := f.Passenger(pid)
	if err != nil {
		return err
	}
	seatID := p.SeatID()
	if err := s.airline.CancelBooking(f.Number(), pid); err != nil {
		return err
	}
	s.syncTicketSeats(f.Number(), pid, "")
	s.logger.WithFields(logrus.Fields{
		"flight":    f.Number(),
		"passenger": pid.String(),
		"seat":      seatID,
	}).Info("Seat booking cancelled")
	s.notifySeat(f, seatID)
	return nil
}

func (s *operationsServiceImpl) syncTicketSeats(flight string, pid uuid.UUID, seatID string) {
	for _, t := range s.tickets {
		if t.PassengerID == pid && t.FlightNumber == flight && t.Active() {
			t.SeatID = seatID
		}
	}
}

// passengerOn resolves a flight and one of its passengers.
func (s *operationsServiceImpl) passengerOn(number, passengerID string) (*airline.Flight, *airline.Passenger, error) {
	pid, err := parsePassengerID(passengerID)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, nil, err
	}
	p, err := f.Passenger(pid)
	if err != nil {
		return nil, nil, err
	}
	return f, p, nil
}

func (s *operationsServiceImpl) GetBaggage(ctx context.Context, number, passengerID string) (*models.Baggage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, p, err := s.passengerOn(number, passengerID)
	if err != nil {
		return nil, err
	}
	return toBaggage(p.ID.String(), s.bags[bagKey{flight: f.Number(), passenger: p.ID}]), nil
}

func (s *operationsServiceImpl) CheckBag(ctx context.Context, number, passengerID string, req *models.CheckBagRequest) (*models.Bag, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", errs.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, p, err := s.passengerOn(number, passengerID)
	if err != nil {
		return nil, err
	}
	key := bagKey{flight: f.Number(), passenger: p.ID}
	ledger, ok := s.bags[key]
	if !ok {
		ledger = baggage.NewLedger(baggage.WithClock(s.now))
	}
	tag, err := ledger.CheckBag(req.Weight, req.Description, req.Fragile)
	if err != nil {
		return nil, err
	}
	s.bags[key] = ledger

	bag, err := ledger.Tag(tag)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"flight":    f.Number(),
		"passenger": p.ID.String(),
		"tag":       tag,
		"oversize":  bag.Oversize,
	}).Info("Bag checked")
	return toBag(bag), nil
}

func (s *operationsServiceImpl) UpdateBag(ctx context.Context, number, passengerID, tag string, req *models.BagStatusRequest) (*models.Bag, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", errs.ErrValidation)
	}
	status, err := baggage.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, p, err := s.passengerOn(number, passengerID)
	if err != nil {
		return nil, err
	}
	ledger, ok := s.bags[bagKey{flight: f.Number(), passenger: p.ID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s", baggage.ErrBagNotFound, tag)
	}

	switch {
	case req.Location != "":
		err = ledger.UpdateStatus(tag, status, req.Location)
	case status == baggage.Lost:
		err = ledger.MarkLost(tag)
	case status == baggage.Damaged:
		err = ledger.MarkDamaged(tag)
	case status == baggage.Claimed:
		err = ledger.Claim(tag)
	default:
		err = ledger.UpdateStatus(tag, status, defaultBagLocation(status, f))
	}
	if err != nil {
		return nil, err
	}

	bag, err := ledger.Tag(tag)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"flight": f.Number(),
		"tag":    tag,
		"status": bag.Status.String(),
	}).Info("Bag updated")
	return toBag(bag), nil
}

// GetBaggageExceptions collects the lost and damaged bags of every
// passenger on a flight, in roster then check-in order.
func (s *operationsServiceImpl) GetBaggageExceptions(ctx context.Context, number string) (*models.BaggageExceptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	out := &models.BaggageExceptions{
		FlightNumber: f.Number(),
		Lost:         []models.PassengerBag{},
		Damaged:      []models.PassengerBag{},
	}
	for _, p := range f.Passengers() {
		ledger, ok := s.bags[bagKey{flight: f.Number(), passenger: p.ID}]
		if !ok {
			continue
		}
		for _, t := range ledger.Lost() {
			out.Lost = append(out.Lost, models.PassengerBag{PassengerID: p.ID.String(), Bag: *toBag(t)})
		}
		for _, t := range ledger.Damaged() {
			out.Damaged = append(out.Damaged, models.PassengerBag{PassengerID: p.ID.String(), Bag: *toBag(t)})
		}
	}
	return out, nil
}

func defaultBagLocation(status baggage.Status, f *airline.Flight) string {
	switch status {
	case baggage.InTransit:
		return "In transit to " + f.Destination()
	case baggage.Arrived:
		return f.Destination()
	default:
		return ""
	}
}
