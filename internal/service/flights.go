package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
	"github.com/sirupsen/logrus"
)

const maxRows = 99

func (s *operationsServiceImpl) ListFlights(ctx context.Context, query string) []*models.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := s.airline.SearchFlights(query)
	out := make([]*models.Flight, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlight(f))
	}
	return out
}

func (s *operationsServiceImpl) GetFlight(ctx context.Context, number string) (*models.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	return toFlight(f), nil
}

func validateFlightRequest(req *models.CreateFlightRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request body is required", errs.ErrValidation)
	}
	var missing []string
	if strings.TrimSpace(req.FlightNumber) == "" {
		missing = append(missing, "flightNumber")
	}
	if strings.TrimSpace(req.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(req.Destination) == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errs.ErrValidation, strings.Join(missing, ", "))
	}
	if req.Rows < 0 || req.BasePrice < 0 || req.BlockMinutes < 0 {
		return fmt.Errorf("%w: rows, basePrice and blockMinutes must not be negative", errs.ErrValidation)
	}
	if req.Rows > maxRows {
		return fmt.Errorf("%w: at most %d rows", errs.ErrValidation, maxRows)
	}
	return nil
}

func detailsFrom(req *models.CreateFlightRequest) airline.Details {
	return airline.Details{
		Number:      strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		Departure:   req.DepartureTime,
		BasePrice:   req.BasePrice,
	}
}

func (s *operationsServiceImpl) CreateFlight(ctx context.Context, req *models.CreateFlightRequest) (*models.Flight, error) {
	if err := validateFlightRequest(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	opts := []airline.Option{airline.WithRand(s.rng)}
	if req.Rows > 0 {
		opts = append(opts, airline.WithTemplate(seating.Boeing777.WithRows(req.Rows)))
	}
	f := airline.NewFlight(detailsFrom(req), opts...)
	if err := s.airline.AddFlight(f); err != nil {
		return nil, err
	}
	s.trackFlight(f, time.Duration(req.BlockMinutes)*time.Minute)

	s.logger.WithField("flight", f.Number()).Info("Flight created")
	s.changed(ctx)
	return toFlight(f), nil
}

// UpdateFlight replaces the flight's details. Passengers, seats and the
// registries keyed by the flight number follow the flight.
func (s *operationsServiceImpl) UpdateFlight(ctx context.Context, number string, req *models.CreateFlightRequest) (*models.Flight, error) {
	if err := validateFlightRequest(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	if req.Rows > 0 && req.Rows != old.Rows() {
		return nil, fmt.Errorf("%w: the cabin layout of %s cannot change", errs.ErrConflict, old.Number())
	}

	d := detailsFrom(req)
	if d.BasePrice == 0 {
		d.BasePrice = old.BasePrice()
	}
	f, err := old.Revise(d)
	if err != nil {
		return nil, err
	}
	if err := s.airline.UpdateFlight(number, f); err != nil {
		return nil, err
	}
	s.renumber(old.Number(), f.Number())

	t := s.tracker(f)
	if !f.Departure().Equal(old.Departure()) {
		t.SetScheduledDeparture(f.Departure())
	}
	if req.BlockMinutes > 0 {
		t.SetScheduledArrival(f.Departure().Add(time.Duration(req.BlockMinutes) * time.Minute))
	}

	s.logger.WithField("flight", f.Number()).Info("Flight updated")
	s.changed(ctx)
	return toFlight(f), nil
}

func (s *operationsServiceImpl) renumber(from, to string) {
	if from == to {
		return
	}
	if t, ok := s.statuses[from]; ok {
		delete(s.statuses, from)
		s.statuses[to] = t
	}
	for _, t := range s.tickets {
		if t.FlightNumber == from {
			t.FlightNumber = to
		}
	}
	for k, l := range s.bags {
		if k.flight == from {
			delete(s.bags, k)
			s.bags[bagKey{flight: to, passenger: k.passenger}] = l
		}
	}
}

// DeleteFlight removes the flight with its tickets, status and baggage.
func (s *operationsServiceImpl) DeleteFlight(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.RemoveFlight(number)
	if err != nil {
		return err
	}
	delete(s.statuses, f.Number())
	for n, t := range s.tickets {
		if t.FlightNumber == f.Number() {
			delete(s.tickets, n)
		}
	}
	for k := range s.bags {
		if k.flight == f.Number() {
			delete(s.bags, k)
		}
	}

	s.logger.WithField("flight", f.Number()).Info("Flight deleted")
	s.changed(ctx)
	return nil
}

func (s *operationsServiceImpl) GetSeats(ctx context.Context, number string, availableOnly bool) ([]*models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	seats := f.Seats()
	out := make([]*models.Seat, 0, len(seats))
	for _, seat := range seats {
		if availableOnly && !seat.Available() {
			continue
		}
		out = append(out, toSeat(seat))
	}
	return out, nil
}

func (s *operationsServiceImpl) GetSeatMap(ctx context.Context, number string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return "", err
	}
	return f.SeatMap(), nil
}

// UpdateSeat reserves, unreserves, blocks or unblocks a seat.
func (s *operationsServiceImpl) UpdateSeat(ctx context.Context, number, seatID, action string) (*models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(action) {
	case models.SeatActionReserve:
		err = f.ReserveSeat(seatID)
	case models.SeatActionUnreserve:
		err = f.CancelReservation(seatID)
	case models.SeatActionBlock:
		err = f.BlockSeat(seatID)
	case models.SeatActionUnblock:
		err = f.UnblockSeat(seatID)
	default:
		return nil, fmt.Errorf("%w: unknown seat action %q", errs.ErrValidation, action)
	}
	if err != nil {
		return nil, err
	}

	seat, err := f.Seat(seatID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"flight": f.Number(),
		"seat":   seat.ID(),
		"status": seat.Status().String(),
	}).Info("Seat updated")
	s.notifySeat(f, seat.ID())
	s.changed(ctx)
	return toSeat(seat), nil
}

func (s *operationsServiceImpl) GetRevenue(ctx context.Context, number string) (*models.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	return &models.Revenue{
		FlightNumber:    f.Number(),
		OccupiedSeats:   f.OccupiedSeats(),
		SeatRevenue:     f.Revenue(),
		FlatFareRevenue: f.FlatFareRevenue(),
	}, nil
}
