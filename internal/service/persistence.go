package service

import (
	"context"
	"fmt"
	"io"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/flightstatus"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/storage"
)

var errNoStorage = fmt.Errorf("%w: no storage backend configured", errs.ErrValidation)

func (s *operationsServiceImpl) Save(ctx context.Context) (*models.PersistenceResult, error) {
	if s.store == nil {
		return nil, errNoStorage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flights := s.airline.Flights()
	if err := s.store.SaveAll(ctx, flights); err != nil {
		return nil, fmt.Errorf("failed to save flights: %w", err)
	}
	s.logger.WithField("backend", s.storageName).WithField("flights", len(flights)).Info("Flights saved")
	return &models.PersistenceResult{Flights: len(flights), Backend: s.storageName}, nil
}

// Load replaces the airline with the stored flights. An empty store leaves
// the current flights in place. Tickets and baggage of passengers that did
// not survive the load are dropped.
func (s *operationsServiceImpl) Load(ctx context.Context) (*models.PersistenceResult, error) {
	if s.store == nil {
		return nil, errNoStorage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flights, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load flights: %w", err)
	}
	if len(flights) == 0 {
		s.logger.WithField("backend", s.storageName).Info("Nothing to load")
		return &models.PersistenceResult{Flights: 0, Backend: s.storageName}, nil
	}
	if err := s.airline.SetFlights(flights); err != nil {
		return nil, fmt.Errorf("failed to load flights: %w", err)
	}

	statuses := make(map[string]*flightstatus.Tracker, len(flights))
	for _, f := range flights {
		if t, ok := s.statuses[f.Number()]; ok {
			statuses[f.Number()] = t
			continue
		}
		t := flightstatus.NewTracker(flightstatus.WithClock(s.now))
		t.SetScheduledDeparture(f.Departure())
		statuses[f.Number()] = t
	}
	s.statuses = statuses

	for n, t := range s.tickets {
		if _, p, err := t.Resolve(s.airline); err != nil {
			delete(s.tickets, n)
		} else {
			t.SeatID = p.SeatID()
		}
	}
	for k := range s.bags {
		if _, err := s.airline.Passenger(k.flight, k.passenger); err != nil {
			delete(s.bags, k)
		}
	}
	s.holds = make(map[string]*models.HoldSeatResult)

	s.logger.WithField("backend", s.storageName).WithField("flights", len(flights)).Info("Flights loaded")
	return &models.PersistenceResult{Flights: len(flights), Backend: s.storageName}, nil
}

func (s *operationsServiceImpl) ExportCSV(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return storage.ExportCSV(w, s.airline.Flights())
}
