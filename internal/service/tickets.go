package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/flightstatus"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/ticket"
	"github.com/sirupsen/logrus"
)

// IssueTicket issues a Reserved ticket to a passenger on the flight. Without
// an explicit class the ticket class follows the passenger's cabin.
func (s *operationsServiceImpl) IssueTicket(ctx context.Context, req *models.IssueTicketRequest) (*models.Ticket, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", errs.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, p, err := s.passengerOn(req.FlightNumber, req.PassengerID)
	if err != nil {
		return nil, err
	}
	t, err := s.issue(f, p, req.Class)
	if err != nil {
		return nil, err
	}
	return toTicket(t), nil
}

func (s *operationsServiceImpl) issue(f *airline.Flight, p *airline.Passenger, class string) (*ticket.Ticket, error) {
	c := ticket.ClassEconomy
	if class != "" {
		parsed, err := ticket.ParseClass(class)
		if err != nil {
			return nil, err
		}
		c = parsed
	} else if p.HasSeat() {
		seat, err := f.Seat(p.SeatID())
		if err != nil {
			return nil, err
		}
		c = ticket.ClassForSeat(seat.Class())
	}

	t, err := ticket.New(ticket.NewNumber(), p.ID, f.Number(), c, s.now())
	if err != nil {
		return nil, err
	}
	t.SeatID = p.SeatID()
	s.tickets[t.Number] = t

	s.logger.WithFields(logrus.Fields{
		"flight":    f.Number(),
		"passenger": p.ID.String(),
		"ticket":    t.Number,
		"class":     t.Class.String(),
	}).Info("Ticket issued")
	return t, nil
}

func (s *operationsServiceImpl) lookupTicket(number string) (*ticket.Ticket, error) {
	t, ok := s.tickets[strings.ToUpper(strings.TrimSpace(number))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ticket.ErrTicketNotFound, number)
	}
	return t, nil
}

func (s *operationsServiceImpl) GetTicket(ctx context.Context, number string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookupTicket(number)
	if err != nil {
		return nil, err
	}
	return toTicket(t), nil
}

// TicketAction confirms, checks in, cancels or upgrades a ticket. Cancelling
// a ticket also cancels the passenger's seat booking.
func (s *operationsServiceImpl) TicketAction(ctx context.Context, number, action string, req *models.TicketActionRequest) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookupTicket(number)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(action) {
	case models.TicketActionConfirm:
		err = t.Confirm()
	case models.TicketActionCheckIn:
		err = t.CheckIn()
	case models.TicketActionCancel:
		err = s.cancelTicket(ctx, t)
	case models.TicketActionUpgrade:
		if req == nil || req.Class == "" {
			return nil, fmt.Errorf("%w: class is required for an upgrade", errs.ErrValidation)
		}
		var to ticket.Class
		if to, err = ticket.ParseClass(req.Class); err == nil {
			err = t.Upgrade(to)
		}
	default:
		return nil, fmt.Errorf("%w: unknown ticket action %q", errs.ErrValidation, action)
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket": t.Number,
		"action": action,
		"status": t.Status.String(),
	}).Info("Ticket updated")
	return toTicket(t), nil
}

func (s *operationsServiceImpl) cancelTicket(ctx context.Context, t *ticket.Ticket) error {
	if err := t.Cancel(); err != nil {
		return err
	}
	f, p, err := t.Resolve(s.airline)
	if err != nil || !p.HasSeat() {
		// The passenger or flight is gone, or there is no seat to release.
		return nil
	}
	if err := s.cancelSeat(f, p.ID); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *operationsServiceImpl) GetStatus(ctx context.Context, number string) (*models.FlightStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	return toFlightStatus(f.Number(), s.tracker(f)), nil
}

func (s *operationsServiceImpl) UpdateStatus(ctx context.Context, number string, req *models.StatusUpdateRequest) (*models.FlightStatus, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", errs.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.airline.Flight(number)
	if err != nil {
		return nil, err
	}
	t := s.tracker(f)

	switch strings.ToLower(req.Action) {
	case models.StatusActionUpdate, "":
		var st flightstatus.Status
		if st, err = flightstatus.ParseStatus(req.Status); err == nil {
			err = t.UpdateStatus(st, req.Reason)
		}
	case models.StatusActionDelay:
		t.SetDelay(req.DelayMinutes, req.Reason)
	case models.StatusActionGate:
		if strings.TrimSpace(req.Gate) == "" {
			return nil, fmt.Errorf("%w: gate is required", errs.ErrValidation)
		}
		t.SetGate(strings.TrimSpace(req.Gate))
	case models.StatusActionCancel:
		t.Cancel(req.Reason)
	case models.StatusActionDivert:
		err = t.Divert(req.Destination, req.Reason)
	case models.StatusActionSchedule:
		if req.ScheduledDeparture == nil && req.ScheduledArrival == nil {
			return nil, fmt.Errorf("%w: scheduledDeparture or scheduledArrival is required", errs.ErrValidation)
		}
		if req.ScheduledDeparture != nil {
			t.SetScheduledDeparture(*req.ScheduledDeparture)
		}
		if req.ScheduledArrival != nil {
			t.SetScheduledArrival(*req.ScheduledArrival)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status action %q", errs.ErrValidation, req.Action)
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight": f.Number(),
		"action": req.Action,
		"status": t.Status().String(),
	}).Info("Flight status updated")
	return toFlightStatus(f.Number(), t), nil
}
