package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/ticket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
)

func workflowID(orderID string) string {
	return "booking-" + orderID
}

// workflowError maps temporal lookup failures onto the error taxonomy.
func workflowError(orderID string, err error) error {
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: booking %s", errs.ErrNotFound, orderID)
	}
	return err
}

// CreateBooking starts a durable booking workflow that holds the seat until
// the ticket is confirmed, cancelled or the hold expires.
func (s *operationsServiceImpl) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingWorkflowState, error) {
	if s.temporalClient == nil {
		return nil, ErrBookingsDisabled
	}
	if req == nil || strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: firstName and lastName are required", errs.ErrValidation)
	}
	if strings.TrimSpace(req.SeatID) == "" {
		return nil, fmt.Errorf("%w: seatId is required", errs.ErrValidation)
	}
	if req.Class != "" {
		if _, err := ticket.ParseClass(req.Class); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	f, err := s.airline.Flight(req.FlightNumber)
	if err == nil && !f.IsSeatAvailable(req.SeatID) {
		if f.IsSeatValid(req.SeatID) {
			err = fmt.Errorf("%w: seat %s on %s", errs.ErrConflict, req.SeatID, f.Number())
		} else {
			err = fmt.Errorf("%w: unknown seat %q on %s", errs.ErrValidation, req.SeatID, f.Number())
		}
	}
	var number string
	if err == nil {
		number = f.Number()
	}
	now := s.now()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	orderID := uuid.New().String()[:8]
	input := models.BookingWorkflowInput{
		OrderID:      orderID,
		FlightNumber: number,
		Passenger: models.PassengerInfo{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Email:     req.Email,
		},
		SeatID:       strings.ToUpper(strings.TrimSpace(req.SeatID)),
		Class:        req.Class,
		HoldDuration: s.seatHold,
	}

	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowID(orderID),
		TaskQueue: s.taskQueue,
	}
	if _, err := s.temporalClient.ExecuteWorkflow(ctx, workflowOptions, BookingWorkflowName, input); err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order":  orderID,
		"flight": input.FlightNumber,
		"seat":   input.SeatID,
	}).Info("Booking workflow started")

	return &models.BookingWorkflowState{
		OrderID:      orderID,
		Status:       models.BookingStatusPending,
		FlightNumber: input.FlightNumber,
		SeatID:       input.SeatID,
		HoldExpiry:   now.Add(s.seatHold),
		LastUpdated:  now,
	}, nil
}

func (s *operationsServiceImpl) GetBooking(ctx context.Context, orderID string) (*models.BookingWorkflowState, error) {
	if s.temporalClient == nil {
		return nil, ErrBookingsDisabled
	}

	response, err := s.temporalClient.QueryWorkflow(ctx, workflowID(orderID), "", models.QueryGetState)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow: %w", workflowError(orderID, err))
	}

	var state models.BookingWorkflowState
	if err := response.Get(&state); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	return &state, nil
}

func (s *operationsServiceImpl) BookingAction(ctx context.Context, orderID, action string) error {
	if s.temporalClient == nil {
		return ErrBookingsDisabled
	}

	var signal string
	switch strings.ToLower(action) {
	case models.BookingActionConfirm:
		signal = models.SignalConfirmTicket
	case models.BookingActionCheckIn:
		signal = models.SignalCheckIn
	case models.BookingActionCancel:
		signal = models.SignalCancelBooking
	default:
		return fmt.Errorf("%w: unknown booking action %q", errs.ErrValidation, action)
	}

	if err := s.temporalClient.SignalWorkflow(ctx, workflowID(orderID), "", signal, nil); err != nil {
		return fmt.Errorf("failed to signal workflow: %w", workflowError(orderID, err))
	}
	return nil
}

// HoldSeat boards the passenger into the requested seat and issues a Reserved
// ticket. Repeated calls for the same order return the first result.
func (s *operationsServiceImpl) HoldSeat(ctx context.Context, input models.HoldSeatInput) (*models.HoldSeatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.holds[input.OrderID]; ok {
		return held, nil
	}

	fail := func(err error) (*models.HoldSeatResult, error) {
		return &models.HoldSeatResult{Success: false, Error: err.Error()}, nil
	}

	if strings.TrimSpace(input.SeatID) == "" {
		return fail(fmt.Errorf("%w: seatId is required", errs.ErrValidation))
	}
	f, err := s.airline.Flight(input.FlightNumber)
	if err != nil {
		return fail(err)
	}
	p, err := s.board(f, input.Passenger, input.SeatID)
	if err != nil {
		return fail(err)
	}
	t, err := s.issue(f, p, input.Class)
	if err != nil {
		if uerr := s.unboard(f, p.ID); uerr != nil {
			s.logger.WithError(uerr).WithField("order", input.OrderID).Error("Failed to undo seat hold")
		}
		return fail(err)
	}

	result := &models.HoldSeatResult{
		Success:      true,
		PassengerID:  p.ID.String(),
		TicketNumber: t.Number,
	}
	s.holds[input.OrderID] = result
	s.changed(ctx)
	return result, nil
}

// ConfirmTicket confirms a held ticket. Confirming twice is not an error.
func (s *operationsServiceImpl) ConfirmTicket(ctx context.Context, ticketNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookupTicket(ticketNumber)
	if err != nil {
		return err
	}
	if t.Status == ticket.StatusConfirmed {
		return nil
	}
	return t.Confirm()
}

// CheckInTicket checks a confirmed ticket in. Checking in twice is not an error.
func (s *operationsServiceImpl) CheckInTicket(ctx context.Context, ticketNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookupTicket(ticketNumber)
	if err != nil {
		return err
	}
	if t.Status == ticket.StatusCheckedIn {
		return nil
	}
	return t.CheckIn()
}

// ReleaseBooking undoes a seat hold: the ticket is cancelled and the
// passenger leaves the flight. Anything already gone is skipped.
func (s *operationsServiceImpl) ReleaseBooking(ctx context.Context, input models.ReleaseBookingInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holds, input.OrderID)

	if t, err := s.lookupTicket(input.TicketNumber); err == nil && t.Active() && t.Status != ticket.StatusCheckedIn {
		if err := t.Cancel(); err != nil {
			return err
		}
	}

	pid, err := uuid.Parse(input.PassengerID)
	if err != nil {
		return nil
	}
	f, err := s.airline.Flight(input.FlightNumber)
	if err != nil {
		return nil
	}
	if _, err := f.Passenger(pid); err != nil {
		return nil
	}
	if err := s.unboard(f, pid); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order":  input.OrderID,
		"reason": input.Reason,
	}).Info("Booking released")
	s.changed(ctx)
	return nil
}
