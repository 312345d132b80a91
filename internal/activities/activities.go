package activities

import (
	"context"
	"errors"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
)

// Activity names as registered with the worker.
const (
	HoldSeatName       = "HoldSeat"
	ConfirmTicketName  = "ConfirmTicket"
	CheckInTicketName  = "CheckInTicket"
	ReleaseBookingName = "ReleaseBooking"
)

// Booker performs the booking steps against the airline.
type Booker interface {
	HoldSeat(ctx context.Context, input models.HoldSeatInput) (*models.HoldSeatResult, error)
	ConfirmTicket(ctx context.Context, ticketNumber string) error
	CheckInTicket(ctx context.Context, ticketNumber string) error
	ReleaseBooking(ctx context.Context, input models.ReleaseBookingInput) error
}

// Activities holds the booking activities
type Activities struct {
	booker Booker
}

// NewActivities creates a new Activities instance
func NewActivities(booker Booker) *Activities {
	return &Activities{booker: booker}
}

// Register registers every booking activity under its name.
func Register(r worker.ActivityRegistry, a *Activities) {
	r.RegisterActivityWithOptions(a.HoldSeat, activity.RegisterOptions{Name: HoldSeatName})
	r.RegisterActivityWithOptions(a.ConfirmTicket, activity.RegisterOptions{Name: ConfirmTicketName})
	r.RegisterActivityWithOptions(a.CheckInTicket, activity.RegisterOptions{Name: CheckInTicketName})
	r.RegisterActivityWithOptions(a.ReleaseBooking, activity.RegisterOptions{Name: ReleaseBookingName})
}

// domainError stops retries for errors that a retry cannot fix.
func domainError(err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return temporal.NewNonRetryableApplicationError(err.Error(), "validation", err)
	case errors.Is(err, errs.ErrConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), "conflict", err)
	case errors.Is(err, errs.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), "not_found", err)
	default:
		return err
	}
}

// HoldSeat activity - boards the passenger and issues a reserved ticket
func (a *Activities) HoldSeat(ctx context.Context, input models.HoldSeatInput) (*models.HoldSeatResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Holding seat", "orderID", input.OrderID, "flight", input.FlightNumber, "seat", input.SeatID)

	result, err := a.booker.HoldSeat(ctx, input)
	if err != nil {
		return nil, domainError(err)
	}
	if !result.Success {
		logger.Info("Seat hold rejected", "orderID", input.OrderID, "error", result.Error)
		return result, nil
	}

	logger.Info("Seat held", "orderID", input.OrderID, "ticket", result.TicketNumber)
	return result, nil
}

// ConfirmTicket activity - confirms the held ticket
func (a *Activities) ConfirmTicket(ctx context.Context, input models.TicketActionInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Confirming ticket", "orderID", input.OrderID, "ticket", input.TicketNumber)

	if err := a.booker.ConfirmTicket(ctx, input.TicketNumber); err != nil {
		logger.Error("Failed to confirm ticket", "orderID", input.OrderID, "error", err)
		return domainError(err)
	}
	return nil
}

// CheckInTicket activity - checks the passenger in
func (a *Activities) CheckInTicket(ctx context.Context, input models.TicketActionInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Checking in", "orderID", input.OrderID, "ticket", input.TicketNumber)

	if err := a.booker.CheckInTicket(ctx, input.TicketNumber); err != nil {
		logger.Error("Failed to check in", "orderID", input.OrderID, "error", err)
		return domainError(err)
	}
	return nil
}

// ReleaseBooking activity - cancels the ticket and frees the seat
func (a *Activities) ReleaseBooking(ctx context.Context, input models.ReleaseBookingInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Releasing booking", "orderID", input.OrderID, "reason", input.Reason)

	if err := a.booker.ReleaseBooking(ctx, input); err != nil {
		logger.Error("Failed to release booking", "orderID", input.OrderID, "error", err)
		return domainError(err)
	}
	return nil
}
