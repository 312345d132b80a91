package workflows

import (
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/activities"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// SeatHoldDuration is how long a seat is held when the input does not say.
const SeatHoldDuration = 15 * time.Minute

// Release reasons, also used as failure reasons.
const (
	ReasonExpired   = "expired"
	ReasonCancelled = "cancelled"
)

type bookingWorkflow struct {
	ctx    workflow.Context
	input  models.BookingWorkflowInput
	state  models.BookingWorkflowState
	logger log.Logger
}

// TicketBookingWorkflow holds a seat for a new passenger, then waits for the
// ticket to be confirmed and checked in. The seat is released when the hold
// expires or the booking is cancelled before check-in.
func TicketBookingWorkflow(ctx workflow.Context, input models.BookingWorkflowInput) (*models.BookingWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Ticket booking workflow started", "orderId", input.OrderID, "flight", input.FlightNumber, "seat", input.SeatID)

	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	w := &bookingWorkflow{
		ctx:    ctx,
		input:  input,
		logger: logger,
		state: models.BookingWorkflowState{
			OrderID:      input.OrderID,
			Status:       models.BookingStatusPending,
			FlightNumber: input.FlightNumber,
			SeatID:       input.SeatID,
			LastUpdated:  workflow.Now(ctx),
		},
	}

	err := workflow.SetQueryHandler(ctx, models.QueryGetState, func() (models.BookingWorkflowState, error) {
		return w.state, nil
	})
	if err != nil {
		return nil, err
	}

	// Hold the seat
	var held models.HoldSeatResult
	err = workflow.ExecuteActivity(ctx, activities.HoldSeatName, models.HoldSeatInput{
		OrderID:      input.OrderID,
		FlightNumber: input.FlightNumber,
		Passenger:    input.Passenger,
		SeatID:       input.SeatID,
		Class:        input.Class,
	}).Get(ctx, &held)
	if err != nil {
		logger.Error("Seat hold failed", "error", err)
		return w.fail(err.Error()), nil
	}
	if !held.Success {
		logger.Info("Seat hold rejected", "reason", held.Error)
		return w.fail(held.Error), nil
	}

	hold := input.HoldDuration
	if hold <= 0 {
		hold = SeatHoldDuration
	}
	w.state.PassengerID = held.PassengerID
	w.state.TicketNumber = held.TicketNumber
	w.state.HoldExpiry = workflow.Now(ctx).Add(hold)
	w.setStatus(models.BookingStatusHeld)

	confirmCh := workflow.GetSignalChannel(ctx, models.SignalConfirmTicket)
	checkInCh := workflow.GetSignalChannel(ctx, models.SignalCheckIn)
	cancelCh := workflow.GetSignalChannel(ctx, models.SignalCancelBooking)

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	holdTimer := workflow.NewTimer(timerCtx, hold)

	// Wait for confirmation while the seat is held
	var released string
	confirmed := false
	for !confirmed && released == "" {
		selector := workflow.NewSelector(ctx)
		selector.AddReceive(confirmCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			confirmed = true
		})
		selector.AddReceive(cancelCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			released = ReasonCancelled
		})
		selector.AddReceive(checkInCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			logger.Warn("Check-in requested before the ticket was confirmed", "ticket", held.TicketNumber)
		})
		selector.AddFuture(holdTimer, func(f workflow.Future) {
			if f.Get(ctx, nil) == nil {
				logger.Info("Seat hold expired", "seat", input.SeatID)
				released = ReasonExpired
			}
		})
		selector.AddReceive(ctx.Done(), func(c workflow.ReceiveChannel, more bool) {
			released = ReasonCancelled
		})
		selector.Select(ctx)
	}
	cancelTimer()

	if released != "" {
		return w.release(released), nil
	}

	err = workflow.ExecuteActivity(ctx, activities.ConfirmTicketName, w.ticketInput()).Get(ctx, nil)
	if err != nil {
		logger.Error("Failed to confirm ticket", "error", err)
		w.releaseBooking("confirm_failed")
		return w.fail(err.Error()), nil
	}
	w.state.HoldExpiry = time.Time{}
	w.setStatus(models.BookingStatusConfirmed)
	logger.Info("Ticket confirmed", "ticket", held.TicketNumber)

	// Wait for check-in
	for {
		checkedIn := false
		selector := workflow.NewSelector(ctx)
		selector.AddReceive(checkInCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			checkedIn = true
		})
		selector.AddReceive(cancelCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			released = ReasonCancelled
		})
		selector.AddReceive(confirmCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			logger.Warn("Ticket already confirmed", "ticket", held.TicketNumber)
		})
		selector.AddReceive(ctx.Done(), func(c workflow.ReceiveChannel, more bool) {
			released = ReasonCancelled
		})
		selector.Select(ctx)

		if released != "" {
			return w.release(released), nil
		}
		if !checkedIn {
			continue
		}

		err = workflow.ExecuteActivity(ctx, activities.CheckInTicketName, w.ticketInput()).Get(ctx, nil)
		if err != nil {
			// The ticket stays confirmed; another check-in signal may retry.
			logger.Error("Failed to check in", "error", err)
			continue
		}
		w.setStatus(models.BookingStatusCheckedIn)
		logger.Info("Passenger checked in", "ticket", held.TicketNumber)
		return &models.BookingWorkflowResult{
			Success:      true,
			Status:       models.BookingStatusCheckedIn,
			TicketNumber: held.TicketNumber,
		}, nil
	}
}

func (w *bookingWorkflow) setStatus(status models.BookingStatus) {
	w.state.Status = status
	w.state.LastUpdated = workflow.Now(w.ctx)
}

func (w *bookingWorkflow) ticketInput() models.TicketActionInput {
	return models.TicketActionInput{OrderID: w.input.OrderID, TicketNumber: w.state.TicketNumber}
}

func (w *bookingWorkflow) fail(reason string) *models.BookingWorkflowResult {
	w.state.FailureReason = reason
	w.setStatus(models.BookingStatusFailed)
	return &models.BookingWorkflowResult{
		Success:       false,
		Status:        models.BookingStatusFailed,
		TicketNumber:  w.state.TicketNumber,
		FailureReason: reason,
	}
}

// releaseBooking runs the release activity, on a disconnected context so
// that it still runs after the workflow itself was cancelled.
func (w *bookingWorkflow) releaseBooking(reason string) {
	ctx, _ := workflow.NewDisconnectedContext(w.ctx)
	err := workflow.ExecuteActivity(ctx, activities.ReleaseBookingName, models.ReleaseBookingInput{
		OrderID:      w.input.OrderID,
		FlightNumber: w.input.FlightNumber,
		PassengerID:  w.state.PassengerID,
		TicketNumber: w.state.TicketNumber,
		Reason:       reason,
	}).Get(ctx, nil)
	if err != nil {
		w.logger.Error("Failed to release booking", "reason", reason, "error", err)
	}
}

func (w *bookingWorkflow) release(reason string) *models.BookingWorkflowResult {
	w.releaseBooking(reason)

	status := models.BookingStatusCancelled
	if reason == ReasonExpired {
		status = models.BookingStatusExpired
	}
	w.state.FailureReason = reason
	w.state.HoldExpiry = time.Time{}
	w.setStatus(status)
	return &models.BookingWorkflowResult{
		Success:       false,
		Status:        status,
		TicketNumber:  w.state.TicketNumber,
		FailureReason: reason,
	}
}
