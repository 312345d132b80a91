package activities

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/service"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

func newActivityEnv(t *testing.T, booker Booker) *testsuite.TestActivityEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	Register(env, NewActivities(booker))
	return env
}

func newBooker(t *testing.T) service.OperationsService {
	t.Helper()
	svc := service.NewOperationsService(service.Options{})
	_, err := svc.CreateFlight(context.Background(), &models.CreateFlightRequest{
		FlightNumber: "AA100",
		Origin:       "New York",
		Destination:  "London",
	})
	require.NoError(t, err)
	return svc
}

func holdInput(orderID, seat string) models.HoldSeatInput {
	return models.HoldSeatInput{
		OrderID:      orderID,
		FlightNumber: "AA100",
		Passenger:    models.PassengerInfo{FirstName: "John", LastName: "Doe"},
		SeatID:       seat,
	}
}

func TestHoldSeat_Success(t *testing.T) {
	svc := newBooker(t)
	env := newActivityEnv(t, svc)

	val, err := env.ExecuteActivity(HoldSeatName, holdInput("order-1", "19A"))
	require.NoError(t, err)

	var result models.HoldSeatResult
	require.NoError(t, val.Get(&result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.PassengerID)
	assert.NotEmpty(t, result.TicketNumber)

	tk, err := svc.GetTicket(context.Background(), result.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, "reserved", tk.Status)
	assert.Equal(t, "19A", tk.SeatID)
}

func TestHoldSeat_SeatAlreadyTaken(t *testing.T) {
	svc := newBooker(t)
	env := newActivityEnv(t, svc)

	_, err := env.ExecuteActivity(HoldSeatName, holdInput("order-1", "19A"))
	require.NoError(t, err)

	val, err := env.ExecuteActivity(HoldSeatName, holdInput("order-2", "19A"))
	require.NoError(t, err)

	var result models.HoldSeatResult
	require.NoError(t, val.Get(&result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not available")
}

func TestConfirmAndCheckIn(t *testing.T) {
	svc := newBooker(t)
	env := newActivityEnv(t, svc)

	val, err := env.ExecuteActivity(HoldSeatName, holdInput("order-1", "20B"))
	require.NoError(t, err)
	var held models.HoldSeatResult
	require.NoError(t, val.Get(&held))

	action := models.TicketActionInput{OrderID: "order-1", TicketNumber: held.TicketNumber}

	_, err = env.ExecuteActivity(CheckInTicketName, action)
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "conflict", appErr.Type())

	_, err = env.ExecuteActivity(ConfirmTicketName, action)
	require.NoError(t, err)
	_, err = env.ExecuteActivity(CheckInTicketName, action)
	require.NoError(t, err)

	tk, err := svc.GetTicket(context.Background(), held.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, "checked_in", tk.Status)
}

func TestReleaseBooking(t *testing.T) {
	svc := newBooker(t)
	env := newActivityEnv(t, svc)

	val, err := env.ExecuteActivity(HoldSeatName, holdInput("order-1", "21C"))
	require.NoError(t, err)
	var held models.HoldSeatResult
	require.NoError(t, val.Get(&held))

	_, err = env.ExecuteActivity(ReleaseBookingName, models.ReleaseBookingInput{
		OrderID:      "order-1",
		FlightNumber: "AA100",
		PassengerID:  held.PassengerID,
		TicketNumber: held.TicketNumber,
		Reason:       "expired",
	})
	require.NoError(t, err)

	seats, err := svc.GetSeats(context.Background(), "AA100", false)
	require.NoError(t, err)
	for _, s := range seats {
		if s.ID == "21C" {
			assert.Equal(t, "available", s.Status)
		}
	}
	tk, err := svc.GetTicket(context.Background(), held.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", tk.Status)
}

func TestActivities_InfrastructureErrorsAreRetryable(t *testing.T) {
	booker := new(mocks.MockOperationsService)
	booker.On("ConfirmTicket", mock.Anything, "TKT-1").Return(errors.New("connection reset"))
	booker.On("CheckInTicket", mock.Anything, "TKT-2").Return(fmt.Errorf("%w: ticket", errs.ErrNotFound))
	env := newActivityEnv(t, booker)

	_, err := env.ExecuteActivity(ConfirmTicketName, models.TicketActionInput{TicketNumber: "TKT-1"})
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.False(t, appErr.NonRetryable())

	_, err = env.ExecuteActivity(CheckInTicketName, models.TicketActionInput{TicketNumber: "TKT-2"})
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "not_found", appErr.Type())

	booker.AssertExpectations(t)
}
