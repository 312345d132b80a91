package mocks

import (
	"context"
	"io"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockOperationsService is a mock implementation of OperationsService
type MockOperationsService struct {
	mock.Mock
}

func (m *MockOperationsService) ListFlights(ctx context.Context, query string) []*models.Flight {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Flight)
}

func (m *MockOperationsService) GetFlight(ctx context.Context, number string) (*models.Flight, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockOperationsService) CreateFlight(ctx context.Context, req *models.CreateFlightRequest) (*models.Flight, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockOperationsService) UpdateFlight(ctx context.Context, number string, req *models.CreateFlightRequest) (*models.Flight, error) {
	args := m.Called(ctx, number, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockOperationsService) DeleteFlight(ctx context.Context, number string) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

func (m *MockOperationsService) GetSeats(ctx context.Context, number string, availableOnly bool) ([]*models.Seat, error) {
	args := m.Called(ctx, number, availableOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Seat), args.Error(1)
}

func (m *MockOperationsService) GetSeatMap(ctx context.Context, number string) (string, error) {
	args := m.Called(ctx, number)
	return args.String(0), args.Error(1)
}

func (m *MockOperationsService) UpdateSeat(ctx context.Context, number, seatID, action string) (*models.Seat, error) {
	args := m.Called(ctx, number, seatID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Seat), args.Error(1)
}

func (m *MockOperationsService) GetRevenue(ctx context.Context, number string) (*models.Revenue, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Revenue), args.Error(1)
}

func (m *MockOperationsService) AddPassenger(ctx context.Context, number string, req *models.AddPassengerRequest) (*models.Passenger, error) {
	args := m.Called(ctx, number, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockOperationsService) RemovePassenger(ctx context.Context, number, passengerID string) error {
	args := m.Called(ctx, number, passengerID)
	return args.Error(0)
}

func (m *MockOperationsService) SearchPassengers(ctx context.Context, query string) []*models.Passenger {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Passenger)
}

func (m *MockOperationsService) BookSeat(ctx context.Context, number, passengerID, seatID string) (*models.Passenger, error) {
	args := m.Called(ctx, number, passengerID, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockOperationsService) CancelSeat(ctx context.Context, number, passengerID string) error {
	args := m.Called(ctx, number, passengerID)
	return args.Error(0)
}

func (m *MockOperationsService) GetStatus(ctx context.Context, number string) (*models.FlightStatus, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightStatus), args.Error(1)
}

func (m *MockOperationsService) UpdateStatus(ctx context.Context, number string, req *models.StatusUpdateRequest) (*models.FlightStatus, error) {
	args := m.Called(ctx, number, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightStatus), args.Error(1)
}

func (m *MockOperationsService) GetBaggage(ctx context.Context, number, passengerID string) (*models.Baggage, error) {
	args := m.Called(ctx, number, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Baggage), args.Error(1)
}

func (m *MockOperationsService) CheckBag(ctx context.Context, number, passengerID string, req *models.CheckBagRequest) (*models.Bag, error) {
	args := m.Called(ctx, number, passengerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bag), args.Error(1)
}

func (m *MockOperationsService) UpdateBag(ctx context.Context, number, passengerID, tag string, req *models.BagStatusRequest) (*models.Bag, error) {
	args := m.Called(ctx, number, passengerID, tag, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bag), args.Error(1)
}

func (m *MockOperationsService) GetBaggageExceptions(ctx context.Context, number string) (*models.BaggageExceptions, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BaggageExceptions), args.Error(1)
}

func (m *MockOperationsService) IssueTicket(ctx context.Context, req *models.IssueTicketRequest) (*models.Ticket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockOperationsService) GetTicket(ctx context.Context, number string) (*models.Ticket, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockOperationsService) TicketAction(ctx context.Context, number, action string, req *models.TicketActionRequest) (*models.Ticket, error) {
	args := m.Called(ctx, number, action, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockOperationsService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingWorkflowState, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingWorkflowState), args.Error(1)
}

func (m *MockOperationsService) GetBooking(ctx context.Context, orderID string) (*models.BookingWorkflowState, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingWorkflowState), args.Error(1)
}

func (m *MockOperationsService) BookingAction(ctx context.Context, orderID, action string) error {
	args := m.Called(ctx, orderID, action)
	return args.Error(0)
}

func (m *MockOperationsService) HoldSeat(ctx context.Context, input models.HoldSeatInput) (*models.HoldSeatResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HoldSeatResult), args.Error(1)
}

func (m *MockOperationsService) ConfirmTicket(ctx context.Context, ticketNumber string) error {
	args := m.Called(ctx, ticketNumber)
	return args.Error(0)
}

func (m *MockOperationsService) CheckInTicket(ctx context.Context, ticketNumber string) error {
	args := m.Called(ctx, ticketNumber)
	return args.Error(0)
}

func (m *MockOperationsService) ReleaseBooking(ctx context.Context, input models.ReleaseBookingInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockOperationsService) Save(ctx context.Context) (*models.PersistenceResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersistenceResult), args.Error(1)
}

func (m *MockOperationsService) Load(ctx context.Context) (*models.PersistenceResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersistenceResult), args.Error(1)
}

func (m *MockOperationsService) ExportCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
