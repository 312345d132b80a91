package service

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/baggage"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/flightstatus"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/logging"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/storage"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/ticket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.temporal.io/sdk/client"
)

const (
	DefaultTaskQueue = "flight-operations-queue"
	DefaultSeatHold  = 15 * time.Minute

	// BookingWorkflowName is the registered name of the booking workflow.
	BookingWorkflowName = "TicketBookingWorkflow"
)

// ErrBookingsDisabled is returned by the booking operations when no temporal
// client is configured.
var ErrBookingsDisabled = fmt.Errorf("%w: durable bookings are disabled", errs.ErrValidation)

// OperationsService defines the flight operations service interface
type OperationsService interface {
	ListFlights(ctx context.Context, query string) []*models.Flight
	GetFlight(ctx context.Context, number string) (*models.Flight, error)
	CreateFlight(ctx context.Context, req *models.CreateFlightRequest) (*models.Flight, error)
	UpdateFlight(ctx context.Context, number string, req *models.CreateFlightRequest) (*models.Flight, error)
	DeleteFlight(ctx context.Context, number string) error

	GetSeats(ctx context.Context, number string, availableOnly bool) ([]*models.Seat, error)
	GetSeatMap(ctx context.Context, number string) (string, error)
	UpdateSeat(ctx context.Context, number, seatID, action string) (*models.Seat, error)
	GetRevenue(ctx context.Context, number string) (*models.Revenue, error)

	AddPassenger(ctx context.Context, number string, req *models.AddPassengerRequest) (*models.Passenger, error)
	RemovePassenger(ctx context.Context, number, passengerID string) error
	SearchPassengers(ctx context.Context, query string) []*models.Passenger
	BookSeat(ctx context.Context, number, passengerID, seatID string) (*models.Passenger, error)
	CancelSeat(ctx context.Context, number, passengerID string) error

	GetStatus(ctx context.Context, number string) (*models.FlightStatus, error)
	UpdateStatus(ctx context.Context, number string, req *models.StatusUpdateRequest) (*models.FlightStatus, error)

	GetBaggage(ctx context.Context, number, passengerID string) (*models.Baggage, error)
	CheckBag(ctx context.Context, number, passengerID string, req *models.CheckBagRequest) (*models.Bag, error)
	UpdateBag(ctx context.Context, number, passengerID, tag string, req *models.BagStatusRequest) (*models.Bag, error)
	GetBaggageExceptions(ctx context.Context, number string) (*models.BaggageExceptions, error)

	IssueTicket(ctx context.Context, req *models.IssueTicketRequest) (*models.Ticket, error)
	GetTicket(ctx context.Context, number string) (*models.Ticket, error)
	TicketAction(ctx context.Context, number, action string, req *models.TicketActionRequest) (*models.Ticket, error)

	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingWorkflowState, error)
	GetBooking(ctx context.Context, orderID string) (*models.BookingWorkflowState, error)
	BookingAction(ctx context.Context, orderID, action string) error

	// Booking workflow steps, run by the temporal activities.
	HoldSeat(ctx context.Context, input models.HoldSeatInput) (*models.HoldSeatResult, error)
	ConfirmTicket(ctx context.Context, ticketNumber string) error
	CheckInTicket(ctx context.Context, ticketNumber string) error
	ReleaseBooking(ctx context.Context, input models.ReleaseBookingInput) error

	Save(ctx context.Context) (*models.PersistenceResult, error)
	Load(ctx context.Context) (*models.PersistenceResult, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// Notifier receives seat changes. The websocket hub implements it.
type Notifier interface {
	BroadcastSeatUpdate(update models.SeatUpdate)
}

type Options struct {
	AirlineName string
	SeedSamples bool

	Storage     storage.Gateway
	StorageName string
	Autosave    bool

	Notifier  Notifier
	Temporal  client.Client
	TaskQueue string
	SeatHold  time.Duration

	Logger logrus.FieldLogger
	Now    func() time.Time
	Rand   *rand.Rand
}

type bagKey struct {
	flight    string
	passenger uuid.UUID
}

// operationsServiceImpl implements OperationsService. A single mutex guards
// the airline and every registry keyed by it.
type operationsServiceImpl struct {
	mu sync.Mutex

	airline  *airline.Airline
	tickets  map[string]*ticket.Ticket
	statuses map[string]*flightstatus.Tracker
	bags     map[bagKey]*baggage.Ledger
	holds    map[string]*models.HoldSeatResult

	store       storage.Gateway
	storageName string
	autosave    bool

	notifier       Notifier
	temporalClient client.Client
	taskQueue      string
	seatHold       time.Duration

	logger logrus.FieldLogger
	now    func() time.Time
	rng    *rand.Rand
}

// NewOperationsService creates a new OperationsService
func NewOperationsService(opts Options) OperationsService {
	return newOperationsService(opts)
}

func newOperationsService(opts Options) *operationsServiceImpl {
	svc := &operationsServiceImpl{
		airline:        airline.New(opts.AirlineName),
		tickets:        make(map[string]*ticket.Ticket),
		statuses:       make(map[string]*flightstatus.Tracker),
		bags:           make(map[bagKey]*baggage.Ledger),
		holds:          make(map[string]*models.HoldSeatResult),
		store:          opts.Storage,
		storageName:    opts.StorageName,
		autosave:       opts.Autosave,
		notifier:       opts.Notifier,
		temporalClient: opts.Temporal,
		taskQueue:      opts.TaskQueue,
		seatHold:       opts.SeatHold,
		logger:         opts.Logger,
		now:            opts.Now,
		rng:            opts.Rand,
	}
	if svc.taskQueue == "" {
		svc.taskQueue = DefaultTaskQueue
	}
	if svc.seatHold <= 0 {
		svc.seatHold = DefaultSeatHold
	}
	if svc.logger == nil {
		svc.logger = logging.Discard()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.rng == nil {
		svc.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if svc.storageName == "" {
		svc.storageName = storage.BackendNone
	}
	if opts.SeedSamples {
		svc.initializeSampleFlights()
	}
	return svc
}

func (s *operationsServiceImpl) initializeSampleFlights() {
	now := s.now().Truncate(time.Minute)
	samples := []struct {
		details airline.Details
		block   time.Duration
	}{
		{
			details: airline.Details{
				Number:      "AA123",
				Origin:      "New York (JFK)",
				Destination: "Los Angeles (LAX)",
				Departure:   now.Add(24 * time.Hour),
				BasePrice:   150.00,
			},
			block: 6 * time.Hour,
		},
		{
			details: airline.Details{
				Number:      "UA456",
				Origin:      "Chicago (ORD)",
				Destination: "Miami (MIA)",
				Departure:   now.Add(48 * time.Hour),
				BasePrice:   200.00,
			},
			block: 4 * time.Hour,
		},
		{
			details: airline.Details{
				Number:      "DL789",
				Origin:      "San Francisco (SFO)",
				Destination: "Seattle (SEA)",
				Departure:   now.Add(12 * time.Hour),
				BasePrice:   120.00,
			},
			block: 2 * time.Hour,
		},
	}

	for _, sample := range samples {
		f := airline.NewFlight(sample.details, airline.WithRand(s.rng))
		if err := s.airline.AddFlight(f); err != nil {
			s.logger.WithError(err).WithField("flight", sample.details.Number).Warn("Failed to seed sample flight")
			continue
		}
		s.trackFlight(f, sample.block)
	}
}

// trackFlight starts a status tracker for a new flight.
func (s *operationsServiceImpl) trackFlight(f *airline.Flight, block time.Duration) *flightstatus.Tracker {
	t := flightstatus.NewTracker(flightstatus.WithClock(s.now))
	if !f.Departure().IsZero() {
		t.SetScheduledDeparture(f.Departure())
		if block > 0 {
			t.SetScheduledArrival(f.Departure().Add(block))
		}
	}
	s.statuses[f.Number()] = t
	return t
}

// tracker returns the flight's tracker, creating one if the flight has none.
func (s *operationsServiceImpl) tracker(f *airline.Flight) *flightstatus.Tracker {
	if t, ok := s.statuses[f.Number()]; ok {
		return t
	}
	return s.trackFlight(f, 0)
}

func parsePassengerID(id string) (uuid.UUID, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid passenger id %q", errs.ErrValidation, id)
	}
	return pid, nil
}

// changed runs after a successful mutation. Save failures are logged; the
// in-memory state is kept.
func (s *operationsServiceImpl) changed(ctx context.Context) {
	if !s.autosave || s.store == nil {
		return
	}
	if err := s.store.SaveAll(ctx, s.airline.Flights()); err != nil {
		s.logger.WithError(err).WithField("backend", s.storageName).Error("Autosave failed")
	}
}

func (s *operationsServiceImpl) notifySeat(f *airline.Flight, seatID string) {
	if s.notifier == nil || seatID == "" {
		return
	}
	seat, err := f.Seat(seatID)
	if err != nil {
		return
	}
	update := models.SeatUpdate{
		FlightNumber: f.Number(),
		SeatID:       seat.ID(),
		Status:       seat.Status().String(),
		Timestamp:    s.now(),
	}
	if pid, ok := seat.PassengerID(); ok {
		update.PassengerID = pid.String()
	}
	s.notifier.BroadcastSeatUpdate(update)
}
