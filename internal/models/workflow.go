package models

import "time"

// BookingStatus is the state of a durable booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusHeld      BookingStatus = "held"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
	BookingStatusFailed    BookingStatus = "failed"
)

// CreateBookingRequest starts a booking workflow for a new passenger.
type CreateBookingRequest struct {
	FlightNumber string `json:"flightNumber"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	SeatID       string `json:"seatId"`
	Class        string `json:"class,omitempty"`
}

type BookingWorkflowInput struct {
	OrderID      string        `json:"orderId"`
	FlightNumber string        `json:"flightNumber"`
	Passenger    PassengerInfo `json:"passenger"`
	SeatID       string        `json:"seatId"`
	Class        string        `json:"class,omitempty"`

	// HoldDuration overrides the default seat hold when positive.
	HoldDuration time.Duration `json:"holdDuration,omitempty"`
}

type PassengerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
}

type BookingWorkflowResult struct {
	Success       bool          `json:"success"`
	Status        BookingStatus `json:"status"`
	TicketNumber  string        `json:"ticketNumber,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

// BookingWorkflowState is returned by the get_state query.
type BookingWorkflowState struct {
	OrderID       string        `json:"orderId"`
	Status        BookingStatus `json:"status"`
	FlightNumber  string        `json:"flightNumber"`
	SeatID        string        `json:"seatId"`
	PassengerID   string        `json:"passengerId,omitempty"`
	TicketNumber  string        `json:"ticketNumber,omitempty"`
	HoldExpiry    time.Time     `json:"holdExpiry,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
	LastUpdated   time.Time     `json:"lastUpdated"`
}

// Signals and queries of the booking workflow.
const (
	SignalConfirmTicket = "confirm-ticket"
	SignalCheckIn       = "check-in"
	SignalCancelBooking = "cancel-booking"

	QueryGetState = "get_state"
)

// Booking actions accepted by the bookings endpoint.
const (
	BookingActionConfirm = "confirm"
	BookingActionCheckIn = "checkin"
	BookingActionCancel  = "cancel"
)

// Activity inputs and results.
type HoldSeatInput struct {
	OrderID      string        `json:"orderId"`
	FlightNumber string        `json:"flightNumber"`
	Passenger    PassengerInfo `json:"passenger"`
	SeatID       string        `json:"seatId"`
	Class        string        `json:"class,omitempty"`
}

type HoldSeatResult struct {
	Success      bool   `json:"success"`
	PassengerID  string `json:"passengerId,omitempty"`
	TicketNumber string `json:"ticketNumber,omitempty"`
	Error        string `json:"error,omitempty"`
}

type TicketActionInput struct {
	OrderID      string `json:"orderId"`
	TicketNumber string `json:"ticketNumber"`
}

type ReleaseBookingInput struct {
	OrderID      string `json:"orderId"`
	FlightNumber string `json:"flightNumber"`
	PassengerID  string `json:"passengerId"`
	TicketNumber string `json:"ticketNumber"`
	Reason       string `json:"reason"`
}
