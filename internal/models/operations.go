package models

import "time"

type StatusUpdate struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	Gate      string    `json:"gate,omitempty"`
}

// FlightStatus is the operational status of a flight with its history.
type FlightStatus struct {
	FlightNumber       string         `json:"flightNumber"`
	Status             string         `json:"status"`
	Gate               string         `json:"gate,omitempty"`
	DelayMinutes       int            `json:"delayMinutes"`
	DivertedTo         string         `json:"divertedTo,omitempty"`
	ScheduledDeparture *time.Time     `json:"scheduledDeparture,omitempty"`
	ScheduledArrival   *time.Time     `json:"scheduledArrival,omitempty"`
	EstimatedDeparture *time.Time     `json:"estimatedDeparture,omitempty"`
	EstimatedArrival   *time.Time     `json:"estimatedArrival,omitempty"`
	History            []StatusUpdate `json:"history"`
}

// Status update actions.
const (
	StatusActionUpdate   = "status"
	StatusActionDelay    = "delay"
	StatusActionGate     = "gate"
	StatusActionCancel   = "cancel"
	StatusActionDivert   = "divert"
	StatusActionSchedule = "schedule"
)

type StatusUpdateRequest struct {
	Action             string     `json:"action"`
	Status             string     `json:"status,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	DelayMinutes       int        `json:"delayMinutes,omitempty"`
	Gate               string     `json:"gate,omitempty"`
	Destination        string     `json:"destination,omitempty"`
	ScheduledDeparture *time.Time `json:"scheduledDeparture,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduledArrival,omitempty"`
}

type Ticket struct {
	TicketNumber string    `json:"ticketNumber"`
	PassengerID  string    `json:"passengerId"`
	FlightNumber string    `json:"flightNumber"`
	SeatID       string    `json:"seatId,omitempty"`
	Class        string    `json:"class"`
	Status       string    `json:"status"`
	Fare         float64   `json:"fare"`
	BookedAt     time.Time `json:"bookedAt"`
}

// IssueTicketRequest issues a ticket to a passenger already on the flight.
// Class defaults to the class of the passenger's seat.
type IssueTicketRequest struct {
	FlightNumber string `json:"flightNumber"`
	PassengerID  string `json:"passengerId"`
	Class        string `json:"class,omitempty"`
}

// Ticket actions.
const (
	TicketActionConfirm = "confirm"
	TicketActionCheckIn = "checkin"
	TicketActionCancel  = "cancel"
	TicketActionUpgrade = "upgrade"
)

type TicketActionRequest struct {
	Class string `json:"class,omitempty"`
}

type Bag struct {
	TagNumber   string    `json:"tagNumber"`
	Weight      float64   `json:"weight"`
	Description string    `json:"description,omitempty"`
	Fragile     bool      `json:"fragile"`
	Oversize    bool      `json:"oversize"`
	Status      string    `json:"status"`
	Location    string    `json:"location"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Baggage struct {
	PassengerID string  `json:"passengerId"`
	Count       int     `json:"count"`
	TotalWeight float64 `json:"totalWeight"`
	Bags        []Bag   `json:"bags"`
}

// BaggageExceptions lists the lost and damaged bags of a flight.
type BaggageExceptions struct {
	FlightNumber string         `json:"flightNumber"`
	Lost         []PassengerBag `json:"lost"`
	Damaged      []PassengerBag `json:"damaged"`
}

type PassengerBag struct {
	PassengerID string `json:"passengerId"`
	Bag
}

type CheckBagRequest struct {
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
	Fragile     bool    `json:"fragile,omitempty"`
}

type BagStatusRequest struct {
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
}

type PersistenceResult struct {
	Flights int    `json:"flights"`
	Backend string `json:"backend"`
}
