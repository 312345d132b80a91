package models

import "time"

// Flight is the API view of a flight.
type Flight struct {
	FlightNumber   string    `json:"flightNumber"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	BasePrice      float64   `json:"basePrice"`
	Rows           int       `json:"rows"`
	Cols           int       `json:"cols"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	OccupiedSeats  int       `json:"occupiedSeats"`
	Passengers     int       `json:"passengers"`
}

// Seat is the API view of one seat.
type Seat struct {
	ID          string  `json:"id"`
	Row         int     `json:"row"`
	Column      int     `json:"column"`
	Class       string  `json:"class"`
	Status      string  `json:"status"`
	Price       float64 `json:"price"`
	PassengerID string  `json:"passengerId,omitempty"`
}

type Passenger struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	SeatID       string `json:"seatId,omitempty"`
	FlightNumber string `json:"flightNumber"`
}

type Revenue struct {
	FlightNumber    string  `json:"flightNumber"`
	OccupiedSeats   int     `json:"occupiedSeats"`
	SeatRevenue     float64 `json:"seatRevenue"`
	FlatFareRevenue float64 `json:"flatFareRevenue"`
}

// CreateFlightRequest creates or replaces a flight.
type CreateFlightRequest struct {
	FlightNumber  string    `json:"flightNumber"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	BasePrice     float64   `json:"basePrice"`
	Rows          int       `json:"rows,omitempty"`

	// BlockMinutes sets the scheduled arrival relative to departure.
	BlockMinutes int `json:"blockMinutes,omitempty"`
}

type AddPassengerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	SeatID    string `json:"seatId,omitempty"`
}

type SeatRequest struct {
	SeatID string `json:"seatId"`
}

// Seat actions accepted by the seat endpoint.
const (
	SeatActionReserve   = "reserve"
	SeatActionUnreserve = "unreserve"
	SeatActionBlock     = "block"
	SeatActionUnblock   = "unblock"
)

// SeatUpdate is pushed to websocket subscribers of a flight.
type SeatUpdate struct {
	FlightNumber string    `json:"flightNumber"`
	SeatID       string    `json:"seatId"`
	Status       string    `json:"status"`
	PassengerID  string    `json:"passengerId,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
