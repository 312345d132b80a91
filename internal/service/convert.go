package service

import (
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/baggage"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/flightstatus"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/ticket"
)

func toFlight(f *airline.Flight) *models.Flight {
	seats := f.Seats()
	occupied := f.OccupiedSeats()
	return &models.Flight{
		FlightNumber:   f.Number(),
		Origin:         f.Origin(),
		Destination:    f.Destination(),
		DepartureTime:  f.Departure(),
		BasePrice:      f.BasePrice(),
		Rows:           f.Rows(),
		Cols:           f.Cols(),
		TotalSeats:     len(seats),
		AvailableSeats: len(f.AvailableSeats()),
		OccupiedSeats:  occupied,
		Passengers:     len(f.Passengers()),
	}
}

func toSeat(s seating.Seat) *models.Seat {
	out := &models.Seat{
		ID:     s.ID(),
		Row:    s.Row(),
		Column: s.Column(),
		Class:  s.Class().String(),
		Status: s.Status().String(),
		Price:  s.Price(),
	}
	if pid, ok := s.PassengerID(); ok {
		out.PassengerID = pid.String()
	}
	return out
}

func toPassenger(p *airline.Passenger) *models.Passenger {
	return &models.Passenger{
		ID:           p.ID.String(),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Email:        p.Email,
		SeatID:       p.SeatID(),
		FlightNumber: p.FlightNumber(),
	}
}

func toTicket(t *ticket.Ticket) *models.Ticket {
	return &models.Ticket{
		TicketNumber: t.Number,
		PassengerID:  t.PassengerID.String(),
		FlightNumber: t.FlightNumber,
		SeatID:       t.SeatID,
		Class:        t.Class.String(),
		Status:       t.Status.String(),
		Fare:         t.Fare,
		BookedAt:     t.BookedAt,
	}
}

func toBag(t baggage.Tag) *models.Bag {
	return &models.Bag{
		TagNumber:   t.Number,
		Weight:      t.Weight,
		Description: t.Description,
		Fragile:     t.Fragile,
		Oversize:    t.Oversize,
		Status:      t.Status.String(),
		Location:    t.Location,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toBaggage(passengerID string, l *baggage.Ledger) *models.Baggage {
	out := &models.Baggage{
		PassengerID: passengerID,
		Bags:        []models.Bag{},
	}
	if l == nil {
		return out
	}
	for _, t := range l.Tags() {
		out.Bags = append(out.Bags, *toBag(t))
	}
	out.Count = l.Count()
	out.TotalWeight = l.TotalWeight()
	return out
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toFlightStatus(number string, t *flightstatus.Tracker) *models.FlightStatus {
	out := &models.FlightStatus{
		FlightNumber:       number,
		Status:             t.Status().String(),
		Gate:               t.Gate(),
		DelayMinutes:       t.DelayMinutes(),
		DivertedTo:         t.DivertedTo(),
		ScheduledDeparture: optionalTime(t.ScheduledDeparture()),
		ScheduledArrival:   optionalTime(t.ScheduledArrival()),
		EstimatedDeparture: optionalTime(t.EstimatedDeparture()),
		EstimatedArrival:   optionalTime(t.EstimatedArrival()),
	}
	for _, u := range t.History() {
		out.History = append(out.History, models.StatusUpdate{
			Status:    u.Status.String(),
			Reason:    u.Reason,
			Timestamp: u.Timestamp,
			Gate:      u.Gate,
		})
	}
	return out
}
