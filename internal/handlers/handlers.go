package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/service"
	"github.com/gorilla/mux"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	operations service.OperationsService
}

// NewHandler creates a new Handler instance
func NewHandler(operations service.OperationsService) *Handler {
	return &Handler{
		operations: operations,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// StatusFor maps an error category onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, StatusFor(err), err.Error())
}

// decodeBody decodes a JSON body. An empty body is accepted when optional.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	respondError(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// GetFlights handles GET /api/flights?q=
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	flights := h.operations.ListFlights(r.Context(), r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, flights)
}

// CreateFlight handles POST /api/flights
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlightRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	flight, err := h.operations.CreateFlight(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

// GetFlight handles GET /api/flights/{number}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flight, err := h.operations.GetFlight(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// UpdateFlight handles PUT /api/flights/{number}
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlightRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	flight, err := h.operations.UpdateFlight(r.Context(), mux.Vars(r)["number"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// DeleteFlight handles DELETE /api/flights/{number}
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	if err := h.operations.DeleteFlight(r.Context(), mux.Vars(r)["number"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSeats handles GET /api/flights/{number}/seats?available=true
func (h *Handler) GetSeats(w http.ResponseWriter, r *http.Request) {
	availableOnly := false
	if v := r.URL.Query().Get("available"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "available must be true or false")
			return
		}
		availableOnly = parsed
	}
	seats, err := h.operations.GetSeats(r.Context(), mux.Vars(r)["number"], availableOnly)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, seats)
}

// GetSeatMap handles GET /api/flights/{number}/seatmap
func (h *Handler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.operations.GetSeatMap(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, seatMap)
}

// UpdateSeat handles POST /api/flights/{number}/seats/{seat}/{action}
func (h *Handler) UpdateSeat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	seat, err := h.operations.UpdateSeat(r.Context(), vars["number"], vars["seat"], vars["action"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, seat)
}

// GetRevenue handles GET /api/flights/{number}/revenue
func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.operations.GetRevenue(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, revenue)
}

// GetStatus handles GET /api/flights/{number}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.operations.GetStatus(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// UpdateStatus handles POST /api/flights/{number}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusUpdateRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	status, err := h.operations.UpdateStatus(r.Context(), mux.Vars(r)["number"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// AddPassenger handles POST /api/flights/{number}/passengers
func (h *Handler) AddPassenger(w http.ResponseWriter, r *http.Request) {
	var req models.AddPassengerRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	passenger, err := h.operations.AddPassenger(r.Context(), mux.Vars(r)["number"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, passenger)
}

// RemovePassenger handles DELETE /api/flights/{number}/passengers/{id}
func (h *Handler) RemovePassenger(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.operations.RemovePassenger(r.Context(), vars["number"], vars["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BookSeat handles PUT /api/flights/{number}/passengers/{id}/seat
func (h *Handler) BookSeat(w http.ResponseWriter, r *http.Request) {
	var req models.SeatRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.SeatID == "" {
		respondError(w, http.StatusBadRequest, "Seat ID is required")
		return
	}
	vars := mux.Vars(r)
	passenger, err := h.operations.BookSeat(r.Context(), vars["number"], vars["id"], req.SeatID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, passenger)
}

// CancelSeat handles DELETE /api/flights/{number}/passengers/{id}/seat
func (h *Handler) CancelSeat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.operations.CancelSeat(r.Context(), vars["number"], vars["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBaggage handles GET /api/flights/{number}/passengers/{id}/baggage
func (h *Handler) GetBaggage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bags, err := h.operations.GetBaggage(r.Context(), vars["number"], vars["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bags)
}

// CheckBag handles POST /api/flights/{number}/passengers/{id}/baggage
func (h *Handler) CheckBag(w http.ResponseWriter, r *http.Request) {
	var req models.CheckBagRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	vars := mux.Vars(r)
	bag, err := h.operations.CheckBag(r.Context(), vars["number"], vars["id"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, bag)
}

// UpdateBag handles PUT /api/flights/{number}/passengers/{id}/baggage/{tag}
func (h *Handler) UpdateBag(w http.ResponseWriter, r *http.Request) {
	var req models.BagStatusRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	vars := mux.Vars(r)
	bag, err := h.operations.UpdateBag(r.Context(), vars["number"], vars["id"], vars["tag"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bag)
}

// GetBaggageExceptions handles GET /api/flights/{number}/baggage/exceptions
func (h *Handler) GetBaggageExceptions(w http.ResponseWriter, r *http.Request) {
	report, err := h.operations.GetBaggageExceptions(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// SearchPassengers handles GET /api/passengers?q=
func (h *Handler) SearchPassengers(w http.ResponseWriter, r *http.Request) {
	passengers := h.operations.SearchPassengers(r.Context(), r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, passengers)
}

// IssueTicket handles POST /api/tickets
func (h *Handler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	var req models.IssueTicketRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.FlightNumber == "" || req.PassengerID == "" {
		respondError(w, http.StatusBadRequest, "Flight number and passenger ID are required")
		return
	}
	t, err := h.operations.IssueTicket(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

// GetTicket handles GET /api/tickets/{number}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.operations.GetTicket(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// TicketAction handles POST /api/tickets/{number}/{action}
func (h *Handler) TicketAction(w http.ResponseWriter, r *http.Request) {
	var req models.TicketActionRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	vars := mux.Vars(r)
	t, err := h.operations.TicketAction(r.Context(), vars["number"], vars["action"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.FlightNumber == "" {
		respondError(w, http.StatusBadRequest, "Flight number is required")
		return
	}
	state, err := h.operations.CreateBooking(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, state)
}

// GetBooking handles GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	state, err := h.operations.GetBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// BookingAction handles POST /api/bookings/{id}/{action}
func (h *Handler) BookingAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.operations.BookingAction(r.Context(), vars["id"], vars["action"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{
		"orderId": vars["id"],
		"action":  vars["action"],
	})
}

// Save handles POST /api/admin/save
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	result, err := h.operations.Save(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Load handles POST /api/admin/load
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	result, err := h.operations.Load(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ExportCSV handles GET /api/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.operations.ExportCSV(r.Context(), &buf); err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="flights.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
