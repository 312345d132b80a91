package router

import (
	"net/http"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/handlers"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/websocket"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates and configures the HTTP router. The returned handler
// adds CORS and turns handler panics into 500 responses.
func SetupRouter(h *handlers.Handler, hub *websocket.Hub, logger logrus.FieldLogger) http.Handler {
	r := mux.NewRouter()

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{number}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{number}", h.UpdateFlight).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/flights/{number}", h.DeleteFlight).Methods(http.MethodDelete, http.MethodOptions)

	// Seats
	api.HandleFunc("/flights/{number}/seats", h.GetSeats).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{number}/seatmap", h.GetSeatMap).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{number}/seats/{seat}/{action}", h.UpdateSeat).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{number}/revenue", h.GetRevenue).Methods(http.MethodGet, http.MethodOptions)

	// Operational status
	api.HandleFunc("/flights/{number}/status", h.GetStatus).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{number}/status", h.UpdateStatus).Methods(http.MethodPost, http.MethodOptions)

	// Passengers and baggage
	api.HandleFunc("/flights/{number}/passengers", h.AddPassenger).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{number}/passengers/{id}", h.RemovePassenger).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/flights/{number}/passengers/{id}/seat", h.BookSeat).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/flights/{number}/passengers/{id}/seat", h.CancelSeat).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/flights/{number}/passengers/{id}/baggage", h.GetBaggage).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{number}/passengers/{id}/baggage", h.CheckBag).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{number}/passengers/{id}/baggage/{tag}", h.UpdateBag).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/flights/{number}/baggage/exceptions", h.GetBaggageExceptions).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/passengers", h.SearchPassengers).Methods(http.MethodGet, http.MethodOptions)

	// Tickets
	api.HandleFunc("/tickets", h.IssueTicket).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/tickets/{number}", h.GetTicket).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tickets/{number}/{action}", h.TicketAction).Methods(http.MethodPost, http.MethodOptions)

	// Durable bookings
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings/{id}/{action}", h.BookingAction).Methods(http.MethodPost, http.MethodOptions)

	// Persistence
	api.HandleFunc("/admin/save", h.Save).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/admin/load", h.Load).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/export.csv", h.ExportCSV).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for real-time seat updates
	if hub != nil {
		api.HandleFunc("/flights/{number}/ws", hub.HandleWebSocket).Methods(http.MethodGet)
	}

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(logger),
		gorillahandlers.PrintRecoveryStack(true),
	)
	return recovery(cors(r))
}
