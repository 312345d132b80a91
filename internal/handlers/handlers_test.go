package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/service/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{number}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{number}", h.DeleteFlight).Methods(http.MethodDelete)
	api.HandleFunc("/flights/{number}/seats", h.GetSeats).Methods(http.MethodGet)
	api.HandleFunc("/flights/{number}/seatmap", h.GetSeatMap).Methods(http.MethodGet)
	api.HandleFunc("/flights/{number}/seats/{seat}/{action}", h.UpdateSeat).Methods(http.MethodPost)
	api.HandleFunc("/flights/{number}/passengers", h.AddPassenger).Methods(http.MethodPost)
	api.HandleFunc("/flights/{number}/passengers/{id}", h.RemovePassenger).Methods(http.MethodDelete)
	api.HandleFunc("/flights/{number}/passengers/{id}/seat", h.BookSeat).Methods(http.MethodPut)
	api.HandleFunc("/flights/{number}/status", h.UpdateStatus).Methods(http.MethodPost)
	api.HandleFunc("/flights/{number}/baggage/exceptions", h.GetBaggageExceptions).Methods(http.MethodGet)
	api.HandleFunc("/tickets/{number}/{action}", h.TicketAction).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/{action}", h.BookingAction).Methods(http.MethodPost)
	api.HandleFunc("/export.csv", h.ExportCSV).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	return r
}

func serve(router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad seat", errs.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", fmt.Errorf("%w: taken", errs.ErrConflict)), http.StatusConflict},
		{fmt.Errorf("%w: flight", errs.ErrNotFound), http.StatusNotFound},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestHandler_GetFlights(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	expected := []*models.Flight{{FlightNumber: "AA123", Origin: "New York", Destination: "Los Angeles"}}
	mockService.On("ListFlights", mock.Anything, "new york").Return(expected)

	rec := serve(router, http.MethodGet, "/api/flights?q=new+york", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response []models.Flight
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "AA123", response[0].FlightNumber)

	mockService.AssertExpectations(t)
}

func TestHandler_GetFlight(t *testing.T) {
	tests := []struct {
		name           string
		number         string
		mockReturn     *models.Flight
		mockError      error
		expectedStatus int
	}{
		{
			name:           "flight found",
			number:         "AA123",
			mockReturn:     &models.Flight{FlightNumber: "AA123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			number:         "XX999",
			mockError:      fmt.Errorf("%w: XX999", errs.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockOperationsService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.mockReturn != nil {
				mockService.On("GetFlight", mock.Anything, tt.number).Return(tt.mockReturn, nil)
			} else {
				mockService.On("GetFlight", mock.Anything, tt.number).Return(nil, tt.mockError)
			}

			rec := serve(router, http.MethodGet, "/api/flights/"+tt.number, nil)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateFlight(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockReturn     *models.Flight
		mockError      error
		expectedStatus int
		callsService   bool
	}{
		{
			name:           "created",
			body:           models.CreateFlightRequest{FlightNumber: "AA100", Origin: "NYC", Destination: "LHR"},
			mockReturn:     &models.Flight{FlightNumber: "AA100"},
			expectedStatus: http.StatusCreated,
			callsService:   true,
		},
		{
			name:           "duplicate",
			body:           models.CreateFlightRequest{FlightNumber: "AA100", Origin: "NYC", Destination: "LHR"},
			mockError:      fmt.Errorf("%w: duplicate flight number", errs.ErrValidation),
			expectedStatus: http.StatusBadRequest,
			callsService:   true,
		},
		{
			name:           "invalid json",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockOperationsService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.callsService {
				if tt.mockReturn != nil {
					mockService.On("CreateFlight", mock.Anything, mock.AnythingOfType("*models.CreateFlightRequest")).Return(tt.mockReturn, nil)
				} else {
					mockService.On("CreateFlight", mock.Anything, mock.AnythingOfType("*models.CreateFlightRequest")).Return(nil, tt.mockError)
				}
			}

			rec := serve(router, http.MethodPost, "/api/flights", tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_DeleteFlight(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))
	mockService.On("DeleteFlight", mock.Anything, "AA100").Return(nil)

	rec := serve(router, http.MethodDelete, "/api/flights/AA100", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_GetSeats(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	seats := []*models.Seat{{ID: "19A", Status: "available"}}
	mockService.On("GetSeats", mock.Anything, "AA100", true).Return(seats, nil)

	rec := serve(router, http.MethodGet, "/api/flights/AA100/seats?available=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/api/flights/AA100/seats?available=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_GetSeatMap(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))
	mockService.On("GetSeatMap", mock.Anything, "AA100").Return("     1  2\n 1 [X][ ]\n", nil)

	rec := serve(router, http.MethodGet, "/api/flights/AA100/seatmap", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "[X]")
	mockService.AssertExpectations(t)
}

func TestHandler_UpdateSeat(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("UpdateSeat", mock.Anything, "AA100", "30A", "block").Return(&models.Seat{ID: "30A", Status: "blocked"}, nil)
	mockService.On("UpdateSeat", mock.Anything, "AA100", "19A", "block").Return(nil, fmt.Errorf("%w: occupied", errs.ErrConflict))

	rec := serve(router, http.MethodPost, "/api/flights/AA100/seats/30A/block", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPost, "/api/flights/AA100/seats/19A/block", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["error"], "occupied")

	mockService.AssertExpectations(t)
}

func TestHandler_AddPassenger(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("AddPassenger", mock.Anything, "AA100", mock.MatchedBy(func(req *models.AddPassengerRequest) bool {
		return req.FirstName == "Alice" && req.SeatID == "19A"
	})).Return(&models.Passenger{ID: "p-1", FirstName: "Alice", SeatID: "19A"}, nil)

	rec := serve(router, http.MethodPost, "/api/flights/AA100/passengers", models.AddPassengerRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		SeatID:    "19A",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var p models.Passenger
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "p-1", p.ID)
	mockService.AssertExpectations(t)
}

func TestHandler_RemovePassenger(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))
	mockService.On("RemovePassenger", mock.Anything, "AA100", "p-1").Return(nil)

	rec := serve(router, http.MethodDelete, "/api/flights/AA100/passengers/p-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_BookSeat(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	rec := serve(router, http.MethodPut, "/api/flights/AA100/passengers/p-1/seat", models.SeatRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.On("BookSeat", mock.Anything, "AA100", "p-1", "20B").Return(nil, fmt.Errorf("%w: seat not available", errs.ErrConflict))
	rec = serve(router, http.MethodPut, "/api/flights/AA100/passengers/p-1/seat", models.SeatRequest{SeatID: "20B"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_UpdateStatus(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("UpdateStatus", mock.Anything, "AA100", &models.StatusUpdateRequest{
		Action:       models.StatusActionDelay,
		DelayMinutes: 45,
		Reason:       "Weather",
	}).Return(&models.FlightStatus{FlightNumber: "AA100", Status: "delayed", DelayMinutes: 45}, nil)

	rec := serve(router, http.MethodPost, "/api/flights/AA100/status", models.StatusUpdateRequest{
		Action:       models.StatusActionDelay,
		DelayMinutes: 45,
		Reason:       "Weather",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var st models.FlightStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, "delayed", st.Status)
	mockService.AssertExpectations(t)
}

func TestHandler_GetBaggageExceptions(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("GetBaggageExceptions", mock.Anything, "AA100").Return(&models.BaggageExceptions{
		FlightNumber: "AA100",
		Lost:         []models.PassengerBag{{PassengerID: "p-1", Bag: models.Bag{TagNumber: "BAG000001", Status: "lost"}}},
		Damaged:      []models.PassengerBag{},
	}, nil)
	mockService.On("GetBaggageExceptions", mock.Anything, "ZZ999").Return(nil, fmt.Errorf("%w: flight", errs.ErrNotFound))

	rec := serve(router, http.MethodGet, "/api/flights/AA100/baggage/exceptions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	lost := body["lost"].([]interface{})
	require.Len(t, lost, 1)
	bag := lost[0].(map[string]interface{})
	assert.Equal(t, "p-1", bag["passengerId"])
	assert.Equal(t, "BAG000001", bag["tagNumber"])
	assert.Empty(t, body["damaged"])

	rec = serve(router, http.MethodGet, "/api/flights/ZZ999/baggage/exceptions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_TicketAction_EmptyBody(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("TicketAction", mock.Anything, "TKT-1", "confirm", &models.TicketActionRequest{}).
		Return(&models.Ticket{TicketNumber: "TKT-1", Status: "confirmed"}, nil)

	rec := serve(router, http.MethodPost, "/api/tickets/TKT-1/confirm", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_BookingAction(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("BookingAction", mock.Anything, "ord-1", "confirm").Return(nil)
	mockService.On("BookingAction", mock.Anything, "ord-2", "confirm").Return(fmt.Errorf("%w: durable bookings are disabled", errs.ErrValidation))

	rec := serve(router, http.MethodPost, "/api/bookings/ord-1/confirm", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = serve(router, http.MethodPost, "/api/bookings/ord-2/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_ExportCSV(t *testing.T) {
	mockService := new(mocks.MockOperationsService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("ExportCSV", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		w := args.Get(1).(io.Writer)
		io.WriteString(w, "Flight Number,Origin\nAA100,NYC\n")
	}).Return(nil).Once()

	rec := serve(router, http.MethodGet, "/api/export.csv", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "AA100,NYC")

	mockService.On("ExportCSV", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()
	rec = serve(router, http.MethodGet, "/api/export.csv", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_HealthCheck(t *testing.T) {
	router := setupTestRouter(NewHandler(new(mocks.MockOperationsService)))

	rec := serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}
