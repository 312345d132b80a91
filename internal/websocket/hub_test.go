package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/logging"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	r := mux.NewRouter()
	r.HandleFunc("/api/flights/{number}/ws", hub.HandleWebSocket).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, flight string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/flights/" + flight + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastsToFlightSubscribers(t *testing.T) {
	hub, srv := startHub(t)
	watcher := dial(t, srv, "aa100")
	other := dial(t, srv, "BA200")

	require.Eventually(t, func() bool {
		return hub.ClientCount("AA100") == 1 && hub.ClientCount("ba200") == 1
	}, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	hub.BroadcastSeatUpdate(models.SeatUpdate{
		FlightNumber: "AA100",
		SeatID:       "19A",
		Status:       "occupied",
		PassengerID:  "p-1",
		Timestamp:    at,
	})

	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, watcher.ReadJSON(&msg))
	assert.Equal(t, MessageTypeSeatsUpdated, msg.Type)
	assert.Equal(t, "AA100", msg.FlightNumber)
	require.Len(t, msg.Seats, 1)
	assert.Equal(t, "19A", msg.Seats[0].SeatID)
	assert.Equal(t, "occupied", msg.Seats[0].Status)
	assert.Equal(t, at.UnixMilli(), msg.Timestamp)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "AA100")

	require.Eventually(t, func() bool { return hub.ClientCount("AA100") == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount("AA100") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(logging.Discard())
	for i := 0; i < 1000; i++ {
		hub.BroadcastSeatUpdate(models.SeatUpdate{FlightNumber: "AA100", SeatID: "1A"})
	}
	assert.Equal(t, 0, hub.ClientCount("AA100"))
}
