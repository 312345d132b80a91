package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/seating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFlights(t *testing.T) []*airline.Flight {
	t.Helper()
	aa := airline.NewFlight(airline.Details{
		Number:      "AA100",
		Origin:      "New York",
		Destination: "London",
		Departure:   time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC),
		BasePrice:   450,
	})
	alice := airline.NewPassenger("Alice", "Smith", "555-0100", "alice@example.com")
	require.NoError(t, alice.RequestSeat("19A"))
	require.NoError(t, aa.AddPassenger(alice))
	require.NoError(t, aa.AddPassenger(airline.NewPassenger("Bob", "Jones", "555-0101", "")))
	require.NoError(t, aa.ReserveSeat("2D"))
	require.NoError(t, aa.BlockSeat("30C"))

	short := airline.NewFlight(airline.Details{Number: "BA200", Origin: "London", Destination: "Paris"},
		airline.WithTemplate(seating.Boeing777.WithRows(30)))
	return []*airline.Flight{aa, short}
}

// assertSameFlights compares flights through their persisted accessors.
func assertSameFlights(t *testing.T, want, got []*airline.Flight) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Number(), g.Number())
		assert.Equal(t, w.Origin(), g.Origin())
		assert.Equal(t, w.Destination(), g.Destination())
		assert.True(t, w.Departure().Equal(g.Departure()), "departure of %s", w.Number())
		assert.Equal(t, w.BasePrice(), g.BasePrice())
		assert.Equal(t, w.Rows(), g.Rows())
		assert.Equal(t, w.Cols(), g.Cols())
		assert.Equal(t, w.PassengerSeats(), g.PassengerSeats())
		assert.Equal(t, w.Revenue(), g.Revenue(), "revenue of %s", w.Number())

		ws, gs := w.Seats(), g.Seats()
		require.Len(t, gs, len(ws))
		for j := range ws {
			assert.Equal(t, ws[j].ID(), gs[j].ID())
			assert.Equal(t, ws[j].Price(), gs[j].Price(), "price of %s", ws[j].ID())
			assert.Equal(t, ws[j].Status(), gs[j].Status(), "status of %s", ws[j].ID())
		}

		wp, gp := w.Passengers(), g.Passengers()
		require.Len(t, gp, len(wp))
		for j := range wp {
			assert.Equal(t, wp[j].ID, gp[j].ID)
			assert.Equal(t, wp[j].FullName(), gp[j].FullName())
			assert.Equal(t, wp[j].Phone, gp[j].Phone)
			assert.Equal(t, wp[j].Email, gp[j].Email)
			assert.Equal(t, wp[j].SeatID(), gp[j].SeatID())
		}
		require.NoError(t, g.CheckConsistency())
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, name := range []string{"flights.json", "flights.cbor", "flights.json.zst", "flights.cbor.zst"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "data", name)
			store, err := NewFileStore(path)
			require.NoError(t, err)

			flights := sampleFlights(t)
			require.NoError(t, store.SaveAll(ctx, flights))

			got, err := store.LoadAll(ctx)
			require.NoError(t, err)
			assertSameFlights(t, flights, got)
		})
	}
}

func TestFileStore_JSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveAll(context.Background(), sampleFlights(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"flights"`, `"flightNumber": "AA100"`, `"departureTime": "2026-05-01T18:30:00Z"`, `"seatNumber": "19A"`, `"rows": 30`, `"status": "blocked"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestFileStore_MissingFileLoadsEmpty(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	flights, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, flights)

	_, err = NewFileStore("")
	assert.Error(t, err)
}

func TestFileStore_RejectsDoubleBookedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	doc := `{"flights":[{"flightNumber":"AA1","origin":"A","destination":"B","departureTime":"","rows":64,"cols":10,
		"passengers":[{"firstName":"A","lastName":"A","phoneNumber":"","seatNumber":"20A"},
		              {"firstName":"B","lastName":"B","phoneNumber":"","seatNumber":"20A"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = store.LoadAll(context.Background())
	assert.ErrorIs(t, err, seating.ErrSeatNotAvailable)
}

func TestSnapshot_KeepsSeatState(t *testing.T) {
	flights := sampleFlights(t)
	aa := flights[0]

	// Every restore draws a new inventory; the saved state must win each time.
	for i := 0; i < 5; i++ {
		got, err := NewSnapshot(flights).Restore()
		require.NoError(t, err)
		assertSameFlights(t, flights, got)

		s, err := got[0].Seat("2D")
		require.NoError(t, err)
		assert.True(t, s.Reserved())
		s, err = got[0].Seat("30C")
		require.NoError(t, err)
		assert.True(t, s.Blocked())
		assert.NotContains(t, got[0].AvailableSeats(), "30C")
		assert.Equal(t, aa.Revenue(), got[0].Revenue())
	}
}

func TestSnapshot_SeatRecordErrors(t *testing.T) {
	rec := NewRecord(sampleFlights(t)[0])
	for i := range rec.Seats {
		if rec.Seats[i].SeatNumber == "19A" {
			rec.Seats[i].Status = "blocked"
		}
	}
	_, err := rec.Flight()
	assert.ErrorIs(t, err, seating.ErrSeatNotAvailable, "a blocked seat cannot also hold a passenger")

	rec = NewRecord(sampleFlights(t)[0])
	rec.Seats[0].Status = "broken"
	_, err = rec.Flight()
	assert.ErrorIs(t, err, errs.ErrValidation)

	rec = NewRecord(sampleFlights(t)[0])
	rec.Seats = append(rec.Seats, SeatRecord{SeatNumber: "99Z", Price: 100})
	_, err = rec.Flight()
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "flights.db"))
	require.NoError(t, err)
	defer store.Close()

	flights := sampleFlights(t)
	require.NoError(t, store.SaveAll(ctx, flights))
	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assertSameFlights(t, flights, got)

	// SaveAll replaces the whole set.
	require.NoError(t, store.SaveAll(ctx, flights[1:]))
	got, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assertSameFlights(t, flights[1:], got)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	flights := sampleFlights(t)
	require.NoError(t, store.SaveAll(ctx, flights))
	got, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assertSameFlights(t, flights, got)
	assert.Equal(t, 1, store.Saves())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	gw, err := Open(ctx, Options{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, gw)

	gw, err = Open(ctx, Options{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "f.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, gw)

	gw, err = Open(ctx, Options{Backend: BackendFile})
	assert.Error(t, err)
	assert.Nil(t, gw)

	_, err = Open(ctx, Options{Backend: "mongo"})
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, sampleFlights(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"AA100", "New York", "London", "2026-05-01 18:30", "Alice", "Smith", "555-0100", "alice@example.com", "19A"}, rows[1])
	assert.Equal(t, "Bob", rows[2][4])
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, []string{"BA200", "London", "Paris", "", "", "", "", "", ""}, rows[3])
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	url := os.Getenv("FOM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FOM_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	flights := sampleFlights(t)
	require.NoError(t, store.SaveAll(ctx, flights))
	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assertSameFlights(t, flights, got)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("FOM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FOM_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	store, err := NewRedisStore(ctx, addr, "fom-test:")
	require.NoError(t, err)
	defer store.Close()

	flights := sampleFlights(t)
	require.NoError(t, store.SaveAll(ctx, flights))
	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assertSameFlights(t, flights, got)

	require.NoError(t, store.SaveAll(ctx, nil))
	got, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
