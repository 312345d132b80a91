package seating

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SeatIDsRoundTrip(t *testing.T) {
	seats := Generate(Boeing777, 500, rand.New(rand.NewSource(7)))

	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		require.False(t, seen[s.ID()], "duplicate seat id %s", s.ID())
		seen[s.ID()] = true

		row, col, err := Boeing777.ParseSeatID(s.ID())
		require.NoError(t, err)
		assert.Equal(t, s.Row(), row, s.ID())
		assert.Equal(t, s.Column(), col, s.ID())
	}

	// 7 rows of 4, 11 rows of 8, 46 rows of 10
	assert.Len(t, seats, 7*4+11*8+46*10)
}

func TestGenerate_PricingTiers(t *testing.T) {
	seats := Generate(Boeing777, 500, rand.New(rand.NewSource(42)))

	for _, s := range seats {
		switch {
		case s.Row() <= 7:
			assert.Equal(t, ClassFirst, s.Class())
			assert.GreaterOrEqual(t, s.Price(), 1500.0)
			assert.LessOrEqual(t, s.Price(), 1999.0)
		case s.Row() <= 11:
			assert.Equal(t, ClassBusiness, s.Class())
			assert.GreaterOrEqual(t, s.Price(), 1000.0)
			assert.LessOrEqual(t, s.Price(), 1249.0)
		case s.Row() <= 18:
			assert.Equal(t, ClassPremium, s.Class())
			assert.GreaterOrEqual(t, s.Price(), 750.0)
			assert.LessOrEqual(t, s.Price(), 949.0)
		default:
			assert.Equal(t, ClassEconomy, s.Class())
			assert.GreaterOrEqual(t, s.Price(), 500.0)
			assert.LessOrEqual(t, s.Price(), 599.0)
		}
		assert.Equal(t, StatusAvailable, s.Status())
	}
}

func TestGenerate_SameSeedSamePrices(t *testing.T) {
	a := Generate(Boeing777, 300, rand.New(rand.NewSource(1)))
	b := Generate(Boeing777, 300, rand.New(rand.NewSource(1)))
	for i := range a {
		assert.Equal(t, a[i].Price(), b[i].Price())
	}
}

func TestTemplate_LettersSkipConfusableLetters(t *testing.T) {
	for row := 1; row <= Boeing777.Rows; row++ {
		for _, l := range Boeing777.LettersFor(row) {
			assert.NotEqual(t, "I", l)
			assert.NotEqual(t, "K", l)
		}
	}
	assert.Equal(t, []string{"A", "D", "G", "L"}, Boeing777.LettersFor(1))
	assert.Len(t, Boeing777.LettersFor(8), 8)
	assert.Len(t, Boeing777.LettersFor(19), 10)
}

func TestTemplate_ParseSeatID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		row     int
		col     int
		wantErr bool
	}{
		{name: "first class", id: "1L", row: 1, col: 3},
		{name: "economy lowercase", id: "19a", row: 19, col: 0},
		{name: "last row", id: "64L", row: 64, col: 9},
		{name: "letter not in first layout", id: "1B", wantErr: true},
		{name: "excluded letter", id: "30K", wantErr: true},
		{name: "row out of range", id: "65A", wantErr: true},
		{name: "row zero", id: "0A", wantErr: true},
		{name: "no row", id: "A", wantErr: true},
		{name: "no letter", id: "12", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, err := Boeing777.ParseSeatID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errs.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestRowLabels(t *testing.T) {
	tests := []struct {
		label string
		n     int
	}{
		{"A", 1},
		{"Z", 26},
		{"AA", 27},
		{"AB", 28},
		{"AZ", 52},
		{"BA", 53},
		{"ZZ", 702},
		{"AAA", 703},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			n, err := ParseRowLabel(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.n, n)
			assert.Equal(t, tt.label, FormatRowLabel(tt.n))
		})
	}

	_, err := ParseRowLabel("A1")
	assert.Error(t, err)
	_, err = ParseRowLabel("")
	assert.Error(t, err)
	assert.Equal(t, "", FormatRowLabel(0))
}

func TestTemplate_ContainsGridPosition(t *testing.T) {
	short := Boeing777.WithRows(20)

	assert.True(t, Boeing777.ContainsGridPosition("AA5"))
	assert.False(t, short.ContainsGridPosition("AA5"))
	assert.True(t, short.ContainsGridPosition("T10"))
	assert.False(t, short.ContainsGridPosition("T11"))
	assert.False(t, short.ContainsGridPosition("A0"))
	assert.False(t, short.ContainsGridPosition("5A"))
	assert.False(t, short.ContainsGridPosition(""))
}

func TestSeat_StateMachine(t *testing.T) {
	pid := uuid.New()

	s := newSeat("19A", 19, 0, ClassEconomy, 500)
	require.NoError(t, s.Assign(pid))
	assert.True(t, s.Occupied())
	got, ok := s.PassengerID()
	assert.True(t, ok)
	assert.Equal(t, pid, got)

	err := s.Assign(uuid.New())
	assert.ErrorIs(t, err, ErrSeatNotAvailable)
	got, _ = s.PassengerID()
	assert.Equal(t, pid, got, "failed assign must not replace the occupant")

	assert.ErrorIs(t, s.Reserve(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Block(), ErrInvalidTransition)

	prev, ok := s.Clear()
	assert.True(t, ok)
	assert.Equal(t, pid, prev)
	assert.True(t, s.Available())
	_, ok = s.PassengerID()
	assert.False(t, ok)

	_, ok = s.Clear()
	assert.False(t, ok)
}

func TestSeat_ReserveAndBlock(t *testing.T) {
	s := newSeat("1A", 1, 0, ClassFirst, 1500)

	assert.ErrorIs(t, s.Assign(uuid.Nil), ErrNoPassenger)
	assert.True(t, s.Available())

	require.NoError(t, s.Reserve())
	assert.True(t, s.Reserved())
	assert.ErrorIs(t, s.Assign(uuid.New()), ErrSeatNotAvailable)
	assert.ErrorIs(t, s.Block(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Unblock(), ErrInvalidTransition)
	require.NoError(t, s.Unreserve())

	require.NoError(t, s.Block())
	assert.True(t, s.Blocked())
	assert.ErrorIs(t, s.Reserve(), ErrInvalidTransition)
	require.NoError(t, s.Unblock())
	assert.True(t, s.Available())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusAvailable, StatusOccupied, StatusReserved, StatusBlocked} {
		got, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseStatus(" Blocked ")
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, got)

	got, err = ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, got)

	_, err = ParseStatus("broken")
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestSeat_Reprice(t *testing.T) {
	s := newSeat("19A", 19, 0, ClassEconomy, 500)

	require.NoError(t, s.Reprice(537))
	assert.Equal(t, 537.0, s.Price())

	assert.ErrorIs(t, s.Reprice(0), ErrInvalidPrice)
	assert.ErrorIs(t, s.Reprice(-10), ErrInvalidPrice)
	assert.Equal(t, 537.0, s.Price())
}
