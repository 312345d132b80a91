package flightstatus

import (
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	return NewTracker(WithClock(clock.Now)), clock
}

func TestNewTracker(t *testing.T) {
	tr, _ := newTestTracker()

	assert.Equal(t, OnTime, tr.Status())
	require.Len(t, tr.History(), 1)
	assert.Equal(t, "Flight created, on time.", tr.Latest().Reason)
}

func TestTracker_HistoryIsAppendOnlyAndCapturesGate(t *testing.T) {
	tr, _ := newTestTracker()

	tr.SetGate("B12")
	require.NoError(t, tr.UpdateStatus(Boarding, "Boarding started"))
	tr.SetGate("B14")
	require.NoError(t, tr.UpdateStatus(Departed, "Pushback"))

	h := tr.History()
	require.Len(t, h, 3)
	assert.Equal(t, "", h[0].Gate)
	assert.Equal(t, "B12", h[1].Gate)
	assert.Equal(t, "B14", h[2].Gate)
	assert.True(t, h[1].Timestamp.Before(h[2].Timestamp))

	h[0].Reason = "rewritten"
	assert.Equal(t, "Flight created, on time.", tr.History()[0].Reason)

	assert.ErrorIs(t, tr.UpdateStatus(Status(42), "x"), errs.ErrValidation)
	assert.Len(t, tr.History(), 3)
}

func TestTracker_SetDelay(t *testing.T) {
	departure := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	arrival := departure.Add(7 * time.Hour)

	tr, _ := newTestTracker()
	tr.SetScheduledDeparture(departure)
	tr.SetScheduledArrival(arrival)
	assert.Equal(t, departure, tr.EstimatedDeparture())

	tr.SetDelay(45, "Late inbound aircraft")
	assert.True(t, tr.IsDelayed())
	assert.Equal(t, 45, tr.DelayMinutes())
	assert.Equal(t, departure.Add(45*time.Minute), tr.EstimatedDeparture())
	assert.Equal(t, arrival.Add(45*time.Minute), tr.EstimatedArrival())

	tr.SetScheduledDeparture(departure.Add(time.Hour))
	assert.Equal(t, departure.Add(105*time.Minute), tr.EstimatedDeparture())

	tr.SetDelay(0, "")
	assert.Equal(t, OnTime, tr.Status())
	assert.Equal(t, "Delay cleared.", tr.Latest().Reason)
	assert.Equal(t, arrival, tr.EstimatedArrival())
	assert.Len(t, tr.History(), 3)
}

func TestTracker_ClearingDelayKeepsOtherStatus(t *testing.T) {
	tr, _ := newTestTracker()
	tr.SetDelay(20, "ATC")
	require.NoError(t, tr.UpdateStatus(Boarding, "Boarding"))

	tr.SetDelay(-5, "")
	assert.True(t, tr.IsBoarding())
	assert.Equal(t, 0, tr.DelayMinutes())
	assert.Len(t, tr.History(), 3)
}

func TestTracker_CancelAndDivert(t *testing.T) {
	tr, _ := newTestTracker()

	assert.ErrorIs(t, tr.Divert(" ", "weather"), errs.ErrValidation)
	require.NoError(t, tr.Divert("BOS", "Weather at destination"))
	assert.True(t, tr.IsDiverted())
	assert.Equal(t, "BOS", tr.DivertedTo())

	tr.Cancel("Crew shortage")
	assert.True(t, tr.IsCancelled())
	assert.Equal(t, "Crew shortage", tr.Latest().Reason)
	assert.Len(t, tr.History(), 3)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"on_time", OnTime},
		{"OnTime", OnTime},
		{"on time", OnTime},
		{"Delayed", Delayed},
		{"diverted", Diverted},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
	_, err := ParseStatus("landed")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
