// Package flightstatus tracks the operational status of a flight. Every
// change is appended to a history that is never rewritten.
package flightstatus

import (
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
)

type Status int

const (
	OnTime Status = iota
	Delayed
	Boarding
	Departed
	Arrived
	Cancelled
	Diverted
)

var statusNames = []string{"on_time", "delayed", "boarding", "departed", "arrived", "cancelled", "diverted"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus accepts the String form, ignoring case, spaces and dashes.
func ParseStatus(s string) (Status, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	if norm == "ontime" {
		norm = "on_time"
	}
	for i, name := range statusNames {
		if name == norm {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown flight status %q", errs.ErrValidation, s)
}

const (
	createdReason      = "Flight created, on time."
	delayClearedReason = "Delay cleared."
)

// Update is one history entry. Gate is the gate at the time of the update.
type Update struct {
	Status    Status
	Reason    string
	Timestamp time.Time
	Gate      string
}

type Option func(*Tracker)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker is the live status of one flight. Not safe for concurrent use.
type Tracker struct {
	now func() time.Time

	status       Status
	gate         string
	delayMinutes int
	divertedTo   string

	scheduledDeparture time.Time
	scheduledArrival   time.Time
	estimatedDeparture time.Time
	estimatedArrival   time.Time

	history []Update
}

// NewTracker starts a tracker in OnTime with a single history entry.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.record(OnTime, createdReason)
	return t
}

func (t *Tracker) record(s Status, reason string) {
	t.history = append(t.history, Update{
		Status:    s,
		Reason:    reason,
		Timestamp: t.now(),
		Gate:      t.gate,
	})
	t.status = s
}

func (t *Tracker) recompute() {
	offset := time.Duration(t.delayMinutes) * time.Minute
	if !t.scheduledDeparture.IsZero() {
		t.estimatedDeparture = t.scheduledDeparture.Add(offset)
	}
	if !t.scheduledArrival.IsZero() {
		t.estimatedArrival = t.scheduledArrival.Add(offset)
	}
}

func (t *Tracker) UpdateStatus(s Status, reason string) error {
	if s < OnTime || s > Diverted {
		return fmt.Errorf("%w: unknown flight status %d", errs.ErrValidation, int(s))
	}
	t.record(s, reason)
	t.recompute()
	return nil
}

// SetDelay records a delay. A non-positive delay clears it and reverts to
// OnTime only when the flight is currently Delayed.
func (t *Tracker) SetDelay(minutes int, reason string) {
	if minutes > 0 {
		t.delayMinutes = minutes
		t.record(Delayed, reason)
	} else {
		t.delayMinutes = 0
		if t.status == Delayed {
			t.record(OnTime, delayClearedReason)
		}
	}
	t.recompute()
}

// SetGate changes the gate without a history entry; later entries capture it.
func (t *Tracker) SetGate(gate string) {
	t.gate = gate
}

func (t *Tracker) Cancel(reason string) {
	t.record(Cancelled, reason)
}

func (t *Tracker) Divert(destination, reason string) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: diversion destination is required", errs.ErrValidation)
	}
	t.divertedTo = destination
	t.record(Diverted, reason)
	return nil
}

func (t *Tracker) SetScheduledDeparture(at time.Time) {
	t.scheduledDeparture = at
	t.recompute()
}

func (t *Tracker) SetScheduledArrival(at time.Time) {
	t.scheduledArrival = at
	t.recompute()
}

func (t *Tracker) Status() Status { return t.status }
func (t *Tracker) Gate() string { return t.gate }
func (t *Tracker) DelayMinutes() int { return t.delayMinutes }
func (t *Tracker) DivertedTo() string { return t.divertedTo }
func (t *Tracker) ScheduledDeparture() time.Time { return t.scheduledDeparture }
func (t *Tracker) ScheduledArrival() time.Time { return t.scheduledArrival }
func (t *Tracker) EstimatedDeparture() time.Time { return t.estimatedDeparture }
func (t *Tracker) EstimatedArrival() time.Time { return t.estimatedArrival }

func (t *Tracker) IsDelayed() bool { return t.status == Delayed }
func (t *Tracker) IsCancelled() bool { return t.status == Cancelled }
func (t *Tracker) IsDiverted() bool { return t.status == Diverted }
func (t *Tracker) IsBoarding() bool { return t.status == Boarding }

// History returns a copy of the status log, oldest first.
func (t *Tracker) History() []Update {
	out := make([]Update, len(t.history))
	copy(out, t.history)
	return out
}

// Latest returns the most recent history entry.
func (t *Tracker) Latest() Update {
	return t.history[len(t.history)-1]
}
