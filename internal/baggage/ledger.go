// Package baggage keeps the checked baggage ledger of a passenger.
package baggage

import (
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
)

// OversizeLimitKg is the weight above which a bag is flagged oversize.
const OversizeLimitKg = 23.0

type Status int

const (
	Checked Status = iota
	InTransit
	Arrived
	Claimed
	Lost
	Damaged
)

var statusNames = []string{"checked", "in_transit", "arrived", "claimed", "lost", "damaged"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

func ParseStatus(s string) (Status, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	if norm == "intransit" {
		norm = "in_transit"
	}
	for i, name := range statusNames {
		if name == norm {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown baggage status %q", errs.ErrValidation, s)
}

// allowed lists the legal moves out of each status. Claimed is terminal.
var allowed = map[Status][]Status{
	Checked:   {InTransit, Lost, Damaged},
	InTransit: {Arrived, Lost, Damaged},
	Arrived:   {Claimed, Lost, Damaged},
	Lost:      {InTransit, Arrived},
	Damaged:   {Claimed},
}

func canMove(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrBagNotFound       = fmt.Errorf("%w: bag", errs.ErrNotFound)
	ErrInvalidWeight     = fmt.Errorf("%w: bag weight must be positive", errs.ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: invalid baggage status change", errs.ErrConflict)
)

// Tag is one checked bag. Oversize is decided at check-in and never changes.
type Tag struct {
	Number      string
	Weight      float64
	Description string
	Fragile     bool
	Oversize    bool
	Status      Status
	Location    string
	UpdatedAt   time.Time
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger is an ordered collection of bags. Not safe for concurrent use.
type Ledger struct {
	now     func() time.Time
	bags    []*Tag
	nextTag int
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now, nextTag: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckBag records a new bag at check-in and returns its tag number.
func (l *Ledger) CheckBag(weight float64, description string, fragile bool) (string, error) {
	if weight <= 0 {
		return "", fmt.Errorf("%w: %.1f", ErrInvalidWeight, weight)
	}
	number := fmt.Sprintf("BAG%06d", l.nextTag)
	l.nextTag++
	l.bags = append(l.bags, &Tag{
		Number:      number,
		Weight:      weight,
		Description: description,
		Fragile:     fragile,
		Oversize:    weight > OversizeLimitKg,
		Status:      Checked,
		Location:    "Check-in",
		UpdatedAt:   l.now(),
	})
	return number, nil
}

func (l *Ledger) find(number string) (*Tag, error) {
	for _, b := range l.bags {
		if b.Number == number {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBagNotFound, number)
}

// UpdateStatus moves a bag to a new status and location.
func (l *Ledger) UpdateStatus(number string, to Status, location string) error {
	b, err := l.find(number)
	if err != nil {
		return err
	}
	if !canMove(b.Status, to) {
		return fmt.Errorf("%w: %s from %s to %s", ErrInvalidTransition, number, b.Status, to)
	}
	b.Status = to
	b.Location = location
	b.UpdatedAt = l.now()
	return nil
}

func (l *Ledger) MarkLost(number string) error {
	return l.UpdateStatus(number, Lost, "Unknown")
}

func (l *Ledger) MarkDamaged(number string) error {
	return l.UpdateStatus(number, Damaged, "Baggage Claim")
}

func (l *Ledger) Claim(number string) error {
	return l.UpdateStatus(number, Claimed, "Claimed by passenger")
}

// Tag returns a copy of one bag.
func (l *Ledger) Tag(number string) (Tag, error) {
	b, err := l.find(number)
	if err != nil {
		return Tag{}, err
	}
	return *b, nil
}

// Tags returns copies of all bags in check-in order.
func (l *Ledger) Tags() []Tag {
	return l.filter(func(*Tag) bool { return true })
}

func (l *Ledger) Lost() []Tag {
	return l.filter(func(b *Tag) bool { return b.Status == Lost })
}

func (l *Ledger) Damaged() []Tag {
	return l.filter(func(b *Tag) bool { return b.Status == Damaged })
}

func (l *Ledger) filter(keep func(*Tag) bool) []Tag {
	out := make([]Tag, 0, len(l.bags))
	for _, b := range l.bags {
		if keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

func (l *Ledger) Has(number string) bool {
	_, err := l.find(number)
	return err == nil
}

func (l *Ledger) Count() int { return len(l.bags) }

func (l *Ledger) TotalWeight() float64 {
	total := 0.0
	for _, b := range l.bags {
		total += b.Weight
	}
	return total
}
