package baggage

import (
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger() *Ledger {
	return NewLedger(WithClock(func() time.Time { return fixedNow }))
}

func TestLedger_CheckBag(t *testing.T) {
	l := newTestLedger()

	first, err := l.CheckBag(18.5, "Blue suitcase", false)
	require.NoError(t, err)
	second, err := l.CheckBag(23.1, "Golf bag", true)
	require.NoError(t, err)

	assert.Equal(t, "BAG000001", first)
	assert.Equal(t, "BAG000002", second)

	tag, err := l.Tag(first)
	require.NoError(t, err)
	assert.False(t, tag.Oversize)
	assert.Equal(t, Checked, tag.Status)
	assert.Equal(t, "Check-in", tag.Location)
	assert.Equal(t, fixedNow, tag.UpdatedAt)

	tag, _ = l.Tag(second)
	assert.True(t, tag.Oversize)
	assert.True(t, tag.Fragile)

	exact, err := l.CheckBag(23.0, "", false)
	require.NoError(t, err)
	tag, _ = l.Tag(exact)
	assert.False(t, tag.Oversize, "the limit itself is not oversize")

	_, err = l.CheckBag(0, "empty", false)
	assert.ErrorIs(t, err, errs.ErrValidation)

	assert.Equal(t, 3, l.Count())
	assert.InDelta(t, 64.6, l.TotalWeight(), 1e-9)
}

func TestLedger_StatusTransitions(t *testing.T) {
	l := newTestLedger()
	tag, err := l.CheckBag(10, "Backpack", false)
	require.NoError(t, err)

	require.NoError(t, l.UpdateStatus(tag, InTransit, "JFK sorting"))
	require.NoError(t, l.MarkLost(tag))
	assert.Len(t, l.Lost(), 1)

	require.NoError(t, l.UpdateStatus(tag, Arrived, "LHR belt 5"))
	assert.Empty(t, l.Lost())
	require.NoError(t, l.Claim(tag))

	b, _ := l.Tag(tag)
	assert.Equal(t, Claimed, b.Status)
	assert.Equal(t, "Claimed by passenger", b.Location)

	err = l.MarkDamaged(tag)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestLedger_Damaged(t *testing.T) {
	l := newTestLedger()
	tag, _ := l.CheckBag(12, "Guitar", true)

	assert.ErrorIs(t, l.Claim(tag), ErrInvalidTransition, "cannot claim before arrival")
	require.NoError(t, l.MarkDamaged(tag))
	assert.Len(t, l.Damaged(), 1)
	require.NoError(t, l.Claim(tag))
}

func TestLedger_UnknownTag(t *testing.T) {
	l := newTestLedger()

	assert.False(t, l.Has("BAG000001"))
	_, err := l.Tag("BAG000001")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, l.Claim("BAG000001"), ErrBagNotFound)
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"checked":    Checked,
		"InTransit":  InTransit,
		"in-transit": InTransit,
		"CLAIMED":    Claimed,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("misplaced")
	assert.Error(t, err)
}
