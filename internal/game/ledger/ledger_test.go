package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

type maxedRecorder struct {
	cues.NopSink
	maxed int
}

func (r *maxedRecorder) AllocationMaxed(string) { r.maxed++ }

func TestSetClampsToBalance(t *testing.T) {
	sink := &maxedRecorder{}
	l := New("Moblins", 1000, nil, sink)

	l.Set(models.OptionA, 1500)

	assert.Equal(t, 1000, l.Allocations().Get(models.OptionA))
	assert.Equal(t, 0, l.Remaining())
	assert.Equal(t, 1, sink.maxed)
}

func TestSetClampsToRemaining(t *testing.T) {
	sink := &maxedRecorder{}
	l := New("Moblins", 1000, nil, sink)

	l.Set(models.OptionA, 600)
	l.Set(models.OptionB, 600)

	assert.Equal(t, 600, l.Allocations().Get(models.OptionA))
	assert.Equal(t, 400, l.Allocations().Get(models.OptionB))
	assert.Equal(t, 1000, l.Allocations().Total())
	assert.Equal(t, 1, sink.maxed)
}

func TestSetNegativeClampsToZero(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.Set(models.OptionA, 300)
	l.Set(models.OptionA, -50)
	assert.Equal(t, 0, l.Allocations().Get(models.OptionA))
}

func TestSetReplacesNotAdds(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.Set(models.OptionA, 300)
	l.Set(models.OptionA, 500)
	assert.Equal(t, 500, l.Allocations().Get(models.OptionA))
	assert.Equal(t, 500, l.Remaining())
}

func TestSetInvalidOptionIgnored(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.Set(models.Option("E"), 500)
	assert.Equal(t, 0, l.Allocations().Total())
}

func TestAllIn(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.Set(models.OptionA, 300)
	l.Set(models.OptionB, 200)

	l.AllIn(models.OptionC)

	assert.Equal(t, models.Allocations{C: 1000}, l.Allocations())
	require.True(t, l.Valid())
}

func TestReset(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.SplitEvenly()
	l.Reset()
	assert.Equal(t, models.Allocations{}, l.Allocations())
	assert.Equal(t, 1000, l.Remaining())
}

func TestSplitEvenly(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.SplitEvenly()

	// 10 notes: A,B get 3, C,D get 2.
	assert.Equal(t, models.Allocations{A: 300, B: 300, C: 200, D: 200}, l.Allocations())
	require.True(t, l.Valid())
}

func TestSplitEvenlyExactDivision(t *testing.T) {
	l := New("Moblins", 800, nil, nil)
	l.SplitEvenly()
	assert.Equal(t, models.Allocations{A: 200, B: 200, C: 200, D: 200}, l.Allocations())
}

func TestSplitEvenlyRemainderOrder(t *testing.T) {
	// 7 notes: base 1 each, remainder 3 goes to A, B, C.
	l := New("Moblins", 700, nil, nil)
	l.SplitEvenly()
	assert.Equal(t, models.Allocations{A: 200, B: 200, C: 200, D: 100}, l.Allocations())
}

func TestSplitPairOddNoteToFirst(t *testing.T) {
	l := New("Moblins", 500, nil, nil)
	l.SplitPair(models.OptionA, models.OptionB)
	assert.Equal(t, models.Allocations{A: 300, B: 200}, l.Allocations())
	require.True(t, l.Valid())
}

func TestSplitPairOverwritesExisting(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.Set(models.OptionC, 400)
	l.SplitPair(models.OptionB, models.OptionD)
	assert.Equal(t, models.Allocations{B: 500, D: 500}, l.Allocations())
}

func TestSplitPairSameOptionIgnored(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.SplitPair(models.OptionA, models.OptionA)
	assert.Equal(t, models.Allocations{}, l.Allocations())
}

func TestLockedLedgerIgnoresMutations(t *testing.T) {
	locked := false
	l := New("Moblins", 1000, func() bool { return locked }, nil)

	l.Set(models.OptionA, 400)
	locked = true

	l.Set(models.OptionA, 900)
	l.AllIn(models.OptionB)
	l.Reset()
	l.SplitEvenly()
	l.SplitPair(models.OptionC, models.OptionD)

	assert.Equal(t, models.Allocations{A: 400}, l.Allocations())
}

func TestValidRequiresFullBalance(t *testing.T) {
	l := New("Moblins", 1000, nil, nil)
	l.Set(models.OptionA, 900)
	assert.False(t, l.Valid())

	l.Set(models.OptionB, 100)
	assert.True(t, l.Valid())
}

func TestSplitEvenlyLeavesSubNoteRemainderUnallocated(t *testing.T) {
	l := New("Moblins", 250, nil, nil)
	l.SplitEvenly()
	assert.Equal(t, models.Allocations{A: 100, B: 100}, l.Allocations())
	assert.Equal(t, 50, l.Remaining())
}

func TestZeroBalanceLedger(t *testing.T) {
	l := New("Moblins", 0, nil, nil)
	l.SplitEvenly()
	assert.Equal(t, models.Allocations{}, l.Allocations())
	assert.True(t, l.Complete())
}
