// Package ledger tracks one team's rupee allocation for the current
// question. The ledger itself carries no lock flag; the owning
// lifecycle supplies a predicate that every mutator consults at the
// moment of mutation, so a mutation racing a lock is always a no-op.
package ledger

import (
	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

const noteValue = 100

// Ledger holds the in-progress allocation against a fixed balance.
type Ledger struct {
	teamName string
	balance  int
	allocs   models.Allocations
	locked   func() bool
	sink     cues.Sink
}

// New creates an empty ledger for a team with the given balance.
// locked is evaluated on every mutation; nil means never locked.
func New(teamName string, balance int, locked func() bool, sink cues.Sink) *Ledger {
	if locked == nil {
		locked = func() bool { return false }
	}
	if sink == nil {
		sink = cues.NopSink{}
	}
	return &Ledger{
		teamName: teamName,
		balance:  balance,
		locked:   locked,
		sink:     sink,
	}
}

// Set places amount on one option, clamped so the option never exceeds
// the balance and the committed total never exceeds the balance.
func (l *Ledger) Set(opt models.Option, amount int) {
	if l.locked() || !opt.Valid() {
		return
	}
	requested := amount
	if amount < 0 {
		amount = 0
	}
	if amount > l.balance {
		amount = l.balance
	}
	others := l.allocs.Total() - l.allocs.Get(opt)
	if amount+others > l.balance {
		amount = l.balance - others
	}
	if amount < requested {
		l.sink.AllocationMaxed(l.teamName)
	}
	l.allocs.Set(opt, amount)
}

// AllIn puts the full balance on one option and zeroes the rest.
func (l *Ledger) AllIn(opt models.Option) {
	if l.locked() || !opt.Valid() {
		return
	}
	l.allocs = models.Allocations{}
	l.allocs.Set(opt, l.balance)
}

// Reset zeroes all four options.
func (l *Ledger) Reset() {
	if l.locked() {
		return
	}
	l.allocs = models.Allocations{}
}

// SplitEvenly distributes the balance's 100-notes across all four
// options, handing leftover notes to A, B, C, D in that order so the
// result is deterministic. Any sub-100 remainder stays unallocated.
func (l *Ledger) SplitEvenly() {
	if l.locked() {
		return
	}
	totalNotes := l.balance / noteValue
	baseNotes := totalNotes / 4
	remainder := totalNotes % 4

	var allocs models.Allocations
	for _, opt := range models.OptionOrder {
		notes := baseNotes
		if remainder > 0 {
			notes++
			remainder--
		}
		allocs.Set(opt, notes*noteValue)
	}
	l.allocs = allocs
}

// SplitPair splits the balance's 100-notes between exactly two
// options, the odd note going to the first-named option.
func (l *Ledger) SplitPair(opt1, opt2 models.Option) {
	if l.locked() || !opt1.Valid() || !opt2.Valid() || opt1 == opt2 {
		return
	}
	totalNotes := l.balance / noteValue
	half := totalNotes / 2
	remainder := totalNotes % 2

	var allocs models.Allocations
	allocs.Set(opt1, (half+remainder)*noteValue)
	allocs.Set(opt2, half*noteValue)
	l.allocs = allocs
}

// Allocations returns the current split.
func (l *Ledger) Allocations() models.Allocations {
	return l.allocs
}

// Balance returns the balance this ledger allocates against.
func (l *Ledger) Balance() int {
	return l.balance
}

// Remaining is the unallocated portion of the balance.
func (l *Ledger) Remaining() int {
	return l.balance - l.allocs.Total()
}

// Complete reports whether the full balance has been committed.
func (l *Ledger) Complete() bool {
	return l.allocs.Total() == l.balance
}

// DenominationValid reports whether every amount is a 100-multiple.
func (l *Ledger) DenominationValid() bool {
	for _, opt := range models.OptionOrder {
		if l.allocs.Get(opt)%noteValue != 0 {
			return false
		}
	}
	return true
}

// Valid reports whether the allocation may be submitted.
func (l *Ledger) Valid() bool {
	return l.Complete() && l.DenominationValid()
}
