// Package lifecycle drives a round through its phases: allocation,
// lock, reveal, settlement, advance. Two variants share the same
// primitives but differ in who triggers transitions and when
// settlement happens: Solo settles the moment the timer locks the
// round, Hosted holds settlement until the facilitator reveals.
package lifecycle

import (
	"context"
	"errors"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

// RoundState is the explicit per-round phase. A single enum replaces
// the submitted/locked/revealed flag soup so unreachable combinations
// cannot be expressed.
type RoundState string

const (
	// StateAwaitingStart: round selected, ledgers zeroed, timer idle.
	StateAwaitingStart RoundState = "AWAITING_START"
	// StateAllocating: timer running, ledger mutation permitted.
	StateAllocating RoundState = "ALLOCATING"
	// StateSubmitted: soft lock. The ledger is frozen at the submitted
	// snapshot but the clock keeps running until expiry.
	StateSubmitted RoundState = "SUBMITTED"
	// StateLocked: ledgers frozen, answer still hidden.
	StateLocked RoundState = "LOCKED"
	// StateRevealed: balances and history updated, record visible.
	StateRevealed RoundState = "REVEALED"
	// StateTerminal: game over, all mutation disabled permanently.
	StateTerminal RoundState = "TERMINAL"
)

var (
	// ErrInvalidTransition is returned when an action does not apply
	// to the current state.
	ErrInvalidTransition = errors.New("lifecycle: action not valid in current state")
	// ErrInvalidAllocation is returned on submit when the ledger is
	// incomplete or breaks denomination. The UI keeps submit disabled
	// in this case; this is a guard, not a user-facing failure.
	ErrInvalidAllocation = errors.New("lifecycle: allocations incomplete or invalid denomination")
)

// QuestionSource is what lifecycles need from the question bank.
// Lookups go back to the source every time so between-round edits are
// never served from a stale copy.
type QuestionSource interface {
	Get(round, question int) (models.Question, error)
	Rounds() int
	QuestionsPerRound(round int) int
}

// Recorder is what the solo lifecycle needs from the leaderboard.
type Recorder interface {
	Record(ctx context.Context, team *models.Team) models.LeaderboardEntry
}

// Lifecycle is the shared surface of both game variants.
type Lifecycle interface {
	State() RoundState
	RoundNumber() int
	QuestionNumber() int
	StartTimer() error
	StopTimer() error
	Next(ctx context.Context) error
	// InFlight reports whether a round is between start and reveal,
	// the window in which question edits are refused.
	InFlight() bool
}
