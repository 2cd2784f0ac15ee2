package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/game/ledger"
	"github.com/quizmasters/rupee-rumble/internal/game/settlement"
	"github.com/quizmasters/rupee-rumble/internal/game/timer"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

// Solo runs one team through sequential rounds, one question per
// round. Settlement happens at lock time: expiry (or a manual stop)
// locks, settles and reveals in one transition.
type Solo struct {
	mu sync.Mutex

	team      *models.Team
	questions QuestionSource
	engine    *settlement.Engine
	board     Recorder
	sink      cues.Sink
	timer     *timer.Timer

	state     RoundState
	round     int
	ledger    *ledger.Ledger
	submitted *models.Allocations
	lastRec   *models.RoundRecord
}

// NewSolo creates a solo game positioned at round 1. It fails closed
// if the opening question cannot be resolved.
func NewSolo(team *models.Team, questions QuestionSource, engine *settlement.Engine, board Recorder, sink cues.Sink, clock clockwork.Clock, timerDurationSec int) (*Solo, error) {
	if team == nil {
		return nil, fmt.Errorf("lifecycle: nil team")
	}
	if sink == nil {
		sink = cues.NopSink{}
	}

	s := &Solo{
		team:      team,
		questions: questions,
		engine:    engine,
		board:     board,
		sink:      sink,
		state:     StateAwaitingStart,
		round:     1,
	}
	s.timer = timer.New(clock, timerDurationSec, sink, s.handleExpiry)

	if _, err := questions.Get(s.round, s.question()); err != nil {
		return nil, fmt.Errorf("lifecycle: opening round has no question: %w", err)
	}
	s.ledger = s.newLedger()
	return s, nil
}

// question is the fixed question slot solo rounds play.
func (s *Solo) question() int { return 1 }

func (s *Solo) newLedger() *ledger.Ledger {
	// The predicate runs while the lifecycle mutex is held by the
	// mutating caller, so it reads state directly.
	return ledger.New(s.team.Name, s.team.Balance, func() bool {
		return s.state != StateAllocating
	}, s.sink)
}

// StartTimer opens the allocation phase and starts the countdown.
func (s *Solo) StartTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingStart {
		return fmt.Errorf("%w: start timer in %s", ErrInvalidTransition, s.state)
	}
	s.state = StateAllocating
	s.timer.Start()
	return nil
}

// StopTimer is the facilitator's early stop. It freezes the ledger and
// settles exactly as natural expiry would.
func (s *Solo) StopTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAllocating && s.state != StateSubmitted {
		return fmt.Errorf("%w: stop timer in %s", ErrInvalidTransition, s.state)
	}
	s.timer.Stop()
	return s.lockAndSettleLocked()
}

// handleExpiry runs on the timer goroutine when the countdown hits zero.
func (s *Solo) handleExpiry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAllocating && s.state != StateSubmitted {
		// A stale expiry against a superseded round; structurally
		// prevented by timer invalidation, ignored if it slips through.
		log.Warn().Str("state", string(s.state)).Msg("timer expiry in unexpected state; ignoring")
		return
	}
	if err := s.lockAndSettleLocked(); err != nil {
		log.Error().Err(err).Int("round", s.round).Msg("settlement on expiry failed")
	}
}

// lockAndSettleLocked moves Allocating/Submitted through Locked into
// Revealed. The Locked state is momentary in solo play. Caller holds mu.
func (s *Solo) lockAndSettleLocked() error {
	s.state = StateLocked

	allocs := s.ledger.Allocations()
	if s.submitted != nil {
		allocs = *s.submitted
	}

	q, err := s.questions.Get(s.round, s.question())
	if err != nil {
		// Fail closed: no settlement without a resolved question.
		return fmt.Errorf("lifecycle: %w", err)
	}

	record, err := s.engine.Settle(s.team, &q, allocs)
	if err != nil {
		return err
	}
	s.lastRec = &record
	s.state = StateRevealed
	return nil
}

// Submit freezes the current allocations while the clock keeps
// running. Later slider moves do not overwrite the submitted split.
func (s *Solo) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAllocating {
		return fmt.Errorf("%w: submit in %s", ErrInvalidTransition, s.state)
	}
	if !s.ledger.Valid() {
		return ErrInvalidAllocation
	}
	allocs := s.ledger.Allocations()
	s.submitted = &allocs
	s.state = StateSubmitted
	return nil
}

// Next evaluates termination after a reveal and either advances to the
// next round or ends the game and writes the leaderboard.
func (s *Solo) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRevealed {
		return fmt.Errorf("%w: next in %s", ErrInvalidTransition, s.state)
	}

	if s.team.Balance == 0 || s.round >= s.questions.Rounds() {
		s.state = StateTerminal
		s.timer.Stop()
		if s.board != nil {
			s.board.Record(ctx, s.team)
		}
		log.Info().
			Str("team", s.team.Name).
			Int("final_balance", s.team.Balance).
			Int("rounds_played", s.team.RoundsPlayed()).
			Msg("solo game over")
		return nil
	}

	next := s.round + 1
	if _, err := s.questions.Get(next, s.question()); err != nil {
		return fmt.Errorf("lifecycle: next round has no question: %w", err)
	}
	s.round = next
	s.submitted = nil
	s.lastRec = nil
	s.ledger = s.newLedger()
	s.timer.Reset()
	s.state = StateAwaitingStart
	return nil
}

// Set, AllIn, ResetAllocations, SplitEvenly and SplitPair route ledger
// mutation through the lifecycle mutex so the lock check and the
// mutation are a single atomic step.

func (s *Solo) Set(opt models.Option, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Set(opt, amount)
}

func (s *Solo) AllIn(opt models.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.AllIn(opt)
}

func (s *Solo) ResetAllocations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Reset()
}

func (s *Solo) SplitEvenly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SplitEvenly()
}

func (s *Solo) SplitPair(opt1, opt2 models.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SplitPair(opt1, opt2)
}

// State returns the current round phase.
func (s *Solo) State() RoundState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RoundNumber returns the 1-based current round.
func (s *Solo) RoundNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// QuestionNumber returns the fixed question slot solo rounds play.
func (s *Solo) QuestionNumber() int { return 1 }

// InFlight reports whether the round is between start and reveal.
func (s *Solo) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateAllocating, StateSubmitted, StateLocked:
		return true
	}
	return false
}

// Team returns the playing team.
func (s *Solo) Team() *models.Team {
	return s.team
}

// Allocations returns the effective split: the submitted snapshot if
// one exists, otherwise the live ledger.
func (s *Solo) Allocations() models.Allocations {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted != nil {
		return *s.submitted
	}
	return s.ledger.Allocations()
}

// AllocationsValid reports whether the current split may be submitted.
func (s *Solo) AllocationsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Valid()
}

// LastRecord returns the record of the most recently revealed round.
func (s *Solo) LastRecord() (models.RoundRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRec == nil {
		return models.RoundRecord{}, false
	}
	return *s.lastRec, true
}

// Timer exposes the countdown for state snapshots.
func (s *Solo) Timer() *timer.Timer {
	return s.timer
}

var _ Lifecycle = (*Solo)(nil)
