package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/game/ledger"
	"github.com/quizmasters/rupee-rumble/internal/game/settlement"
	"github.com/quizmasters/rupee-rumble/internal/game/timer"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

// maxTeams is the hosted grid size.
const maxTeams = 6

// Hosted runs up to six teams simultaneously against the same
// question grid. The facilitator owns every global transition: start
// timer, stop timer, reveal, next. Lock and reveal are distinct
// moments here — ledgers freeze at lock with the answer still hidden,
// and every team settles at the reveal action. Each team's ledger is
// an independent resource; no team's update touches another's.
type Hosted struct {
	mu sync.Mutex

	teams     []*models.Team
	questions QuestionSource
	engine    *settlement.Engine
	sink      cues.Sink
	timer     *timer.Timer

	state    RoundState
	round    int
	question int
	ledgers  map[uuid.UUID]*ledger.Ledger
	records  map[uuid.UUID]models.RoundRecord
}

// NewHosted creates a hosted game positioned at round 1, question 1.
func NewHosted(teams []*models.Team, questions QuestionSource, engine *settlement.Engine, sink cues.Sink, clock clockwork.Clock, timerDurationSec int) (*Hosted, error) {
	if len(teams) == 0 || len(teams) > maxTeams {
		return nil, fmt.Errorf("lifecycle: hosted game needs 1-%d teams, got %d", maxTeams, len(teams))
	}
	if sink == nil {
		sink = cues.NopSink{}
	}

	h := &Hosted{
		teams:     teams,
		questions: questions,
		engine:    engine,
		sink:      sink,
		state:     StateAwaitingStart,
		round:     1,
		question:  1,
	}
	h.timer = timer.New(clock, timerDurationSec, sink, h.handleExpiry)

	if _, err := questions.Get(h.round, h.question); err != nil {
		return nil, fmt.Errorf("lifecycle: opening question missing: %w", err)
	}
	h.resetLedgersLocked()
	return h, nil
}

func (h *Hosted) resetLedgersLocked() {
	h.ledgers = make(map[uuid.UUID]*ledger.Ledger, len(h.teams))
	for _, t := range h.teams {
		h.ledgers[t.ID] = ledger.New(t.Name, t.Balance, func() bool {
			return h.state != StateAllocating
		}, h.sink)
	}
}

// StartTimer opens betting for every team at once.
func (h *Hosted) StartTimer() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateAwaitingStart {
		return fmt.Errorf("%w: start timer in %s", ErrInvalidTransition, h.state)
	}
	h.state = StateAllocating
	h.timer.Start()
	return nil
}

// StopTimer freezes every ledger immediately, identical in effect to
// natural expiry. The answer stays hidden until Reveal.
func (h *Hosted) StopTimer() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateAllocating {
		return fmt.Errorf("%w: stop timer in %s", ErrInvalidTransition, h.state)
	}
	h.timer.Stop()
	h.state = StateLocked
	return nil
}

func (h *Hosted) handleExpiry() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateAllocating {
		log.Warn().Str("state", string(h.state)).Msg("timer expiry in unexpected state; ignoring")
		return
	}
	h.state = StateLocked
}

// Reveal settles every team against the frozen ledgers and exposes the
// correct answer. Teams settle independently; a failure before the
// loop settles nobody.
func (h *Hosted) Reveal(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLocked {
		return fmt.Errorf("%w: reveal in %s", ErrInvalidTransition, h.state)
	}

	q, err := h.questions.Get(h.round, h.question)
	if err != nil {
		// Fail closed; stay locked, settle nothing.
		return fmt.Errorf("lifecycle: %w", err)
	}

	h.records = make(map[uuid.UUID]models.RoundRecord, len(h.teams))
	for _, t := range h.teams {
		record, err := h.engine.Settle(t, &q, h.ledgers[t.ID].Allocations())
		if err != nil {
			return err
		}
		h.records[t.ID] = record
	}
	h.state = StateRevealed
	return nil
}

// Next advances to the following question, rolling over to the next
// round when the current one is exhausted. The game ends when the grid
// is played out.
func (h *Hosted) Next(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateRevealed {
		return fmt.Errorf("%w: next in %s", ErrInvalidTransition, h.state)
	}

	round, question := h.round, h.question+1
	if question > h.questions.QuestionsPerRound(round) {
		round, question = round+1, 1
	}
	if round > h.questions.Rounds() {
		h.state = StateTerminal
		h.timer.Stop()
		log.Info().Int("rounds", h.round).Msg("hosted game over")
		return nil
	}

	if _, err := h.questions.Get(round, question); err != nil {
		return fmt.Errorf("lifecycle: next question missing: %w", err)
	}
	h.round, h.question = round, question
	h.records = nil
	h.resetLedgersLocked()
	h.timer.Reset()
	h.state = StateAwaitingStart
	return nil
}

// Set routes one team's allocation through the lifecycle mutex so the
// lock check and the mutation are a single atomic step.
func (h *Hosted) Set(teamID uuid.UUID, opt models.Option, amount int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.ledgers[teamID]; ok {
		l.Set(opt, amount)
	}
}

func (h *Hosted) AllIn(teamID uuid.UUID, opt models.Option) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.ledgers[teamID]; ok {
		l.AllIn(opt)
	}
}

func (h *Hosted) ResetAllocations(teamID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.ledgers[teamID]; ok {
		l.Reset()
	}
}

func (h *Hosted) SplitEvenly(teamID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.ledgers[teamID]; ok {
		l.SplitEvenly()
	}
}

func (h *Hosted) SplitPair(teamID uuid.UUID, opt1, opt2 models.Option) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.ledgers[teamID]; ok {
		l.SplitPair(opt1, opt2)
	}
}

// State returns the current phase shared by all teams.
func (h *Hosted) State() RoundState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// RoundNumber returns the 1-based current round.
func (h *Hosted) RoundNumber() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.round
}

// QuestionNumber returns the 1-based question within the round.
func (h *Hosted) QuestionNumber() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.question
}

// InFlight reports whether a question is between start and reveal.
func (h *Hosted) InFlight() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case StateAllocating, StateLocked:
		return true
	}
	return false
}

// Teams returns the playing teams in setup order.
func (h *Hosted) Teams() []*models.Team {
	return h.teams
}

// Allocations returns one team's current split.
func (h *Hosted) Allocations(teamID uuid.UUID) (models.Allocations, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.ledgers[teamID]
	if !ok {
		return models.Allocations{}, false
	}
	return l.Allocations(), true
}

// AllocationsValid reports whether one team's split may be locked in.
func (h *Hosted) AllocationsValid(teamID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.ledgers[teamID]
	return ok && l.Valid()
}

// Records returns the per-team records of the last revealed question.
func (h *Hosted) Records() map[uuid.UUID]models.RoundRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[uuid.UUID]models.RoundRecord, len(h.records))
	for id, r := range h.records {
		out[id] = r
	}
	return out
}

// Timer exposes the countdown for state snapshots.
func (h *Hosted) Timer() *timer.Timer {
	return h.timer
}

var _ Lifecycle = (*Hosted)(nil)
