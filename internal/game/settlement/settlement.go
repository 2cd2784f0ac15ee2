// Package settlement computes round outcomes: the amount placed on the
// correct option is kept, everything else is forfeited.
package settlement

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

// ErrNoQuestion means settlement was invoked without a resolved
// question. That is a caller bug; the round must fail closed.
var ErrNoQuestion = errors.New("settlement: no question resolved for round")

// Engine settles rounds against the owning team only. It never reads
// or writes another team's state.
type Engine struct {
	sink cues.Sink
}

// NewEngine creates a settlement engine publishing outcome cues to sink.
func NewEngine(sink cues.Sink) *Engine {
	if sink == nil {
		sink = cues.NopSink{}
	}
	return &Engine{sink: sink}
}

// Settle computes the round record for the frozen allocations, sets the
// team's balance to the kept amount, and appends the record to the
// team's history. It is deterministic and settles exactly once.
func (e *Engine) Settle(team *models.Team, question *models.Question, allocs models.Allocations) (models.RoundRecord, error) {
	if question == nil {
		return models.RoundRecord{}, ErrNoQuestion
	}

	record := models.RoundRecord{
		RoundNumber:    question.RoundNumber,
		QuestionNumber: question.QuestionNumber,
		StartBalance:   team.Balance,
		Allocations:    allocs,
		CorrectAnswer:  question.CorrectAnswer,
		EndBalance:     allocs.Get(question.CorrectAnswer),
	}

	team.Balance = record.EndBalance
	team.History = append(team.History, record)

	outcome := cues.OutcomeProfit
	if record.EndBalance < record.StartBalance {
		outcome = cues.OutcomeLoss
	}
	e.sink.SettlementOutcome(team.Name, outcome)

	log.Info().
		Str("team", team.Name).
		Int("round", record.RoundNumber).
		Int("question", record.QuestionNumber).
		Int("start_balance", record.StartBalance).
		Int("end_balance", record.EndBalance).
		Str("correct", string(record.CorrectAnswer)).
		Msg("round settled")

	return record, nil
}
