package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

type outcomeRecorder struct {
	cues.NopSink
	outcomes []cues.Outcome
}

func (r *outcomeRecorder) SettlementOutcome(_ string, outcome cues.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

func question(correct models.Option) *models.Question {
	return &models.Question{
		ID:             "r1q1",
		RoundNumber:    1,
		QuestionNumber: 1,
		Text:           "Which option?",
		Options: map[models.Option]string{
			models.OptionA: "a", models.OptionB: "b",
			models.OptionC: "c", models.OptionD: "d",
		},
		CorrectAnswer: correct,
	}
}

func TestSettleKeepsCorrectOptionOnly(t *testing.T) {
	sink := &outcomeRecorder{}
	engine := NewEngine(sink)
	team := models.NewTeam("Octoroks", "", 1000)

	record, err := engine.Settle(team, question(models.OptionB), models.Allocations{A: 300, B: 400, C: 200, D: 100})
	require.NoError(t, err)

	assert.Equal(t, 1000, record.StartBalance)
	assert.Equal(t, 400, record.EndBalance)
	assert.Equal(t, models.OptionB, record.CorrectAnswer)
	assert.Equal(t, 400, team.Balance)
	require.Len(t, team.History, 1)
	assert.Equal(t, record, team.History[0])
	assert.Equal(t, []cues.Outcome{cues.OutcomeLoss}, sink.outcomes)
}

func TestSettleAllInWin(t *testing.T) {
	sink := &outcomeRecorder{}
	engine := NewEngine(sink)
	team := models.NewTeam("Octoroks", "", 1000)

	record, err := engine.Settle(team, question(models.OptionC), models.Allocations{C: 1000})
	require.NoError(t, err)

	assert.Equal(t, 1000, record.EndBalance)
	assert.Equal(t, 1000, team.Balance)
	assert.Equal(t, []cues.Outcome{cues.OutcomeProfit}, sink.outcomes)
}

func TestSettleNothingOnCorrectBustsTeam(t *testing.T) {
	engine := NewEngine(nil)
	team := models.NewTeam("Octoroks", "", 1000)

	record, err := engine.Settle(team, question(models.OptionD), models.Allocations{A: 500, B: 500})
	require.NoError(t, err)

	assert.Equal(t, 0, record.EndBalance)
	assert.Equal(t, 0, team.Balance)
}

func TestSettlePartialAllocationForfeitsRemainder(t *testing.T) {
	// An unallocated remainder is forfeited along with wrong options.
	engine := NewEngine(nil)
	team := models.NewTeam("Octoroks", "", 1000)

	_, err := engine.Settle(team, question(models.OptionA), models.Allocations{A: 600})
	require.NoError(t, err)
	assert.Equal(t, 600, team.Balance)
}

func TestSettleNilQuestionFailsClosed(t *testing.T) {
	engine := NewEngine(nil)
	team := models.NewTeam("Octoroks", "", 1000)

	_, err := engine.Settle(team, nil, models.Allocations{A: 1000})
	require.ErrorIs(t, err, ErrNoQuestion)
	assert.Equal(t, 1000, team.Balance)
	assert.Empty(t, team.History)
}

func TestHistoryGrowsAcrossRounds(t *testing.T) {
	engine := NewEngine(nil)
	team := models.NewTeam("Octoroks", "", 1000)

	_, err := engine.Settle(team, question(models.OptionA), models.Allocations{A: 700, B: 300})
	require.NoError(t, err)
	_, err = engine.Settle(team, question(models.OptionB), models.Allocations{B: 700})
	require.NoError(t, err)

	require.Len(t, team.History, 2)
	assert.Equal(t, 700, team.History[0].EndBalance)
	assert.Equal(t, team.History[0].EndBalance, team.History[1].StartBalance)
	assert.Equal(t, 700, team.Balance)
}
