package models

import "github.com/google/uuid"

// Team is one playing team. Balance is mutated only by settlement;
// History is append-only in play order.
type Team struct {
	ID      uuid.UUID     `json:"id"`
	Name    string        `json:"name"`
	Members string        `json:"members"`
	Balance int           `json:"balance"`
	History []RoundRecord `json:"history"`
}

// NewTeam creates a team with the configured starting balance.
func NewTeam(name, members string, startingBalance int) *Team {
	return &Team{
		ID:      uuid.New(),
		Name:    name,
		Members: members,
		Balance: startingBalance,
	}
}

// RoundsPlayed is the number of settled rounds.
func (t *Team) RoundsPlayed() int {
	return len(t.History)
}

// RoundRecord is the immutable snapshot of one settled round.
type RoundRecord struct {
	RoundNumber    int         `json:"round_number"`
	QuestionNumber int         `json:"question_number"`
	StartBalance   int         `json:"start_balance"`
	Allocations    Allocations `json:"allocations"`
	CorrectAnswer  Option      `json:"correct_answer"`
	EndBalance     int         `json:"end_balance"`
}
