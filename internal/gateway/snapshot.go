package gateway

import (
	"sort"

	"github.com/google/uuid"

	"github.com/quizmasters/rupee-rumble/internal/game/lifecycle"
	"github.com/quizmasters/rupee-rumble/internal/models"
)

// StateView is the full game snapshot returned by the state endpoint
// and after every mutating call. Clients re-render from it instead of
// tracking deltas.
type StateView struct {
	Mode     string               `json:"mode"` // "idle", "solo", "hosted"
	State    lifecycle.RoundState `json:"state,omitempty"`
	Round    int                  `json:"round,omitempty"`
	Question int                  `json:"question,omitempty"`

	CurrentQuestion *QuestionView `json:"current_question,omitempty"`

	TimerDurationSec  int  `json:"timer_duration_sec,omitempty"`
	TimerRemainingSec int  `json:"timer_remaining_sec,omitempty"`
	TimerActive       bool `json:"timer_active,omitempty"`

	Teams   []TeamView                       `json:"teams,omitempty"`
	Records map[uuid.UUID]models.RoundRecord `json:"records,omitempty"`
}

// QuestionView is the question as clients see it. The correct answer
// is withheld until the round is revealed.
type QuestionView struct {
	Round         int                      `json:"round"`
	Question      int                      `json:"question"`
	Text          string                   `json:"text"`
	Options       map[models.Option]string `json:"options"`
	CorrectAnswer models.Option            `json:"correct_answer,omitempty"`
}

// TeamView is one team's public state.
type TeamView struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Members     string               `json:"members,omitempty"`
	Balance     int                  `json:"balance"`
	Allocations models.Allocations   `json:"allocations"`
	Valid       bool                 `json:"allocations_valid"`
	History     []models.RoundRecord `json:"history,omitempty"`
}

// Standing is one row of the end-of-game ranking.
type Standing struct {
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

func (s *Service) snapshotLocked() StateView {
	switch {
	case s.hosted != nil:
		return s.hostedSnapshotLocked()
	case s.solo != nil:
		return s.soloSnapshotLocked()
	default:
		return StateView{Mode: "idle"}
	}
}

func (s *Service) hostedSnapshotLocked() StateView {
	h := s.hosted
	state := h.State()
	view := StateView{
		Mode:              "hosted",
		State:             state,
		Round:             h.RoundNumber(),
		Question:          h.QuestionNumber(),
		TimerDurationSec:  h.Timer().Duration(),
		TimerRemainingSec: h.Timer().Remaining(),
		TimerActive:       h.Timer().Active(),
		CurrentQuestion:   s.questionViewLocked(h.RoundNumber(), h.QuestionNumber(), state),
	}
	for _, t := range h.Teams() {
		allocs, _ := h.Allocations(t.ID)
		view.Teams = append(view.Teams, TeamView{
			ID:          t.ID,
			Name:        t.Name,
			Members:     t.Members,
			Balance:     t.Balance,
			Allocations: allocs,
			Valid:       h.AllocationsValid(t.ID),
			History:     t.History,
		})
	}
	if state == lifecycle.StateRevealed || state == lifecycle.StateTerminal {
		if records := h.Records(); len(records) > 0 {
			view.Records = records
		}
	}
	return view
}

func (s *Service) soloSnapshotLocked() StateView {
	sl := s.solo
	state := sl.State()
	team := sl.Team()
	view := StateView{
		Mode:              "solo",
		State:             state,
		Round:             sl.RoundNumber(),
		Question:          sl.QuestionNumber(),
		TimerDurationSec:  sl.Timer().Duration(),
		TimerRemainingSec: sl.Timer().Remaining(),
		TimerActive:       sl.Timer().Active(),
		CurrentQuestion:   s.questionViewLocked(sl.RoundNumber(), sl.QuestionNumber(), state),
		Teams: []TeamView{{
			ID:          team.ID,
			Name:        team.Name,
			Members:     team.Members,
			Balance:     team.Balance,
			Allocations: sl.Allocations(),
			Valid:       sl.AllocationsValid(),
			History:     team.History,
		}},
	}
	if state == lifecycle.StateRevealed || state == lifecycle.StateTerminal {
		if record, ok := sl.LastRecord(); ok {
			view.Records = map[uuid.UUID]models.RoundRecord{team.ID: record}
		}
	}
	return view
}

func (s *Service) questionViewLocked(round, question int, state lifecycle.RoundState) *QuestionView {
	q, err := s.bank.Get(round, question)
	if err != nil {
		return nil
	}
	view := &QuestionView{
		Round:    q.RoundNumber,
		Question: q.QuestionNumber,
		Text:     q.Text,
		Options:  q.Options,
	}
	if state == lifecycle.StateRevealed || state == lifecycle.StateTerminal {
		view.CorrectAnswer = q.CorrectAnswer
	}
	return view
}

func (s *Service) standingsLocked() []Standing {
	var teams []*models.Team
	switch {
	case s.hosted != nil:
		teams = s.hosted.Teams()
	case s.solo != nil:
		teams = []*models.Team{s.solo.Team()}
	}

	standings := make([]Standing, 0, len(teams))
	for _, t := range teams {
		standings = append(standings, Standing{Name: t.Name, Balance: t.Balance})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Balance > standings[j].Balance
	})
	return standings
}
