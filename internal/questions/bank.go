// Package questions holds the game's question bank: a dense grid of
// rounds and questions numbered from 1. Lookups always read current
// state so between-round edits are picked up; callers must not cache a
// question across an edit window.
package questions

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

// ErrNotFound means no question exists at the given coordinates.
var ErrNotFound = errors.New("questions: question not found")

type key struct {
	round    int
	question int
}

// Bank is an in-memory question store safe for concurrent reads and
// between-round writes.
type Bank struct {
	mu       sync.RWMutex
	byKey    map[key]models.Question
	rounds   int
	perRound map[int]int
}

// NewBank validates and indexes the given questions. Numbering must be
// dense and contiguous from 1 in both dimensions, and every question
// needs all four options plus exactly one valid correct key.
func NewBank(qs []models.Question) (*Bank, error) {
	if len(qs) == 0 {
		return nil, errors.New("questions: empty bank")
	}

	byKey := make(map[key]models.Question, len(qs))
	perRound := make(map[int]int)
	rounds := 0

	for _, q := range qs {
		if q.RoundNumber < 1 || q.QuestionNumber < 1 {
			return nil, fmt.Errorf("questions: bad numbering for %q: round %d question %d", q.ID, q.RoundNumber, q.QuestionNumber)
		}
		if err := validateContent(q); err != nil {
			return nil, err
		}
		k := key{q.RoundNumber, q.QuestionNumber}
		if _, dup := byKey[k]; dup {
			return nil, fmt.Errorf("questions: duplicate entry for round %d question %d", k.round, k.question)
		}
		byKey[k] = q.Clone()
		if q.QuestionNumber > perRound[q.RoundNumber] {
			perRound[q.RoundNumber] = q.QuestionNumber
		}
		if q.RoundNumber > rounds {
			rounds = q.RoundNumber
		}
	}

	// Density check: every (round, question) slot below the maxima
	// must be filled.
	for r := 1; r <= rounds; r++ {
		if perRound[r] == 0 {
			return nil, fmt.Errorf("questions: round %d has no questions", r)
		}
		for q := 1; q <= perRound[r]; q++ {
			if _, ok := byKey[key{r, q}]; !ok {
				return nil, fmt.Errorf("questions: gap at round %d question %d", r, q)
			}
		}
	}

	return &Bank{byKey: byKey, rounds: rounds, perRound: perRound}, nil
}

func validateContent(q models.Question) error {
	for _, opt := range models.OptionOrder {
		if q.Options[opt] == "" {
			return fmt.Errorf("questions: %q is missing option %s", q.ID, opt)
		}
	}
	if !q.CorrectAnswer.Valid() {
		return fmt.Errorf("questions: %q has invalid correct answer %q", q.ID, q.CorrectAnswer)
	}
	return nil
}

// Get returns a copy of the question at (round, question).
func (b *Bank) Get(round, question int) (models.Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.byKey[key{round, question}]
	if !ok {
		return models.Question{}, fmt.Errorf("%w: round %d question %d", ErrNotFound, round, question)
	}
	return q.Clone(), nil
}

// Rounds returns the number of rounds in the bank.
func (b *Bank) Rounds() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rounds
}

// QuestionsPerRound returns how many questions the given round has.
func (b *Bank) QuestionsPerRound(round int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.perRound[round]
}

// All returns every question ordered by round then question number.
func (b *Bank) All() []models.Question {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Question, 0, len(b.byKey))
	for _, q := range b.byKey {
		out = append(out, q.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].QuestionNumber < out[j].QuestionNumber
	})
	return out
}

// Update is a between-round edit of one question. Nil fields are left
// unchanged. The game service refuses edits while a round is in
// flight; the bank only validates content.
type Update struct {
	Text          *string
	Options       map[models.Option]string
	CorrectAnswer *models.Option
}

// Apply edits the question at (round, question).
func (b *Bank) Apply(round, question int, upd Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{round, question}
	q, ok := b.byKey[k]
	if !ok {
		return fmt.Errorf("%w: round %d question %d", ErrNotFound, round, question)
	}

	edited := q.Clone()
	if upd.Text != nil {
		edited.Text = *upd.Text
	}
	for opt, text := range upd.Options {
		if !opt.Valid() {
			return fmt.Errorf("questions: invalid option key %q", opt)
		}
		edited.Options[opt] = text
	}
	if upd.CorrectAnswer != nil {
		edited.CorrectAnswer = *upd.CorrectAnswer
	}

	if err := validateContent(edited); err != nil {
		return err
	}
	b.byKey[k] = edited
	return nil
}
