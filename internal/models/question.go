package models

// Option identifies one of the four answer options.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// OptionOrder is the canonical A-D ordering. Deterministic operations
// (even splits, remainder distribution) iterate in this order.
var OptionOrder = [4]Option{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether o is one of the four recognized option keys.
func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Question is a single trivia question. Immutable once its round is in
// flight; edits happen only between rounds via the question bank.
type Question struct {
	ID             string            `json:"id"`
	RoundNumber    int               `json:"round_number"`
	QuestionNumber int               `json:"question_number"`
	Text           string            `json:"text"`
	Options        map[Option]string `json:"options"`
	CorrectAnswer  Option            `json:"correct_answer"`
}

// Clone returns a deep copy so callers can hold a snapshot without
// sharing the options map with the bank.
func (q Question) Clone() Question {
	opts := make(map[Option]string, len(q.Options))
	for k, v := range q.Options {
		opts[k] = v
	}
	q.Options = opts
	return q
}
