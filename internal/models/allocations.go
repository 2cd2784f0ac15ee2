package models

// Allocations is a team's rupee split across the four answer options.
// Amounts are whole rupees in 100-note denominations.
type Allocations struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
}

// Get returns the amount placed on the given option.
func (a Allocations) Get(opt Option) int {
	switch opt {
	case OptionA:
		return a.A
	case OptionB:
		return a.B
	case OptionC:
		return a.C
	case OptionD:
		return a.D
	}
	return 0
}

// Set places amount on the given option. Unknown options are ignored.
func (a *Allocations) Set(opt Option, amount int) {
	switch opt {
	case OptionA:
		a.A = amount
	case OptionB:
		a.B = amount
	case OptionC:
		a.C = amount
	case OptionD:
		a.D = amount
	}
}

// Total is the sum committed across all four options.
func (a Allocations) Total() int {
	return a.A + a.B + a.C + a.D
}
