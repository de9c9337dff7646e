package domain

import "math"

// OptionKey identifies one of the four answer choices of a question.
type OptionKey string

const (
	// OptionNone marks an unanswered slot.
	OptionNone OptionKey = ""
	OptionA    OptionKey = "A"
	OptionB    OptionKey = "B"
	OptionC    OptionKey = "C"
	OptionD    OptionKey = "D"
)

// OptionKeys lists the valid keys in display order.
var OptionKeys = [4]OptionKey{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether k is one of A..D.
func (k OptionKey) Valid() bool {
	return k.index() >= 0
}

func (k OptionKey) index() int {
	for i, key := range OptionKeys {
		if key == k {
			return i
		}
	}
	return -1
}

// Question is one multiple-choice question. Its identity is its position in the set.
type Question struct {
	Text    string
	Options [4]string
	Correct OptionKey
}

// OptionText resolves a key against the question's four option strings.
func (q Question) OptionText(k OptionKey) (string, error) {
	i := k.index()
	if i < 0 {
		return "", &UnknownOptionKeyError{Key: string(k)}
	}
	return q.Options[i], nil
}

// Phase is the lifecycle state of a quiz session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ValidationKind names a recoverable input problem reported to the presenter.
type ValidationKind string

const (
	ValidationNoSelection ValidationKind = "no_selection"
	ValidationNoPrevious  ValidationKind = "no_previous"
)

// Snapshot is the immutable record of a finished session.
type Snapshot struct {
	Score      int
	Total      int
	Percentage int
	Answers    []OptionKey
	Questions  []Question
}

// NewSnapshot copies the session state into a snapshot and computes the percentage.
func NewSnapshot(score int, questions []Question, answers []OptionKey) Snapshot {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	as := make([]OptionKey, len(answers))
	copy(as, answers)
	return Snapshot{
		Score:      score,
		Total:      len(qs),
		Percentage: Percentage(score, len(qs)),
		Answers:    as,
		Questions:  qs,
	}
}

// Percentage returns round(100*score/total), rounding halves away from zero.
// A zero total yields 0; empty sets are rejected before a session starts.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
