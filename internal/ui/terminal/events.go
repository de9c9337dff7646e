package terminal

import "timed-quiz-service/internal/domain"

// EventKind identifies the type of quiz UI event.
type EventKind int

const (
	// EventQuestion displays a question.
	EventQuestion EventKind = iota
	// EventTick updates the countdown.
	EventTick
	// EventScore updates the running score.
	EventScore
	// EventValidation reports a rejected command.
	EventValidation
	// EventTimeUp reports an expired countdown.
	EventTimeUp
	// EventFinished delivers the final snapshot.
	EventFinished
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	Index      int
	Question   domain.Question
	Remaining  int
	Selected   domain.OptionKey
	Score      int
	Validation domain.ValidationKind
	Snapshot   domain.Snapshot
}
