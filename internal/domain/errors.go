package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a player has no live quiz session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionNotStarted is returned when an operation reaches a session that is still loading.
	ErrSessionNotStarted = errors.New("quiz session not started")
	// ErrSessionStarted is returned when an active session is started again.
	ErrSessionStarted = errors.New("quiz session already started")
	// ErrSessionFinished is returned for any operation after the session reached its terminal state.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrQuestionSetNotFound indicates the requested question set does not exist.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrEmptyQuestionSet indicates a question set without questions.
	ErrEmptyQuestionSet = errors.New("question set is empty")
	// ErrNoSelection is returned when an answer is submitted without a selected option.
	ErrNoSelection = errors.New("no option selected")
	// ErrNoPreviousQuestion is returned when moving back from the first question.
	ErrNoPreviousQuestion = errors.New("already at the first question")
	// ErrRetreatDisabled is returned when backward navigation is turned off.
	ErrRetreatDisabled = errors.New("backward navigation is disabled")
	// ErrSnapshotNotFound indicates no finished session is stored for a player.
	ErrSnapshotNotFound = errors.New("result snapshot not found")
	// ErrUnknownOptionKey matches every UnknownOptionKeyError.
	ErrUnknownOptionKey = errors.New("unknown option key")
)

// LoadError reports that a question source was unreachable or malformed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load questions from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UnknownOptionKeyError is raised when a stored key matches none of the four options.
type UnknownOptionKeyError struct {
	Key string
}

func (e *UnknownOptionKeyError) Error() string {
	return fmt.Sprintf("unknown option key %q", e.Key)
}

func (e *UnknownOptionKeyError) Is(target error) bool {
	return target == ErrUnknownOptionKey
}
