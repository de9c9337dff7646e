package http

import (
	"encoding/json"
	"errors"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/results"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type optionPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	PlayerID  string `json:"playerId"`
	Set       string `json:"set"`
	Total     int    `json:"total"`
	Countdown int    `json:"countdown"`
}

type questionPayload struct {
	Index     int               `json:"index"`
	Number    int               `json:"number"`
	Text      string            `json:"text"`
	Options   map[string]string `json:"options"`
	Remaining int               `json:"remaining"`
	Selected  string            `json:"selected,omitempty"`
}

type tickPayload struct {
	Index     int `json:"index"`
	Remaining int `json:"remaining"`
}

type scorePayload struct {
	Score int `json:"score"`
}

type validationPayload struct {
	Kind    domain.ValidationKind `json:"kind"`
	Message string                `json:"message"`
}

type timeUpPayload struct {
	Index int `json:"index"`
}

type finishedPayload struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type message = outboundMessage[any]

func newQuestionMessage(index int, q domain.Question, remaining int, selected domain.OptionKey) message {
	options := make(map[string]string, len(domain.OptionKeys))
	for i, k := range domain.OptionKeys {
		options[k.Wire()] = q.Options[i]
	}
	return message{Type: "question", Payload: questionPayload{
		Index:     index,
		Number:    index + 1,
		Text:      q.Text,
		Options:   options,
		Remaining: remaining,
		Selected:  selected.Wire(),
	}}
}

func newResultsMessage(report results.Report) message {
	return message{Type: "results", Payload: report}
}

var validationMessages = map[domain.ValidationKind]string{
	domain.ValidationNoSelection: "Please select an answer before continuing.",
	domain.ValidationNoPrevious:  "You are already at the first question.",
}

func newErrorMessage(err error) message {
	return message{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuestionSetNotFound), errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrSessionFinished):
		return "finished"
	case errors.Is(err, domain.ErrSessionNotStarted):
		return "not_started"
	case errors.Is(err, domain.ErrUnknownOptionKey):
		return "invalid_option"
	case errors.Is(err, domain.ErrRetreatDisabled):
		return "retreat_disabled"
	case errors.Is(err, domain.ErrEmptyQuestionSet):
		return "empty_set"
	case errors.As(err, new(*domain.LoadError)):
		return "load_failed"
	default:
		return "internal"
	}
}
