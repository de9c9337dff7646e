package terminal

import (
	"sync"

	"timed-quiz-service/internal/domain"
)

// Observer implements app.Presenter by forwarding controller events to the UI.
type Observer struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewObserver() *Observer {
	return &Observer{
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
}

// Events is the stream consumed by the model.
func (o *Observer) Events() <-chan Event {
	return o.events
}

// Close releases any sender blocked on a UI that has stopped reading.
func (o *Observer) Close() {
	o.closeOnce.Do(func() { close(o.done) })
}

func (o *Observer) OnDisplayQuestion(index int, q domain.Question, remaining int, selected domain.OptionKey) {
	o.send(Event{Kind: EventQuestion, Index: index, Question: q, Remaining: remaining, Selected: selected})
}

// OnTick drops the tick when the UI is behind; the next one carries the same information.
func (o *Observer) OnTick(index, remaining int) {
	select {
	case o.events <- Event{Kind: EventTick, Index: index, Remaining: remaining}:
	default:
	}
}

func (o *Observer) OnScoreChanged(score int) {
	o.send(Event{Kind: EventScore, Score: score})
}

func (o *Observer) OnValidationError(kind domain.ValidationKind) {
	o.send(Event{Kind: EventValidation, Validation: kind})
}

func (o *Observer) OnTimeUp(index int) {
	o.send(Event{Kind: EventTimeUp, Index: index})
}

func (o *Observer) OnFinished(snapshot domain.Snapshot) {
	o.send(Event{Kind: EventFinished, Snapshot: snapshot})
}

func (o *Observer) send(event Event) {
	select {
	case o.events <- event:
	case <-o.done:
	}
}
