package http

import (
	"log/slog"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestPresenterDropsTicksWhenOutboxIsFull(t *testing.T) {
	out := newOutbox(1)
	p := newWSPresenter(out, slog.Default())
	p.activate(message{Type: "joined"})

	// the outbox is full with joined; ticks must not block the caller
	p.OnTick(0, 14)
	p.OnTick(0, 13)

	if msg := <-out.send; msg.Type != "joined" {
		t.Fatalf("expected joined, got %s", msg.Type)
	}
	p.OnTick(0, 12)
	msg := <-out.send
	if tick, ok := msg.Payload.(tickPayload); !ok || tick.Remaining != 12 {
		t.Fatalf("expected latest tick, got %+v", msg)
	}
}

func TestPresenterHoldsEventsUntilJoined(t *testing.T) {
	out := newOutbox(8)
	p := newWSPresenter(out, slog.Default())

	p.OnDisplayQuestion(0, domain.Question{Text: "q", Correct: domain.OptionA}, 15, domain.OptionNone)
	p.OnTick(0, 14)
	if len(out.send) != 0 {
		t.Fatalf("expected events held before activation")
	}

	p.activate(message{Type: "joined"})
	for _, want := range []string{"joined", "question", "tick"} {
		if msg := <-out.send; msg.Type != want {
			t.Fatalf("expected %s, got %s", want, msg.Type)
		}
	}
}
