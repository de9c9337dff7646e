package http

import (
	"log/slog"
	"sync"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/results"
)

// outbox is the single queue feeding a connection's writer goroutine.
type outbox struct {
	send chan message
	done chan struct{}
	once sync.Once
}

func newOutbox(size int) *outbox {
	return &outbox{send: make(chan message, size), done: make(chan struct{})}
}

// push blocks until the message is queued or the connection is shutting down.
func (o *outbox) push(msg message) bool {
	select {
	case o.send <- msg:
		return true
	case <-o.done:
		return false
	}
}

// tryPush queues the message only if there is room.
func (o *outbox) tryPush(msg message) bool {
	select {
	case o.send <- msg:
		return true
	default:
		return false
	}
}

func (o *outbox) close() {
	o.once.Do(func() { close(o.done) })
}

// wsPresenter turns controller events into outbound messages. Events raised
// before activate are held back so the joined message always comes first.
type wsPresenter struct {
	out *outbox
	log *slog.Logger

	mu      sync.Mutex
	live    bool
	pending []message
}

func newWSPresenter(out *outbox, logger *slog.Logger) *wsPresenter {
	return &wsPresenter{out: out, log: logger}
}

func (p *wsPresenter) activate(first message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.push(first)
	for _, msg := range p.pending {
		p.out.push(msg)
	}
	p.pending = nil
	p.live = true
}

func (p *wsPresenter) emit(msg message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live {
		p.pending = append(p.pending, msg)
		return
	}
	p.out.push(msg)
}

func (p *wsPresenter) OnDisplayQuestion(index int, q domain.Question, remaining int, selected domain.OptionKey) {
	p.emit(newQuestionMessage(index, q, remaining, selected))
}

// OnTick drops the tick when the client is not keeping up; the next one carries the same information.
func (p *wsPresenter) OnTick(index, remaining int) {
	msg := message{Type: "tick", Payload: tickPayload{Index: index, Remaining: remaining}}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live {
		p.pending = append(p.pending, msg)
		return
	}
	p.out.tryPush(msg)
}

func (p *wsPresenter) OnScoreChanged(score int) {
	p.emit(message{Type: "score", Payload: scorePayload{Score: score}})
}

func (p *wsPresenter) OnValidationError(kind domain.ValidationKind) {
	p.emit(message{Type: "validation", Payload: validationPayload{Kind: kind, Message: validationMessages[kind]}})
}

func (p *wsPresenter) OnTimeUp(index int) {
	p.emit(message{Type: "timeUp", Payload: timeUpPayload{Index: index}})
}

func (p *wsPresenter) OnFinished(snapshot domain.Snapshot) {
	p.emit(message{Type: "finished", Payload: finishedPayload{
		Score:      snapshot.Score,
		Total:      snapshot.Total,
		Percentage: snapshot.Percentage,
	}})
	report, err := results.Render(snapshot)
	if err != nil {
		p.log.Error("render results", "error", err)
		p.emit(newErrorMessage(err))
		return
	}
	p.emit(newResultsMessage(report))
}
