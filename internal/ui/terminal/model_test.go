package terminal

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"timed-quiz-service/internal/domain"
)

type recordedActions struct {
	calls     []string
	selected  []domain.OptionKey
	submits   int
	previous  int
	restarts  int
	submitErr error
}

func (a *recordedActions) Select(k domain.OptionKey) error {
	a.calls = append(a.calls, "select:"+string(k))
	a.selected = append(a.selected, k)
	return nil
}

func (a *recordedActions) Submit() error {
	a.calls = append(a.calls, "submit")
	a.submits++
	return a.submitErr
}

func (a *recordedActions) Previous() error {
	a.calls = append(a.calls, "previous")
	a.previous++
	return nil
}

func (a *recordedActions) Restart() error {
	a.calls = append(a.calls, "restart")
	a.restarts++
	return nil
}

func TestModelRendersQuestionAndSelects(t *testing.T) {
	actions := &recordedActions{}
	m := NewModel(nil, actions, Options{Total: 2, Countdown: 15, NoColor: true})

	m = update(t, m, EventMsg{Event: Event{Kind: EventQuestion, Index: 0, Question: sampleQuestion(), Remaining: 15}})
	view := m.View()
	if !strings.Contains(view, "Question 1 of 2") || !strings.Contains(view, "Capital of France?") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected select command")
	}
	m = update(t, m, cmd())
	if len(actions.selected) != 1 || actions.selected[0] != domain.OptionB {
		t.Fatalf("expected B selected, got %v", actions.selected)
	}
	if !strings.Contains(m.View(), "(•) 2. Paris") {
		t.Fatalf("expected selection marker:\n%s", m.View())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	cmd()
	if actions.submits != 1 {
		t.Fatalf("expected one submit, got %d", actions.submits)
	}
}

func TestModelValidationAndTicks(t *testing.T) {
	m := NewModel(nil, &recordedActions{submitErr: domain.ErrNoSelection}, Options{Total: 1, Countdown: 15, NoColor: true})
	m = update(t, m, EventMsg{Event: Event{Kind: EventQuestion, Question: sampleQuestion(), Remaining: 15}})
	m = update(t, m, EventMsg{Event: Event{Kind: EventTick, Remaining: 4}})
	if m.remaining != 4 {
		t.Fatalf("expected remaining 4, got %d", m.remaining)
	}
	m = update(t, m, EventMsg{Event: Event{Kind: EventValidation, Validation: domain.ValidationNoSelection}})
	m = update(t, m, actionResultMsg{err: domain.ErrNoSelection})
	if m.err != nil || !strings.Contains(m.View(), "Please select an answer") {
		t.Fatalf("expected validation flash only, got err=%v view:\n%s", m.err, m.View())
	}
}

func TestModelShowsReportAndRestarts(t *testing.T) {
	actions := &recordedActions{}
	m := NewModel(nil, actions, Options{Total: 1, NoColor: true})
	snap := domain.NewSnapshot(1, []domain.Question{sampleQuestion()}, []domain.OptionKey{domain.OptionB})

	m = update(t, m, EventMsg{Event: Event{Kind: EventFinished, Snapshot: snap}})
	view := m.View()
	if !strings.Contains(view, "Outstanding") || !strings.Contains(view, "Score: 1 / 1 (100%)") {
		t.Fatalf("unexpected report view:\n%s", view)
	}

	// option keys are ignored on the results screen
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}}); cmd != nil {
		t.Fatalf("expected no command on results screen")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected restart command")
	}
	cmd()
	if actions.restarts != 1 || m.report != nil {
		t.Fatalf("expected restart, got restarts=%d report=%v", actions.restarts, m.report)
	}
}

func TestModelRunsActionsInKeyOrder(t *testing.T) {
	actions := &recordedActions{}
	m := NewModel(nil, actions, Options{Total: 2, NoColor: true})
	m = update(t, m, EventMsg{Event: Event{Kind: EventQuestion, Question: sampleQuestion(), Remaining: 15}})

	next, selectCmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = next.(Model)
	next, submitCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if selectCmd == nil || submitCmd != nil {
		t.Fatalf("expected submit queued behind the select")
	}

	next, submitCmd = m.Update(selectCmd())
	m = next.(Model)
	if submitCmd == nil {
		t.Fatalf("expected queued submit released after select")
	}
	next, idle := m.Update(submitCmd())
	m = next.(Model)
	if idle != nil || m.busy {
		t.Fatalf("expected no further actions")
	}

	if got := strings.Join(actions.calls, ","); got != "select:B,submit" {
		t.Fatalf("expected select before submit, got %s", got)
	}
}

func TestModelKeepsTimeUpMessageOnNextQuestion(t *testing.T) {
	m := NewModel(nil, &recordedActions{}, Options{Total: 3, NoColor: true})
	m = update(t, m, EventMsg{Event: Event{Kind: EventQuestion, Index: 0, Question: sampleQuestion(), Remaining: 15}})
	m = update(t, m, EventMsg{Event: Event{Kind: EventTimeUp, Index: 0}})
	m = update(t, m, EventMsg{Event: Event{Kind: EventQuestion, Index: 1, Question: sampleQuestion(), Remaining: 15}})
	if !strings.Contains(m.View(), "Time's up on question 1!") {
		t.Fatalf("expected time-up message on the next question:\n%s", m.View())
	}

	m = update(t, m, EventMsg{Event: Event{Kind: EventQuestion, Index: 2, Question: sampleQuestion(), Remaining: 15}})
	if strings.Contains(m.View(), "Time's up") {
		t.Fatalf("expected time-up message cleared after one question:\n%s", m.View())
	}
}

func TestObserverForwardsEvents(t *testing.T) {
	o := NewObserver()
	defer o.Close()

	o.OnDisplayQuestion(0, sampleQuestion(), 15, domain.OptionNone)
	o.OnScoreChanged(1)
	o.OnTimeUp(0)

	want := []EventKind{EventQuestion, EventScore, EventTimeUp}
	for _, kind := range want {
		if got := <-o.Events(); got.Kind != kind {
			t.Fatalf("expected %v, got %v", kind, got.Kind)
		}
	}

	o.Close()
	for i := 0; i < 300; i++ {
		o.OnFinished(domain.Snapshot{})
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model
}

func sampleQuestion() domain.Question {
	return domain.Question{
		Text:    "Capital of France?",
		Options: [4]string{"Rome", "Paris", "Berlin", "Madrid"},
		Correct: domain.OptionB,
	}
}
