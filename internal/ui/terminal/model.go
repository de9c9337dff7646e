// Package terminal plays a quiz in the terminal with Bubble Tea.
package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/results"
)

// Actions are the player commands the model issues.
type Actions interface {
	Select(key domain.OptionKey) error
	Submit() error
	Previous() error
	Restart() error
}

// Options configures the quiz model.
type Options struct {
	Title     string
	Total     int
	Countdown int
	NoColor   bool
}

// Model renders one quiz session.
type Model struct {
	events  <-chan Event
	actions Actions
	opts    Options
	keys    keyMap
	help    help.Model
	bar     progress.Model
	styles  styles

	index     int
	question  domain.Question
	hasQ      bool
	remaining int
	selected  domain.OptionKey
	score     int
	flash     string
	keepFlash bool
	report    *results.Report
	err       error

	// queued runs after the in-flight action so commands reach the session in key order.
	queued []func() error
	busy   bool
}

func NewModel(events <-chan Event, actions Actions, opts Options) Model {
	if opts.Countdown <= 0 {
		opts.Countdown = 15
	}
	if opts.Title == "" {
		opts.Title = "Quiz"
	}
	barOpts := []progress.Option{progress.WithoutPercentage(), progress.WithWidth(30)}
	if opts.NoColor {
		barOpts = append(barOpts, progress.WithSolidFill("7"))
	} else {
		barOpts = append(barOpts, progress.WithDefaultGradient())
	}
	return Model{
		events:  events,
		actions: actions,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		bar:     progress.New(barOpts...),
		styles:  newStyles(opts.NoColor),
	}
}

// EventMsg wraps a quiz event for Bubble Tea.
type EventMsg struct {
	Event Event
}

// actionResultMsg reports the outcome of a player command.
type actionResultMsg struct {
	err error
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		return m, nil
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.events)
	case actionResultMsg:
		m = applyActionResult(m, typed.err)
		if len(m.queued) == 0 {
			m.busy = false
			return m, nil
		}
		next := m.queued[0]
		m.queued = append([]func() error(nil), m.queued[1:]...)
		return m, run(next)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.report != nil {
		if key.Matches(msg, m.keys.Restart) {
			m.report = nil
			m.hasQ = false
			m.score = 0
			m.flash = ""
			return m.enqueue(m.actions.Restart)
		}
		return m, nil
	}
	for i, binding := range m.keys.Options {
		if key.Matches(msg, binding) {
			k := domain.OptionKeys[i]
			m.selected = k
			m.flash = ""
			m.keepFlash = false
			actions := m.actions
			return m.enqueue(func() error { return actions.Select(k) })
		}
	}
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.enqueue(m.actions.Submit)
	case key.Matches(msg, m.keys.Previous):
		return m.enqueue(m.actions.Previous)
	}
	return m, nil
}

// enqueue starts action now, or after the actions already in flight.
func (m Model) enqueue(action func() error) (tea.Model, tea.Cmd) {
	if m.busy {
		m.queued = append(append([]func() error(nil), m.queued...), action)
		return m, nil
	}
	m.busy = true
	return m, run(action)
}

// run executes a command off the update loop; the controller may emit events while it runs.
func run(action func() error) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{err: action()}
	}
}

func applyActionResult(m Model, err error) Model {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoSelection), errors.Is(err, domain.ErrNoPreviousQuestion):
		// already reported through a validation event
	case errors.Is(err, domain.ErrRetreatDisabled):
		m.flash = "Going back is disabled for this quiz."
	default:
		m.err = err
	}
	return m
}

func applyEvent(m Model, event Event) Model {
	switch event.Kind {
	case EventQuestion:
		m.index = event.Index
		m.question = event.Question
		m.hasQ = true
		m.remaining = event.Remaining
		m.selected = event.Selected
		if m.keepFlash {
			m.keepFlash = false
		} else {
			m.flash = ""
		}
	case EventTick:
		if event.Index == m.index {
			m.remaining = event.Remaining
		}
	case EventScore:
		m.score = event.Score
	case EventValidation:
		m.flash = validationText(event.Validation)
	case EventTimeUp:
		m.flash = fmt.Sprintf("Time's up on question %d!", event.Index+1)
		m.keepFlash = true
	case EventFinished:
		report, err := results.Render(event.Snapshot)
		if err != nil {
			m.err = err
			break
		}
		m.report = &report
		m.score = report.Score
		m.hasQ = false
	}
	return m
}

func validationText(kind domain.ValidationKind) string {
	switch kind {
	case domain.ValidationNoSelection:
		return "Please select an answer before continuing."
	case domain.ValidationNoPrevious:
		return "You are already at the first question."
	}
	return string(kind)
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, m.styles.title.Render(m.opts.Title))
	switch {
	case m.report != nil:
		sections = append(sections, m.renderReport())
	case m.hasQ:
		sections = append(sections, m.renderQuestion())
	default:
		sections = append(sections, m.styles.muted.Render("Loading questions..."))
	}
	if m.flash != "" {
		sections = append(sections, m.styles.flash.Render(m.flash))
	}
	if m.err != nil {
		sections = append(sections, m.styles.incorrect.Render("Error: "+m.err.Error()))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderQuestion() string {
	header := fmt.Sprintf("Question %d of %d", m.index+1, m.opts.Total)
	timerStyle := m.styles.timer
	if m.remaining <= 5 {
		timerStyle = m.styles.timerLow
	}
	timer := timerStyle.Render(fmt.Sprintf("%2ds ", m.remaining)) +
		m.bar.ViewAs(float64(m.remaining)/float64(m.opts.Countdown))

	var b strings.Builder
	for i, text := range m.question.Options {
		style := m.styles.option
		marker := "( )"
		if m.selected == domain.OptionKeys[i] {
			style = m.styles.selected
			marker = "(•)"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %d. %s", marker, i+1, text)))
		b.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.muted.Render(header),
		timer,
		m.styles.question.Render(m.question.Text),
		b.String(),
		m.styles.score.Render(fmt.Sprintf("Score: %d", m.score)),
	)
}

func (m Model) renderReport() string {
	r := m.report
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", m.styles.tier(r.Performance.Tier).Render(r.Performance.Title), r.Performance.Message)
	fmt.Fprintf(&b, "Score: %d / %d (%d%%)\n\n", r.Score, r.Total, r.Percentage)
	for _, line := range r.Lines {
		mark := m.styles.correct.Render("✓")
		if !line.IsCorrect {
			mark = m.styles.incorrect.Render("✗")
		}
		fmt.Fprintf(&b, "%s %d. %s\n", mark, line.Number, line.QuestionText)
		fmt.Fprintf(&b, "    Your answer: %s\n", line.UserAnswerText)
		if !line.IsCorrect {
			fmt.Fprintf(&b, "    Correct answer: %s\n", line.CorrectAnswerText)
		}
	}
	return b.String()
}

// waitForEvent blocks until a quiz event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}
