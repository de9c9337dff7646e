package app

import (
	"context"
	"fmt"
	"sync"

	"timed-quiz-service/internal/domain"
)

// QuestionSource supplies the ordered questions of one quiz.
type QuestionSource interface {
	Load(ctx context.Context) ([]domain.Question, error)
}

// QuestionSourceFunc adapts a function to QuestionSource.
type QuestionSourceFunc func(ctx context.Context) ([]domain.Question, error)

func (f QuestionSourceFunc) Load(ctx context.Context) ([]domain.Question, error) {
	return f(ctx)
}

// Timer is the per-question countdown driven by the controller.
type Timer interface {
	Start(ticks int, onTick func(remaining int), onExpire func())
	Reset()
	Stop()
}

// Presenter receives controller events. Methods run with the controller locked
// and must not call back into it.
type Presenter interface {
	OnDisplayQuestion(index int, q domain.Question, remaining int, selected domain.OptionKey)
	OnTick(index, remaining int)
	OnScoreChanged(score int)
	OnValidationError(kind domain.ValidationKind)
	OnTimeUp(index int)
	OnFinished(snapshot domain.Snapshot)
}

// NopPresenter ignores every event.
type NopPresenter struct{}

func (NopPresenter) OnDisplayQuestion(int, domain.Question, int, domain.OptionKey) {}
func (NopPresenter) OnTick(int, int)                                              {}
func (NopPresenter) OnScoreChanged(int)                                           {}
func (NopPresenter) OnValidationError(domain.ValidationKind)                      {}
func (NopPresenter) OnTimeUp(int)                                                 {}
func (NopPresenter) OnFinished(domain.Snapshot)                                   {}

// Settings parameterize a controller.
type Settings struct {
	CountdownTicks int
	AllowRetreat   bool
}

// DefaultCountdownTicks matches a 15 second countdown at one tick per second.
const DefaultCountdownTicks = 15

// State is a read-only view of a session.
type State struct {
	Phase     domain.Phase
	Abandoned bool
	Index     int
	Total     int
	Score     int
	Remaining int
	Selected  domain.OptionKey
	Answers   []domain.OptionKey
}

// Controller owns one quiz session: the question pointer, score, answer log and countdown.
type Controller struct {
	settings  Settings
	timer     Timer
	presenter Presenter

	mu        sync.Mutex
	phase     domain.Phase
	abandoned bool
	questions []domain.Question
	current   int
	score     int
	answers   []domain.OptionKey
	credited  []bool
	selected  domain.OptionKey
	remaining int
	round     uint64
	snapshot  *domain.Snapshot
}

func NewController(settings Settings, timer Timer, presenter Presenter) *Controller {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if settings.CountdownTicks <= 0 {
		settings.CountdownTicks = DefaultCountdownTicks
	}
	return &Controller{
		settings:  settings,
		timer:     timer,
		presenter: presenter,
		phase:     domain.PhaseLoading,
	}
}

// Start loads the questions and activates the session. On failure the
// controller stays in the loading phase.
func (c *Controller) Start(ctx context.Context, source QuestionSource) error {
	questions, err := source.Load(ctx)
	if err != nil {
		return err
	}
	return c.Begin(questions)
}

// Begin activates the session with already loaded questions.
func (c *Controller) Begin(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrEmptyQuestionSet
	}
	for i, q := range questions {
		if !q.Correct.Valid() {
			return fmt.Errorf("question %d: %w", i+1, &domain.UnknownOptionKeyError{Key: string(q.Correct)})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.phase {
	case domain.PhaseActive:
		return domain.ErrSessionStarted
	case domain.PhaseFinished:
		return domain.ErrSessionFinished
	}

	c.questions = make([]domain.Question, len(questions))
	copy(c.questions, questions)
	c.current = 0
	c.score = 0
	c.answers = make([]domain.OptionKey, len(questions))
	c.credited = make([]bool, len(questions))
	c.selected = domain.OptionNone
	c.phase = domain.PhaseActive
	c.showLocked()
	return nil
}

// Select records the pending choice for the current question; the last call wins.
func (c *Controller) Select(key domain.OptionKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	if key != domain.OptionNone && !key.Valid() {
		return &domain.UnknownOptionKeyError{Key: string(key)}
	}
	c.selected = key
	return nil
}

// Submit answers the current question with the pending selection.
func (c *Controller) Submit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	return c.submitLocked(c.selected)
}

// SubmitAnswer records key for the current question and advances.
func (c *Controller) SubmitAnswer(key domain.OptionKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	return c.submitLocked(key)
}

// OnTimerExpire advances without crediting the current question.
func (c *Controller) OnTimerExpire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	c.expireLocked()
	return nil
}

// GoToPrevious moves back one question and restores its recorded answer.
// Points already awarded for that question are kept.
func (c *Controller) GoToPrevious() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	if !c.settings.AllowRetreat {
		return domain.ErrRetreatDisabled
	}
	if c.current == 0 {
		c.presenter.OnValidationError(domain.ValidationNoPrevious)
		return domain.ErrNoPreviousQuestion
	}
	c.current--
	c.showLocked()
	return nil
}

// Abandon stops the countdown and makes the controller inert without producing a snapshot.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == domain.PhaseFinished {
		return
	}
	c.timer.Stop()
	c.round++
	c.abandoned = true
	c.phase = domain.PhaseFinished
	c.questions, c.answers, c.credited = nil, nil, nil
}

// State returns a copy of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Phase:     c.phase,
		Abandoned: c.abandoned,
		Index:     c.current,
		Total:     len(c.questions),
		Score:     c.score,
		Remaining: c.remaining,
		Selected:  c.selected,
		Answers:   make([]domain.OptionKey, len(c.answers)),
	}
	copy(st.Answers, c.answers)
	if c.snapshot != nil {
		st.Total = c.snapshot.Total
		st.Answers = append(st.Answers[:0], c.snapshot.Answers...)
	}
	return st
}

// Snapshot returns the result of a finished session.
func (c *Controller) Snapshot() (domain.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return domain.Snapshot{}, false
	}
	return *c.snapshot, true
}

func (c *Controller) activeLocked() error {
	switch c.phase {
	case domain.PhaseLoading:
		return domain.ErrSessionNotStarted
	case domain.PhaseFinished:
		return domain.ErrSessionFinished
	}
	return nil
}

func (c *Controller) submitLocked(key domain.OptionKey) error {
	if key == domain.OptionNone {
		c.presenter.OnValidationError(domain.ValidationNoSelection)
		return domain.ErrNoSelection
	}
	if !key.Valid() {
		return &domain.UnknownOptionKeyError{Key: string(key)}
	}

	i := c.current
	c.answers[i] = key
	if key == c.questions[i].Correct && !c.credited[i] {
		c.credited[i] = true
		c.score++
		c.presenter.OnScoreChanged(c.score)
	}
	c.advanceLocked()
	return nil
}

// expireLocked records a pending selection as the answer without crediting it.
func (c *Controller) expireLocked() {
	if c.selected != domain.OptionNone {
		c.answers[c.current] = c.selected
	}
	c.presenter.OnTimeUp(c.current)
	c.advanceLocked()
}

func (c *Controller) advanceLocked() {
	c.current++
	if c.current >= len(c.questions) {
		c.finishLocked()
		return
	}
	c.showLocked()
}

// showLocked displays the current question with its recorded answer and
// restarts the countdown for it.
func (c *Controller) showLocked() {
	c.selected = c.answers[c.current]
	c.startTimerLocked()
	c.presenter.OnDisplayQuestion(c.current, c.questions[c.current], c.remaining, c.selected)
}

func (c *Controller) startTimerLocked() {
	c.round++
	round := c.round
	c.remaining = c.settings.CountdownTicks
	c.timer.Reset()
	c.timer.Start(c.settings.CountdownTicks,
		func(remaining int) { c.handleTick(round, remaining) },
		func() { c.handleExpire(round) },
	)
}

func (c *Controller) handleTick(round uint64, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if round != c.round || c.phase != domain.PhaseActive {
		return
	}
	c.remaining = remaining
	c.presenter.OnTick(c.current, remaining)
}

func (c *Controller) handleExpire(round uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if round != c.round || c.phase != domain.PhaseActive {
		return
	}
	c.expireLocked()
}

func (c *Controller) finishLocked() {
	c.timer.Stop()
	c.round++
	c.remaining = 0
	c.selected = domain.OptionNone
	c.phase = domain.PhaseFinished

	snap := domain.NewSnapshot(c.score, c.questions, c.answers)
	c.snapshot = &snap
	c.questions, c.answers, c.credited = nil, nil, nil
	c.current = snap.Total
	c.presenter.OnFinished(snap)
}
