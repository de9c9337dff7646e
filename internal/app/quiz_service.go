package app

import (
	"context"
	"log/slog"
	"time"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/results"
)

// SessionRepository abstracts where live per-player controllers are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(playerID string, c *Controller) (previous *Controller)
	Get(playerID string) (*Controller, bool)
	Delete(playerID string)
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, setID string) ([]domain.Question, error)
}

// SnapshotStore persists finished sessions for the results stage. Fields are
// written and cleared as a group.
type SnapshotStore interface {
	Save(ctx context.Context, playerID string, snapshot domain.Snapshot) error
	Load(ctx context.Context, playerID string) (domain.Snapshot, error)
	Clear(ctx context.Context, playerID string) error
}

// Options configure a QuizService.
type Options struct {
	Settings     Settings
	TickInterval time.Duration
	// NewTimer overrides the countdown factory; tests use it to drive time by hand.
	NewTimer func() Timer
	Logger   *slog.Logger
}

// QuizService hosts one single-player quiz session per player id.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionRepository
	snapshots SnapshotStore
	opts      Options
	log       *slog.Logger
}

func NewQuizService(sessions SessionRepository, questions QuestionRepository, snapshots SnapshotStore, opts Options) *QuizService {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.NewTimer == nil {
		interval := opts.TickInterval
		opts.NewTimer = func() Timer { return NewCountdown(interval) }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizService{
		sessions:  sessions,
		questions: questions,
		snapshots: snapshots,
		opts:      opts,
		log:       logger,
	}
}

// Start begins (or restarts) a quiz for a player. Any previous live session is
// abandoned and the previously stored result is cleared.
func (s *QuizService) Start(ctx context.Context, playerID, setID string, presenter Presenter) (*Controller, error) {
	if previous, ok := s.sessions.Get(playerID); ok {
		previous.Abandon()
	}
	if err := s.snapshots.Clear(ctx, playerID); err != nil {
		return nil, err
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}

	controller := NewController(s.opts.Settings, s.opts.NewTimer(), &persistingPresenter{
		Presenter: presenter,
		service:   s,
		playerID:  playerID,
	})
	source := QuestionSourceFunc(func(ctx context.Context) ([]domain.Question, error) {
		return s.questions.GetQuestions(ctx, setID)
	})
	if err := controller.Start(ctx, source); err != nil {
		s.log.Warn("quiz start failed", "player", playerID, "set", setID, "error", err)
		return nil, err
	}

	if previous := s.sessions.Put(playerID, controller); previous != nil {
		// A concurrent Start for the same player may have slipped in.
		previous.Abandon()
	}
	s.log.Info("quiz started", "player", playerID, "set", setID)
	return controller, nil
}

// Select records the pending option for the player's current question.
func (s *QuizService) Select(playerID string, key domain.OptionKey) error {
	c, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return c.Select(key)
}

// Submit answers the current question. OptionNone submits the pending selection.
func (s *QuizService) Submit(playerID string, key domain.OptionKey) error {
	c, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	if key == domain.OptionNone {
		return c.Submit()
	}
	return c.SubmitAnswer(key)
}

// Previous moves the player back one question.
func (s *QuizService) Previous(playerID string) error {
	c, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return c.GoToPrevious()
}

// Leave stops the player's countdown and drops the live session. Stored results are kept.
func (s *QuizService) Leave(playerID string) {
	c, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	c.Abandon()
	s.sessions.Delete(playerID)
}

// Release abandons c and drops it from the store if it is still the player's live session.
func (s *QuizService) Release(playerID string, c *Controller) {
	if c == nil {
		return
	}
	c.Abandon()
	if current, ok := s.sessions.Get(playerID); ok && current == c {
		s.sessions.Delete(playerID)
	}
}

// Results renders the player's stored snapshot.
func (s *QuizService) Results(ctx context.Context, playerID string) (results.Report, error) {
	snap, err := s.snapshots.Load(ctx, playerID)
	if err != nil {
		return results.Report{}, err
	}
	return results.Render(snap)
}

// ClearResults removes the player's stored snapshot.
func (s *QuizService) ClearResults(ctx context.Context, playerID string) error {
	return s.snapshots.Clear(ctx, playerID)
}

// persistingPresenter saves the snapshot before forwarding OnFinished.
type persistingPresenter struct {
	Presenter
	service  *QuizService
	playerID string
}

func (p *persistingPresenter) OnFinished(snapshot domain.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.service.snapshots.Save(ctx, p.playerID, snapshot); err != nil {
		p.service.log.Error("persist result snapshot", "player", p.playerID, "error", err)
	} else {
		p.service.log.Info("quiz finished", "player", p.playerID, "score", snapshot.Score, "total", snapshot.Total, "percentage", snapshot.Percentage)
	}
	p.Presenter.OnFinished(snapshot)
}
