package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"general": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background(), "general"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	questions, err := repo.GetQuestions(context.Background(), "general")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(questions) != 1 || questions[0].Correct != domain.OptionB {
		t.Fatalf("unexpected questions %+v", questions)
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{"general": sampleQuestions()}),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuestions(context.Background(), "general")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuestions(context.Background(), "general")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryRejectsEmptySets(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(map[string][]domain.Question{"empty": {}}), time.Minute)

	_, err := repo.GetQuestions(context.Background(), "empty")
	if !errors.Is(err, domain.ErrEmptyQuestionSet) {
		t.Fatalf("expected empty set error, got %v", err)
	}
	if _, err := repo.GetQuestions(context.Background(), "nope"); !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, setID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Text:    "What is 2 + 2?",
			Options: [4]string{"3", "4", "5", "22"},
			Correct: domain.OptionB,
		},
	}
}
