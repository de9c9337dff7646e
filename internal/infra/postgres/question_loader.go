package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"timed-quiz-service/internal/domain"
)

// QuestionLoader loads question sets stored as JSONB arrays of question records.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error) {
	source := "postgres:question_sets/" + setID
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, setID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return nil, &domain.LoadError{Source: source, Err: fmt.Errorf("query: %w", err)}
	}
	var records []domain.QuestionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &domain.LoadError{Source: source, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	if len(records) == 0 {
		return nil, &domain.LoadError{Source: source, Err: domain.ErrEmptyQuestionSet}
	}
	questions, err := domain.QuestionsFromRecords(records)
	if err != nil {
		return nil, &domain.LoadError{Source: source, Err: err}
	}
	return questions, nil
}

// SaveQuestions upserts a question set.
func (l *QuestionLoader) SaveQuestions(ctx context.Context, setID string, questions []domain.Question) error {
	data, err := json.Marshal(domain.RecordsFromQuestions(questions))
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO question_sets (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		setID, string(data))
	if err != nil {
		return fmt.Errorf("save question set %s: %w", setID, err)
	}
	return nil
}
