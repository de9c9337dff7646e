package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	pgloader "timed-quiz-service/internal/infra/postgres"
	redisstore "timed-quiz-service/internal/infra/redis"
)

// backend holds the quiz service and the connections behind it.
type backend struct {
	service *app.QuizService
	redis   *redis.Client
	pool    *pgxpool.Pool
}

func (b *backend) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// newBackend picks the question source (Postgres when configured, question files otherwise)
// and the stores (Redis when configured, memory otherwise).
func newBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}

	var loader memory.QuestionLoader = file.NewQuestionLoader(cfg.Quiz.QuestionsDir)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		loader = pgloader.NewQuestionLoader(pool)
	}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	resultTTL := config.TTLDuration(cfg.Quiz.ResultTTL, 24*time.Hour)

	var (
		questions app.QuestionRepository
		sessions  app.SessionRepository
		snapshots app.SnapshotStore
	)
	if b.redis != nil {
		questions = redisstore.NewQuestionRepository(b.redis, loader, quizTTL)
		sessions = redisstore.NewSessionStore(b.redis, sessionTTL)
		snapshots = redisstore.NewSnapshotStore(b.redis, resultTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, quizTTL)
		sessions = memory.NewSessionStore()
		snapshots = memory.NewSnapshotStore()
	}

	b.service = app.NewQuizService(sessions, questions, snapshots, app.Options{
		Settings: app.Settings{
			CountdownTicks: cfg.Quiz.CountdownTicks,
			AllowRetreat:   cfg.RetreatAllowed(),
		},
		TickInterval: config.TTLDuration(cfg.Quiz.TickInterval, time.Second),
		Logger:       logger,
	})
	logger.Debug("backend ready",
		"postgres", b.pool != nil,
		"redis", b.redis != nil,
		"questions_dir", cfg.Quiz.QuestionsDir,
	)
	return b, nil
}
