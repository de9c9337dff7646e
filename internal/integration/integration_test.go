package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	pgloader "timed-quiz-service/internal/infra/postgres"
	infraredis "timed-quiz-service/internal/infra/redis"
	pgmigrations "timed-quiz-service/internal/infra/postgres/migrations"
	"timed-quiz-service/internal/results"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewQuestionLoader(pool)
	if err := loader.SaveQuestions(ctx, "general", sampleQuestions()); err != nil {
		t.Fatalf("seed questions: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	questionRepo := infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	snapshotStore := infraredis.NewSnapshotStore(redisClient, time.Hour)
	service := app.NewQuizService(sessionStore, questionRepo, snapshotStore, app.Options{
		Settings:     app.Settings{CountdownTicks: 15, AllowRetreat: true},
		TickInterval: time.Hour,
	})

	if _, err := service.Start(ctx, "u1", "missing", nil); !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected missing set, got %v", err)
	}

	if _, err := service.Start(ctx, "u1", "general", nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Correct, back and resubmit the restored answer, correct, wrong.
	if err := service.Submit("u1", domain.OptionB); err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if err := service.Previous("u1"); err != nil {
		t.Fatalf("previous: %v", err)
	}
	if err := service.Submit("u1", domain.OptionNone); err != nil {
		t.Fatalf("resubmit q1: %v", err)
	}
	if err := service.Submit("u1", domain.OptionC); err != nil {
		t.Fatalf("submit q2: %v", err)
	}
	if err := service.Submit("u1", domain.OptionD); err != nil {
		t.Fatalf("submit q3: %v", err)
	}

	report, err := service.Results(ctx, "u1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if report.Score != 2 || report.Total != 3 || report.Percentage != 67 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Performance.Tier != results.TierDontGiveUp {
		t.Fatalf("unexpected tier %s", report.Performance.Tier)
	}

	fields, err := redisClient.HGetAll(ctx, "quiz:result:u1").Result()
	if err != nil {
		t.Fatalf("read snapshot hash: %v", err)
	}
	if fields[domain.FieldUserAnswers] != `["opt2","opt3","opt4"]` {
		t.Fatalf("unexpected stored answers %q", fields[domain.FieldUserAnswers])
	}

	if _, err := service.Start(ctx, "u1", "general", nil); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := service.Results(ctx, "u1"); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected results cleared on restart, got %v", err)
	}
	service.Leave("u1")
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", Options: [4]string{"3", "4", "5", "22"}, Correct: domain.OptionB},
		{Text: "Largest planet?", Options: [4]string{"Mars", "Venus", "Jupiter", "Earth"}, Correct: domain.OptionC},
		{Text: "Boiling point of water at sea level?", Options: [4]string{"90°C", "100°C", "110°C", "120°C"}, Correct: domain.OptionB},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
