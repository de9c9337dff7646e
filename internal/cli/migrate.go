package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	pgloader "timed-quiz-service/internal/infra/postgres"
	pgmigrations "timed-quiz-service/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and optionally seeds question sets.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seedDir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg, os.Stderr)
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			if seedDir == "" {
				return nil
			}
			return seedQuestionSets(cmd.Context(), cfg, seedDir)
		},
	}
	cmd.Flags().StringVar(&seedDir, "seed", "", "directory of question files to upsert into question_sets")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		slog.Info("no new migrations")
		return nil
	}
	slog.Info("migrations applied", "group", group.String())
	return nil
}

// seedQuestionSets loads every question file in dir and upserts it under its file name.
func seedQuestionSets(ctx context.Context, cfg config.Config, dir string) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	files := file.NewQuestionLoader(dir)
	sets, err := files.Sets()
	if err != nil {
		return err
	}
	store := pgloader.NewQuestionLoader(pool)
	for _, setID := range sets {
		questions, err := files.LoadQuestions(ctx, setID)
		if err != nil {
			return err
		}
		if err := store.SaveQuestions(ctx, setID, questions); err != nil {
			return err
		}
		slog.Info("question set seeded", "set", setID, "questions", len(questions))
	}
	return nil
}
