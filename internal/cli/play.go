package cli

import (
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/ui/terminal"
)

// NewPlayCmd plays a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		setID    string
		playerID string
		noColor  bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// the TUI owns the terminal
			logger := setupLogging(cfg, io.Discard)

			b, err := newBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			if setID == "" {
				setID = cfg.Quiz.DefaultSet
			}
			if playerID == "" {
				playerID = "local-" + uuid.NewString()
			}
			return terminal.Play(cmd.Context(), b.service, cfg.Quiz.CountdownTicks, terminal.PlayOptions{
				PlayerID: playerID,
				SetID:    setID,
				NoColor:  noColor,
				Output:   cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVar(&setID, "set", "", "question set to play (defaults to quiz.default_set)")
	cmd.Flags().StringVar(&playerID, "player", "", "player id (stored results are keyed by it)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}
