package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timed-quiz-service/internal/infra/file"
)

// NewValidateCmd checks question files against the question-set schema.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate question files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				questions, err := file.LoadFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %v\n", err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d questions)\n", path, len(questions))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
