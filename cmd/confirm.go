package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fpick/internal/session"
	"github.com/HaiFongPan/fpick/internal/tui"
)

var confirmTimeout int

// confirmCmd represents the confirm command
var confirmCmd = &cobra.Command{
	Use:   "confirm <title> [content...]",
	Short: "Ask a yes/no question",
	Long: `Show a confirmation dialog and report the answer as the exit status:
0 when confirmed, 1 when cancelled, 2 when the timeout expires.

Examples:
  fpick confirm "Delete the build cache?"
  fpick confirm "Deploy" "Push the current release to production?" --timeout 30`,
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	RunE:          runConfirm,
}

func init() {
	rootCmd.AddCommand(confirmCmd)

	confirmCmd.Flags().IntVar(&confirmTimeout, "timeout", 0, "seconds to wait before giving up (0 waits forever)")
}

// answerCode maps an answer to the exit status of the command
func answerCode(a session.Answer) int {
	switch a {
	case session.AnswerConfirmed:
		return 0
	case session.AnswerCancelled:
		return 1
	default:
		return 2
	}
}

func runConfirm(cmd *cobra.Command, args []string) error {
	if confirmTimeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	title := args[0]
	content := strings.Join(args[1:], " ")
	timeout := time.Duration(confirmTimeout) * time.Second

	answer := session.AnswerCancelled
	err := tui.Run(cmd.Context(), title, nil, func(ctx context.Context, host session.Host) error {
		var err error
		answer, err = session.Confirm(ctx, host, title, content, timeout)
		return err
	})
	switch {
	case errors.Is(err, session.ErrSessionClosed):
		answer = session.AnswerCancelled
	case err != nil:
		return err
	}

	if code := answerCode(answer); code != 0 {
		return &exitError{code: code}
	}
	return nil
}
