package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
	"github.com/doeshing/termsense/internal/domain"
)

func newSuggestCommand(container *app.Container) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "suggest [partial input]",
		Short: "Suggest commands for a partial input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			input := strings.Join(args, " ")
			sctx := sessionContext(ctx, container)
			suggestions := container.Orchestrator.Suggest(ctx, input, sctx)
			printSuggestions(cmd.OutOrStdout(), suggestions)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 20*time.Second, "Overall timeout")
	return cmd
}

func printSuggestions(out io.Writer, suggestions []domain.AICommandSuggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return
	}
	for i, s := range suggestions {
		fmt.Fprintf(out, "%2d. %s", i+1, s.Command)
		if s.Description != "" {
			fmt.Fprintf(out, "  # %s", s.Description)
		}
		fmt.Fprintln(out)
	}
}

func sessionContext(ctx context.Context, container *app.Container) domain.SessionContext {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	recent := container.Tracker.RecentCommands(domain.RecentCommandsInPrompt)
	return container.Collector.Collect(ctx, wd, recent)
}
