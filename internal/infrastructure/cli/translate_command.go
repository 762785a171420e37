package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
)

func newTranslateCommand(container *app.Container) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "translate [natural language]",
		Short: "Translate natural language into a shell command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			input := strings.Join(args, " ")
			resp := container.Translator.Translate(ctx, input, sessionContext(ctx, container))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Command)
			if resp.Explanation != "" {
				fmt.Fprintf(out, "# %s (confidence %.2f)\n", resp.Explanation, resp.Confidence)
			}
			if resp.HasUnresolvedPlaceholders() {
				fmt.Fprintln(out, "# Fill in the {{...}} placeholders before running.")
			}
			for _, alt := range resp.Alternatives {
				fmt.Fprintf(out, "# alternative: %s\n", alt)
			}
			for _, warning := range resp.Warnings {
				fmt.Fprintf(out, "# warning: %s\n", warning)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}
