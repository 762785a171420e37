package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
	"github.com/doeshing/termsense/internal/infrastructure/ai"
)

func newExplainCommand(container *app.Container) *cobra.Command {
	var (
		exitCode int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "explain [command]",
		Short: "Explain why a command failed (pipe its output to stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			output := ""
			if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				output = string(data)
			}

			explainer, err := buildExplainer(container)
			if err != nil {
				return err
			}
			explanation, err := explainer.Explain(ctx, args[0], output, exitCode)
			if err != nil {
				return fmt.Errorf("no explanation available: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), explanation)
			return nil
		},
	}
	cmd.Flags().IntVar(&exitCode, "exit-code", 1, "Exit code of the failed command")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}

// buildExplainer prefers the local engine and falls back to the cloud model.
func buildExplainer(container *app.Container) (*ai.InferenceSource, error) {
	factory := ai.NewFactory()
	if local, ok := container.Config.LocalModel(); ok && container.ProbeLocalEngine(context.Background()) {
		return ai.NewInferenceSource(factory.ForModel(local), nil), nil
	}
	if cloud, ok := container.Config.CloudModel(); ok {
		return ai.NewInferenceSource(factory.ForModel(cloud), nil), nil
	}
	return nil, fmt.Errorf("no inference model configured")
}
