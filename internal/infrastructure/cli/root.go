// Package cli exposes the intelligence layer as a command-line tool for
// one-shot use and scripting. The interactive path embeds the services
// directly through app.Container and services.Session.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
	})
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "termsense",
		Short: "Terminal intelligence: suggestions, history and secret redaction",
		Long: "termsense suggests shell commands as you type, translates natural\n" +
			"language into commands, tracks command history and masks secrets\n" +
			"before they reach the screen.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		container.Close()
	}

	root.AddCommand(newSuggestCommand(container))
	root.AddCommand(newTranslateCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newWorkflowCommand(container))
	root.AddCommand(newRedactCommand(container))
	root.AddCommand(newExplainCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}
