package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/infrastructure/workflow"
)

func newWorkflowCommand(container *app.Container) *cobra.Command {
	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage parameterized command templates",
	}
	workflowCmd.AddCommand(
		newWorkflowListCommand(container),
		newWorkflowShowCommand(container),
		newWorkflowResolveCommand(container),
		newWorkflowAddCommand(container),
		newWorkflowRemoveCommand(container),
	)
	return workflowCmd
}

func newWorkflowListCommand(container *app.Container) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			matches := container.Workflows.Search(query)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workflows match.")
				return nil
			}
			for _, w := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", w.Name, w.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "search", "", "Filter by name, description, command or tag")
	return cmd
}

func newWorkflowShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show one workflow with its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, ok := container.Workflows.Find(args[0])
			if !ok {
				return fmt.Errorf("workflow %q not found", args[0])
			}
			printWorkflow(cmd.OutOrStdout(), w)
			return nil
		},
	}
}

func newWorkflowResolveCommand(container *app.Container) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "resolve [name]",
		Short: "Substitute parameters and print the resulting command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, ok := container.Workflows.Find(args[0])
			if !ok {
				return fmt.Errorf("workflow %q not found", args[0])
			}
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			if missing := workflow.MissingParameters(w, values); len(missing) > 0 {
				return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), workflow.Resolve(w, values))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Parameter value as name=value (repeatable)")
	return cmd
}

func newWorkflowAddCommand(container *app.Container) *cobra.Command {
	var (
		description string
		category    string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "add [name] [command template]",
		Short: "Add a user workflow",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := domain.TerminalWorkflow{
				Name:        args[0],
				Command:     strings.Join(args[1:], " "),
				Description: description,
				Category:    category,
				Tags:        tags,
			}
			if err := container.Workflows.Add(w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added workflow %q.\n", w.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Workflow description")
	cmd.Flags().StringVar(&category, "category", "", "Workflow category")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Workflow tags")
	return cmd
}

func newWorkflowRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove a user workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Workflows.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed workflow %q.\n", args[0])
			return nil
		},
	}
}

func printWorkflow(out io.Writer, w domain.TerminalWorkflow) {
	fmt.Fprintf(out, "%s - %s\n", w.Name, w.Description)
	fmt.Fprintf(out, "  command: %s\n", w.Command)
	if len(w.Tags) > 0 {
		fmt.Fprintf(out, "  tags: %s\n", strings.Join(w.Tags, ", "))
	}
	for _, p := range w.Parameters {
		required := ""
		if p.Required {
			required = " (required)"
		}
		if p.Default != "" {
			required += fmt.Sprintf(" (default %q)", p.Default)
		}
		fmt.Fprintf(out, "  param %s%s: %s\n", p.Name, required, p.Description)
	}
}

func parseParams(raw []string) (map[string]string, error) {
	values := map[string]string{}
	for _, pair := range raw {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", pair)
		}
		values[name] = value
	}
	return values, nil
}
