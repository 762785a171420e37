package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
	"github.com/doeshing/termsense/internal/domain"
)

const msgNoHistory = "No history recorded yet."

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the command history archive",
	}
	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)
	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived commands, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd.OutOrStdout(), container, limit, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search archived commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd.OutOrStdout(), container, limit, args[0])
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries to show")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the archive and the session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Tracker.Clear()
			if container.Archive != nil {
				if err := container.Archive.Clear(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dest.jsonl]",
		Short: "Export the archive as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Archive == nil {
				return fmt.Errorf("history archive unavailable")
			}
			if err := container.Archive.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}
}

func listHistory(out io.Writer, container *app.Container, limit int, search string) error {
	if container.Archive == nil {
		return fmt.Errorf("history archive unavailable")
	}
	records, err := container.Archive.Records(limit, search)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, msgNoHistory)
		return nil
	}
	for _, rec := range records {
		printHistoryRecord(out, rec)
	}
	return nil
}

func printHistoryRecord(out io.Writer, rec domain.TrackedCommand) {
	status := "?"
	if rec.ExitCode != nil {
		status = fmt.Sprintf("%d", *rec.ExitCode)
	}
	fmt.Fprintf(out, "%s  [exit %s]  %s", rec.SubmittedAt.Format(time.DateTime), status, rec.Command)
	if rec.Branch != "" {
		fmt.Fprintf(out, "  (%s)", rec.Branch)
	}
	fmt.Fprintln(out)
	if rec.Explanation != "" {
		fmt.Fprintf(out, "    ↳ %s\n", rec.Explanation)
	}
}
