package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
)

func newRedactCommand(container *app.Container) *cobra.Command {
	var showFindings bool

	cmd := &cobra.Command{
		Use:   "redact [text]",
		Short: "Mask secrets in text (reads stdin when no argument is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = strings.Join(args, " ")
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(data)
			}

			redacted, findings := container.Redactor.Redact(text)
			fmt.Fprintln(cmd.OutOrStdout(), redacted)
			if showFindings {
				for _, f := range findings {
					fmt.Fprintf(cmd.ErrOrStderr(), "# %s at [%d:%d]\n", f.Category, f.Start, f.End)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showFindings, "findings", false, "Print finding categories and spans to stderr")
	return cmd
}
