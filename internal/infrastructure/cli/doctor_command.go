package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/termsense/internal/app"
)

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			runDiagnostics(cmd.OutOrStdout(), cmd, container)
			return nil
		},
	}
}

func runDiagnostics(out io.Writer, cmd *cobra.Command, container *app.Container) {
	check(out, "config", true, fmt.Sprintf("format version %s, %d models", container.Config.ConfigFormatVersion, len(container.Config.Models)))

	local, hasLocal := container.Config.LocalModel()
	if hasLocal {
		up := container.ProbeLocalEngine(cmd.Context())
		check(out, "local inference", up, fmt.Sprintf("%s at %s", local.ModelID, local.Endpoint))
	} else {
		check(out, "local inference", false, "no local model configured")
	}

	cloud, hasCloud := container.Config.CloudModel()
	if hasCloud {
		keySet := cloud.AuthEnvVar == "" || os.Getenv(cloud.AuthEnvVar) != ""
		detail := fmt.Sprintf("%s at %s", cloud.ModelID, cloud.Endpoint)
		if !keySet {
			detail += fmt.Sprintf(" (%s not set)", cloud.AuthEnvVar)
		}
		check(out, "cloud fallback", keySet, detail)
	} else {
		check(out, "cloud fallback", false, "no cloud model configured")
	}

	archiveOK := container.Archive != nil
	check(out, "history archive", archiveOK, "sqlite archive")
	check(out, "workflows", true, fmt.Sprintf("%d available", len(container.Workflows.All())))
	check(out, "redaction", true, "catalogue loaded")
}

func check(out io.Writer, name string, ok bool, details string) {
	status := "OK"
	if !ok {
		status = "FAIL"
	}
	fmt.Fprintf(out, "[%s] %s - %s\n", status, name, details)
}
