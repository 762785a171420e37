package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/termsense/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	debug := os.Getenv("TERMSENSE_DEBUG")
	return strings.EqualFold(debug, "1") || strings.EqualFold(debug, "true")
}
