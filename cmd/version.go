package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via -ldflags "-X github.com/biilim/biilim/cmd.version=... -X ...commit=...".
var (
	version = "(devel)"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		out := fmt.Sprintf("biilim %s", version)
		if commit != "" {
			out += " (" + commit + ")"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s %s\n", out, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
