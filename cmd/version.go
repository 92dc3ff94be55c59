package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"devc/pkg/extension"
)

// Set via -ldflags at build time
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of devc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "devc %s (%s) built %s %s/%s, extension protocol %s\n",
				Version, CommitSHA, BuildDate, runtime.GOOS, runtime.GOARCH, extension.ProtocolVersion)
		},
	}
}
