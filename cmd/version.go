package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pricing-service %s (commit: %s, %s)\n", Version, Commit, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
