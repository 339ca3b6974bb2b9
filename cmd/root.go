package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pricing-service",
	Short: "Schedfy pricing service",
	Long:  "Resolves subscription prices per plan, region and billing period with a persistent stale-while-revalidate cache.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
