package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/index"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version string",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kitmeta %s (commit: %s, built: %s, index format: %s)\n",
			Version, GitCommit, BuildTime, index.FormatVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
