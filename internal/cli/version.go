package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Overridden at build time via -ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			outputJSON(map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"go":      runtime.Version(),
			})
			return
		}
		fmt.Printf("wardrobe %s (commit %s, %s)\n", buildVersion, buildCommit, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
