package cli

import (
	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/storage"
)

// Set at build time via -ldflags.
var (
	version   = "1.0.0"
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("deckhound %s (built %s, sqlite driver %s/%s)\n",
			version, buildTime, storage.DriverName, storage.BuildMode)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
