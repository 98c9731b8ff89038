package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("autopost version %s (%s, %s/%s)\n", version, goVersion(), runtime.GOOS, runtime.GOARCH)
	},
}

// goVersion returns the toolchain the binary was built with.
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.GoVersion != "" {
		return info.GoVersion
	}
	return runtime.Version()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
