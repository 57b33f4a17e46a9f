package cli

import (
	"fmt"

	"github.com/ariel-frischer/convlog/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, Go version and platform of the convlog binary",
	Example: `  # Show version info
  convlog version

  # One line, for scripts
  convlog version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			fmt.Fprintln(cmd.OutOrStdout(), build.Current().Short())
			return
		}
		printPrettyVersion(cmd)
	},
}

func init() {
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

// printPrettyVersion prints the build metadata as aligned, colored fields.
func printPrettyVersion(cmd *cobra.Command) {
	info := build.Current()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	commit := info.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}

	version := info.Version
	if build.IsDevBuild() {
		version += " (development build)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.New(color.FgCyan, color.Bold).Sprint("convlog"))
	for _, item := range []struct{ label, value string }{
		{"Version", version},
		{"Commit", commit},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	} {
		fmt.Fprintf(out, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", item.label)), white(item.value))
	}
}
