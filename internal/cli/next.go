package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next semantic version",
	Long: `Compute the version that follows the latest version tag from the commits in
the range, without writing anything.

By default the range runs from the latest version tag to HEAD. Without version
tags the configured initial_version is the base. An empty range prints the
current version unchanged.`,
	Example: `  # Next version for commits since the latest tag
  convlog next

  # Show how the version was derived
  convlog next --details

  # Use it in a release script
  git tag "v$(convlog next)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNext(cmd, args)
	},
}

func init() {
	nextCmd.GroupID = GroupChangelog
	nextCmd.Flags().String("from", "", "Start of the range, exclusive (default: latest version tag)")
	nextCmd.Flags().String("to", "HEAD", "End of the range, inclusive")
	nextCmd.Flags().Bool("details", false, "Show the current version, bump and commit count")
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, _ []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	details, _ := cmd.Flags().GetBool("details")

	env, err := loadEnvironment()
	if err != nil {
		return toCLIError(err)
	}

	ctx := cmd.Context()
	if !cmd.Flags().Changed("from") {
		if from, err = env.generator.LatestTag(ctx); err != nil {
			return toCLIError(err)
		}
	}

	result, err := env.generator.NextVersion(ctx, from, to)
	if err != nil {
		return toCLIError(err)
	}

	out := cmd.OutOrStdout()
	if !details {
		fmt.Fprintln(out, result.Next)
		return nil
	}

	label := color.New(color.FgYellow).SprintFunc()
	current := result.Current.String()
	if result.FromInitial {
		current += " (initial, no version tags)"
	}
	fmt.Fprintf(out, "%s %s\n", label("Current:"), current)
	fmt.Fprintf(out, "%s %d\n", label("Commits:"), result.Commits)
	fmt.Fprintf(out, "%s %s\n", label("Bump:   "), result.Bump)
	fmt.Fprintf(out, "%s %s\n", label("Next:   "), color.New(color.Bold).Sprint(result.Next))
	return nil
}
