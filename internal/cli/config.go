package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize convlog configuration",
	Long: `Inspect and initialize convlog configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CONVLOG_*, lists comma-separated)
  2. Explicit file (--config)
  3. Project config (.convlog.yml, .convlog.yaml or .convlog.json at the repository root)
  4. User config (~/.config/convlog/config.yml)
  5. Built-in defaults`,
	Example: `  # Show the effective configuration
  convlog config show

  # Which files are read
  convlog config path

  # All keys with their defaults
  convlog config keys

  # Create .convlog.yml in the repository
  convlog config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd, args)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "List the config file locations and whether they exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigPath(cmd, args)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every configuration key with its type and default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigKeys(cmd, args)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented .convlog.yml at the repository root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd, args)
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd, configPathCmd, configKeysCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// projectDir is the repository root, or --repo itself outside a repository.
func projectDir() string {
	repo, err := git.Open(repoPath)
	if err != nil {
		return repoPath
	}
	return repo.Root()
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{ConfigPath: configPath, ProjectDir: projectDir()})
	if err != nil {
		return toCLIError(err)
	}

	data, err := cfg.YAML()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	out := cmd.OutOrStdout()
	for _, p := range config.ResolvePaths(config.LoadOptions{ConfigPath: configPath, ProjectDir: projectDir()}) {
		mark := dim("✗")
		if p.Exists {
			mark = green("✓")
		}
		fmt.Fprintf(out, "%s %-8s %s\n", mark, p.Source, p.Path)
	}
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tDEFAULT\tDESCRIPTION")
	for _, key := range config.SortedKeys() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key.Path, key.Type, key.FormatDefault(), key.Description)
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := filepath.Join(projectDir(), config.ProjectConfigNames[0])
	if existing := config.FindProjectConfig(filepath.Dir(path)); existing != "" && !force {
		return clierrors.NewConfigError(
			fmt.Sprintf("config file already exists: %s", existing),
			"Use --force to overwrite it",
		)
	}

	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", color.New(color.FgGreen).Sprint("✓"), path)
	return nil
}
