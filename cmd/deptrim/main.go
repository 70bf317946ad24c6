// Package main provides the entry point for the deptrim CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/deptrim/cmd/deptrim/commands"
	"github.com/Sumatoshi-tech/deptrim/pkg/version"
)

// Exit codes.
const (
	exitUnused = 1
	exitFatal  = 2
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "deptrim",
		Short: "Find declared build dependencies that no module imports",
		Long: `deptrim compares the dependencies each unit of a package declares with the
modules its sources actually import, and reports the packages that contribute
nothing.

Commands:
  check     Analyse every unit and report unused dependencies
  units     List the units of a build description`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewUnitsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if errors.Is(err, commands.ErrUnusedDependencies) {
		os.Exit(exitUnused)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitFatal)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deptrim %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
