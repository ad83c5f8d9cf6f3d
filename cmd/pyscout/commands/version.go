package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pyscout/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("pyscout version {{.Version}}\n")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of pyscout.`,
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.OutOrStdout(), "pyscout version %s\n", cmd.Version)
		fmt.Fprintf(c.OutOrStdout(), "  commit: %s\n", cmd.Commit)
		fmt.Fprintf(c.OutOrStdout(), "  built:  %s\n", cmd.Date)
	},
}
