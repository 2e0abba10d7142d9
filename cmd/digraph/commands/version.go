package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/digraph/pkg/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s)\n", version.AppName, version.Current, version.Commit)
	},
}
