package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

var loadLatest string

var LoadCmd = &cobra.Command{
	Use:   "load [PATH]",
	Short: "Load a graph snapshot and print its statistics",
	Long: `Load a graph from the first record of a container and print its
statistics. PATH may be local or s3://bucket/key. With --latest the newest
snapshot in a directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (loadLatest != "") {
			return errors.New("give either a PATH or --latest DIR")
		}

		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		path := loadLatest
		if len(args) == 1 {
			path = args[0]
		} else if path, err = eng.LatestSnapshot(cmd.Context(), loadLatest); err != nil {
			return err
		}

		g, err := eng.LoadFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		summary, err := eng.Summarize(path, g)
		if err != nil {
			return err
		}
		return writeSummary(cmd.OutOrStdout(), summary)
	},
}

func init() {
	LoadCmd.Flags().StringVar(&loadLatest, "latest", "", "Load the newest snapshot in this directory")
}
