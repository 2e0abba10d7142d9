package commands

import (
	"github.com/spf13/cobra"

	"github.com/DrSkyle/digraph/pkg/report"
)

var streamSinglePass bool

var StreamCmd = &cobra.Command{
	Use:   "stream PATH",
	Short: "Compute statistics over a multi-record container",
	Long: `Compute vertex count, edge count, in-degrees and out-degrees over a
container one record at a time. Degrees are summed per vertex across
records; a vertex present in several records accumulates.

By default each statistic reads the container once. --single-pass folds
all four in one read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		var summary report.Summary
		if streamSinglePass {
			summary, err = eng.StreamSummaryOnePass(cmd.Context(), args[0])
		} else {
			summary, err = eng.StreamSummary(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return writeSummary(cmd.OutOrStdout(), summary)
	},
}

func init() {
	StreamCmd.Flags().BoolVar(&streamSinglePass, "single-pass", false, "Read the container once for all statistics")
}
