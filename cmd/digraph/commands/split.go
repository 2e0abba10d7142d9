package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	splitIn  string
	splitOut string
)

var SplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Re-chunk a snapshot into a multi-record container",
	Long: `Split the graph in a snapshot into records of at most --chunk-size
source vertices each, in sorted vertex order. Each vertex keeps its whole
destination list, so streamed vertex count, edge count and out-degrees
match the original. In-degrees only count edges whose destination is a
vertex of the same record.

The output is zstd-compressed when its name ends in .zst.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := eng.Split(cmd.Context(), splitIn, splitOut, eng.Config().Split.ChunkSize)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, splitOut)
		return nil
	},
}

func init() {
	f := SplitCmd.Flags()
	f.StringVar(&splitIn, "in", "", "Snapshot to split")
	f.StringVar(&splitOut, "out", "", "Container to write")
	f.Int("chunk-size", 1000, "Source vertices per record")
	SplitCmd.MarkFlagRequired("in")
	SplitCmd.MarkFlagRequired("out")

	viper.BindPFlag("split.chunk_size", f.Lookup("chunk-size"))
}
