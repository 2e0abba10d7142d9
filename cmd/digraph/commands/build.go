package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DrSkyle/digraph/pkg/definition"
	"github.com/DrSkyle/digraph/pkg/graph"
)

var (
	buildVertices []string
	buildEdges    []string
	buildFile     string
	buildNoSave   bool
)

var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a graph from vertex and edge lists",
	Long: `Build a graph from vertex and edge lists, print its statistics and
write a snapshot to the output directory.

Edges whose source or destination is not a declared vertex are dropped.
Without --vertex, --edge or --file the sample graph is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, source, err := buildDefinition(cmd)
		if err != nil {
			return err
		}

		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		g, err := eng.BuildFromLists(cmd.Context(), def.Vertices, def.Edges)
		if err != nil {
			return err
		}
		summary, err := eng.Summarize(source, g)
		if err != nil {
			return err
		}
		if err := writeSummary(cmd.OutOrStdout(), summary); err != nil {
			return err
		}

		if buildNoSave {
			return nil
		}
		path, err := eng.Serialize(cmd.Context(), g)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "snapshot written to %s\n", path)
		return nil
	},
}

// buildDefinition merges the file and list flags over the sample graph.
// Vertex and edge lists override the defaults independently.
func buildDefinition(cmd *cobra.Command) (definition.Definition, string, error) {
	if buildFile != "" {
		def, err := definition.Load(buildFile)
		return def, buildFile, err
	}

	def := definition.Default()
	if cmd.Flags().Changed("vertex") {
		vertices, err := definition.ParseVertices(buildVertices)
		if err != nil {
			return definition.Definition{}, "", err
		}
		def.Vertices = vertices
	}
	if cmd.Flags().Changed("edge") {
		def.Edges = make([]graph.Edge, 0, len(buildEdges))
		for _, s := range buildEdges {
			e, err := definition.ParseEdge(s)
			if err != nil {
				return definition.Definition{}, "", err
			}
			def.Edges = append(def.Edges, e)
		}
	}
	return def, "lists", nil
}

func init() {
	f := BuildCmd.Flags()
	f.StringSliceVar(&buildVertices, "vertex", nil, "Vertex label (repeatable or comma separated)")
	f.StringSliceVar(&buildEdges, "edge", nil, "Edge as source:destination (repeatable)")
	f.StringVar(&buildFile, "file", "", "YAML or HCL definition file")
	f.BoolVar(&buildNoSave, "no-save", false, "Print statistics without writing a snapshot")
	f.String("out", "tmp", "Snapshot directory or s3:// prefix")
	f.Bool("compress", false, "Write a zstd-compressed snapshot")
	BuildCmd.MarkFlagsMutuallyExclusive("file", "vertex")
	BuildCmd.MarkFlagsMutuallyExclusive("file", "edge")

	viper.BindPFlag("output.dir", f.Lookup("out"))
	viper.BindPFlag("output.compress", f.Lookup("compress"))
}
