package definition

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/DrSkyle/digraph/pkg/graph"
)

// hclFile is the decoding target for:
//
//	vertices = ["a", "b"]
//	edge {
//	  from = "a"
//	  to   = "b"
//	}
type hclFile struct {
	Vertices []string  `hcl:"vertices,optional"`
	Edges    []hclEdge `hcl:"edge,block"`
}

type hclEdge struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// ParseHCL decodes an HCL definition. filename is used in diagnostics.
func ParseHCL(data []byte, filename string) (Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Definition{}, fmt.Errorf("parsing hcl definition %s: %w", filename, diags)
	}

	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return Definition{}, fmt.Errorf("decoding hcl definition %s: %w", filename, diags)
	}

	vertices, err := ParseVertices(f.Vertices)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", filename, err)
	}
	def := Definition{
		Vertices: vertices,
		Edges:    make([]graph.Edge, 0, len(f.Edges)),
	}
	for i, e := range f.Edges {
		edge, err := newEdge(e.From, e.To)
		if err != nil {
			return Definition{}, fmt.Errorf("%s: edge block %d: %w", filename, i+1, err)
		}
		def.Edges = append(def.Edges, edge)
	}
	return def, nil
}
