// Package definition loads vertex and edge lists from definition files.
package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/digraph/pkg/graph"
)

// Definition is the input of a build from lists.
type Definition struct {
	Vertices []graph.Vertex
	Edges    []graph.Edge
}

// Default returns the sample graph used when no input is given.
func Default() Definition {
	return Definition{
		Vertices: []graph.Vertex{"a", "b", "c", "c", "d", "e"},
		Edges: []graph.Edge{
			{Source: "a", Destination: "b"},
			{Source: "a", Destination: "b"},
			{Source: "d", Destination: "c"},
			{Source: "b", Destination: "d"},
			{Source: "a", Destination: "d"},
			{Source: "c", Destination: "a"},
			{Source: "b", Destination: "b"},
		},
	}
}

// Load reads a definition file, choosing the parser by extension.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("reading definition: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, path)
	default:
		return Definition{}, fmt.Errorf("unsupported definition format %q (want .yaml, .yml or .hcl)", ext)
	}
}

// ParseEdge parses "src:dst" as used on the command line.
func ParseEdge(s string) (graph.Edge, error) {
	src, dst, ok := strings.Cut(s, ":")
	if !ok {
		return graph.Edge{}, fmt.Errorf("edge %q: want source:destination", s)
	}
	return newEdge(src, dst)
}

// ParseVertices turns labels into vertices with the same normalisation as
// edge endpoints, so a label always matches the edges that name it.
func ParseVertices(labels []string) ([]graph.Vertex, error) {
	out := make([]graph.Vertex, len(labels))
	for i, l := range labels {
		v := normalize(l)
		if v == "" {
			return nil, fmt.Errorf("vertex %d: label is empty", i+1)
		}
		out[i] = graph.Vertex(v)
	}
	return out, nil
}

func newEdge(src, dst string) (graph.Edge, error) {
	src, dst = normalize(src), normalize(dst)
	if src == "" || dst == "" {
		return graph.Edge{}, fmt.Errorf("edge %q -> %q: both endpoints are required", src, dst)
	}
	return graph.Edge{Source: graph.Vertex(src), Destination: graph.Vertex(dst)}, nil
}

// normalize is applied to every label read from input.
func normalize(label string) string {
	return strings.TrimSpace(label)
}
