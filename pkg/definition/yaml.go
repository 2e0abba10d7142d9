package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/DrSkyle/digraph/pkg/graph"
)

type yamlFile struct {
	Vertices []string   `yaml:"vertices"`
	Edges    []yamlEdge `yaml:"edges"`
}

// yamlEdge accepts either [src, dst] or {from: src, to: dst}.
type yamlEdge graph.Edge

func (e *yamlEdge) UnmarshalYAML(node *yaml.Node) error {
	var src, dst string
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: edge needs exactly two endpoints, got %d", node.Line, len(pair))
		}
		src, dst = pair[0], pair[1]
	case yaml.MappingNode:
		var m struct {
			From string `yaml:"from"`
			To   string `yaml:"to"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		src, dst = m.From, m.To
	default:
		return fmt.Errorf("line %d: edge must be a list or a mapping", node.Line)
	}

	edge, err := newEdge(src, dst)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*e = yamlEdge(edge)
	return nil
}

// ParseYAML decodes a YAML definition.
func ParseYAML(data []byte) (Definition, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Definition{}, fmt.Errorf("parsing yaml definition: %w", err)
	}

	vertices, err := ParseVertices(f.Vertices)
	if err != nil {
		return Definition{}, fmt.Errorf("parsing yaml definition: %w", err)
	}
	def := Definition{
		Vertices: vertices,
		Edges:    make([]graph.Edge, len(f.Edges)),
	}
	for i, e := range f.Edges {
		def.Edges[i] = graph.Edge(e)
	}
	return def, nil
}
