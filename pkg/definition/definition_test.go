package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/digraph/pkg/graph"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_BuildsSampleGraph(t *testing.T) {
	def := Default()
	adj := graph.Build(def.Vertices, def.Edges)

	assert.Equal(t, graph.Adjacency{
		"a": {"b", "b", "d"},
		"b": {"d", "b"},
		"c": {"a"},
		"d": {"c"},
		"e": {},
	}, adj)
}

func TestParseYAML_BothEdgeForms(t *testing.T) {
	def, err := ParseYAML([]byte(`
vertices: [a, b, c]
edges:
  - [a, b]
  - {from: b, to: c}
  - from: c
    to: a
`))
	require.NoError(t, err)

	assert.Equal(t, []graph.Vertex{"a", "b", "c"}, def.Vertices)
	assert.Equal(t, []graph.Edge{
		{Source: "a", Destination: "b"},
		{Source: "b", Destination: "c"},
		{Source: "c", Destination: "a"},
	}, def.Edges)
}

func TestParseYAML_Errors(t *testing.T) {
	cases := map[string]string{
		"three endpoints": "edges:\n  - [a, b, c]\n",
		"missing to":      "edges:\n  - {from: a}\n",
		"scalar edge":     "edges:\n  - a\n",
		"not yaml":        "vertices: [a\n",
		"blank vertex":    "vertices: [a, \"  \"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestParseYAML_LabelsNormalisedLikeEdges(t *testing.T) {
	def, err := ParseYAML([]byte(`
vertices: [" a", "b "]
edges:
  - [" a", "b"]
`))
	require.NoError(t, err)
	assert.Equal(t, []graph.Vertex{"a", "b"}, def.Vertices)

	adj := graph.Build(def.Vertices, def.Edges)
	assert.Equal(t, graph.Adjacency{"a": {"b"}, "b": {}}, adj)
}

func TestParseVertices(t *testing.T) {
	got, err := ParseVertices([]string{"a", " b\t"})
	require.NoError(t, err)
	assert.Equal(t, []graph.Vertex{"a", "b"}, got)

	_, err = ParseVertices([]string{"a", ""})
	assert.ErrorContains(t, err, "vertex 2")
}

func TestParseHCL(t *testing.T) {
	def, err := ParseHCL([]byte(`
vertices = ["a", "b", "c", "c"]

edge {
  from = "a"
  to   = "b"
}

edge {
  from = "b"
  to   = "b"
}
`), "graph.hcl")
	require.NoError(t, err)

	assert.Equal(t, []graph.Vertex{"a", "b", "c", "c"}, def.Vertices)
	assert.Equal(t, []graph.Edge{
		{Source: "a", Destination: "b"},
		{Source: "b", Destination: "b"},
	}, def.Edges)
}

func TestParseHCL_Errors(t *testing.T) {
	cases := map[string]string{
		"missing attribute": "edge {\n  from = \"a\"\n}\n",
		"empty endpoint":    "edge {\n  from = \"a\"\n  to = \"\"\n}\n",
		"syntax":            "vertices = [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseHCL([]byte(body), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoad_ByExtension(t *testing.T) {
	yml := writeFile(t, "g.yml", "vertices: [x, y]\nedges: [[x, y]]\n")
	def, err := Load(yml)
	require.NoError(t, err)
	assert.Len(t, def.Edges, 1)

	hcl := writeFile(t, "g.hcl", "vertices = [\"x\"]\n")
	def, err = Load(hcl)
	require.NoError(t, err)
	assert.Equal(t, []graph.Vertex{"x"}, def.Vertices)
	assert.Empty(t, def.Edges)

	_, err = Load(writeFile(t, "g.toml", "vertices = []"))
	assert.ErrorContains(t, err, "unsupported definition format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseEdge(t *testing.T) {
	e, err := ParseEdge("a:b")
	require.NoError(t, err)
	assert.Equal(t, graph.Edge{Source: "a", Destination: "b"}, e)

	for _, bad := range []string{"ab", ":b", "a:", ""} {
		_, err := ParseEdge(bad)
		assert.Error(t, err, bad)
	}
}
