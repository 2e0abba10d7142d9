// Package report renders graph statistics for people and for tools.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/digraph/pkg/graph"
)

// Summary is the set of statistics printed after a build or a stream.
type Summary struct {
	Source      string               `json:"source"`
	VertexCount int                  `json:"vertex_count"`
	EdgeCount   int                  `json:"edge_count"`
	InDegrees   map[graph.Vertex]int `json:"in_degrees"`
	OutDegrees  map[graph.Vertex]int `json:"out_degrees"`
}

// FromGraph collects the four statistics of a built graph.
func FromGraph(source string, g *graph.Graph) (Summary, error) {
	s := Summary{Source: source}
	var err error
	if s.VertexCount, err = g.VertexCount(); err != nil {
		return Summary{}, err
	}
	if s.EdgeCount, err = g.EdgeCount(); err != nil {
		return Summary{}, err
	}
	if s.InDegrees, err = g.InDegrees(); err != nil {
		return Summary{}, err
	}
	if s.OutDegrees, err = g.OutDegrees(); err != nil {
		return Summary{}, err
	}
	return s, nil
}

var (
	colorAccent = lipgloss.Color("#874BFD")
	colorValue  = lipgloss.Color("#00FF99")
	colorSub    = lipgloss.Color("#64748B")
)

// Render writes the text summary. Colors are dropped when w is not a
// terminal.
func Render(w io.Writer, s Summary) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Foreground(colorAccent).Bold(true)
	label := r.NewStyle().Foreground(colorSub)
	value := r.NewStyle().Foreground(colorValue).Bold(true)

	var b strings.Builder
	b.WriteString(title.Render("Summary of the graph you entered:"))
	b.WriteByte('\n')
	if s.Source != "" {
		fmt.Fprintf(&b, "%s %s\n", label.Render("# Source is"), value.Render(s.Source))
	}
	fmt.Fprintf(&b, "%s %s\n", label.Render("# Number of vertices is"), value.Render(fmt.Sprint(s.VertexCount)))
	fmt.Fprintf(&b, "%s %s\n", label.Render("# Number of edges is"), value.Render(fmt.Sprint(s.EdgeCount)))
	fmt.Fprintf(&b, "%s %s\n", label.Render("# in degrees are"), value.Render(formatDegrees(s.InDegrees)))
	fmt.Fprintf(&b, "%s %s\n", label.Render("# out degrees are"), value.Render(formatDegrees(s.OutDegrees)))

	_, err := io.WriteString(w, b.String())
	return err
}

// formatDegrees prints a degree map as {a: 1, b: 0} in key order.
func formatDegrees(m map[graph.Vertex]int) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%s: %d", k, m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
