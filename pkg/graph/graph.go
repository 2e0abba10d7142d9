// Package graph holds the adjacency representation of a directed multigraph
// and the structural statistics computed over it.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrGraphNotBuilt is returned when a statistic or serialization is
// requested before any adjacency has been set.
var ErrGraphNotBuilt = errors.New("graph not built")

var errNotBuiltCompute = fmt.Errorf("%w: you have to build a graph before making computations on it", ErrGraphNotBuilt)

// Vertex is a vertex label. Two vertices are the same vertex iff their
// labels are equal.
type Vertex string

func (v Vertex) String() string {
	return string(v)
}

// Edge is an ordered (source, destination) pair. Self-loops and
// duplicates are allowed.
type Edge struct {
	Source      Vertex
	Destination Vertex
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%s", e.Source, e.Destination)
}

// Adjacency maps each vertex to its destinations, in edge input order.
type Adjacency map[Vertex][]Vertex

// Vertices returns the keys in sorted order.
func (a Adjacency) Vertices() []Vertex {
	vertices := make([]Vertex, 0, len(a))
	for v := range a {
		vertices = append(vertices, v)
	}
	slices.Sort(vertices)
	return vertices
}

// Edges flattens the adjacency into edges, sources sorted, destinations in
// list order.
func (a Adjacency) Edges() []Edge {
	edges := make([]Edge, 0, a.EdgeCount())
	for _, src := range a.Vertices() {
		for _, dst := range a[src] {
			edges = append(edges, Edge{Source: src, Destination: dst})
		}
	}
	return edges
}

// Clone returns a deep copy. Empty destination lists stay non-nil.
func (a Adjacency) Clone() Adjacency {
	if a == nil {
		return nil
	}
	out := make(Adjacency, len(a))
	for v, dsts := range a {
		out[v] = append(make([]Vertex, 0, len(dsts)), dsts...)
	}
	return out
}

// Equal reports whether both adjacencies hold the same keys with the same
// destination lists. Key order is irrelevant, list order is not; nil and
// empty lists compare equal.
func (a Adjacency) Equal(other Adjacency) bool {
	if len(a) != len(other) {
		return false
	}
	for v, dsts := range a {
		otherDsts, ok := other[v]
		if !ok || !slices.Equal(dsts, otherDsts) {
			return false
		}
	}
	return true
}

// Graph owns at most one adjacency at a time. The zero value is an
// unbuilt graph; every statistic on it fails with ErrGraphNotBuilt.
type Graph struct {
	mu  sync.RWMutex
	adj Adjacency
}

// New returns an unbuilt graph.
func New() *Graph {
	return &Graph{}
}

// BuildFromLists replaces the stored adjacency with the one produced by
// Build.
func (g *Graph) BuildFromLists(vertices []Vertex, edges []Edge) {
	adj := Build(vertices, edges)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.adj = adj
}

// Load replaces the stored adjacency with a snapshot read from a
// container. Keys are trusted as-is: destinations that are not keys are
// kept and simply never reported as vertices.
func (g *Graph) Load(adj Adjacency) {
	if adj == nil {
		adj = Adjacency{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.adj = adj.Clone()
}

// Built reports whether an adjacency has been set.
func (g *Graph) Built() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.adj != nil
}

// Adjacency returns a copy of the stored adjacency.
func (g *Graph) Adjacency() (Adjacency, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.adj == nil {
		return nil, errNotBuiltCompute
	}
	return g.adj.Clone(), nil
}

func (g *Graph) VertexCount() (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.adj == nil {
		return 0, errNotBuiltCompute
	}
	return g.adj.VertexCount(), nil
}

func (g *Graph) EdgeCount() (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.adj == nil {
		return 0, errNotBuiltCompute
	}
	return g.adj.EdgeCount(), nil
}

func (g *Graph) InDegrees() (map[Vertex]int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.adj == nil {
		return nil, errNotBuiltCompute
	}
	return g.adj.InDegrees(), nil
}

func (g *Graph) OutDegrees() (map[Vertex]int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.adj == nil {
		return nil, errNotBuiltCompute
	}
	return g.adj.OutDegrees(), nil
}

// DumpStats returns a one-line description for logs.
func (g *Graph) DumpStats() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.adj == nil {
		return "Vertices: - | Edges: - (not built)"
	}
	return fmt.Sprintf("Vertices: %d | Edges: %d", g.adj.VertexCount(), g.adj.EdgeCount())
}
