package container

import (
	"fmt"
	"slices"

	"github.com/DrSkyle/digraph/pkg/graph"
)

// Split partitions adj into chunks of at most size source vertices each,
// in sorted key order. Every key lands in exactly one chunk with its full
// destination list, so vertex count, edge count and out-degrees of the
// union match adj. A chunk only counts in-degree for destinations that
// are keys of the same chunk.
func Split(adj graph.Adjacency, size int) ([]graph.Adjacency, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be at least 1, got %d", size)
	}
	if adj == nil {
		return nil, fmt.Errorf("%w: you have to build a graph before splitting it", graph.ErrGraphNotBuilt)
	}

	keys := adj.Vertices()
	chunks := make([]graph.Adjacency, 0, (len(keys)+size-1)/size)
	for batch := range slices.Chunk(keys, size) {
		c := make(graph.Adjacency, len(batch))
		for _, k := range batch {
			c[k] = slices.Clone(adj[k])
			if c[k] == nil {
				c[k] = []graph.Vertex{}
			}
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}
