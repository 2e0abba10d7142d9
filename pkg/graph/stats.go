package graph

// The statistics below are the per-chunk primitives shared by the
// whole-graph path and the streaming aggregator.

// VertexCount is the number of keys.
func (a Adjacency) VertexCount() int {
	return len(a)
}

// EdgeCount is the total length of all destination lists.
func (a Adjacency) EdgeCount() int {
	total := 0
	for _, dsts := range a {
		total += len(dsts)
	}
	return total
}

// InDegrees counts, for every key, how often it appears as a destination.
// Keys without incoming edges are reported with 0. Destinations that are
// not keys are not reported.
func (a Adjacency) InDegrees() map[Vertex]int {
	degrees := make(map[Vertex]int, len(a))
	for v := range a {
		degrees[v] = 0
	}
	for _, dsts := range a {
		for _, dst := range dsts {
			if _, ok := degrees[dst]; ok {
				degrees[dst]++
			}
		}
	}
	return degrees
}

// OutDegrees is the destination list length of every key.
func (a Adjacency) OutDegrees() map[Vertex]int {
	degrees := make(map[Vertex]int, len(a))
	for v, dsts := range a {
		degrees[v] = len(dsts)
	}
	return degrees
}
