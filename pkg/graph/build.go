package graph

// Build creates the adjacency for a declared vertex set and an edge list.
//
// Duplicate vertex labels collapse into one key. An edge is kept only when
// both of its endpoints are declared; anything else is dropped without
// error. Each destination list preserves edge input order.
func Build(vertices []Vertex, edges []Edge) Adjacency {
	adj := make(Adjacency, len(vertices))
	for _, v := range vertices {
		if _, ok := adj[v]; !ok {
			adj[v] = []Vertex{}
		}
	}

	for _, e := range edges {
		if _, ok := adj[e.Source]; !ok {
			continue
		}
		if _, ok := adj[e.Destination]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Destination)
	}
	return adj
}
