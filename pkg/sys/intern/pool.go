// Package intern deduplicates strings decoded from one source.
package intern

// Pool hands out one shared string per distinct byte sequence. It is not
// safe for concurrent use; give each decoder its own Pool.
type Pool struct {
	store map[string]string
	hits  int
}

// New returns a Pool sized for about n distinct strings.
func New(n int) *Pool {
	return &Pool{store: make(map[string]string, n)}
}

// Bytes returns the pooled string equal to b, copying b only the first
// time it is seen.
func (p *Pool) Bytes(b []byte) string {
	// The map lookup with string(b) does not allocate.
	if s, ok := p.store[string(b)]; ok {
		p.hits++
		return s
	}
	s := string(b)
	p.store[s] = s
	return s
}

// Len is the number of distinct strings held.
func (p *Pool) Len() int {
	return len(p.store)
}

// Hits is the number of lookups served from the pool since the last Reset.
func (p *Pool) Hits() int {
	return p.hits
}

// Reset drops every pooled string so they can be collected once callers
// release them.
func (p *Pool) Reset() {
	clear(p.store)
	p.hits = 0
}
