package container

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/DrSkyle/digraph/pkg/graph"
	"github.com/DrSkyle/digraph/pkg/storage"
	"github.com/DrSkyle/digraph/pkg/sys/intern"
)

// Reader yields the records of one container in order. It is forward-only
// and single-pass; reopen the container to read it again.
type Reader struct {
	path   string
	body   io.Closer
	zr     *zstd.Decoder
	br     *bufio.Reader
	dec    *msgpack.Decoder
	labels *intern.Pool
	shared int
	index  int
	closed bool
}

// Open opens the container at path. A missing container yields
// ErrContainerNotFound before anything is read.
func Open(ctx context.Context, src storage.Source, path string) (*Reader, error) {
	body, err := src.Open(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrContainerNotFound, err)
		}
		return nil, fmt.Errorf("opening container %s: %w", path, err)
	}

	r, err := NewReader(body, path)
	if err != nil {
		body.Close()
		return nil, err
	}
	return r, nil
}

// NewReader reads records from body. Compression is chosen by the name;
// closing the Reader closes body.
func NewReader(body io.ReadCloser, name string) (*Reader, error) {
	r := &Reader{path: name, body: body, labels: intern.New(64)}

	var src io.Reader = body
	if IsCompressed(name) {
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		r.zr = zr
		src = zr
	}

	// The decoder reads through br, so a Peek on br sees exactly what the
	// decoder will consume next.
	r.br = bufio.NewReader(src)
	r.dec = msgpack.NewDecoder(r.br)
	return r, nil
}

// Next decodes the next record. It returns io.EOF, unwrapped, once the
// stream ends cleanly; the underlying handle is released at that point.
// Any other failure is wrapped in ErrMalformedRecord and also releases
// the handle.
func (r *Reader) Next() (graph.Adjacency, error) {
	if r.closed {
		return nil, io.EOF
	}

	if _, err := r.br.Peek(1); err != nil {
		r.Close()
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, r.malformed(err)
	}

	// Labels are shared within a record only, so memory stays bounded by
	// the largest record.
	defer func() {
		r.shared += r.labels.Hits()
		r.labels.Reset()
	}()
	rec, err := decodeRecord(r.dec, r.labels)
	if err != nil {
		r.Close()
		return nil, r.malformed(err)
	}
	r.index++
	return graph.Adjacency(rec), nil
}

// Chunks ranges over the remaining records. Iteration stops after the
// first error, which is yielded; the handle is released however the loop
// ends, early break included.
func (r *Reader) Chunks() iter.Seq2[graph.Adjacency, error] {
	return func(yield func(graph.Adjacency, error) bool) {
		defer r.Close()
		for {
			adj, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(adj, err) || err != nil {
				return
			}
		}
	}
}

// Records is the number of records decoded so far.
func (r *Reader) Records() int {
	return r.index
}

// SharedLabels is how many decoded labels reused a string already seen in
// the same record, summed over the records read so far.
func (r *Reader) SharedLabels() int {
	return r.shared
}

// Close releases the underlying handle. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.zr != nil {
		r.zr.Close()
	}
	return r.body.Close()
}

// The decode error is formatted, not wrapped: a truncated record often
// surfaces as io.EOF and must never be mistaken for a clean end.
func (r *Reader) malformed(err error) error {
	return fmt.Errorf("%w: %s: record %d: %v", ErrMalformedRecord, r.path, r.index+1, err)
}

// ReadSnapshot returns the first record of the container at path. It is
// the single-shot path used when one file holds a whole graph; an empty
// container is malformed here.
func ReadSnapshot(ctx context.Context, src storage.Source, path string) (graph.Adjacency, error) {
	r, err := Open(ctx, src, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	adj, err := r.Next()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: container holds no record", ErrMalformedRecord, path)
	}
	return adj, err
}
