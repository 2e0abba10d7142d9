// Package container reads and writes sequential graph containers.
//
// A container is zero or more records laid end to end. Each record is a
// MessagePack map from vertex label to an array of destination labels, so
// records are self-delimiting and a reader can decode them one at a time
// without loading the file. Containers whose name ends in ".zst" are
// zstd-compressed as a whole stream.
package container

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/DrSkyle/digraph/pkg/graph"
	"github.com/DrSkyle/digraph/pkg/sys/intern"
)

var (
	// ErrContainerNotFound is returned when the container does not exist
	// at open time.
	ErrContainerNotFound = errors.New("container not found")

	// ErrMalformedRecord is returned for any decode failure other than a
	// clean end of stream, truncated records included.
	ErrMalformedRecord = errors.New("malformed record")
)

const (
	// Extension is the suffix of uncompressed containers.
	Extension = ".msgpack"
	// CompressedSuffix marks zstd-compressed containers.
	CompressedSuffix = ".zst"
)

// IsCompressed reports whether the container at path is zstd-compressed.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}

// record is the wire form of one adjacency snapshot.
type record graph.Adjacency

var _ msgpack.CustomEncoder = record(nil)

// EncodeMsgpack writes keys in sorted order so equal graphs encode to
// equal bytes.
func (r record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if r == nil {
		return enc.EncodeNil()
	}
	if err := enc.EncodeMapLen(len(r)); err != nil {
		return err
	}

	keys := make([]graph.Vertex, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := enc.EncodeString(string(k)); err != nil {
			return err
		}
		dsts := r[k]
		if err := enc.EncodeArrayLen(len(dsts)); err != nil {
			return err
		}
		for _, d := range dsts {
			if err := enc.EncodeString(string(d)); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeRecord reads one record, resolving labels through pool so a label
// repeated within the record shares one string. A key repeated within the
// same record has its lists concatenated. A nil record decodes as an empty
// adjacency.
func decodeRecord(dec *msgpack.Decoder, pool *intern.Pool) (record, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return record{}, nil
	}

	out := make(record, n)
	for i := 0; i < n; i++ {
		raw, err := dec.DecodeBytes()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		key := graph.Vertex(pool.Bytes(raw))
		m, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, fmt.Errorf("destinations of %q: %w", key, err)
		}

		dsts := out[key]
		if dsts == nil {
			dsts = make([]graph.Vertex, 0, max(m, 0))
		}
		for j := 0; j < m; j++ {
			raw, err := dec.DecodeBytes()
			if err != nil {
				return nil, fmt.Errorf("destination %d of %q: %w", j, key, err)
			}
			dsts = append(dsts, graph.Vertex(pool.Bytes(raw)))
		}
		out[key] = dsts
	}
	return out, nil
}
