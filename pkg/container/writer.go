package container

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/DrSkyle/digraph/pkg/graph"
)

// Writer appends records to a container stream.
type Writer struct {
	bw      *bufio.Writer
	zw      *zstd.Encoder
	enc     *msgpack.Encoder
	records int
	closed  bool
}

// NewWriter writes records to w, compressing the stream when compress is
// set. Close flushes pending data but leaves w open.
func NewWriter(w io.Writer, compress bool) (*Writer, error) {
	out := &Writer{}
	dst := w
	if compress {
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		out.zw = zw
		dst = zw
	}
	out.bw = bufio.NewWriter(dst)
	out.enc = msgpack.NewEncoder(out.bw)
	return out, nil
}

// Append writes adj as the next record.
func (w *Writer) Append(adj graph.Adjacency) error {
	if w.closed {
		return fmt.Errorf("append to closed container writer")
	}
	if adj == nil {
		adj = graph.Adjacency{}
	}
	if err := w.enc.Encode(record(adj)); err != nil {
		return fmt.Errorf("encoding record %d: %w", w.records+1, err)
	}
	w.records++
	return nil
}

// Records is the number of records appended so far.
func (w *Writer) Records() int {
	return w.records
}

// Close flushes buffered records and finishes the compressed frame.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flushing container: %w", err)
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			return fmt.Errorf("finishing zstd stream: %w", err)
		}
	}
	return nil
}
