package container

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/DrSkyle/digraph/pkg/graph"
	"github.com/DrSkyle/digraph/pkg/storage"
)

// snapshotLayout is the timestamp layout used in snapshot names.
const snapshotLayout = "20060102-150405"

// Options controls how a snapshot is written.
type Options struct {
	Compress bool
	// Now stamps the snapshot name. Defaults to time.Now.
	Now func() time.Time
}

// SnapshotName returns "graph_YYYYMMDD-HHMMSS.msgpack", with ".zst"
// appended when compressed.
func SnapshotName(t time.Time, compress bool) string {
	name := "graph_" + t.Format(snapshotLayout) + Extension
	if compress {
		name += CompressedSuffix
	}
	return name
}

// Serialize writes adj as a single-record container under dir and returns
// the key it was written to. A nil adjacency means no graph was built.
func Serialize(ctx context.Context, sink storage.Sink, dir string, adj graph.Adjacency, opts Options) (string, error) {
	if adj == nil {
		return "", fmt.Errorf("%w: you have to build a graph before serializing it", graph.ErrGraphNotBuilt)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	key := SnapshotName(now(), opts.Compress)
	if dir != "" {
		key = path.Join(dir, key)
	}
	if _, err := WriteChunks(ctx, sink, key, []graph.Adjacency{adj}); err != nil {
		return "", err
	}
	return key, nil
}

// WriteChunks writes each chunk as one record of the container at key and
// returns the number of records written. Compression follows the key's
// suffix. The container only becomes visible once every chunk is written;
// on any error nothing is committed.
func WriteChunks(ctx context.Context, sink storage.Sink, key string, chunks []graph.Adjacency) (n int, err error) {
	out, err := sink.Create(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("creating container %s: %w", key, err)
	}

	var w *Writer
	defer func() {
		if err != nil {
			if w != nil {
				w.Close()
			}
			out.Abort()
			n = 0
			return
		}
		if cerr := out.Close(); cerr != nil {
			n, err = 0, fmt.Errorf("closing container %s: %w", key, cerr)
		}
	}()

	if w, err = NewWriter(out, IsCompressed(key)); err != nil {
		return 0, err
	}
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := w.Append(c); err != nil {
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return w.Records(), nil
}

// Latest returns the newest snapshot among keys, judged by the timestamp
// in its name. Keys that are not snapshot names are ignored.
func Latest(keys []string) (string, bool) {
	var best, bestStamp string
	for _, k := range keys {
		name := path.Base(k)
		trimmed := strings.TrimSuffix(name, CompressedSuffix)
		if !strings.HasPrefix(trimmed, "graph_") || !strings.HasSuffix(trimmed, Extension) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(trimmed, "graph_"), Extension)
		if _, err := time.Parse(snapshotLayout, stamp); err != nil {
			continue
		}
		if best == "" || stamp > bestStamp {
			best, bestStamp = k, stamp
		}
	}
	return best, best != ""
}
