package spotify

import (
	"context"
	"fmt"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// Per-request id limits of the Web API.
const (
	// LibraryChunkSize is the limit for saving or removing library tracks.
	LibraryChunkSize = 50

	// PlaylistChunkSize is the limit for adding playlist items.
	PlaylistChunkSize = 100
)

// Chunk splits items into consecutive slices of at most size elements,
// preserving order. A non-positive size yields a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// ApplyChunks issues one request per chunk of ids, sequentially, and returns
// how many ids were applied. The first failure stops the remaining chunks.
func (c *Client) ApplyChunks(ctx context.Context, ids []string, size int, build func([]string) Request) (int, error) {
	chunks := Chunk(ids, size)
	applied := 0
	for i, chunk := range chunks {
		if _, err := c.Do(ctx, build(chunk), domain.ErrBulkMutationHTTP); err != nil {
			return applied, fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		applied += len(chunk)
		logger.Debug("chunk applied", "chunk", i+1, "of", len(chunks), "ids", len(chunk))
	}
	return applied, nil
}
