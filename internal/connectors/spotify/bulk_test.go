package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("id%03d", i)
	}
	return out
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		items int
		size  int
		want  []int
	}{
		{name: "empty", items: 0, size: 100, want: nil},
		{name: "smaller than size", items: 30, size: 100, want: []int{30}},
		{name: "exact multiple", items: 200, size: 100, want: []int{100, 100}},
		{name: "remainder", items: 250, size: 100, want: []int{100, 100, 50}},
		{name: "library size", items: 101, size: 50, want: []int{50, 50, 1}},
		{name: "non-positive size", items: 7, size: 0, want: []int{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(ids(tt.items), tt.size)
			var sizes []int
			for _, c := range chunks {
				sizes = append(sizes, len(c))
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}

func TestChunk_PreservesOrder(t *testing.T) {
	input := ids(250)
	var flat []string
	for _, c := range Chunk(input, 100) {
		flat = append(flat, c...)
	}
	assert.Equal(t, input, flat)
}

func TestChunk_AppendDoesNotClobber(t *testing.T) {
	input := ids(4)
	chunks := Chunk(input, 2)
	_ = append(chunks[0], "extra")
	assert.Equal(t, "id002", chunks[1][0])
}

type bulkRecorder struct {
	mu     sync.Mutex
	bodies [][]string
	failAt int
}

func (b *bulkRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.bodies = append(b.bodies, body.IDs)
		call := len(b.bodies)
		b.mu.Unlock()
		if call == b.failAt {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"status":400,"message":"Invalid id"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestApplyChunks_SplitsInOrder(t *testing.T) {
	rec := &bulkRecorder{failAt: -1}
	client, server := newTestClient(t, rec.handler(t))
	input := ids(250)

	applied, err := client.ApplyChunks(context.Background(), input, 100, func(chunk []string) Request {
		return Request{Method: http.MethodPut, URL: server.URL + "/bulk", Body: map[string][]string{"ids": chunk}}
	})

	require.NoError(t, err)
	assert.Equal(t, 250, applied)
	require.Len(t, rec.bodies, 3)
	assert.Len(t, rec.bodies[0], 100)
	assert.Len(t, rec.bodies[1], 100)
	assert.Len(t, rec.bodies[2], 50)
	assert.Equal(t, input[:100], rec.bodies[0])
	assert.Equal(t, input[200:], rec.bodies[2])
}

func TestApplyChunks_StopsAtFirstFailure(t *testing.T) {
	rec := &bulkRecorder{failAt: 2}
	client, server := newTestClient(t, rec.handler(t))

	applied, err := client.ApplyChunks(context.Background(), ids(250), 100, func(chunk []string) Request {
		return Request{Method: http.MethodPut, URL: server.URL + "/bulk", Body: map[string][]string{"ids": chunk}}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBulkMutationHTTP)
	assert.Contains(t, err.Error(), "chunk 2 of 3")
	assert.Equal(t, 100, applied)
	assert.Len(t, rec.bodies, 2, "the third chunk must never be sent")
}

func TestApplyChunks_Empty(t *testing.T) {
	rec := &bulkRecorder{failAt: -1}
	client, server := newTestClient(t, rec.handler(t))

	applied, err := client.ApplyChunks(context.Background(), nil, 50, func(chunk []string) Request {
		return Request{Method: http.MethodPut, URL: server.URL + "/bulk", Body: chunk}
	})

	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.Empty(t, rec.bodies)
}
