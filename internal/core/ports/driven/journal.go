package driven

import (
	"context"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// Journal records which units of a forced run have finished, so that a
// failed run can be resumed without repeating non-idempotent writes.
// Keys are opaque unit names such as "saved_tracks" or "playlist:<id>".
type Journal interface {
	// Done reports whether the unit was recorded as finished.
	Done(ctx context.Context, op domain.Operation, key string) (bool, error)

	// Mark records the unit as finished.
	Mark(ctx context.Context, op domain.Operation, key string) error

	// Reset forgets every unit recorded for the operation.
	Reset(ctx context.Context, op domain.Operation) error
}
