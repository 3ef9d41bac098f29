package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.Journal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.Journal.
// Progress is lost when the process exits.
type Journal struct {
	mu    sync.RWMutex
	units map[domain.Operation]map[string]struct{}
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{
		units: make(map[domain.Operation]map[string]struct{}),
	}
}

// Done reports whether the unit was recorded as finished.
func (j *Journal) Done(_ context.Context, op domain.Operation, key string) (bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, ok := j.units[op][key]
	return ok, nil
}

// Mark records the unit as finished.
func (j *Journal) Mark(_ context.Context, op domain.Operation, key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	units, ok := j.units[op]
	if !ok {
		units = make(map[string]struct{})
		j.units[op] = units
	}
	units[key] = struct{}{}
	return nil
}

// Reset forgets every unit recorded for the operation.
func (j *Journal) Reset(_ context.Context, op domain.Operation) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.units, op)
	return nil
}
