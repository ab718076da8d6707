package audittest

import (
	"context"
	"sync"

	"github.com/Spok95/warehouse-ops/internal/domain/audit"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

// Recorder запоминает записи журнала.
type Recorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *Recorder) Record(_ context.Context, _ db.Querier, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) Entries() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Entry(nil), r.entries...)
}
