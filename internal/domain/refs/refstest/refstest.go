// Package refstest: in-memory справочник для тестов сервисов.
package refstest

import (
	"context"
	"sync"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Fake struct {
	mu         sync.Mutex
	suppliers  map[int64]bool
	warehouses map[int64]bool
	users      map[int64]bool
}

func New() *Fake {
	return &Fake{
		suppliers:  map[int64]bool{},
		warehouses: map[int64]bool{},
		users:      map[int64]bool{},
	}
}

func (f *Fake) AddSupplier(ids ...int64) *Fake  { return f.add(f.suppliers, ids) }
func (f *Fake) AddWarehouse(ids ...int64) *Fake { return f.add(f.warehouses, ids) }
func (f *Fake) AddUser(ids ...int64) *Fake      { return f.add(f.users, ids) }

func (f *Fake) add(m map[int64]bool, ids []int64) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		m[id] = true
	}
	return f
}

func (f *Fake) SupplierExists(_ context.Context, _ db.Querier, id int64) (bool, error) {
	return f.has(f.suppliers, id), nil
}

func (f *Fake) WarehouseExists(_ context.Context, _ db.Querier, id int64) (bool, error) {
	return f.has(f.warehouses, id), nil
}

func (f *Fake) UserExists(_ context.Context, _ db.Querier, id int64) (bool, error) {
	return f.has(f.users, id), nil
}

func (f *Fake) has(m map[int64]bool, id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[id]
}
