// Package refs: проверки существования для ссылочных полей.
package refs

import (
	"context"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Lookup struct{}

func New() *Lookup { return &Lookup{} }

func (Lookup) SupplierExists(ctx context.Context, q db.Querier, id int64) (bool, error) {
	return exists(ctx, q, `SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = $1)`, id)
}

func (Lookup) WarehouseExists(ctx context.Context, q db.Querier, id int64) (bool, error) {
	return exists(ctx, q, `SELECT EXISTS(SELECT 1 FROM warehouses WHERE id = $1)`, id)
}

func (Lookup) UserExists(ctx context.Context, q db.Querier, id int64) (bool, error) {
	return exists(ctx, q, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
}

func exists(ctx context.Context, q db.Querier, sql string, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	var ok bool
	if err := q.QueryRow(ctx, sql, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
