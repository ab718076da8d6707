package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/civil"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Repo struct{}

func NewRepo() *Repo { return &Repo{} }

const columns = `id, sku, product_name, description, category, brand, supplier_id, warehouse_id,
	location, quantity_on_hand, quantity_reserved, quantity_available, unit_price, cost_price,
	minimum_stock_level, maximum_stock_level, reorder_point, reorder_quantity, unit_of_measure,
	expiry_date, batch_number, barcode, weight, dimensions, status, last_counted_date,
	COALESCE(created_by,0), COALESCE(updated_by,0), created_at, updated_at`

func scan(row pgx.Row) (*Item, error) {
	var (
		it     Item
		expiry *time.Time
	)
	if err := row.Scan(
		&it.ID, &it.SKU, &it.ProductName, &it.Description, &it.Category, &it.Brand,
		&it.SupplierID, &it.WarehouseID, &it.Location, &it.QuantityOnHand, &it.QuantityReserved,
		&it.QuantityAvailable, &it.UnitPrice, &it.CostPrice, &it.MinimumStockLevel,
		&it.MaximumStockLevel, &it.ReorderPoint, &it.ReorderQuantity, &it.UnitOfMeasure,
		&expiry, &it.BatchNumber, &it.Barcode, &it.Weight, &it.Dimensions, &it.Status,
		&it.LastCountedDate, &it.CreatedBy, &it.UpdatedBy, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if expiry != nil {
		d := civil.DateOf(*expiry)
		it.ExpiryDate = &d
	}
	it.StockLevel = Classify(it.QuantityAvailable, it.MinimumStockLevel)
	return &it, nil
}

func (r *Repo) SKUTaken(ctx context.Context, q db.Querier, sku string, exceptID int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM inventory WHERE sku = $1 AND id <> $2)`,
		sku, exceptID).Scan(&ok)
	return ok, err
}

// Insert не передаёт quantity_available: колонка вычисляется базой.
func (r *Repo) Insert(ctx context.Context, q db.Querier, it *Item) (*Item, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO inventory (
			sku, product_name, description, category, brand, supplier_id, warehouse_id, location,
			quantity_on_hand, quantity_reserved, unit_price, cost_price, minimum_stock_level,
			maximum_stock_level, reorder_point, reorder_quantity, unit_of_measure, expiry_date,
			batch_number, barcode, weight, dimensions, status, created_by, updated_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$24)
		RETURNING `+columns,
		it.SKU, it.ProductName, it.Description, it.Category, it.Brand, it.SupplierID, it.WarehouseID,
		it.Location, it.QuantityOnHand, it.QuantityReserved, it.UnitPrice, it.CostPrice,
		it.MinimumStockLevel, it.MaximumStockLevel, it.ReorderPoint, it.ReorderQuantity,
		it.UnitOfMeasure, civil.Ptr(it.ExpiryDate), it.BatchNumber, it.Barcode, it.Weight,
		it.Dimensions, string(it.Status), it.CreatedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

func (r *Repo) Update(ctx context.Context, q db.Querier, it *Item) (*Item, error) {
	row := q.QueryRow(ctx, `
		UPDATE inventory
		SET sku=$2, product_name=$3, description=$4, category=$5, brand=$6, supplier_id=$7,
			warehouse_id=$8, location=$9, quantity_on_hand=$10, quantity_reserved=$11,
			unit_price=$12, cost_price=$13, minimum_stock_level=$14, maximum_stock_level=$15,
			reorder_point=$16, reorder_quantity=$17, unit_of_measure=$18, expiry_date=$19,
			batch_number=$20, barcode=$21, weight=$22, dimensions=$23, status=$24,
			updated_by=$25, updated_at=now()
		WHERE id=$1
		RETURNING `+columns,
		it.ID, it.SKU, it.ProductName, it.Description, it.Category, it.Brand, it.SupplierID,
		it.WarehouseID, it.Location, it.QuantityOnHand, it.QuantityReserved, it.UnitPrice,
		it.CostPrice, it.MinimumStockLevel, it.MaximumStockLevel, it.ReorderPoint,
		it.ReorderQuantity, it.UnitOfMeasure, civil.Ptr(it.ExpiryDate), it.BatchNumber,
		it.Barcode, it.Weight, it.Dimensions, string(it.Status), it.UpdatedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

func (r *Repo) GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Item, error) {
	sql := `SELECT ` + columns + ` FROM inventory WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	it, err := scan(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return it, err
}

var levelClause = map[StockLevel]string{
	OutOfStock: `quantity_available <= 0`,
	LowStock:   `quantity_available > 0 AND quantity_available <= minimum_stock_level`,
	InStock:    `quantity_available > 0 AND quantity_available > minimum_stock_level`,
}

func (r *Repo) List(ctx context.Context, q db.Querier, f Filter) ([]Item, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.WarehouseID > 0 {
		add(`warehouse_id = $%d`, f.WarehouseID)
	}
	if f.Status != "" {
		add(`status = $%d`, string(f.Status))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add(`(sku ILIKE $%[1]d OR product_name ILIKE $%[1]d)`, "%"+s+"%")
	}
	if c, ok := levelClause[f.Level]; ok {
		where = append(where, c)
	}

	sql := `SELECT ` + columns + ` FROM inventory`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, ` AND `)
	}
	sql += ` ORDER BY product_name, id`
	return r.list(ctx, q, sql, args...)
}

// LowStock: позиции на минимальном уровне или ниже, включая нулевые.
func (r *Repo) LowStock(ctx context.Context, q db.Querier) ([]Item, error) {
	return r.list(ctx, q, `
		SELECT `+columns+` FROM inventory
		WHERE quantity_available <= minimum_stock_level
		ORDER BY quantity_available, product_name`)
}

func (r *Repo) list(ctx context.Context, q db.Querier, sql string, args ...any) ([]Item, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func mapErr(err error) error {
	if _, ok := db.UniqueViolation(err); ok {
		return apperr.Conflict("sku", "SKU already exists. Please use a unique SKU.")
	}
	return err
}
