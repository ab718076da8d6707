package warehouses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Repo struct{}

func NewRepo() *Repo { return &Repo{} }

const columns = `id, name, address, city, state, zip_code, country, phone, email, warehouse_type,
	status, total_capacity, available_capacity, capacity_utilization, manager_id,
	COALESCE(created_by,0), COALESCE(updated_by,0), created_at, updated_at`

func scan(row pgx.Row) (*Warehouse, error) {
	var w Warehouse
	if err := row.Scan(
		&w.ID, &w.Name, &w.Address, &w.City, &w.State, &w.ZipCode, &w.Country, &w.Phone, &w.Email,
		&w.Type, &w.Status, &w.TotalCapacity, &w.AvailableCapacity, &w.CapacityUtilization,
		&w.ManagerID, &w.CreatedBy, &w.UpdatedBy, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repo) EmailTaken(ctx context.Context, q db.Querier, email string, exceptID int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM warehouses WHERE email = $1 AND id <> $2)`,
		email, exceptID).Scan(&ok)
	return ok, err
}

func (r *Repo) Insert(ctx context.Context, q db.Querier, w *Warehouse) (*Warehouse, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO warehouses (
			name, address, city, state, zip_code, country, phone, email, warehouse_type, status,
			total_capacity, available_capacity, capacity_utilization, manager_id, created_by, updated_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)
		RETURNING `+columns,
		w.Name, w.Address, w.City, w.State, w.ZipCode, w.Country, w.Phone, w.Email,
		string(w.Type), string(w.Status), w.TotalCapacity, w.AvailableCapacity,
		w.CapacityUtilization, w.ManagerID, w.CreatedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

func (r *Repo) Update(ctx context.Context, q db.Querier, w *Warehouse) (*Warehouse, error) {
	row := q.QueryRow(ctx, `
		UPDATE warehouses
		SET name=$2, address=$3, city=$4, state=$5, zip_code=$6, country=$7, phone=$8, email=$9,
			warehouse_type=$10, status=$11, total_capacity=$12, available_capacity=$13,
			capacity_utilization=$14, manager_id=$15, updated_by=$16, updated_at=now()
		WHERE id=$1
		RETURNING `+columns,
		w.ID, w.Name, w.Address, w.City, w.State, w.ZipCode, w.Country, w.Phone, w.Email,
		string(w.Type), string(w.Status), w.TotalCapacity, w.AvailableCapacity,
		w.CapacityUtilization, w.ManagerID, w.UpdatedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

func (r *Repo) GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Warehouse, error) {
	sql := `SELECT ` + columns + ` FROM warehouses WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	w, err := scan(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

func (r *Repo) List(ctx context.Context, q db.Querier, f Filter) ([]Warehouse, error) {
	rows, err := q.Query(ctx, `
		SELECT `+columns+` FROM warehouses
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR warehouse_type = $2)
		ORDER BY name
	`, string(f.Status), string(f.Type))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		w, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *Repo) AppendSnapshot(ctx context.Context, q db.Querier, s CapacitySnapshot) error {
	_, err := q.Exec(ctx, `
		INSERT INTO warehouse_capacity_history
			(warehouse_id, total_capacity, available_capacity, capacity_utilization, recorded_by)
		VALUES ($1,$2,$3,$4,$5)
	`, s.WarehouseID, s.TotalCapacity, s.AvailableCapacity, s.CapacityUtilization, s.RecordedBy)
	return err
}

func (r *Repo) History(ctx context.Context, q db.Querier, warehouseID int64) ([]CapacitySnapshot, error) {
	rows, err := q.Query(ctx, `
		SELECT id, warehouse_id, total_capacity, available_capacity, capacity_utilization,
			COALESCE(recorded_by,0), recorded_at
		FROM warehouse_capacity_history
		WHERE warehouse_id = $1
		ORDER BY recorded_at, id
	`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CapacitySnapshot
	for rows.Next() {
		var s CapacitySnapshot
		if err := rows.Scan(&s.ID, &s.WarehouseID, &s.TotalCapacity, &s.AvailableCapacity,
			&s.CapacityUtilization, &s.RecordedBy, &s.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func mapErr(err error) error {
	if _, ok := db.UniqueViolation(err); ok {
		return apperr.Conflict("email", "Warehouse with this email already exists")
	}
	return err
}
