package orders

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

const columns = `id, order_number, order_type, customer_name, customer_email, customer_phone,
	customer_address, supplier_id, warehouse_id, order_date, expected_delivery_date, priority,
	status, total_amount, tax_amount, shipping_amount, discount_amount, net_amount,
	payment_status, payment_method, shipping_method, tracking_number, notes,
	COALESCE(created_by,0), COALESCE(updated_by,0), assigned_to, approved_by, created_at, updated_at`

func scan(row pgx.Row) (*Order, error) {
	var (
		o                               Order
		typ                             Type
		cName, cEmail, cPhone, cAddress *string
		supplierID                      *int64
		expected                        *time.Time
	)
	if err := row.Scan(
		&o.ID, &o.Number, &typ, &cName, &cEmail, &cPhone, &cAddress, &supplierID,
		&o.WarehouseID, &o.OrderDate, &expected, &o.Priority, &o.Status, &o.TotalAmount,
		&o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount, &o.NetAmount, &o.PaymentStatus,
		&o.PaymentMethod, &o.ShippingMethod, &o.TrackingNumber, &o.Notes, &o.CreatedBy,
		&o.UpdatedBy, &o.AssignedTo, &o.ApprovedBy, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if expected != nil {
		d := civil.DateOf(*expected)
		o.ExpectedDeliveryDate = &d
	}

	switch typ {
	case TypeInbound:
		o.Party = Inbound{SupplierID: deref(supplierID)}
	case TypeOutbound:
		o.Party = Outbound{Customer: Customer{
			Name: str(cName), Email: str(cEmail), Phone: str(cPhone), Address: str(cAddress),
		}}
	default:
		o.Party = Transfer{}
	}
	return &o, nil
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// partyArgs раскладывает сторону заказа по колонкам; неактивная ветка: NULL.
func partyArgs(o *Order) (name, email, phone, address *string, supplierID *int64) {
	if c := o.Customer(); c != nil {
		return &c.Name, &c.Email, &c.Phone, &c.Address, nil
	}
	return nil, nil, nil, nil, o.SupplierID()
}

// Insert: order_date и net_amount проставляет база.
func (r *Repo) Insert(ctx context.Context, q db.Querier, o *Order) (*Order, error) {
	name, email, phone, address, supplierID := partyArgs(o)
	row := q.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, order_type, customer_name, customer_email, customer_phone,
			customer_address, supplier_id, warehouse_id, expected_delivery_date, priority, status,
			total_amount, tax_amount, shipping_amount, discount_amount, payment_status,
			payment_method, shipping_method, tracking_number, notes, created_by, updated_by,
			assigned_to, approved_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$21,$22,$23)
		RETURNING `+columns,
		o.Number, string(o.Type()), name, email, phone, address, supplierID, o.WarehouseID,
		civil.Ptr(o.ExpectedDeliveryDate), string(o.Priority), string(o.Status), o.TotalAmount,
		o.TaxAmount, o.ShippingAmount, o.DiscountAmount, string(o.PaymentStatus),
		o.PaymentMethod, o.ShippingMethod, o.TrackingNumber, o.Notes, o.CreatedBy,
		o.AssignedTo, o.ApprovedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

// Update не трогает order_number и order_date.
func (r *Repo) Update(ctx context.Context, q db.Querier, o *Order) (*Order, error) {
	name, email, phone, address, supplierID := partyArgs(o)
	row := q.QueryRow(ctx, `
		UPDATE orders
		SET order_type=$2, customer_name=$3, customer_email=$4, customer_phone=$5,
			customer_address=$6, supplier_id=$7, warehouse_id=$8, expected_delivery_date=$9,
			priority=$10, status=$11, total_amount=$12, tax_amount=$13, shipping_amount=$14,
			discount_amount=$15, payment_status=$16, payment_method=$17, shipping_method=$18,
			tracking_number=$19, notes=$20, assigned_to=$21, approved_by=$22, updated_by=$23,
			updated_at=now()
		WHERE id=$1
		RETURNING `+columns,
		o.ID, string(o.Type()), name, email, phone, address, supplierID, o.WarehouseID,
		civil.Ptr(o.ExpectedDeliveryDate), string(o.Priority), string(o.Status), o.TotalAmount,
		o.TaxAmount, o.ShippingAmount, o.DiscountAmount, string(o.PaymentStatus),
		o.PaymentMethod, o.ShippingMethod, o.TrackingNumber, o.Notes, o.AssignedTo,
		o.ApprovedBy, o.UpdatedBy,
	)
	return scan(row)
}

func (r *Repo) GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Order, error) {
	sql := `SELECT ` + columns + ` FROM orders WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	o, err := scan(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *Repo) List(ctx context.Context, q db.Querier, f Filter) ([]Order, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add(`order_type = $%d`, string(f.Type))
	}
	if f.Status != "" {
		add(`status = $%d`, string(f.Status))
	}
	if f.WarehouseID > 0 {
		add(`warehouse_id = $%d`, f.WarehouseID)
	}

	sql := `SELECT ` + columns + ` FROM orders`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, ` AND `)
	}
	sql += ` ORDER BY order_date DESC, id DESC`

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *Repo) AppendStatus(ctx context.Context, q db.Querier, c StatusChange) error {
	_, err := q.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, changed_by)
		VALUES ($1,$2,$3)
	`, c.OrderID, string(c.Status), c.ChangedBy)
	return err
}

func (r *Repo) History(ctx context.Context, q db.Querier, orderID int64) ([]StatusChange, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, status, COALESCE(changed_by,0), changed_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at, id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusChange
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Status, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func mapErr(err error) error {
	if _, ok := db.UniqueViolation(err); ok {
		return apperr.Conflict("order_number", "Order number already exists")
	}
	return err
}
