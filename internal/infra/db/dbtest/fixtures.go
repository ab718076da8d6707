package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

// Unique добавляет к prefix случайный хвост: тесты делят одну базу.
func Unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// User заводит пользователя для created_by и прочих ссылок.
func User(t *testing.T, q db.Querier) int64 {
	t.Helper()
	var id int64
	err := q.QueryRow(context.Background(), `
		INSERT INTO users (email, full_name, role) VALUES ($1, 'Test User', 'staff')
		RETURNING id
	`, Unique("user")+"@example.com").Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func Supplier(t *testing.T, q db.Querier, actor int64) int64 {
	t.Helper()
	var id int64
	name := Unique("supplier")
	err := q.QueryRow(context.Background(), `
		INSERT INTO suppliers (company_name, contact_person, email, phone, address, city, country, created_by, updated_by)
		VALUES ($1, 'Contact', $2, '+1 555 0100', '1 Main St', 'Springfield', 'US', $3, $3)
		RETURNING id
	`, name, name+"@example.com", actor).Scan(&id)
	if err != nil {
		t.Fatalf("insert supplier: %v", err)
	}
	return id
}

func Warehouse(t *testing.T, q db.Querier, actor int64) int64 {
	t.Helper()
	var id int64
	name := Unique("warehouse")
	err := q.QueryRow(context.Background(), `
		INSERT INTO warehouses (name, address, city, zip_code, country, phone, email,
			total_capacity, available_capacity, capacity_utilization, created_by, updated_by)
		VALUES ($1, '10 Dock Rd', 'Leeds', 'LS1', 'UK', '+44 113 000', $2, 1000, 500, 50, $3, $3)
		RETURNING id
	`, name, name+"@example.com", actor).Scan(&id)
	if err != nil {
		t.Fatalf("insert warehouse: %v", err)
	}
	return id
}
