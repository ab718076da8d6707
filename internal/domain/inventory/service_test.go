package inventory

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/domain/audit"
	"github.com/Spok95/warehouse-ops/internal/domain/audit/audittest"
	"github.com/Spok95/warehouse-ops/internal/domain/refs/refstest"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/db/dbtest"
)

// memStore ведёт себя как таблица: quantity_available считает «база».
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Item
}

func newMemStore() *memStore { return &memStore{rows: map[int64]Item{}} }

func (m *memStore) SKUTaken(_ context.Context, _ db.Querier, sku string, exceptID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, it := range m.rows {
		if id != exceptID && it.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) save(it Item) *Item {
	it.QuantityAvailable = it.QuantityOnHand - it.QuantityReserved
	it.StockLevel = Classify(it.QuantityAvailable, it.MinimumStockLevel)
	it.UpdatedAt = time.Now()
	m.rows[it.ID] = it
	return &it
}

func (m *memStore) Insert(_ context.Context, _ db.Querier, it *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	row := *it
	row.ID = m.nextID
	row.CreatedAt = time.Now()
	return m.save(row), nil
}

func (m *memStore) Update(_ context.Context, _ db.Querier, it *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(*it), nil
}

func (m *memStore) GetByID(_ context.Context, _ db.Querier, id int64, _ bool) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (m *memStore) List(_ context.Context, _ db.Querier, f Filter) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Item
	for _, it := range m.rows {
		if f.WarehouseID > 0 && it.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Level != "" && it.StockLevel != f.Level {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (m *memStore) LowStock(_ context.Context, _ db.Querier) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Item
	for _, it := range m.rows {
		if it.QuantityAvailable <= it.MinimumStockLevel {
			out = append(out, it)
		}
	}
	return out, nil
}

type alerts struct {
	mu    sync.Mutex
	items []Item
}

func (a *alerts) StockAlert(_ context.Context, it Item) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, it)
}

type fixture struct {
	svc    *Service
	store  *memStore
	db     *dbtest.Fake
	audit  *audittest.Recorder
	alerts *alerts
}

func newFixture() *fixture {
	f := &fixture{
		store:  newMemStore(),
		db:     &dbtest.Fake{},
		audit:  &audittest.Recorder{},
		alerts: &alerts{},
	}
	refs := refstest.New().AddSupplier(7).AddWarehouse(3, 4)
	f.svc = NewService(f.db, f.store, refs, f.audit, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithAlerter(f.alerts)
	return f
}

func ptr[T any](v T) *T { return &v }

func money(s string) *decimal.Decimal { return ptr(decimal.RequireFromString(s)) }

func widget() NewItem {
	return NewItem{
		SKU:              "SKU-1",
		ProductName:      "Widget",
		Category:         "Tools",
		SupplierID:       ptr(int64(7)),
		WarehouseID:      ptr(int64(3)),
		QuantityOnHand:   ptr(int64(100)),
		QuantityReserved: 20,
		UnitPrice:        money("9.99"),
		CostPrice:        money("4.50"),
	}
}

func TestAddWidget(t *testing.T) {
	f := newFixture()

	got, err := f.svc.Add(context.Background(), widget(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(80), got.QuantityAvailable)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, InStock, got.StockLevel)
	assert.Equal(t, "9.99", got.UnitPrice.String())
	assert.Equal(t, int64(1), got.CreatedBy)
	assert.Equal(t, 1, f.db.Commits)
	assert.Empty(t, f.alerts.items)

	entries := f.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.EntityInventory, entries[0].EntityType)
	assert.Equal(t, "Added new inventory item: Widget (SKU: SKU-1)", entries[0].Description)
}

func TestAddZeroQuantityAllowed(t *testing.T) {
	f := newFixture()
	in := widget()
	in.QuantityOnHand = ptr(int64(0))
	in.QuantityReserved = 0

	got, err := f.svc.Add(context.Background(), in, 1)
	require.NoError(t, err)
	assert.Equal(t, OutOfStock, got.StockLevel)
	require.Len(t, f.alerts.items, 1)
	assert.Equal(t, "SKU-1", f.alerts.items[0].SKU)
}

func TestAddDuplicateSKU(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Add(ctx, widget(), 1)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, widget(), 1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Len(t, f.store.rows, 1)
	assert.Equal(t, 1, f.db.Rollbacks)
}

func TestAddErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*NewItem)
		wantKind  apperr.Kind
		wantField string
	}{
		{"missing sku", func(in *NewItem) { in.SKU = "" }, apperr.KindBadRequest, "sku"},
		{"missing category", func(in *NewItem) { in.Category = " " }, apperr.KindBadRequest, "category"},
		{"missing quantity", func(in *NewItem) { in.QuantityOnHand = nil }, apperr.KindBadRequest, "quantity_on_hand"},
		{"missing unit price", func(in *NewItem) { in.UnitPrice = nil }, apperr.KindBadRequest, "unit_price"},
		{"negative reserved", func(in *NewItem) { in.QuantityReserved = -1 }, apperr.KindBadRequest, "quantity_reserved"},
		{"negative cost", func(in *NewItem) { in.CostPrice = money("-1") }, apperr.KindBadRequest, "cost_price"},
		{"bad status", func(in *NewItem) { in.Status = "sold" }, apperr.KindBadRequest, "status"},
		{"unknown supplier", func(in *NewItem) { in.SupplierID = ptr(int64(99)) }, apperr.KindNotFound, "supplier_id"},
		{"unknown warehouse", func(in *NewItem) { in.WarehouseID = ptr(int64(99)) }, apperr.KindNotFound, "warehouse_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := widget()
			tt.mutate(&in)

			_, err := f.svc.Add(context.Background(), in, 1)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.Equal(t, tt.wantField, apperr.FieldOf(err))
			assert.Empty(t, f.store.rows)
			assert.Empty(t, f.audit.Entries())
		})
	}
}

func decodePatch(t *testing.T, body string) Patch {
	t.Helper()
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestUpdateLenientNumbers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Add(ctx, widget(), 1)
	require.NoError(t, err)

	p := decodePatch(t, `{
		"product_name": "Widget XL",
		"category": "Tools",
		"supplier_id": "7",
		"warehouse_id": 4,
		"quantity_on_hand": "50",
		"quantity_reserved": "lots",
		"unit_price": "12.50",
		"cost_price": "n/a",
		"minimum_stock_level": 60
	}`)
	got, err := f.svc.Update(ctx, created.ID, p, 2)
	require.NoError(t, err)

	assert.Equal(t, "SKU-1", got.SKU)
	assert.Equal(t, int64(4), got.WarehouseID)
	assert.Equal(t, int64(50), got.QuantityOnHand)
	assert.Equal(t, int64(0), got.QuantityReserved)
	assert.Equal(t, int64(50), got.QuantityAvailable)
	assert.True(t, got.CostPrice.IsZero())
	assert.Equal(t, "12.5", got.UnitPrice.String())
	assert.Equal(t, LowStock, got.StockLevel)
	assert.Equal(t, int64(2), got.UpdatedBy)
	assert.Equal(t, StatusActive, got.Status)

	// журнал обновлений по умолчанию выключен
	assert.Len(t, f.audit.Entries(), 1)
	require.Len(t, f.alerts.items, 1)
}

func TestUpdateAuditEnabled(t *testing.T) {
	f := newFixture()
	f.svc.WithUpdateAudit(true)
	ctx := context.Background()
	created, err := f.svc.Add(ctx, widget(), 1)
	require.NoError(t, err)

	p := decodePatch(t, `{"product_name":"Widget","category":"Tools","supplier_id":7,"warehouse_id":3,"quantity_on_hand":5}`)
	_, err = f.svc.Update(ctx, created.ID, p, 1)
	require.NoError(t, err)

	entries := f.audit.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionUpdate, entries[1].Action)
}

func TestUpdateErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first, err := f.svc.Add(ctx, widget(), 1)
	require.NoError(t, err)
	second := widget()
	second.SKU = "SKU-2"
	_, err = f.svc.Add(ctx, second, 1)
	require.NoError(t, err)

	base := `"product_name":"Widget","category":"Tools","supplier_id":7,"warehouse_id":3,"quantity_on_hand":1`

	_, err = f.svc.Update(ctx, 404, decodePatch(t, `{`+base+`}`), 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Update(ctx, first.ID, decodePatch(t, `{"sku":"SKU-2",`+base+`}`), 1)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.svc.Update(ctx, first.ID, decodePatch(t, `{"sku":"SKU-1",`+base+`}`), 1)
	assert.NoError(t, err)

	_, err = f.svc.Update(ctx, first.ID, decodePatch(t, `{"product_name":"Widget","category":"Tools","warehouse_id":3}`), 1)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Equal(t, "supplier_id", apperr.FieldOf(err))

	_, err = f.svc.Update(ctx, first.ID, decodePatch(t, `{"product_name":"Widget","category":"Tools","supplier_id":8,"warehouse_id":3}`), 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	stored, err := f.svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.QuantityAvailable)
}

func TestListAndLowStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Add(ctx, widget(), 1)
	require.NoError(t, err)

	scarce := widget()
	scarce.SKU = "SKU-2"
	scarce.MinimumStockLevel = 100
	_, err = f.svc.Add(ctx, scarce, 1)
	require.NoError(t, err)

	low, err := f.svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "SKU-2", low[0].SKU)

	in, err := f.svc.List(ctx, Filter{Level: InStock})
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, "SKU-1", in[0].SKU)

	_, err = f.svc.Get(ctx, 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

type invalidations struct{ n int }

func (i *invalidations) Invalidate(context.Context) { i.n++ }

func TestInvalidatesOnlyAfterCommit(t *testing.T) {
	f := newFixture()
	inv := &invalidations{}
	f.svc.WithInvalidator(inv)
	ctx := context.Background()

	created, err := f.svc.Add(ctx, widget(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.n)

	_, err = f.svc.Add(ctx, widget(), 1)
	require.Error(t, err)
	assert.Equal(t, 1, inv.n)

	p := decodePatch(t, `{"product_name":"Widget","category":"Tools","supplier_id":7,"warehouse_id":3,"quantity_on_hand":0}`)
	_, err = f.svc.Update(ctx, created.ID, p, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.n)
	require.Len(t, f.alerts.items, 1)
}
