package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/domain/audit"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/metrics"
)

type Store interface {
	SKUTaken(ctx context.Context, q db.Querier, sku string, exceptID int64) (bool, error)
	Insert(ctx context.Context, q db.Querier, it *Item) (*Item, error)
	Update(ctx context.Context, q db.Querier, it *Item) (*Item, error)
	GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Item, error)
	List(ctx context.Context, q db.Querier, f Filter) ([]Item, error)
	LowStock(ctx context.Context, q db.Querier) ([]Item, error)
}

type Refs interface {
	SupplierExists(ctx context.Context, q db.Querier, id int64) (bool, error)
	WarehouseExists(ctx context.Context, q db.Querier, id int64) (bool, error)
}

// Alerter получает позиции, опустившиеся до минимального уровня.
// Вызывается после коммита; ошибки доставки: забота реализации.
type Alerter interface {
	StockAlert(ctx context.Context, it Item)
}

// Invalidator сбрасывает закэшированные сводки после записи.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db    db.DB
	store Store
	refs  Refs
	audit audit.Recorder
	log   *slog.Logger

	alerter      Alerter
	invalidator  Invalidator
	auditUpdates bool
}

func NewService(pool db.DB, store Store, refs Refs, rec audit.Recorder, log *slog.Logger) *Service {
	return &Service{db: pool, store: store, refs: refs, audit: rec, log: log}
}

func (s *Service) WithAlerter(a Alerter) *Service {
	s.alerter = a
	return s
}

// WithInvalidator вызывается после каждого успешного коммита, до уведомлений.
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidator = inv
	return s
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

// WithUpdateAudit включает запись журнала при обновлении позиции (по умолчанию выключена).
func (s *Service) WithUpdateAudit(on bool) *Service {
	s.auditUpdates = on
	return s
}

func (s *Service) Add(ctx context.Context, in NewItem, actor int64) (out *Item, err error) {
	defer func(start time.Time) { metrics.Observe("inventory", "add", start, err) }(time.Now())

	if err := ValidateNew(in); err != nil {
		return nil, err
	}
	it := in.item(actor)

	err = s.db.InTx(ctx, func(q db.Querier) error {
		taken, err := s.store.SKUTaken(ctx, q, it.SKU, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("sku", "SKU already exists. Please use a unique SKU.")
		}
		if err := s.checkRefs(ctx, q, it.SupplierID, it.WarehouseID); err != nil {
			return err
		}

		created, err := s.store.Insert(ctx, q, it)
		if err != nil {
			return err
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:      actor,
			Action:      audit.ActionCreate,
			EntityType:  audit.EntityInventory,
			EntityID:    created.ID,
			Description: fmt.Sprintf("Added new inventory item: %s (SKU: %s)", created.ProductName, created.SKU),
		})
		out = created
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "add inventory item")
	}
	s.log.Info("inventory item added", "item_id", out.ID, "sku", out.SKU, "available", out.QuantityAvailable)
	s.invalidate(ctx)
	s.alert(ctx, out)
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, p Patch, actor int64) (out *Item, err error) {
	defer func(start time.Time) { metrics.Observe("inventory", "update", start, err) }(time.Now())

	if err := ValidatePatch(p); err != nil {
		return nil, err
	}

	err = s.db.InTx(ctx, func(q db.Querier) error {
		cur, err := s.store.GetByID(ctx, q, id, true)
		if err != nil {
			return err
		}
		if cur == nil {
			return apperr.NotFound("Inventory item", "id")
		}
		p.apply(cur, actor)

		taken, err := s.store.SKUTaken(ctx, q, cur.SKU, id)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("sku", "SKU already exists. Please use a unique SKU.")
		}
		if err := s.checkRefs(ctx, q, cur.SupplierID, cur.WarehouseID); err != nil {
			return err
		}

		updated, err := s.store.Update(ctx, q, cur)
		if err != nil {
			return err
		}
		if s.auditUpdates {
			s.audit.Record(ctx, q, audit.Entry{
				UserID:      actor,
				Action:      audit.ActionUpdate,
				EntityType:  audit.EntityInventory,
				EntityID:    updated.ID,
				Description: fmt.Sprintf("Updated inventory item: %s (SKU: %s)", updated.ProductName, updated.SKU),
			})
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update inventory item")
	}
	s.invalidate(ctx)
	s.alert(ctx, out)
	return out, nil
}

func (s *Service) checkRefs(ctx context.Context, q db.Querier, supplierID, warehouseID int64) error {
	ok, err := s.refs.SupplierExists(ctx, q, supplierID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Supplier", "supplier_id")
	}
	ok, err = s.refs.WarehouseExists(ctx, q, warehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Warehouse", "warehouse_id")
	}
	return nil
}

func (s *Service) alert(ctx context.Context, it *Item) {
	if s.alerter == nil || it.StockLevel == InStock || it.Status != StatusActive {
		return
	}
	s.alerter.StockAlert(ctx, *it)
}

func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	it, err := s.store.GetByID(ctx, s.db, id, false)
	if err != nil {
		return nil, apperr.Wrap(err, "get inventory item")
	}
	if it == nil {
		return nil, apperr.NotFound("Inventory item", "id")
	}
	return it, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Item, error) {
	out, err := s.store.List(ctx, s.db, f)
	return out, apperr.Wrap(err, "list inventory")
}

func (s *Service) LowStock(ctx context.Context) ([]Item, error) {
	out, err := s.store.LowStock(ctx, s.db)
	return out, apperr.Wrap(err, "list low stock")
}
