package orders

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
	Insert(ctx context.Context, q db.Querier, o *Order) (*Order, error)
	Update(ctx context.Context, q db.Querier, o *Order) (*Order, error)
	GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Order, error)
	List(ctx context.Context, q db.Querier, f Filter) ([]Order, error)
	AppendStatus(ctx context.Context, q db.Querier, c StatusChange) error
	History(ctx context.Context, q db.Querier, orderID int64) ([]StatusChange, error)
}

// Numbers: источник номеров заказов внутри транзакции заказа.
type Numbers interface {
	Next(ctx context.Context, q db.Querier, year int) (int64, error)
}

type Refs interface {
	SupplierExists(ctx context.Context, q db.Querier, id int64) (bool, error)
	WarehouseExists(ctx context.Context, q db.Querier, id int64) (bool, error)
	UserExists(ctx context.Context, q db.Querier, id int64) (bool, error)
}

// Invalidator сбрасывает закэшированные сводки после записи.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db          db.DB
	store       Store
	numbers     Numbers
	refs        Refs
	audit       audit.Recorder
	invalidator Invalidator
	log         *slog.Logger
	now         func() time.Time
}

func NewService(pool db.DB, store Store, numbers Numbers, refs Refs, rec audit.Recorder, log *slog.Logger) *Service {
	return &Service{
		db:      pool,
		store:   store,
		numbers: numbers,
		refs:    refs,
		audit:   rec,
		log:     log,
		now:     time.Now,
	}
}

// WithClock подменяет часы, по которым выбирается год номера.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithInvalidator вызывается после каждого успешного коммита.
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidator = inv
	return s
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

func (s *Service) Add(ctx context.Context, in Input, actor int64) (out *Order, err error) {
	defer func(start time.Time) { metrics.Observe("order", "add", start, err) }(time.Now())

	in = in.normalized().withDefaults()
	if err := addRules.Validate(in); err != nil {
		return nil, err
	}

	o := &Order{CreatedBy: actor, UpdatedBy: actor}
	in.apply(o)

	err = s.db.InTx(ctx, func(q db.Querier) error {
		if err := s.checkRefs(ctx, q, o, in.SupplierID); err != nil {
			return err
		}

		year := s.now().Year()
		n, err := s.numbers.Next(ctx, q, year)
		if err != nil {
			return err
		}
		o.Number = FormatNumber(year, n)

		created, err := s.store.Insert(ctx, q, o)
		if err != nil {
			return err
		}
		if err := s.store.AppendStatus(ctx, q, StatusChange{
			OrderID: created.ID, Status: created.Status, ChangedBy: actor,
		}); err != nil {
			return err
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:     actor,
			Action:     audit.ActionCreate,
			EntityType: audit.EntityOrder,
			EntityID:   created.ID,
			Description: fmt.Sprintf("Created new %s order: %s (Total: $%s)",
				created.Type(), created.Number, created.TotalAmount.StringFixed(2)),
		})
		out = created
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "add order")
	}
	metrics.OrderNumbers.Inc()
	s.invalidate(ctx)
	s.log.Info("order created", "order_id", out.ID, "order_number", out.Number, "type", out.Type())
	return out, nil
}

// Update заменяет поля заказа. Присланный status всегда добавляет строку
// в историю, даже если не изменился.
func (s *Service) Update(ctx context.Context, id int64, in Input, actor int64) (out *Order, err error) {
	defer func(start time.Time) { metrics.Observe("order", "update", start, err) }(time.Now())

	in = in.normalized()
	if err := updateRules.Validate(in); err != nil {
		return nil, err
	}

	err = s.db.InTx(ctx, func(q db.Querier) error {
		cur, err := s.store.GetByID(ctx, q, id, true)
		if err != nil {
			return err
		}
		if cur == nil {
			return apperr.NotFound("Order", "id")
		}

		if in.OrderType == "" {
			in.OrderType = cur.Type()
		}
		if err := partyRules.Validate(in); err != nil {
			return err
		}
		in.apply(cur)
		cur.UpdatedBy = actor

		if err := s.checkRefs(ctx, q, cur, in.SupplierID); err != nil {
			return err
		}
		updated, err := s.store.Update(ctx, q, cur)
		if err != nil {
			return err
		}
		if in.Status != "" {
			if err := s.store.AppendStatus(ctx, q, StatusChange{
				OrderID: updated.ID, Status: in.Status, ChangedBy: actor,
			}); err != nil {
				return err
			}
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:      actor,
			Action:      audit.ActionUpdate,
			EntityType:  audit.EntityOrder,
			EntityID:    updated.ID,
			Description: fmt.Sprintf("Updated %s order %s", updated.Type(), updated.Number),
		})
		out = updated
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update order")
	}
	s.invalidate(ctx)
	return out, nil
}

// checkRefs проверяет склад, присланного поставщика и пользователей.
// Поставщик проверяется при любом типе заказа, даже если в заказ он не попадёт.
func (s *Service) checkRefs(ctx context.Context, q db.Querier, o *Order, supplierID *int64) error {
	ok, err := s.refs.WarehouseExists(ctx, q, o.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Warehouse", "warehouse_id")
	}
	if supplierID != nil {
		ok, err := s.refs.SupplierExists(ctx, q, *supplierID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("Supplier", "supplier_id")
		}
	}
	for _, u := range []struct {
		id     *int64
		entity string
		field  string
	}{
		{o.AssignedTo, "Assigned user", "assigned_to"},
		{o.ApprovedBy, "Approving user", "approved_by"},
	} {
		if u.id == nil {
			continue
		}
		ok, err := s.refs.UserExists(ctx, q, *u.id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(u.entity, u.field)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	o, err := s.store.GetByID(ctx, s.db, id, false)
	if err != nil {
		return nil, apperr.Wrap(err, "get order")
	}
	if o == nil {
		return nil, apperr.NotFound("Order", "id")
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Order, error) {
	out, err := s.store.List(ctx, s.db, f)
	return out, apperr.Wrap(err, "list orders")
}

func (s *Service) History(ctx context.Context, orderID int64) ([]StatusChange, error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	out, err := s.store.History(ctx, s.db, orderID)
	return out, apperr.Wrap(err, "order status history")
}
