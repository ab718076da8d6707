package warehouses

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
	EmailTaken(ctx context.Context, q db.Querier, email string, exceptID int64) (bool, error)
	Insert(ctx context.Context, q db.Querier, w *Warehouse) (*Warehouse, error)
	Update(ctx context.Context, q db.Querier, w *Warehouse) (*Warehouse, error)
	GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Warehouse, error)
	List(ctx context.Context, q db.Querier, f Filter) ([]Warehouse, error)
	AppendSnapshot(ctx context.Context, q db.Querier, s CapacitySnapshot) error
	History(ctx context.Context, q db.Querier, warehouseID int64) ([]CapacitySnapshot, error)
}

type Users interface {
	UserExists(ctx context.Context, q db.Querier, id int64) (bool, error)
}

// Invalidator сбрасывает закэшированные сводки после записи.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db          db.DB
	store       Store
	users       Users
	audit       audit.Recorder
	invalidator Invalidator
	log         *slog.Logger
}

func NewService(pool db.DB, store Store, users Users, rec audit.Recorder, log *slog.Logger) *Service {
	return &Service{db: pool, store: store, users: users, audit: rec, log: log}
}

func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidator = inv
	return s
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

func (s *Service) Add(ctx context.Context, in Input, actor int64) (out *Warehouse, err error) {
	defer func(start time.Time) { metrics.Observe("warehouse", "add", start, err) }(time.Now())

	in = in.normalized()
	if err := Validate(in); err != nil {
		return nil, err
	}

	w := &Warehouse{CreatedBy: actor, UpdatedBy: actor}
	in.apply(w)

	err = s.db.InTx(ctx, func(q db.Querier) error {
		if err := s.checkRefs(ctx, q, in, 0); err != nil {
			return err
		}
		created, err := s.store.Insert(ctx, q, w)
		if err != nil {
			return err
		}
		if err := s.snapshot(ctx, q, created, actor); err != nil {
			return err
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:      actor,
			Action:      audit.ActionCreate,
			EntityType:  audit.EntityWarehouse,
			EntityID:    created.ID,
			Description: fmt.Sprintf("Added new warehouse: %s (%s)", created.Name, created.City),
		})
		out = created
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "add warehouse")
	}
	s.log.Info("warehouse added", "warehouse_id", out.ID, "utilization", out.CapacityUtilization.String())
	s.invalidate(ctx)
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input, actor int64) (out *Warehouse, err error) {
	defer func(start time.Time) { metrics.Observe("warehouse", "update", start, err) }(time.Now())

	in = in.normalized()
	if err := Validate(in); err != nil {
		return nil, err
	}

	err = s.db.InTx(ctx, func(q db.Querier) error {
		cur, err := s.store.GetByID(ctx, q, id, true)
		if err != nil {
			return err
		}
		if cur == nil {
			return apperr.NotFound("Warehouse", "id")
		}
		if err := s.checkRefs(ctx, q, in, id); err != nil {
			return err
		}

		in.apply(cur)
		cur.UpdatedBy = actor
		updated, err := s.store.Update(ctx, q, cur)
		if err != nil {
			return err
		}
		if err := s.snapshot(ctx, q, updated, actor); err != nil {
			return err
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:      actor,
			Action:      audit.ActionUpdate,
			EntityType:  audit.EntityWarehouse,
			EntityID:    updated.ID,
			Description: "Updated warehouse: " + updated.Name,
		})
		out = updated
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update warehouse")
	}
	s.invalidate(ctx)
	return out, nil
}

// checkRefs: email уникален среди остальных складов; неизвестный менеджер:
// ошибка запроса, а не NotFound.
func (s *Service) checkRefs(ctx context.Context, q db.Querier, in Input, exceptID int64) error {
	taken, err := s.store.EmailTaken(ctx, q, in.Email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("email", "Warehouse with this email already exists")
	}
	if in.ManagerID != nil {
		ok, err := s.users.UserExists(ctx, q, *in.ManagerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.BadRequest("manager_id", "Invalid manager ID")
		}
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context, q db.Querier, w *Warehouse, actor int64) error {
	return s.store.AppendSnapshot(ctx, q, CapacitySnapshot{
		WarehouseID:         w.ID,
		TotalCapacity:       w.TotalCapacity,
		AvailableCapacity:   w.AvailableCapacity,
		CapacityUtilization: w.CapacityUtilization,
		RecordedBy:          actor,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Warehouse, error) {
	w, err := s.store.GetByID(ctx, s.db, id, false)
	if err != nil {
		return nil, apperr.Wrap(err, "get warehouse")
	}
	if w == nil {
		return nil, apperr.NotFound("Warehouse", "id")
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Warehouse, error) {
	out, err := s.store.List(ctx, s.db, f)
	return out, apperr.Wrap(err, "list warehouses")
}

func (s *Service) CapacityHistory(ctx context.Context, id int64) ([]CapacitySnapshot, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.store.History(ctx, s.db, id)
	return out, apperr.Wrap(err, "warehouse capacity history")
}
