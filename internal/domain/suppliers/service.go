package suppliers

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
	CompanyTaken(ctx context.Context, q db.Querier, name string, exceptID int64) (bool, error)
	Insert(ctx context.Context, q db.Querier, s *Supplier) (*Supplier, error)
	Update(ctx context.Context, q db.Querier, s *Supplier) (*Supplier, error)
	GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Supplier, error)
	List(ctx context.Context, q db.Querier, f Filter) ([]Supplier, error)
}

// Invalidator сбрасывает закэшированные сводки после записи.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db          db.DB
	store       Store
	audit       audit.Recorder
	invalidator Invalidator
	log         *slog.Logger
}

func NewService(pool db.DB, store Store, rec audit.Recorder, log *slog.Logger) *Service {
	return &Service{db: pool, store: store, audit: rec, log: log}
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

func (s *Service) Add(ctx context.Context, in Input, actor int64) (out *Supplier, err error) {
	defer func(start time.Time) { metrics.Observe("supplier", "add", start, err) }(time.Now())

	in = in.normalized()
	if err := Validate(in); err != nil {
		return nil, err
	}

	sup := &Supplier{CreatedBy: actor, UpdatedBy: actor}
	in.apply(sup)

	err = s.db.InTx(ctx, func(q db.Querier) error {
		if err := s.checkUnique(ctx, q, in, 0); err != nil {
			return err
		}
		created, err := s.store.Insert(ctx, q, sup)
		if err != nil {
			return err
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:      actor,
			Action:      audit.ActionCreate,
			EntityType:  audit.EntitySupplier,
			EntityID:    created.ID,
			Description: fmt.Sprintf("Added new supplier: %s (Contact: %s)", created.CompanyName, created.ContactPerson),
		})
		out = created
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "add supplier")
	}
	s.log.Info("supplier added", "supplier_id", out.ID, "actor", actor)
	s.invalidate(ctx)
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input, actor int64) (out *Supplier, err error) {
	defer func(start time.Time) { metrics.Observe("supplier", "update", start, err) }(time.Now())

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
			return apperr.NotFound("Supplier", "id")
		}
		if err := s.checkUnique(ctx, q, in, id); err != nil {
			return err
		}

		in.apply(cur)
		cur.UpdatedBy = actor
		updated, err := s.store.Update(ctx, q, cur)
		if err != nil {
			return err
		}
		s.audit.Record(ctx, q, audit.Entry{
			UserID:      actor,
			Action:      audit.ActionUpdate,
			EntityType:  audit.EntitySupplier,
			EntityID:    updated.ID,
			Description: "Updated supplier: " + updated.CompanyName,
		})
		out = updated
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update supplier")
	}
	s.invalidate(ctx)
	return out, nil
}

// checkUnique: и email, и company_name прерывают операцию при совпадении.
func (s *Service) checkUnique(ctx context.Context, q db.Querier, in Input, exceptID int64) error {
	taken, err := s.store.EmailTaken(ctx, q, in.Email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		if exceptID > 0 {
			return apperr.Conflict("email", "Email already exists for another supplier")
		}
		return apperr.Conflict("email", "Supplier with this email already exists")
	}
	taken, err = s.store.CompanyTaken(ctx, q, in.CompanyName, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("company_name", "Company name already exists")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Supplier, error) {
	sup, err := s.store.GetByID(ctx, s.db, id, false)
	if err != nil {
		return nil, apperr.Wrap(err, "get supplier")
	}
	if sup == nil {
		return nil, apperr.NotFound("Supplier", "id")
	}
	return sup, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Supplier, error) {
	out, err := s.store.List(ctx, s.db, f)
	return out, apperr.Wrap(err, "list suppliers")
}
