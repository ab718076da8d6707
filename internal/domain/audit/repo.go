package audit

import (
	"context"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Repo struct{}

func NewRepo() *Repo { return &Repo{} }

// Append пишет запись в activity_logs в отдельном SAVEPOINT: сбой журнала
// откатывает только сам журнал, а не операцию вокруг.
func (r *Repo) Append(ctx context.Context, q db.Querier, e Entry) error {
	if e.UserID <= 0 {
		return apperr.BadRequest("user_id", "actor is required")
	}
	if e.EntityID <= 0 {
		return apperr.BadRequest("entity_id", "entity_id is required")
	}

	sp, err := q.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sp.Rollback(ctx) }()

	if _, err = sp.Exec(ctx, `
		INSERT INTO activity_logs (user_id, action, entity_type, entity_id, description)
		VALUES ($1,$2,$3,$4,$5)
	`, e.UserID, string(e.Action), string(e.EntityType), e.EntityID, e.Description); err != nil {
		return err
	}
	return sp.Commit(ctx)
}

// ListByEntity: история по одной сущности, от новых к старым.
func (r *Repo) ListByEntity(ctx context.Context, q db.Querier, t EntityType, id int64) ([]Entry, error) {
	rows, err := q.Query(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, description, created_at
		FROM activity_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`, string(t), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
