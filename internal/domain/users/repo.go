package users

import (
	"context"
	"strings"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

// Upsert по email. Роль admin не понижаем.
func (r *Repo) Upsert(ctx context.Context, email, fullName string, role Role) (*User, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (email, full_name, role)
		VALUES ($1,$2,$3)
		ON CONFLICT (email)
		DO UPDATE SET
			full_name = EXCLUDED.full_name,
			role      = CASE WHEN users.role = 'admin' THEN users.role ELSE EXCLUDED.role END
		RETURNING id, email, full_name, role, created_at
	`, strings.ToLower(strings.TrimSpace(email)), fullName, role)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
