package suppliers

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Repo struct{}

func NewRepo() *Repo { return &Repo{} }

const columns = `id, company_name, contact_person, email, phone, address, city, state, zip_code,
	country, tax_id, payment_terms, rating, status, COALESCE(created_by,0), COALESCE(updated_by,0),
	created_at, updated_at`

func scan(row pgx.Row) (*Supplier, error) {
	var s Supplier
	if err := row.Scan(
		&s.ID, &s.CompanyName, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.City,
		&s.State, &s.ZipCode, &s.Country, &s.TaxID, &s.PaymentTerms, &s.Rating, &s.Status,
		&s.CreatedBy, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) EmailTaken(ctx context.Context, q db.Querier, email string, exceptID int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM suppliers WHERE email = $1 AND id <> $2)`,
		email, exceptID).Scan(&ok)
	return ok, err
}

func (r *Repo) CompanyTaken(ctx context.Context, q db.Querier, name string, exceptID int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM suppliers WHERE company_name = $1 AND id <> $2)`,
		name, exceptID).Scan(&ok)
	return ok, err
}

func (r *Repo) Insert(ctx context.Context, q db.Querier, s *Supplier) (*Supplier, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO suppliers (
			company_name, contact_person, email, phone, address, city, state, zip_code, country,
			tax_id, payment_terms, rating, status, created_by, updated_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
		RETURNING `+columns,
		s.CompanyName, s.ContactPerson, s.Email, s.Phone, s.Address, s.City, s.State, s.ZipCode,
		s.Country, s.TaxID, s.PaymentTerms, s.Rating, string(s.Status), s.CreatedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

func (r *Repo) Update(ctx context.Context, q db.Querier, s *Supplier) (*Supplier, error) {
	row := q.QueryRow(ctx, `
		UPDATE suppliers
		SET company_name=$2, contact_person=$3, email=$4, phone=$5, address=$6, city=$7, state=$8,
			zip_code=$9, country=$10, tax_id=$11, payment_terms=$12, rating=$13, status=$14,
			updated_by=$15, updated_at=now()
		WHERE id=$1
		RETURNING `+columns,
		s.ID, s.CompanyName, s.ContactPerson, s.Email, s.Phone, s.Address, s.City, s.State,
		s.ZipCode, s.Country, s.TaxID, s.PaymentTerms, s.Rating, string(s.Status), s.UpdatedBy,
	)
	out, err := scan(row)
	return out, mapErr(err)
}

// GetByID возвращает (nil, nil), если записи нет. forUpdate блокирует строку до конца транзакции.
func (r *Repo) GetByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Supplier, error) {
	sql := `SELECT ` + columns + ` FROM suppliers WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	s, err := scan(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *Repo) List(ctx context.Context, q db.Querier, f Filter) ([]Supplier, error) {
	sql := `SELECT ` + columns + ` FROM suppliers WHERE ($1 = '' OR status = $1)`
	args := []any{string(f.Status)}
	if s := strings.TrimSpace(f.Search); s != "" {
		sql += ` AND (company_name ILIKE $2 OR contact_person ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+s+"%")
	}
	sql += ` ORDER BY company_name`

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// mapErr переводит нарушение уникальности, проскочившее мимо предпроверок, в Conflict.
func mapErr(err error) error {
	name, ok := db.UniqueViolation(err)
	if !ok {
		return err
	}
	switch name {
	case "suppliers_email_key":
		return apperr.Conflict("email", "Supplier with this email already exists")
	case "suppliers_company_name_key":
		return apperr.Conflict("company_name", "Company name already exists")
	}
	return apperr.Conflict("", "Supplier already exists")
}
