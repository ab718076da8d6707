package suppliers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/domain/audit"
	"github.com/Spok95/warehouse-ops/internal/domain/audit/audittest"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/db/dbtest"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Supplier
}

func newMemStore() *memStore { return &memStore{rows: map[int64]Supplier{}} }

func (m *memStore) EmailTaken(_ context.Context, _ db.Querier, email string, exceptID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.rows {
		if id != exceptID && s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CompanyTaken(_ context.Context, _ db.Querier, name string, exceptID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.rows {
		if id != exceptID && s.CompanyName == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Insert(_ context.Context, _ db.Querier, s *Supplier) (*Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	out := *s
	out.ID = m.nextID
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	m.rows[out.ID] = out
	return &out, nil
}

func (m *memStore) Update(_ context.Context, _ db.Querier, s *Supplier) (*Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *s
	out.UpdatedAt = time.Now()
	m.rows[out.ID] = out
	return &out, nil
}

func (m *memStore) GetByID(_ context.Context, _ db.Querier, id int64, _ bool) (*Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) List(_ context.Context, _ db.Querier, f Filter) ([]Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Supplier
	for _, s := range m.rows {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.CompanyName), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	return out, nil
}

func newTestService() (*Service, *memStore, *dbtest.Fake, *audittest.Recorder) {
	store := newMemStore()
	fake := &dbtest.Fake{}
	rec := &audittest.Recorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(fake, store, rec, log), store, fake, rec
}

func ptr[T any](v T) *T { return &v }

func validInput() Input {
	return Input{
		CompanyName:   "Acme Parts",
		ContactPerson: "Jane Roe",
		Email:         "sales@acme.com",
		Phone:         "+1 555 0100",
		Address:       "1 Main St",
		City:          "Springfield",
		Country:       "US",
		Rating:        ptr(int64(4)),
	}
}

func TestAdd(t *testing.T) {
	svc, _, fake, rec := newTestService()

	got, err := svc.Add(context.Background(), validInput(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, int64(4), got.Rating)
	assert.Equal(t, int64(7), got.CreatedBy)
	assert.Equal(t, 1, fake.Commits)

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreate, entries[0].Action)
	assert.Equal(t, audit.EntitySupplier, entries[0].EntityType)
	assert.Equal(t, "Added new supplier: Acme Parts (Contact: Jane Roe)", entries[0].Description)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Input)
		wantField string
	}{
		{"missing company", func(in *Input) { in.CompanyName = " " }, "company_name"},
		{"missing country", func(in *Input) { in.Country = "" }, "country"},
		{"bad email", func(in *Input) { in.Email = "sales@acme" }, "email"},
		{"rating above range", func(in *Input) { in.Rating = ptr(int64(6)) }, "rating"},
		{"rating below range", func(in *Input) { in.Rating = ptr(int64(-1)) }, "rating"},
		{"unknown status", func(in *Input) { in.Status = "archived" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, fake, rec := newTestService()
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Add(context.Background(), in, 1)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindBadRequest))
			assert.Equal(t, tt.wantField, apperr.FieldOf(err))
			assert.Empty(t, store.rows)
			assert.Zero(t, fake.Commits)
			assert.Empty(t, rec.Entries())
		})
	}
}

func TestAddConflicts(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Add(ctx, validInput(), 1)
	require.NoError(t, err)

	sameEmail := validInput()
	sameEmail.CompanyName = "Other Co"
	_, err = svc.Add(ctx, sameEmail, 1)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "email", apperr.FieldOf(err))

	sameCompany := validInput()
	sameCompany.Email = "other@acme.com"
	_, err = svc.Add(ctx, sameCompany, 1)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "company_name", apperr.FieldOf(err))

	assert.Len(t, store.rows, 1)
}

func TestUpdate(t *testing.T) {
	svc, _, _, rec := newTestService()
	ctx := context.Background()
	created, err := svc.Add(ctx, validInput(), 1)
	require.NoError(t, err)

	in := validInput()
	in.Rating = ptr(int64(2))
	in.Status = StatusInactive
	got, err := svc.Update(ctx, created.ID, in, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Rating)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, int64(3), got.UpdatedBy)
	assert.Equal(t, int64(1), got.CreatedBy)

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Updated supplier: Acme Parts", entries[1].Description)
}

func TestUpdateErrors(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	first, err := svc.Add(ctx, validInput(), 1)
	require.NoError(t, err)

	other := validInput()
	other.CompanyName = "Globex"
	other.Email = "buy@globex.com"
	_, err = svc.Add(ctx, other, 1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, 99, validInput(), 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	bad := validInput()
	bad.Rating = ptr(int64(9))
	_, err = svc.Update(ctx, first.ID, bad, 1)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	clash := validInput()
	clash.Email = "buy@globex.com"
	_, err = svc.Update(ctx, first.ID, clash, 1)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Email already exists for another supplier", err.Error())

	// собственный email не считается конфликтом
	_, err = svc.Update(ctx, first.ID, validInput(), 1)
	assert.NoError(t, err)
}

func TestGetAndList(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	created, err := svc.Add(ctx, validInput(), 1)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Parts", got.CompanyName)

	_, err = svc.Get(ctx, 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	list, err := svc.List(ctx, Filter{Status: StatusActive, Search: "acme"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.List(ctx, Filter{Status: StatusPending})
	require.NoError(t, err)
	assert.Empty(t, list)
}

type invalidations struct{ n int }

func (i *invalidations) Invalidate(context.Context) { i.n++ }

func TestInvalidatesOnlyAfterCommit(t *testing.T) {
	svc, _, _, _ := newTestService()
	inv := &invalidations{}
	svc.WithInvalidator(inv)
	ctx := context.Background()

	created, err := svc.Add(ctx, validInput(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.n)

	bad := validInput()
	bad.Email = "sales@acme"
	_, err = svc.Add(ctx, bad, 1)
	require.Error(t, err)
	_, err = svc.Add(ctx, validInput(), 1)
	require.Error(t, err)
	assert.Equal(t, 1, inv.n)

	_, err = svc.Update(ctx, created.ID, validInput(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.n)
}
