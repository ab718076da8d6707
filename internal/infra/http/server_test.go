package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/domain/dashboard"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type summarizer struct {
	s   *dashboard.Summary
	err error
}

func (s summarizer) Summary(context.Context) (*dashboard.Summary, error) { return s.s, s.err }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndReady(t *testing.T) {
	h := Handler(true, pinger{}, summarizer{}, discard())
	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/metrics").Code)

	down := Handler(false, pinger{err: errors.New("refused")}, summarizer{}, discard())
	assert.Equal(t, http.StatusServiceUnavailable, get(t, down, "/ready").Code)
	assert.Equal(t, http.StatusNotFound, get(t, down, "/metrics").Code)
}

func TestDashboardSummary(t *testing.T) {
	h := Handler(false, pinger{}, summarizer{s: &dashboard.Summary{InventoryItems: 4, LowStockItems: 1}}, discard())

	rec := get(t, h, "/dashboard/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["inventory_items"])
	assert.Equal(t, float64(1), body["low_stock_items"])

	failing := Handler(false, pinger{}, summarizer{err: apperr.Internal(errors.New("boom"), "dashboard summary")}, discard())
	assert.Equal(t, http.StatusInternalServerError, get(t, failing, "/dashboard/summary").Code)
}
