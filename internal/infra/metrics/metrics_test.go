package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Spok95/warehouse-ops/internal/apperr"
)

func TestObserveLabelsByErrorKind(t *testing.T) {
	before := testutil.ToFloat64(Operations.WithLabelValues("supplier", "add", "conflict"))
	Observe("supplier", "add", time.Now(), apperr.Conflict("email", "taken"))
	assert.Equal(t, before+1, testutil.ToFloat64(Operations.WithLabelValues("supplier", "add", "conflict")))

	okBefore := testutil.ToFloat64(Operations.WithLabelValues("supplier", "add", "ok"))
	Observe("supplier", "add", time.Now(), nil)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(Operations.WithLabelValues("supplier", "add", "ok")))

	intBefore := testutil.ToFloat64(Operations.WithLabelValues("supplier", "add", "internal"))
	Observe("supplier", "add", time.Now(), errors.New("db down"))
	assert.Equal(t, intBefore+1, testutil.ToFloat64(Operations.WithLabelValues("supplier", "add", "internal")))
}
