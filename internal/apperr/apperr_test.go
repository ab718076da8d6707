package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), KindInternal},
		{"bad request", BadRequest("sku", "sku is required"), KindBadRequest},
		{"not found", NotFound("Supplier", "supplier_id"), KindNotFound},
		{"conflict", Conflict("email", "taken"), KindConflict},
		{"wrapped conflict", fmt.Errorf("tx: %w", Conflict("sku", "taken")), KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapKeepsTypedErrors(t *testing.T) {
	orig := NotFound("Warehouse", "warehouse_id")
	assert.Same(t, orig, Wrap(orig, "add item"))

	cause := errors.New("connection reset")
	wrapped := Wrap(cause, "add item")
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "add item: connection reset", wrapped.Error())

	assert.NoError(t, Wrap(nil, "noop"))
}

func TestFieldOf(t *testing.T) {
	assert.Equal(t, "rating", FieldOf(BadRequest("rating", "Rating must be between 0 and 5")))
	assert.Equal(t, "", FieldOf(errors.New("x")))
	assert.Equal(t, "Supplier not found", NotFound("Supplier", "supplier_id").Error())
}
