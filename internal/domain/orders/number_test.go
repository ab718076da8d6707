package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "ORD-2025-001", FormatNumber(2025, 1))
	assert.Equal(t, "ORD-2025-042", FormatNumber(2025, 42))
	assert.Equal(t, "ORD-2025-1000", FormatNumber(2025, 1000))
}
