package civil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var v struct {
		D *Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-03-01"}`), &v))
	require.NotNil(t, v.D)
	assert.Equal(t, Date{Year: 2025, Month: time.March, Day: 1}, *v.D)

	out, err := json.Marshal(v.D)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-03-01"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-03-01T10:00:00Z"}`), &v))
	assert.Equal(t, "2025-03-01", v.D.String())

	assert.Error(t, json.Unmarshal([]byte(`{"d":"01/03/2025"}`), &v))
}

func TestPtr(t *testing.T) {
	assert.Nil(t, Ptr(nil))
	d := Date{Year: 2024, Month: time.December, Day: 31}
	got := Ptr(&d)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *got)
}
