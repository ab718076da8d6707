// Package lenient: числовые типы для JSON, которые вместо ошибки
// разбора подставляют ноль (форма редактирования шлёт что угодно).
package lenient

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Int принимает число или строку; дробная часть отбрасывается.
type Int int64

func (n *Int) UnmarshalJSON(data []byte) error {
	*n = Int(parseInt(raw(data)))
	return nil
}

func (n Int) Int64() int64 { return int64(n) }

// Decimal принимает число или строку с числом.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	v, err := decimal.NewFromString(raw(data))
	if err != nil {
		v = decimal.Zero
	}
	d.Decimal = v
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Decimal)
}

func raw(data []byte) string {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return ""
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(data)
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// float64(MaxInt64) округляется до 2^63, которое в int64 уже не помещается
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}
