package orders

import (
	"context"
	"fmt"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

// FormatNumber: ORD-<год>-<номер не короче трёх цифр>.
func FormatNumber(year int, n int64) string {
	return fmt.Sprintf("ORD-%d-%03d", year, n)
}

// Sequencer выдаёт номера заказов из счётчика по годам.
type Sequencer struct{}

func NewSequencer() *Sequencer { return &Sequencer{} }

// Next атомарно увеличивает счётчик года в текущей транзакции. Строка года
// остаётся заблокированной до коммита, поэтому параллельные заказы
// получают разные номера. Первый вызов в году продолжает нумерацию с
// максимального уже выданного номера.
func (s *Sequencer) Next(ctx context.Context, q db.Querier, year int) (int64, error) {
	var n int64
	err := q.QueryRow(ctx, `
		INSERT INTO order_number_sequences (year, last_value)
		SELECT $1, COALESCE(MAX(CAST(substring(order_number FROM '^ORD-[0-9]+-([0-9]+)$') AS BIGINT)), 0) + 1
		FROM orders
		WHERE order_number LIKE $2
		ON CONFLICT (year) DO UPDATE SET last_value = order_number_sequences.last_value + 1
		RETURNING last_value
	`, year, fmt.Sprintf("ORD-%d-%%", year)).Scan(&n)
	return n, err
}
