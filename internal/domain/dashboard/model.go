package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type Summary struct {
	InventoryItems     int64            `json:"inventory_items"`
	LowStockItems      int64            `json:"low_stock_items"`
	OutOfStockItems    int64            `json:"out_of_stock_items"`
	InventoryValue     decimal.Decimal  `json:"inventory_value"`
	Orders             int64            `json:"orders"`
	OrdersByStatus     map[string]int64 `json:"orders_by_status"`
	Suppliers          int64            `json:"suppliers"`
	ActiveSuppliers    int64            `json:"active_suppliers"`
	Warehouses         int64            `json:"warehouses"`
	AverageUtilization decimal.Decimal  `json:"average_utilization"`
	GeneratedAt        time.Time        `json:"generated_at"`
}
