package warehouses

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDistribution Type = "distribution"
	TypeStorage      Type = "storage"
	TypeFulfillment  Type = "fulfillment"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

type Warehouse struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Address             string          `json:"address"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	ZipCode             string          `json:"zip_code"`
	Country             string          `json:"country"`
	Phone               string          `json:"phone"`
	Email               string          `json:"email"`
	Type                Type            `json:"warehouse_type"`
	Status              Status          `json:"status"`
	TotalCapacity       int64           `json:"total_capacity"`
	AvailableCapacity   int64           `json:"available_capacity"`
	CapacityUtilization decimal.Decimal `json:"capacity_utilization"`
	ManagerID           *int64          `json:"manager_id"`
	CreatedBy           int64           `json:"created_by"`
	UpdatedBy           int64           `json:"updated_by"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// CapacitySnapshot: строка истории загрузки склада, только добавляется.
type CapacitySnapshot struct {
	ID                  int64           `json:"id"`
	WarehouseID         int64           `json:"warehouse_id"`
	TotalCapacity       int64           `json:"total_capacity"`
	AvailableCapacity   int64           `json:"available_capacity"`
	CapacityUtilization decimal.Decimal `json:"capacity_utilization"`
	RecordedBy          int64           `json:"recorded_by"`
	RecordedAt          time.Time       `json:"recorded_at"`
}

type Input struct {
	Name              string `json:"name"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zip_code"`
	Country           string `json:"country"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Type              Type   `json:"warehouse_type"`
	Status            Status `json:"status"`
	TotalCapacity     *int64 `json:"total_capacity"`
	AvailableCapacity *int64 `json:"available_capacity"`
	ManagerID         *int64 `json:"manager_id"`
}

type Filter struct {
	Status Status
	Type   Type
}

var hundred = decimal.NewFromInt(100)

// Utilization: занятая доля ёмкости в процентах, два знака после запятой.
func Utilization(total, available int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	used := decimal.NewFromInt(total - available)
	return used.Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}
