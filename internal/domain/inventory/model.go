package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/warehouse-ops/internal/civil"
	"github.com/Spok95/warehouse-ops/internal/lenient"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDiscontinued Status = "discontinued"
)

// StockLevel: вычисляемая оценка остатка, в базе не хранится.
type StockLevel string

const (
	InStock    StockLevel = "in_stock"
	LowStock   StockLevel = "low_stock"
	OutOfStock StockLevel = "out_of_stock"
)

type Item struct {
	ID                int64           `json:"id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	SupplierID        int64           `json:"supplier_id"`
	WarehouseID       int64           `json:"warehouse_id"`
	Location          string          `json:"location"`
	QuantityOnHand    int64           `json:"quantity_on_hand"`
	QuantityReserved  int64           `json:"quantity_reserved"`
	QuantityAvailable int64           `json:"quantity_available"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	MinimumStockLevel int64           `json:"minimum_stock_level"`
	MaximumStockLevel int64           `json:"maximum_stock_level"`
	ReorderPoint      int64           `json:"reorder_point"`
	ReorderQuantity   int64           `json:"reorder_quantity"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	ExpiryDate        *civil.Date     `json:"expiry_date"`
	BatchNumber       string          `json:"batch_number"`
	Barcode           string          `json:"barcode"`
	Weight            decimal.Decimal `json:"weight"`
	Dimensions        string          `json:"dimensions"`
	Status            Status          `json:"status"`
	StockLevel        StockLevel      `json:"stock_level"`
	LastCountedDate   time.Time       `json:"last_counted_date"`
	CreatedBy         int64           `json:"created_by"`
	UpdatedBy         int64           `json:"updated_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewItem: вход для добавления позиции. Обязательные числа заданы указателями,
// чтобы отличить «не прислали» от нуля.
type NewItem struct {
	SKU               string           `json:"sku"`
	ProductName       string           `json:"product_name"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Brand             string           `json:"brand"`
	SupplierID        *int64           `json:"supplier_id"`
	WarehouseID       *int64           `json:"warehouse_id"`
	Location          string           `json:"location"`
	QuantityOnHand    *int64           `json:"quantity_on_hand"`
	QuantityReserved  int64            `json:"quantity_reserved"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	MinimumStockLevel int64            `json:"minimum_stock_level"`
	MaximumStockLevel int64            `json:"maximum_stock_level"`
	ReorderPoint      int64            `json:"reorder_point"`
	ReorderQuantity   int64            `json:"reorder_quantity"`
	UnitOfMeasure     string           `json:"unit_of_measure"`
	ExpiryDate        *civil.Date      `json:"expiry_date"`
	BatchNumber       string           `json:"batch_number"`
	Barcode           string           `json:"barcode"`
	Weight            decimal.Decimal  `json:"weight"`
	Dimensions        string           `json:"dimensions"`
	Status            Status           `json:"status"`
}

// Patch: вход для обновления. Числа разбираются мягко: мусор превращается в 0.
type Patch struct {
	SKU               *string         `json:"sku"`
	ProductName       string          `json:"product_name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	SupplierID        lenient.Int     `json:"supplier_id"`
	WarehouseID       lenient.Int     `json:"warehouse_id"`
	Location          string          `json:"location"`
	QuantityOnHand    lenient.Int     `json:"quantity_on_hand"`
	QuantityReserved  lenient.Int     `json:"quantity_reserved"`
	UnitPrice         lenient.Decimal `json:"unit_price"`
	CostPrice         lenient.Decimal `json:"cost_price"`
	MinimumStockLevel lenient.Int     `json:"minimum_stock_level"`
	MaximumStockLevel lenient.Int     `json:"maximum_stock_level"`
	ReorderPoint      lenient.Int     `json:"reorder_point"`
	ReorderQuantity   lenient.Int     `json:"reorder_quantity"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	ExpiryDate        *civil.Date     `json:"expiry_date"`
	BatchNumber       string          `json:"batch_number"`
	Barcode           string          `json:"barcode"`
	Weight            lenient.Decimal `json:"weight"`
	Dimensions        string          `json:"dimensions"`
	Status            Status          `json:"status"`
}

type Filter struct {
	WarehouseID int64
	Status      Status
	Level       StockLevel
	Search      string
}

func Available(onHand, reserved int64) int64 { return onHand - reserved }

// Classify сравнивает доступный остаток с минимальным уровнем самой позиции.
func Classify(available, minimum int64) StockLevel {
	switch {
	case available <= 0:
		return OutOfStock
	case available <= minimum:
		return LowStock
	default:
		return InStock
	}
}

// derive пересчитывает производные поля после любого изменения количеств.
func (it *Item) derive() {
	it.QuantityAvailable = Available(it.QuantityOnHand, it.QuantityReserved)
	it.StockLevel = Classify(it.QuantityAvailable, it.MinimumStockLevel)
}

// Value: стоимость доступного остатка по цене продажи.
func (it Item) Value() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.QuantityAvailable))
}
