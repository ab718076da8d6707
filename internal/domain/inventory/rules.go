package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/warehouse-ops/internal/validate"
)

func nonNegative[T any](field string, get func(T) int64) validate.Rule[T] {
	return validate.Rule[T]{
		Field:   field,
		Message: field + " cannot be negative",
		Check:   func(v T) bool { return get(v) >= 0 },
	}
}

func nonNegativeMoney[T any](field string, get func(T) decimal.Decimal) validate.Rule[T] {
	return validate.Rule[T]{
		Field:   field,
		Message: field + " cannot be negative",
		Check:   func(v T) bool { return !get(v).IsNegative() },
	}
}

func derefInt(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefMoney(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}

var statuses = []Status{StatusActive, StatusInactive, StatusDiscontinued}

// quantity_on_hand обязателен, но ноль допустим.
var newItemRules = validate.New(
	validate.Required("sku", func(in NewItem) string { return in.SKU }),
	validate.Required("product_name", func(in NewItem) string { return in.ProductName }),
	validate.Required("category", func(in NewItem) string { return in.Category }),
	validate.Present("supplier_id", func(in NewItem) *int64 { return in.SupplierID }),
	validate.Present("warehouse_id", func(in NewItem) *int64 { return in.WarehouseID }),
	validate.Present("quantity_on_hand", func(in NewItem) *int64 { return in.QuantityOnHand }),
	validate.Present("unit_price", func(in NewItem) *decimal.Decimal { return in.UnitPrice }),
	validate.Present("cost_price", func(in NewItem) *decimal.Decimal { return in.CostPrice }),
	nonNegative("quantity_on_hand", func(in NewItem) int64 { return derefInt(in.QuantityOnHand) }),
	nonNegative("quantity_reserved", func(in NewItem) int64 { return in.QuantityReserved }),
	nonNegativeMoney("unit_price", func(in NewItem) decimal.Decimal { return derefMoney(in.UnitPrice) }),
	nonNegativeMoney("cost_price", func(in NewItem) decimal.Decimal { return derefMoney(in.CostPrice) }),
	validate.OneOf("status", func(in NewItem) Status { return in.Status }, statuses...),
)

var patchRules = validate.New(
	validate.Rule[Patch]{
		Field:   "sku",
		Message: "sku cannot be empty",
		Check:   func(p Patch) bool { return p.SKU == nil || strings.TrimSpace(*p.SKU) != "" },
	},
	validate.Required("product_name", func(p Patch) string { return p.ProductName }),
	validate.Required("category", func(p Patch) string { return p.Category }),
	validate.Rule[Patch]{
		Field:   "supplier_id",
		Message: "supplier_id is required",
		Check:   func(p Patch) bool { return p.SupplierID.Int64() > 0 },
	},
	validate.Rule[Patch]{
		Field:   "warehouse_id",
		Message: "warehouse_id is required",
		Check:   func(p Patch) bool { return p.WarehouseID.Int64() > 0 },
	},
	nonNegative("quantity_on_hand", func(p Patch) int64 { return p.QuantityOnHand.Int64() }),
	nonNegative("quantity_reserved", func(p Patch) int64 { return p.QuantityReserved.Int64() }),
	nonNegativeMoney("unit_price", func(p Patch) decimal.Decimal { return p.UnitPrice.Decimal }),
	nonNegativeMoney("cost_price", func(p Patch) decimal.Decimal { return p.CostPrice.Decimal }),
	validate.OneOf("status", func(p Patch) Status { return p.Status }, statuses...),
)

func ValidateNew(in NewItem) error { return newItemRules.Validate(in) }

func ValidatePatch(p Patch) error { return patchRules.Validate(p) }

func (in NewItem) item(actor int64) *Item {
	it := &Item{
		SKU:               strings.TrimSpace(in.SKU),
		ProductName:       strings.TrimSpace(in.ProductName),
		Description:       in.Description,
		Category:          strings.TrimSpace(in.Category),
		Brand:             in.Brand,
		SupplierID:        derefInt(in.SupplierID),
		WarehouseID:       derefInt(in.WarehouseID),
		Location:          in.Location,
		QuantityOnHand:    derefInt(in.QuantityOnHand),
		QuantityReserved:  in.QuantityReserved,
		UnitPrice:         derefMoney(in.UnitPrice),
		CostPrice:         derefMoney(in.CostPrice),
		MinimumStockLevel: in.MinimumStockLevel,
		MaximumStockLevel: in.MaximumStockLevel,
		ReorderPoint:      in.ReorderPoint,
		ReorderQuantity:   in.ReorderQuantity,
		UnitOfMeasure:     in.UnitOfMeasure,
		ExpiryDate:        in.ExpiryDate,
		BatchNumber:       in.BatchNumber,
		Barcode:           in.Barcode,
		Weight:            in.Weight,
		Dimensions:        in.Dimensions,
		Status:            in.Status,
		CreatedBy:         actor,
		UpdatedBy:         actor,
	}
	if it.Status == "" {
		it.Status = StatusActive
	}
	it.derive()
	return it
}

// apply заменяет все изменяемые поля; sku и статус без значения остаются прежними.
func (p Patch) apply(it *Item, actor int64) {
	if p.SKU != nil {
		it.SKU = strings.TrimSpace(*p.SKU)
	}
	it.ProductName = strings.TrimSpace(p.ProductName)
	it.Description = p.Description
	it.Category = strings.TrimSpace(p.Category)
	it.Brand = p.Brand
	it.SupplierID = p.SupplierID.Int64()
	it.WarehouseID = p.WarehouseID.Int64()
	it.Location = p.Location
	it.QuantityOnHand = p.QuantityOnHand.Int64()
	it.QuantityReserved = p.QuantityReserved.Int64()
	it.UnitPrice = p.UnitPrice.Decimal
	it.CostPrice = p.CostPrice.Decimal
	it.MinimumStockLevel = p.MinimumStockLevel.Int64()
	it.MaximumStockLevel = p.MaximumStockLevel.Int64()
	it.ReorderPoint = p.ReorderPoint.Int64()
	it.ReorderQuantity = p.ReorderQuantity.Int64()
	it.UnitOfMeasure = p.UnitOfMeasure
	it.ExpiryDate = p.ExpiryDate
	it.BatchNumber = p.BatchNumber
	it.Barcode = p.Barcode
	it.Weight = p.Weight.Decimal
	it.Dimensions = p.Dimensions
	if p.Status != "" {
		it.Status = p.Status
	}
	it.UpdatedBy = actor
	it.derive()
}
