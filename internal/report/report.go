// Package report выгружает позиции и заказы в XLSX.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/warehouse-ops/internal/domain/inventory"
	"github.com/Spok95/warehouse-ops/internal/domain/orders"
)

var inventoryHeader = []interface{}{
	"id", "sku", "product_name", "category", "brand", "supplier_id", "warehouse_id", "location",
	"quantity_on_hand", "quantity_reserved", "quantity_available", "minimum_stock_level",
	"stock_level", "unit_price", "cost_price", "value", "status",
}

var ordersHeader = []interface{}{
	"id", "order_number", "order_type", "supplier_id", "customer_name", "customer_email",
	"warehouse_id", "order_date", "expected_delivery_date", "priority", "status",
	"total_amount", "discount_amount", "net_amount", "payment_status",
}

// Inventory: лист остатков; суммы пишутся числами, чтобы в Excel работали формулы.
func Inventory(items []inventory.Item) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{
			it.ID, it.SKU, it.ProductName, it.Category, it.Brand, it.SupplierID, it.WarehouseID,
			it.Location, it.QuantityOnHand, it.QuantityReserved, it.QuantityAvailable,
			it.MinimumStockLevel, string(it.StockLevel), it.UnitPrice.InexactFloat64(),
			it.CostPrice.InexactFloat64(), it.Value().InexactFloat64(), string(it.Status),
		})
	}
	return write("inventory", inventoryHeader, rows)
}

func Orders(list []orders.Order) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(list))
	for _, o := range list {
		var supplier interface{}
		if id := o.SupplierID(); id != nil {
			supplier = *id
		}
		var name, email string
		if c := o.Customer(); c != nil {
			name, email = c.Name, c.Email
		}
		var expected string
		if o.ExpectedDeliveryDate != nil {
			expected = o.ExpectedDeliveryDate.String()
		}
		rows = append(rows, []interface{}{
			o.ID, o.Number, string(o.Type()), supplier, name, email, o.WarehouseID,
			o.OrderDate.Format("2006-01-02 15:04"), expected, string(o.Priority), string(o.Status),
			o.TotalAmount.InexactFloat64(), o.DiscountAmount.InexactFloat64(),
			o.NetAmount.InexactFloat64(), string(o.PaymentStatus),
		})
	}
	return write("orders", ordersHeader, rows)
}

// FileName: <kind>_<время>.xlsx
func FileName(kind string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", kind, at.Format("20060102_150405"))
}

func write(sheetName string, header []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, err
	}
	sheet = sheetName

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
