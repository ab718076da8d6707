package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/warehouse-ops/internal/civil"
)

type Type string

const (
	TypeInbound  Type = "inbound"
	TypeOutbound Type = "outbound"
	TypeTransfer Type = "transfer"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPicking    Status = "picking"
	StatusPacked     Status = "packed"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{
	StatusPending, StatusProcessing, StatusPicking, StatusPacked,
	StatusShipped, StatusDelivered, StatusCancelled,
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Party описывает сторону заказа: поставщик для входящего, клиент для исходящего,
// пусто для перемещения. Других комбинаций не бывает.
type Party interface {
	Type() Type
	party()
}

type Inbound struct{ SupplierID int64 }

type Outbound struct{ Customer Customer }

type Transfer struct{}

func (Inbound) Type() Type  { return TypeInbound }
func (Outbound) Type() Type { return TypeOutbound }
func (Transfer) Type() Type { return TypeTransfer }

func (Inbound) party()  {}
func (Outbound) party() {}
func (Transfer) party() {}

type Order struct {
	ID                   int64
	Number               string
	Party                Party
	WarehouseID          int64
	OrderDate            time.Time
	ExpectedDeliveryDate *civil.Date
	Priority             Priority
	Status               Status
	TotalAmount          decimal.Decimal
	TaxAmount            decimal.Decimal
	ShippingAmount       decimal.Decimal
	DiscountAmount       decimal.Decimal
	NetAmount            decimal.Decimal
	PaymentStatus        PaymentStatus
	PaymentMethod        string
	ShippingMethod       string
	TrackingNumber       string
	Notes                string
	CreatedBy            int64
	UpdatedBy            int64
	AssignedTo           *int64
	ApprovedBy           *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (o *Order) Type() Type {
	if o.Party == nil {
		return ""
	}
	return o.Party.Type()
}

// SupplierID: поставщик входящего заказа, иначе nil.
func (o *Order) SupplierID() *int64 {
	if in, ok := o.Party.(Inbound); ok {
		id := in.SupplierID
		return &id
	}
	return nil
}

// Customer: клиент исходящего заказа, иначе nil.
func (o *Order) Customer() *Customer {
	if out, ok := o.Party.(Outbound); ok {
		c := out.Customer
		return &c
	}
	return nil
}

type orderJSON struct {
	ID                   int64           `json:"id"`
	OrderNumber          string          `json:"order_number"`
	OrderType            Type            `json:"order_type"`
	CustomerName         *string         `json:"customer_name"`
	CustomerEmail        *string         `json:"customer_email"`
	CustomerPhone        *string         `json:"customer_phone"`
	CustomerAddress      *string         `json:"customer_address"`
	SupplierID           *int64          `json:"supplier_id"`
	WarehouseID          int64           `json:"warehouse_id"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate *civil.Date     `json:"expected_delivery_date"`
	Priority             Priority        `json:"priority"`
	Status               Status          `json:"status"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	ShippingAmount       decimal.Decimal `json:"shipping_amount"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	NetAmount            decimal.Decimal `json:"net_amount"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
	PaymentMethod        string          `json:"payment_method"`
	ShippingMethod       string          `json:"shipping_method"`
	TrackingNumber       string          `json:"tracking_number"`
	Notes                string          `json:"notes"`
	CreatedBy            int64           `json:"created_by"`
	UpdatedBy            int64           `json:"updated_by"`
	AssignedTo           *int64          `json:"assigned_to"`
	ApprovedBy           *int64          `json:"approved_by"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// MarshalJSON отдаёт заказ плоской записью, как строку таблицы.
func (o Order) MarshalJSON() ([]byte, error) {
	out := orderJSON{
		ID:                   o.ID,
		OrderNumber:          o.Number,
		OrderType:            o.Type(),
		SupplierID:           o.SupplierID(),
		WarehouseID:          o.WarehouseID,
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		Priority:             o.Priority,
		Status:               o.Status,
		TotalAmount:          o.TotalAmount,
		TaxAmount:            o.TaxAmount,
		ShippingAmount:       o.ShippingAmount,
		DiscountAmount:       o.DiscountAmount,
		NetAmount:            o.NetAmount,
		PaymentStatus:        o.PaymentStatus,
		PaymentMethod:        o.PaymentMethod,
		ShippingMethod:       o.ShippingMethod,
		TrackingNumber:       o.TrackingNumber,
		Notes:                o.Notes,
		CreatedBy:            o.CreatedBy,
		UpdatedBy:            o.UpdatedBy,
		AssignedTo:           o.AssignedTo,
		ApprovedBy:           o.ApprovedBy,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
	if c := o.Customer(); c != nil {
		out.CustomerName = &c.Name
		out.CustomerEmail = &c.Email
		out.CustomerPhone = &c.Phone
		out.CustomerAddress = &c.Address
	}
	return json.Marshal(out)
}

// StatusChange: строка истории статусов, только добавляется.
type StatusChange struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	ChangedBy int64     `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// Input: плоские поля формы заказа. Пустые перечисления и nil-указатели
// означают «не прислали».
type Input struct {
	OrderType            Type             `json:"order_type"`
	CustomerName         string           `json:"customer_name"`
	CustomerEmail        string           `json:"customer_email"`
	CustomerPhone        string           `json:"customer_phone"`
	CustomerAddress      string           `json:"customer_address"`
	SupplierID           *int64           `json:"supplier_id"`
	WarehouseID          *int64           `json:"warehouse_id"`
	ExpectedDeliveryDate *civil.Date      `json:"expected_delivery_date"`
	Priority             Priority         `json:"priority"`
	Status               Status           `json:"status"`
	TotalAmount          *decimal.Decimal `json:"total_amount"`
	TaxAmount            *decimal.Decimal `json:"tax_amount"`
	ShippingAmount       *decimal.Decimal `json:"shipping_amount"`
	DiscountAmount       *decimal.Decimal `json:"discount_amount"`
	PaymentStatus        PaymentStatus    `json:"payment_status"`
	PaymentMethod        string           `json:"payment_method"`
	ShippingMethod       string           `json:"shipping_method"`
	TrackingNumber       string           `json:"tracking_number"`
	Notes                string           `json:"notes"`
	AssignedTo           *int64           `json:"assigned_to"`
	ApprovedBy           *int64           `json:"approved_by"`
}

type Filter struct {
	Type        Type
	Status      Status
	WarehouseID int64
}

func NetAmount(total, discount decimal.Decimal) decimal.Decimal {
	return total.Sub(discount)
}
