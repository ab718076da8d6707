package orders

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/warehouse-ops/internal/civil"
	"github.com/Spok95/warehouse-ops/internal/validate"
)

func money(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}

func nonNegative(field string, get func(Input) *decimal.Decimal) validate.Rule[Input] {
	return validate.Rule[Input]{
		Field:   field,
		Message: field + " cannot be negative",
		Check:   func(in Input) bool { return !money(get(in)).IsNegative() },
	}
}

var requiredChecks = []validate.Rule[Input]{
	validate.Required("order_type", func(in Input) string { return string(in.OrderType) }),
	validate.Present("warehouse_id", func(in Input) *int64 { return in.WarehouseID }),
	validate.Present("total_amount", func(in Input) *decimal.Decimal { return in.TotalAmount }),
	validate.Present("expected_delivery_date", func(in Input) *civil.Date { return in.ExpectedDeliveryDate }),
}

var fieldChecks = []validate.Rule[Input]{
	validate.OneOf("order_type", func(in Input) Type { return in.OrderType },
		TypeInbound, TypeOutbound, TypeTransfer),
	validate.OneOf("priority", func(in Input) Priority { return in.Priority },
		PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent),
	validate.OneOf("status", func(in Input) Status { return in.Status }, Statuses...),
	validate.OneOf("payment_status", func(in Input) PaymentStatus { return in.PaymentStatus },
		PaymentPending, PaymentPaid, PaymentRefunded),
	nonNegative("total_amount", func(in Input) *decimal.Decimal { return in.TotalAmount }),
	nonNegative("tax_amount", func(in Input) *decimal.Decimal { return in.TaxAmount }),
	nonNegative("shipping_amount", func(in Input) *decimal.Decimal { return in.ShippingAmount }),
	nonNegative("discount_amount", func(in Input) *decimal.Decimal { return in.DiscountAmount }),
}

// partyChecks зависят от типа заказа; при обновлении тип может прийти из базы.
var partyChecks = []validate.Rule[Input]{
	{
		Field:   "supplier_id",
		Message: "supplier_id is required for inbound orders",
		Check: func(in Input) bool {
			return in.OrderType != TypeInbound || (in.SupplierID != nil && *in.SupplierID > 0)
		},
	},
	{
		Field:   "customer_email",
		Message: "customer_name and customer_email are required for outbound orders",
		Check: func(in Input) bool {
			return in.OrderType != TypeOutbound ||
				(strings.TrimSpace(in.CustomerName) != "" && strings.TrimSpace(in.CustomerEmail) != "")
		},
	},
	validate.Email("customer_email", func(in Input) string { return in.CustomerEmail }, "Invalid customer email format"),
}

var (
	updateRules = validate.New(fieldChecks...)
	partyRules  = validate.New(partyChecks...)
	addRules    = validate.New(requiredChecks...).Extend(fieldChecks...).Extend(partyChecks...)
)

func (in Input) normalized() Input {
	in.OrderType = Type(strings.TrimSpace(string(in.OrderType)))
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	if in.SupplierID != nil && *in.SupplierID == 0 {
		in.SupplierID = nil
	}
	if in.AssignedTo != nil && *in.AssignedTo == 0 {
		in.AssignedTo = nil
	}
	if in.ApprovedBy != nil && *in.ApprovedBy == 0 {
		in.ApprovedBy = nil
	}
	return in
}

// withDefaults: значения по умолчанию для нового заказа.
func (in Input) withDefaults() Input {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = PaymentPending
	}
	return in
}

// party строит сторону заказа по типу; поля другой ветки отбрасываются.
func (in Input) party() Party {
	switch in.OrderType {
	case TypeInbound:
		return Inbound{SupplierID: *in.SupplierID}
	case TypeOutbound:
		return Outbound{Customer: Customer{
			Name:    in.CustomerName,
			Email:   in.CustomerEmail,
			Phone:   in.CustomerPhone,
			Address: in.CustomerAddress,
		}}
	default:
		return Transfer{}
	}
}

// apply переносит вход в заказ. Отсутствующие перечисления, склад, дата и суммы
// сохраняют прежние значения; вход уже проверен правилами своего типа.
func (in Input) apply(o *Order) {
	o.Party = in.party()
	if in.WarehouseID != nil {
		o.WarehouseID = *in.WarehouseID
	}
	if in.ExpectedDeliveryDate != nil {
		o.ExpectedDeliveryDate = in.ExpectedDeliveryDate
	}
	if in.Priority != "" {
		o.Priority = in.Priority
	}
	if in.Status != "" {
		o.Status = in.Status
	}
	if in.PaymentStatus != "" {
		o.PaymentStatus = in.PaymentStatus
	}
	if in.TotalAmount != nil {
		o.TotalAmount = *in.TotalAmount
	}
	if in.TaxAmount != nil {
		o.TaxAmount = *in.TaxAmount
	}
	if in.ShippingAmount != nil {
		o.ShippingAmount = *in.ShippingAmount
	}
	if in.DiscountAmount != nil {
		o.DiscountAmount = *in.DiscountAmount
	}
	o.PaymentMethod = in.PaymentMethod
	o.ShippingMethod = in.ShippingMethod
	o.TrackingNumber = in.TrackingNumber
	o.Notes = in.Notes
	o.AssignedTo = in.AssignedTo
	o.ApprovedBy = in.ApprovedBy
	o.NetAmount = NetAmount(o.TotalAmount, o.DiscountAmount)
}
