package warehouses

import (
	"strings"

	"github.com/Spok95/warehouse-ops/internal/validate"
)

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// порядок важен: «больше общей ёмкости» проверяется после неотрицательности
var inputRules = validate.New(
	validate.Required("name", func(in Input) string { return in.Name }),
	validate.Required("address", func(in Input) string { return in.Address }),
	validate.Required("city", func(in Input) string { return in.City }),
	validate.Required("country", func(in Input) string { return in.Country }),
	validate.Required("zip_code", func(in Input) string { return in.ZipCode }),
	validate.Required("phone", func(in Input) string { return in.Phone }),
	validate.Required("email", func(in Input) string { return in.Email }),
	validate.Email("email", func(in Input) string { return in.Email }, "Invalid email format"),
	validate.Present("total_capacity", func(in Input) *int64 { return in.TotalCapacity }),
	validate.Present("available_capacity", func(in Input) *int64 { return in.AvailableCapacity }),
	validate.Rule[Input]{
		Field:   "total_capacity",
		Message: "Total capacity must be greater than 0",
		Check:   func(in Input) bool { return deref(in.TotalCapacity) > 0 },
	},
	validate.Rule[Input]{
		Field:   "available_capacity",
		Message: "Available capacity cannot be negative",
		Check:   func(in Input) bool { return deref(in.AvailableCapacity) >= 0 },
	},
	validate.Rule[Input]{
		Field:   "available_capacity",
		Message: "Available capacity cannot exceed total capacity",
		Check:   func(in Input) bool { return deref(in.AvailableCapacity) <= deref(in.TotalCapacity) },
	},
	validate.OneOf("warehouse_type", func(in Input) Type { return in.Type },
		TypeDistribution, TypeStorage, TypeFulfillment),
	validate.OneOf("status", func(in Input) Status { return in.Status },
		StatusActive, StatusInactive, StatusMaintenance),
)

func Validate(in Input) error { return inputRules.Validate(in) }

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Type == "" {
		in.Type = TypeStorage
	}
	if in.Status == "" {
		in.Status = StatusActive
	}
	if in.ManagerID != nil && *in.ManagerID == 0 {
		in.ManagerID = nil
	}
	return in
}

func (in Input) apply(w *Warehouse) {
	w.Name = in.Name
	w.Address = in.Address
	w.City = in.City
	w.State = in.State
	w.ZipCode = in.ZipCode
	w.Country = in.Country
	w.Phone = in.Phone
	w.Email = in.Email
	w.Type = in.Type
	w.Status = in.Status
	w.TotalCapacity = deref(in.TotalCapacity)
	w.AvailableCapacity = deref(in.AvailableCapacity)
	w.CapacityUtilization = Utilization(w.TotalCapacity, w.AvailableCapacity)
	w.ManagerID = in.ManagerID
}
