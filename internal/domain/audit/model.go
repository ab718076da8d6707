package audit

import "time"

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
)

type EntityType string

const (
	EntityInventory EntityType = "inventory"
	EntityOrder     EntityType = "order"
	EntitySupplier  EntityType = "supplier"
	EntityWarehouse EntityType = "warehouse"
)

type Entry struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Action      Action     `json:"action"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    int64      `json:"entity_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}
