package domain

import "time"

// InventoryCategory classifies stock items.
type InventoryCategory string

const (
	InventoryCategoryHardware  InventoryCategory = "hardware"
	InventoryCategoryAccessory InventoryCategory = "accessory"
	InventoryCategoryComponent InventoryCategory = "component"
)

// InventoryItem is a tracked stock line.
type InventoryItem struct {
	ID               string
	Name             string
	Category         InventoryCategory
	Quantity         int
	Status           string
	ReorderThreshold int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SerialNumber identifies one physical unit of an inventory item. Details
// carries free-form key/value metadata (batch, warranty, vendor reference).
type SerialNumber struct {
	ID              string
	InventoryItemID string
	Value           string
	Details         map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
