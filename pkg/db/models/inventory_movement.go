package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/enums"
)

// InventoryMovement records one immutable stock change. Rows are only ever
// inserted; the set of movements for an item reconstructs its balance.
type InventoryMovement struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InventoryID       uuid.UUID          `gorm:"column:inventory_id;type:uuid;not null;index:inventory_movements_inventory_id_idx"`
	Quantity          int                `gorm:"column:quantity;not null"`
	MovementType      enums.MovementType `gorm:"column:movement_type;type:text;not null"`
	Reason            string             `gorm:"column:reason;not null"`
	SourceDestination string             `gorm:"column:source_destination"`
	Notes             *string            `gorm:"column:notes"`
	MovedBy           string             `gorm:"column:moved_by"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
}
