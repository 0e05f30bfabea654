package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/enums"
)

// InventoryRequest is a standing wishlist need. QuantityFulfilled is owned by
// the fulfillment flow (or an equivalent database trigger whose effect the
// flow verifies) and never decreases.
type InventoryRequest struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemName          string                `gorm:"column:item_name;not null"`
	Category          string                `gorm:"column:category;not null"`
	Description       *string               `gorm:"column:description"`
	QuantityNeeded    int                   `gorm:"column:quantity_needed;not null"`
	QuantityFulfilled int                   `gorm:"column:quantity_fulfilled;not null;default:0"`
	Unit              string                `gorm:"column:unit"`
	Priority          enums.RequestPriority `gorm:"column:priority;type:text;not null;default:'Medium'"`
	IsActive          bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
