package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/enums"
)

// InventoryItem caches the current stock balance for one (item_name, category)
// pair. The balance is only mutated through movement-producing operations; the
// movement log remains the independent source of truth.
type InventoryItem struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemName        string              `gorm:"column:item_name;not null;uniqueIndex:inventory_name_category_key"`
	Category        string              `gorm:"column:category;not null;uniqueIndex:inventory_name_category_key"`
	Quantity        int                 `gorm:"column:quantity;not null;default:0"`
	Unit            string              `gorm:"column:unit"`
	Description     *string             `gorm:"column:description"`
	Condition       enums.ItemCondition `gorm:"column:condition;type:text;not null;default:'Good'"`
	Location        string              `gorm:"column:location;not null;default:'Main Storage'"`
	MinimumStock    int                 `gorm:"column:minimum_stock;not null;default:0"`
	AcquisitionDate *time.Time          `gorm:"column:acquisition_date"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the original table name instead of GORM's pluralization.
func (InventoryItem) TableName() string { return "inventory" }
