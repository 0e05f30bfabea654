package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
)

// CreateItemInput captures the fields accepted when registering stock directly.
type CreateItemInput struct {
	ItemName        string     `json:"item_name" validate:"required,max=200"`
	Category        string     `json:"category" validate:"required,max=100"`
	Quantity        int        `json:"quantity" validate:"gte=0"`
	Unit            string     `json:"unit" validate:"max=50"`
	Description     *string    `json:"description,omitempty"`
	Condition       string     `json:"condition,omitempty"`
	Location        string     `json:"location,omitempty" validate:"max=200"`
	MinimumStock    int        `json:"minimum_stock" validate:"gte=0"`
	AcquisitionDate *time.Time `json:"acquisition_date,omitempty"`
}

// UpdateItemInput carries the mutable item attributes. Quantity is absent on
// purpose; balances only change through movements.
type UpdateItemInput struct {
	ItemName     *string `json:"item_name,omitempty" validate:"omitempty,max=200"`
	Category     *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Unit         *string `json:"unit,omitempty" validate:"omitempty,max=50"`
	Description  *string `json:"description,omitempty"`
	Condition    *string `json:"condition,omitempty"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=200"`
	MinimumStock *int    `json:"minimum_stock,omitempty" validate:"omitempty,gte=0"`
}

// ListFilters narrows inventory listings.
type ListFilters struct {
	Category     string
	Location     string
	Search       string
	BelowMinimum bool
}

// ItemDTO is the API shape of one inventory row.
type ItemDTO struct {
	ID              uuid.UUID           `json:"id"`
	ItemName        string              `json:"item_name"`
	Category        string              `json:"category"`
	Quantity        int                 `json:"quantity"`
	Unit            string              `json:"unit"`
	Description     *string             `json:"description,omitempty"`
	Condition       enums.ItemCondition `json:"condition"`
	Location        string              `json:"location"`
	MinimumStock    int                 `json:"minimum_stock"`
	BelowMinimum    bool                `json:"below_minimum"`
	AcquisitionDate *time.Time          `json:"acquisition_date,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ItemsPageDTO is one page of inventory rows.
type ItemsPageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// BalanceRow is one cached balance as seen by ledger audits.
type BalanceRow struct {
	ID       uuid.UUID `gorm:"column:id"`
	ItemName string    `gorm:"column:item_name"`
	Category string    `gorm:"column:category"`
	Quantity int       `gorm:"column:quantity"`
}

// StatsDTO summarizes the stock position for dashboards.
type StatsDTO struct {
	TotalItems    int64 `json:"total_items"`
	TotalQuantity int64 `json:"total_quantity"`
	LowStockItems int64 `json:"low_stock_items"`
}

func toItemDTO(item models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:              item.ID,
		ItemName:        item.ItemName,
		Category:        item.Category,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		Description:     item.Description,
		Condition:       item.Condition,
		Location:        item.Location,
		MinimumStock:    item.MinimumStock,
		BelowMinimum:    item.Quantity < item.MinimumStock,
		AcquisitionDate: item.AcquisitionDate,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}
