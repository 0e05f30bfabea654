package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
)

// CreateRequestInput captures a new wishlist need.
type CreateRequestInput struct {
	ItemName       string  `json:"item_name" validate:"required,max=200"`
	Category       string  `json:"category" validate:"required,max=100"`
	Description    *string `json:"description,omitempty"`
	QuantityNeeded int     `json:"quantity_needed" validate:"required,gt=0"`
	Unit           string  `json:"unit,omitempty" validate:"max=50"`
	Priority       string  `json:"priority,omitempty"`
}

// UpdateRequestInput carries the mutable request attributes. The fulfilled
// counter is excluded; only the fulfillment flow writes it.
type UpdateRequestInput struct {
	ItemName       *string `json:"item_name,omitempty" validate:"omitempty,max=200"`
	Category       *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description    *string `json:"description,omitempty"`
	QuantityNeeded *int    `json:"quantity_needed,omitempty" validate:"omitempty,gt=0"`
	Unit           *string `json:"unit,omitempty" validate:"omitempty,max=50"`
	Priority       *string `json:"priority,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// ListFilters narrows request listings.
type ListFilters struct {
	ActiveOnly bool
	OpenOnly   bool
	Priority   string
	Category   string
}

// RequestDTO is the API shape of one wishlist request.
type RequestDTO struct {
	ID                uuid.UUID             `json:"id"`
	ItemName          string                `json:"item_name"`
	Category          string                `json:"category"`
	Description       *string               `json:"description,omitempty"`
	QuantityNeeded    int                   `json:"quantity_needed"`
	QuantityFulfilled int                   `json:"quantity_fulfilled"`
	QuantityRemaining int                   `json:"quantity_remaining"`
	Unit              string                `json:"unit"`
	Priority          enums.RequestPriority `json:"priority"`
	IsActive          bool                  `json:"is_active"`
	FullyResolved     bool                  `json:"fully_resolved"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// RequestsPageDTO is one page of wishlist requests.
type RequestsPageDTO struct {
	Requests   []RequestDTO `json:"requests"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toRequestDTO(r models.InventoryRequest) RequestDTO {
	remaining := r.QuantityNeeded - r.QuantityFulfilled
	if remaining < 0 {
		remaining = 0
	}
	return RequestDTO{
		ID:                r.ID,
		ItemName:          r.ItemName,
		Category:          r.Category,
		Description:       r.Description,
		QuantityNeeded:    r.QuantityNeeded,
		QuantityFulfilled: r.QuantityFulfilled,
		QuantityRemaining: remaining,
		Unit:              r.Unit,
		Priority:          r.Priority,
		IsActive:          r.IsActive,
		FullyResolved:     r.QuantityFulfilled >= r.QuantityNeeded,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
