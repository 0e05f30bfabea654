package movements

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
)

// RecordMovementInput captures a manual stock change.
type RecordMovementInput struct {
	InventoryID       uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity          int       `json:"quantity" validate:"required,gt=0"`
	MovementType      string    `json:"movement_type" validate:"required"`
	Reason            string    `json:"reason" validate:"required,max=500"`
	SourceDestination string    `json:"source_destination,omitempty" validate:"max=200"`
	Notes             *string   `json:"notes,omitempty"`
	MovedBy           string    `json:"moved_by,omitempty" validate:"max=200"`
}

// MovementDTO is the API shape of one movement row.
type MovementDTO struct {
	ID                uuid.UUID          `json:"id"`
	InventoryID       uuid.UUID          `json:"inventory_id"`
	Quantity          int                `json:"quantity"`
	MovementType      enums.MovementType `json:"movement_type"`
	Reason            string             `json:"reason"`
	SourceDestination string             `json:"source_destination,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	MovedBy           string             `json:"moved_by,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// MovementsPageDTO is one page of the movement log.
type MovementsPageDTO struct {
	Movements  []MovementDTO `json:"movements"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toMovementDTO(m models.InventoryMovement) MovementDTO {
	return MovementDTO{
		ID:                m.ID,
		InventoryID:       m.InventoryID,
		Quantity:          m.Quantity,
		MovementType:      m.MovementType,
		Reason:            m.Reason,
		SourceDestination: m.SourceDestination,
		Notes:             m.Notes,
		MovedBy:           m.MovedBy,
		CreatedAt:         m.CreatedAt,
	}
}
