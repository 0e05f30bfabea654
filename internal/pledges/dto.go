package pledges

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
)

// CreatePledgeInput captures a donor's commitment against a wishlist request.
type CreatePledgeInput struct {
	RequestID      uuid.UUID  `json:"request_id" validate:"required"`
	DonorName      string     `json:"donor_name" validate:"required,max=200"`
	DonorEmail     string     `json:"donor_email,omitempty" validate:"omitempty,email"`
	DonorPhone     string     `json:"donor_phone,omitempty" validate:"max=50"`
	Quantity       int        `json:"quantity" validate:"required,gt=0"`
	DeliveryMethod string     `json:"delivery_method,omitempty"`
	PickupDate     *time.Time `json:"pickup_date,omitempty"`
	PickupAddress  *string    `json:"pickup_address,omitempty"`
}

// PledgeDTO is the API shape of one pledge.
type PledgeDTO struct {
	ID             uuid.UUID            `json:"id"`
	RequestID      uuid.UUID            `json:"request_id"`
	DonorName      string               `json:"donor_name"`
	DonorEmail     string               `json:"donor_email,omitempty"`
	DonorPhone     string               `json:"donor_phone,omitempty"`
	Quantity       int                  `json:"quantity"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	PickupDate     *time.Time           `json:"pickup_date,omitempty"`
	PickupAddress  *string              `json:"pickup_address,omitempty"`
	Status         enums.PledgeStatus   `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// PledgesPageDTO is one page of pledges for a request.
type PledgesPageDTO struct {
	Pledges    []PledgeDTO `json:"pledges"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ToDTO converts a pledge row to its API shape.
func ToDTO(p models.DonationPledge) PledgeDTO {
	return toPledgeDTO(p)
}

func toPledgeDTO(p models.DonationPledge) PledgeDTO {
	return PledgeDTO{
		ID:             p.ID,
		RequestID:      p.RequestID,
		DonorName:      p.DonorName,
		DonorEmail:     p.DonorEmail,
		DonorPhone:     p.DonorPhone,
		Quantity:       p.Quantity,
		DeliveryMethod: p.DeliveryMethod,
		PickupDate:     p.PickupDate,
		PickupAddress:  p.PickupAddress,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
