package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orphancare/platform-backend/pkg/enums"
)

// DonationPledge is a donor's commitment to supply a quantity of an item
// against a wishlist request. Status moves Pending to Received or Cancelled
// through conditional writes only.
type DonationPledge struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID      uuid.UUID            `gorm:"column:request_id;type:uuid;not null;index:donation_pledges_request_id_idx"`
	DonorName      string               `gorm:"column:donor_name;not null"`
	DonorEmail     string               `gorm:"column:donor_email"`
	DonorPhone     string               `gorm:"column:donor_phone"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	DeliveryMethod enums.DeliveryMethod `gorm:"column:delivery_method;type:text;not null;default:'Drop-off'"`
	PickupDate     *time.Time           `gorm:"column:pickup_date"`
	PickupAddress  *string              `gorm:"column:pickup_address"`
	Status         enums.PledgeStatus   `gorm:"column:status;type:text;not null;default:'Pending'"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
