package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orphancare/platform-backend/pkg/enums"
)

// Donation records a one-off contribution made outside the pledge workflow,
// either money or a described batch of goods.
type Donation struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DonorName        string             `gorm:"column:donor_name;not null"`
	DonorEmail       string             `gorm:"column:donor_email"`
	DonorPhone       string             `gorm:"column:donor_phone"`
	DonationType     enums.DonationType `gorm:"column:donation_type;type:text;not null"`
	Amount           *decimal.Decimal   `gorm:"column:amount;type:numeric(12,2)"`
	ItemsDescription *string            `gorm:"column:items_description"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
}
