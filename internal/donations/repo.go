package donations

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// Repository manages persistence for one-off donations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, donation *models.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	List(ctx context.Context, cursor string, limit int) (DonationsPageDTO, error)
	TotalMonetary(ctx context.Context) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a donations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, donation *models.Donation) error {
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *repository) List(ctx context.Context, cursor string, limit int) (DonationsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return DonationsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Donation{})
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Donation
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return DonationsPageDTO{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	dtos := make([]DonationDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDonationDTO(row))
	}

	return DonationsPageDTO{Donations: dtos, NextCursor: nextCursor}, nil
}

func (r *repository) TotalMonetary(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("donation_type = ?", enums.DonationTypeMoney).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
