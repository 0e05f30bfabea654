package pledges

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// Repository manages persistence for donation pledges.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pledge *models.DonationPledge) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DonationPledge, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID, cursor string, limit int) (PledgesPageDTO, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.PledgeStatus) (bool, error)
	SumReceivedByRequest(ctx context.Context) (map[uuid.UUID]int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pledges repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pledge *models.DonationPledge) error {
	if pledge.ID == uuid.Nil {
		pledge.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(pledge).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DonationPledge, error) {
	var pledge models.DonationPledge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pledge).Error; err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *repository) ListByRequest(ctx context.Context, requestID uuid.UUID, cursor string, limit int) (PledgesPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return PledgesPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.DonationPledge{}).
		Where("request_id = ?", requestID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.DonationPledge
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return PledgesPageDTO{}, err
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

	dtos := make([]PledgeDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toPledgeDTO(row))
	}

	return PledgesPageDTO{Pledges: dtos, NextCursor: nextCursor}, nil
}

// SumReceivedByRequest totals received pledge quantities per request. The
// reconciliation job uses it as the ground truth for the fulfilled counters.
func (r *repository) SumReceivedByRequest(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		RequestID uuid.UUID
		Total     int
	}
	err := r.db.WithContext(ctx).
		Model(&models.DonationPledge{}).
		Select("request_id", "SUM(quantity) AS total").
		Where("status = ?", enums.PledgeStatusReceived).
		Group("request_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		totals[row.RequestID] = row.Total
	}
	return totals, nil
}

// TransitionStatus is the serialization point for the pledge lifecycle: the
// conditional update applies exactly once per (from, to) pair, so concurrent
// writers race for a single winner.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.PledgeStatus) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE donation_pledges
		SET status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, to, id, from)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
