package requests

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// Repository manages persistence for wishlist requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.InventoryRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRequest, error)
	List(ctx context.Context, filters ListFilters, cursor string, limit int) (RequestsPageDTO, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementFulfilled(ctx context.Context, id uuid.UUID, qty int) error
	CASFulfilled(ctx context.Context, id uuid.UUID, expected, target int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a requests repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.InventoryRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRequest, error) {
	var request models.InventoryRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, cursor string, limit int) (RequestsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return RequestsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.InventoryRequest{})
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.OpenOnly {
		query = query.Where("quantity_fulfilled < quantity_needed")
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.InventoryRequest
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return RequestsPageDTO{}, err
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

	dtos := make([]RequestDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toRequestDTO(row))
	}

	return RequestsPageDTO{Requests: dtos, NextCursor: nextCursor}, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.InventoryRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.InventoryRequest{}).Error
}

// IncrementFulfilled atomically bumps the fulfilled counter. The counter only
// grows; callers pass the shortfall they observed, never a recomputed total.
func (r *repository) IncrementFulfilled(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE inventory_requests
		SET quantity_fulfilled = quantity_fulfilled + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id).Error
}

// CASFulfilled moves the counter from expected to target only when no other
// writer got there first. The returned bool reports whether the swap applied.
func (r *repository) CASFulfilled(ctx context.Context, id uuid.UUID, expected, target int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_requests
		SET quantity_fulfilled = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity_fulfilled = ?
	`, target, id, expected)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
