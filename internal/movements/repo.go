package movements

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// Repository manages persistence for the append-only movement log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, movement *models.InventoryMovement) error
	ListByItem(ctx context.Context, inventoryID uuid.UUID, cursor string, limit int) (MovementsPageDTO, error)
	NetBalance(ctx context.Context, inventoryID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a movements repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, movement *models.InventoryMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListByItem(ctx context.Context, inventoryID uuid.UUID, cursor string, limit int) (MovementsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return MovementsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.InventoryMovement{}).
		Where("inventory_id = ?", inventoryID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.InventoryMovement
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return MovementsPageDTO{}, err
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

	dtos := make([]MovementDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toMovementDTO(row))
	}

	return MovementsPageDTO{Movements: dtos, NextCursor: nextCursor}, nil
}

// NetBalance replays the log for one item: inbound minus outbound.
func (r *repository) NetBalance(ctx context.Context, inventoryID uuid.UUID) (int, error) {
	var row struct {
		Net int
	}
	err := r.db.WithContext(ctx).
		Model(&models.InventoryMovement{}).
		Select("COALESCE(SUM(CASE WHEN movement_type = ? THEN quantity ELSE -quantity END), 0) AS net", enums.MovementTypeIn).
		Where("inventory_id = ?", inventoryID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Net, nil
}
