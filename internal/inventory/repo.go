package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// Repository manages persistence for inventory balances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByNameCategory(ctx context.Context, itemName, category string) (*models.InventoryItem, error)
	List(ctx context.Context, filters ListFilters, cursor string, limit int) (ItemsPageDTO, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ResolveOrCreate(ctx context.Context, itemName, category, unit string) (*models.InventoryItem, error)
	AddQuantity(ctx context.Context, id uuid.UUID, qty int) error
	RemoveQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	Stats(ctx context.Context) (StatsDTO, error)
	AllBalances(ctx context.Context) ([]BalanceRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByNameCategory(ctx context.Context, itemName, category string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("item_name = ? AND category = ?", itemName, category).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, cursor string, limit int) (ItemsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return ItemsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Location != "" {
		query = query.Where("location = ?", filters.Location)
	}
	if filters.Search != "" {
		query = query.Where("item_name LIKE ?", "%"+filters.Search+"%")
	}
	if filters.BelowMinimum {
		query = query.Where("quantity < minimum_stock")
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var items []models.InventoryItem
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&items).Error
	if err != nil {
		return ItemsPageDTO{}, err
	}

	nextCursor := ""
	if len(items) > normalizedLimit {
		items = items[:normalizedLimit]
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toItemDTO(item))
	}

	return ItemsPageDTO{Items: dtos, NextCursor: nextCursor}, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.InventoryItem{}).Error
}

// ResolveOrCreate returns the item for the (item_name, category) pair, inserting
// a zero-quantity row when none exists. The insert ignores duplicate-key races so
// concurrent callers converge on one row.
func (r *repository) ResolveOrCreate(ctx context.Context, itemName, category, unit string) (*models.InventoryItem, error) {
	existing, err := r.FindByNameCategory(ctx, itemName, category)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if unit == "" {
		unit = "pieces"
	}
	err = r.db.WithContext(ctx).Exec(
		`INSERT INTO inventory (id, item_name, category, quantity, unit) VALUES (?, ?, ?, 0, ?) ON CONFLICT (item_name, category) DO NOTHING`,
		uuid.New(), itemName, category, unit,
	).Error
	if err != nil {
		return nil, err
	}

	return r.FindByNameCategory(ctx, itemName, category)
}

// AddQuantity increments the cached balance. Deleted or unknown item ids
// surface as gorm.ErrRecordNotFound rather than a silent no-op, so callers
// holding a stale reference fail instead of appending movements nothing backs.
func (r *repository) AddQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return gorm.ErrInvalidValue
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory
		SET quantity = quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveQuantity decrements the balance only when enough stock remains. The
// returned bool reports whether the guarded update applied.
func (r *repository) RemoveQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, gorm.ErrInvalidValue
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory
		SET quantity = quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, qty, id, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Stats(ctx context.Context) (StatsDTO, error) {
	var row struct {
		TotalItems    int64
		TotalQuantity int64
		LowStockItems int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select(
			"COUNT(*) AS total_items",
			"COALESCE(SUM(quantity), 0) AS total_quantity",
			"COALESCE(SUM(CASE WHEN quantity < minimum_stock THEN 1 ELSE 0 END), 0) AS low_stock_items",
		).
		Scan(&row).Error
	if err != nil {
		return StatsDTO{}, err
	}
	return StatsDTO{
		TotalItems:    row.TotalItems,
		TotalQuantity: row.TotalQuantity,
		LowStockItems: row.LowStockItems,
	}, nil
}

// AllBalances returns every cached balance for ledger audits.
func (r *repository) AllBalances(ctx context.Context) ([]BalanceRow, error) {
	var rows []BalanceRow
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("id", "item_name", "category", "quantity").
		Order("item_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
