package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db"
	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

const nameCategoryConstraint = "inventory_name_category_key"

// Service defines inventory operations beyond repository reads.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, filters ListFilters, cursor string, limit int) (ItemsPageDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (StatsDTO, error)
}

type service struct {
	repo Repository
}

// NewService wires an inventory service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	itemName := strings.TrimSpace(input.ItemName)
	category := strings.TrimSpace(input.Category)
	if itemName == "" || category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name and category are required")
	}

	condition := enums.ItemConditionGood
	if input.Condition != "" {
		parsed, err := enums.ParseItemCondition(input.Condition)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item condition")
		}
		condition = parsed
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "pieces"
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = "Main Storage"
	}

	item := &models.InventoryItem{
		ItemName:        itemName,
		Category:        category,
		Quantity:        input.Quantity,
		Unit:            unit,
		Description:     input.Description,
		Condition:       condition,
		Location:        location,
		MinimumStock:    input.MinimumStock,
		AcquisitionDate: input.AcquisitionDate,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, nameCategoryConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item already exists for this name and category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}

	dto := toItemDTO(*item)
	return &dto, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	dto := toItemDTO(*item)
	return &dto, nil
}

func (s *service) ListItems(ctx context.Context, filters ListFilters, cursor string, limit int) (ItemsPageDTO, error) {
	page, err := s.repo.List(ctx, filters, cursor, limit)
	if err != nil {
		return ItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return page, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	updates := map[string]any{}
	if input.ItemName != nil {
		name := strings.TrimSpace(*input.ItemName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["item_name"] = name
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		updates["category"] = category
	}
	if input.Unit != nil {
		updates["unit"] = strings.TrimSpace(*input.Unit)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Condition != nil {
		parsed, err := enums.ParseItemCondition(*input.Condition)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item condition")
		}
		updates["condition"] = parsed
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.MinimumStock != nil {
		if *input.MinimumStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum stock cannot be negative")
		}
		updates["minimum_stock"] = *input.MinimumStock
	}

	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err, nameCategoryConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item already exists for this name and category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
	}

	return s.GetItem(ctx, id)
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (StatsDTO, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inventory stats")
	}
	return stats, nil
}
