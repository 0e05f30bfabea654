package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

// Service defines wishlist request operations beyond repository reads.
type Service interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*RequestDTO, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*RequestDTO, error)
	ListRequests(ctx context.Context, filters ListFilters, cursor string, limit int) (RequestsPageDTO, error)
	UpdateRequest(ctx context.Context, id uuid.UUID, input UpdateRequestInput) (*RequestDTO, error)
	DeactivateRequest(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a requests service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateRequest(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	itemName := strings.TrimSpace(input.ItemName)
	category := strings.TrimSpace(input.Category)
	if itemName == "" || category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name and category are required")
	}
	if input.QuantityNeeded <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity needed must be positive")
	}

	priority := enums.RequestPriorityMedium
	if input.Priority != "" {
		parsed, err := enums.ParseRequestPriority(input.Priority)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
		}
		priority = parsed
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "pieces"
	}

	request := &models.InventoryRequest{
		ItemName:       itemName,
		Category:       category,
		Description:    input.Description,
		QuantityNeeded: input.QuantityNeeded,
		Unit:           unit,
		Priority:       priority,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}

	dto := toRequestDTO(*request)
	return &dto, nil
}

func (s *service) GetRequest(ctx context.Context, id uuid.UUID) (*RequestDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	dto := toRequestDTO(*request)
	return &dto, nil
}

func (s *service) ListRequests(ctx context.Context, filters ListFilters, cursor string, limit int) (RequestsPageDTO, error) {
	if filters.Priority != "" {
		if _, err := enums.ParseRequestPriority(filters.Priority); err != nil {
			return RequestsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority filter")
		}
	}
	page, err := s.repo.List(ctx, filters, cursor, limit)
	if err != nil {
		return RequestsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return page, nil
}

func (s *service) UpdateRequest(ctx context.Context, id uuid.UUID, input UpdateRequestInput) (*RequestDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
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
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.QuantityNeeded != nil {
		if *input.QuantityNeeded <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity needed must be positive")
		}
		updates["quantity_needed"] = *input.QuantityNeeded
	}
	if input.Unit != nil {
		updates["unit"] = strings.TrimSpace(*input.Unit)
	}
	if input.Priority != nil {
		parsed, err := enums.ParseRequestPriority(*input.Priority)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
		}
		updates["priority"] = parsed
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if _, err := s.GetRequest(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request")
	}

	return s.GetRequest(ctx, id)
}

// DeactivateRequest hides the request from donors without losing its pledge
// history. Rows are never hard-deleted once pledges may reference them.
func (s *service) DeactivateRequest(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if _, err := s.GetRequest(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate request")
	}
	return nil
}
