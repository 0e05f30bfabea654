package movements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records stock changes and exposes the movement log.
type Service interface {
	Record(ctx context.Context, input RecordMovementInput) (*MovementDTO, error)
	ListByItem(ctx context.Context, inventoryID uuid.UUID, cursor string, limit int) (MovementsPageDTO, error)
}

type service struct {
	repo      Repository
	inventory inventory.Repository
	tx        txRunner
}

// NewService wires a movements service with its persistence dependencies.
func NewService(repo Repository, inventoryRepo inventory.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("movements repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, inventory: inventoryRepo, tx: tx}, nil
}

// Record applies a manual movement: the balance change and the log row commit
// together. Outbound movements only apply while enough stock remains.
func (s *service) Record(ctx context.Context, input RecordMovementInput) (*MovementDTO, error) {
	if input.InventoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	movementType, err := enums.ParseMovementType(input.MovementType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type")
	}

	var recorded *models.InventoryMovement
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.inventory.WithTx(tx)
		movRepo := s.repo.WithTx(tx)

		if _, err := invRepo.FindByID(ctx, input.InventoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}

		switch movementType {
		case enums.MovementTypeIn:
			if err := invRepo.AddQuantity(ctx, input.InventoryID, input.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply inbound movement")
			}
		case enums.MovementTypeOut:
			applied, err := invRepo.RemoveQuantity(ctx, input.InventoryID, input.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply outbound movement")
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for outbound movement")
			}
		}

		movement := &models.InventoryMovement{
			InventoryID:       input.InventoryID,
			Quantity:          input.Quantity,
			MovementType:      movementType,
			Reason:            strings.TrimSpace(input.Reason),
			SourceDestination: strings.TrimSpace(input.SourceDestination),
			Notes:             input.Notes,
			MovedBy:           strings.TrimSpace(input.MovedBy),
		}
		if err := movRepo.Append(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append movement")
		}
		recorded = movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toMovementDTO(*recorded)
	return &dto, nil
}

func (s *service) ListByItem(ctx context.Context, inventoryID uuid.UUID, cursor string, limit int) (MovementsPageDTO, error) {
	if inventoryID == uuid.Nil {
		return MovementsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "inventory id required")
	}
	page, err := s.repo.ListByItem(ctx, inventoryID, cursor, limit)
	if err != nil {
		return MovementsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements")
	}
	return page, nil
}
