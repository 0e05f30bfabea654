package pledges

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/internal/requests"
	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

// Service defines the donor-facing pledge lifecycle up to fulfillment.
type Service interface {
	CreatePledge(ctx context.Context, input CreatePledgeInput) (*PledgeDTO, error)
	GetPledge(ctx context.Context, id uuid.UUID) (*PledgeDTO, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID, cursor string, limit int) (PledgesPageDTO, error)
	CancelPledge(ctx context.Context, id uuid.UUID) (*PledgeDTO, error)
}

type service struct {
	repo     Repository
	requests requests.Repository
}

// NewService wires a pledge service with its persistence dependencies.
func NewService(repo Repository, requestsRepo requests.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pledges repository required")
	}
	if requestsRepo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	return &service{repo: repo, requests: requestsRepo}, nil
}

func (s *service) CreatePledge(ctx context.Context, input CreatePledgeInput) (*PledgeDTO, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	donorName := strings.TrimSpace(input.DonorName)
	if donorName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor name is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	deliveryMethod := enums.DeliveryMethodDropOff
	if input.DeliveryMethod != "" {
		parsed, err := enums.ParseDeliveryMethod(input.DeliveryMethod)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
		}
		deliveryMethod = parsed
	}
	if deliveryMethod == enums.DeliveryMethodPickup {
		if input.PickupAddress == nil || strings.TrimSpace(*input.PickupAddress) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup address is required for pickup pledges")
		}
	}

	request, err := s.requests.FindByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if !request.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is no longer active")
	}

	pledge := &models.DonationPledge{
		RequestID:      request.ID,
		DonorName:      donorName,
		DonorEmail:     strings.TrimSpace(input.DonorEmail),
		DonorPhone:     strings.TrimSpace(input.DonorPhone),
		Quantity:       input.Quantity,
		DeliveryMethod: deliveryMethod,
		PickupDate:     input.PickupDate,
		PickupAddress:  input.PickupAddress,
		Status:         enums.PledgeStatusPending,
	}
	if err := s.repo.Create(ctx, pledge); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pledge")
	}

	dto := toPledgeDTO(*pledge)
	return &dto, nil
}

func (s *service) GetPledge(ctx context.Context, id uuid.UUID) (*PledgeDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pledge id required")
	}
	pledge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pledge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pledge")
	}
	dto := toPledgeDTO(*pledge)
	return &dto, nil
}

func (s *service) ListByRequest(ctx context.Context, requestID uuid.UUID, cursor string, limit int) (PledgesPageDTO, error) {
	if requestID == uuid.Nil {
		return PledgesPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	page, err := s.repo.ListByRequest(ctx, requestID, cursor, limit)
	if err != nil {
		return PledgesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pledges")
	}
	return page, nil
}

// CancelPledge withdraws a pending pledge. Cancelling twice is a no-op;
// cancelling a received pledge is refused because its goods already moved.
func (s *service) CancelPledge(ctx context.Context, id uuid.UUID) (*PledgeDTO, error) {
	pledge, err := s.GetPledge(ctx, id)
	if err != nil {
		return nil, err
	}

	switch pledge.Status {
	case enums.PledgeStatusCancelled:
		return pledge, nil
	case enums.PledgeStatusReceived:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pledge has already been received")
	}

	applied, err := s.repo.TransitionStatus(ctx, id, enums.PledgeStatusPending, enums.PledgeStatusCancelled)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel pledge")
	}
	if !applied {
		// lost the race with a fulfillment or another cancel; report the winner
		current, err := s.GetPledge(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == enums.PledgeStatusCancelled {
			return current, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pledge has already been received")
	}

	return s.GetPledge(ctx, id)
}
