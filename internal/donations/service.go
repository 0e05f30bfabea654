package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

// CreateDonationInput captures a one-off donation record.
type CreateDonationInput struct {
	DonorName        string  `json:"donor_name" validate:"required,max=200"`
	DonorEmail       string  `json:"donor_email,omitempty" validate:"omitempty,email"`
	DonorPhone       string  `json:"donor_phone,omitempty" validate:"max=50"`
	DonationType     string  `json:"donation_type" validate:"required"`
	Amount           *string `json:"amount,omitempty"`
	ItemsDescription *string `json:"items_description,omitempty"`
}

// DonationDTO is the API shape of one donation.
type DonationDTO struct {
	ID               uuid.UUID          `json:"id"`
	DonorName        string             `json:"donor_name"`
	DonorEmail       string             `json:"donor_email,omitempty"`
	DonorPhone       string             `json:"donor_phone,omitempty"`
	DonationType     enums.DonationType `json:"donation_type"`
	Amount           *decimal.Decimal   `json:"amount,omitempty"`
	ItemsDescription *string            `json:"items_description,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// DonationsPageDTO is one page of donations.
type DonationsPageDTO struct {
	Donations  []DonationDTO `json:"donations"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// SummaryDTO aggregates monetary giving for dashboards.
type SummaryDTO struct {
	TotalMonetary decimal.Decimal `json:"total_monetary"`
}

// Service records and lists one-off donations.
type Service interface {
	CreateDonation(ctx context.Context, input CreateDonationInput) (*DonationDTO, error)
	GetDonation(ctx context.Context, id uuid.UUID) (*DonationDTO, error)
	ListDonations(ctx context.Context, cursor string, limit int) (DonationsPageDTO, error)
	Summary(ctx context.Context) (SummaryDTO, error)
}

type service struct {
	repo Repository
}

// NewService wires a donations service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("donations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateDonation(ctx context.Context, input CreateDonationInput) (*DonationDTO, error) {
	donorName := strings.TrimSpace(input.DonorName)
	if donorName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor name is required")
	}
	donationType, err := enums.ParseDonationType(input.DonationType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid donation type")
	}

	donation := &models.Donation{
		DonorName:        donorName,
		DonorEmail:       strings.TrimSpace(input.DonorEmail),
		DonorPhone:       strings.TrimSpace(input.DonorPhone),
		DonationType:     donationType,
		ItemsDescription: input.ItemsDescription,
	}

	switch donationType {
	case enums.DonationTypeMoney:
		if input.Amount == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount is required for monetary donations")
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(*input.Amount))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
		rounded := amount.Round(2)
		donation.Amount = &rounded
	case enums.DonationTypeItems:
		if input.ItemsDescription == nil || strings.TrimSpace(*input.ItemsDescription) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "items description is required for item donations")
		}
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create donation")
	}

	dto := toDonationDTO(*donation)
	return &dto, nil
}

func (s *service) GetDonation(ctx context.Context, id uuid.UUID) (*DonationDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation id required")
	}
	donation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation")
	}
	dto := toDonationDTO(*donation)
	return &dto, nil
}

func (s *service) ListDonations(ctx context.Context, cursor string, limit int) (DonationsPageDTO, error) {
	page, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return DonationsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}
	return page, nil
}

func (s *service) Summary(ctx context.Context) (SummaryDTO, error) {
	total, err := s.repo.TotalMonetary(ctx)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "donation summary")
	}
	return SummaryDTO{TotalMonetary: total}, nil
}

func toDonationDTO(d models.Donation) DonationDTO {
	return DonationDTO{
		ID:               d.ID,
		DonorName:        d.DonorName,
		DonorEmail:       d.DonorEmail,
		DonorPhone:       d.DonorPhone,
		DonationType:     d.DonationType,
		Amount:           d.Amount,
		ItemsDescription: d.ItemsDescription,
		CreatedAt:        d.CreatedAt,
	}
}
