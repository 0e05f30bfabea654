package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/internal/movements"
	"github.com/orphancare/platform-backend/internal/pledges"
	"github.com/orphancare/platform-backend/internal/requests"
	"github.com/orphancare/platform-backend/pkg/config"
	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/metrics"
)

// FulfillmentReason is the movement log reason recorded for every pledge intake.
const FulfillmentReason = "Donation pledge fulfilled"

// Outcome labels for the fulfillment result envelope.
const (
	StatusFulfilled        = "fulfilled"
	StatusAlreadyFulfilled = "already_fulfilled"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// FulfillInput identifies the pledge being marked as received.
type FulfillInput struct {
	PledgeID   uuid.UUID `json:"-"`
	ReceivedBy string    `json:"received_by,omitempty" validate:"max=200"`
}

// Result reports how a fulfillment call resolved.
type Result struct {
	Status     string            `json:"status"`
	Pledge     pledges.PledgeDTO `json:"pledge"`
	NewBalance int               `json:"new_balance"`
}

// Service drives a pledge from Pending to Received together with all the
// ledger bookkeeping that intake implies.
type Service interface {
	Fulfill(ctx context.Context, input FulfillInput) (*Result, error)
}

type service struct {
	pledges   pledges.Repository
	requests  requests.Repository
	inventory inventory.Repository
	movements movements.Repository
	tx        txRunner
	logg      *logger.Logger
	metrics   *metrics.FulfillmentMetrics
	cfg       config.FulfillmentConfig
}

// NewService wires the fulfillment orchestrator.
func NewService(
	pledgeRepo pledges.Repository,
	requestRepo requests.Repository,
	inventoryRepo inventory.Repository,
	movementRepo movements.Repository,
	tx txRunner,
	logg *logger.Logger,
	fm *metrics.FulfillmentMetrics,
	cfg config.FulfillmentConfig,
) (Service, error) {
	if pledgeRepo == nil {
		return nil, fmt.Errorf("pledges repository required")
	}
	if requestRepo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if movementRepo == nil {
		return nil, fmt.Errorf("movements repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		pledges:   pledgeRepo,
		requests:  requestRepo,
		inventory: inventoryRepo,
		movements: movementRepo,
		tx:        tx,
		logg:      logg,
		metrics:   fm,
		cfg:       cfg,
	}, nil
}

// Fulfill marks a pledge received. The status transition is the first side
// effect and the only serialization point: whichever caller claims the
// Pending row performs the ledger work, everyone else observes the outcome.
func (s *service) Fulfill(ctx context.Context, input FulfillInput) (*Result, error) {
	if input.PledgeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pledge id required")
	}
	ctx = s.logg.WithPledgeID(ctx, input.PledgeID.String())

	pledge, err := s.loadPledge(ctx, input.PledgeID)
	if err != nil {
		return nil, err
	}
	if result, err := s.shortCircuitTerminal(ctx, pledge); result != nil || err != nil {
		return result, err
	}

	request, err := s.requests.FindByID(ctx, pledge.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found for pledge")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	priorFulfilled := request.QuantityFulfilled

	claimed, err := s.pledges.TransitionStatus(ctx, pledge.ID, enums.PledgeStatusPending, enums.PledgeStatusReceived)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim pledge")
	}
	if !claimed {
		// lost the race; nothing has been mutated by this caller
		pledge, err = s.loadPledge(ctx, input.PledgeID)
		if err != nil {
			return nil, err
		}
		if result, err := s.shortCircuitTerminal(ctx, pledge); result != nil || err != nil {
			return result, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pledge is being processed")
	}

	// the claim is durable; the remaining bookkeeping must survive a
	// disconnecting caller
	ctx = context.WithoutCancel(ctx)
	pledge.Status = enums.PledgeStatusReceived

	var item *models.InventoryItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.inventory.WithTx(tx)
		movRepo := s.movements.WithTx(tx)

		item, err = invRepo.ResolveOrCreate(ctx, request.ItemName, request.Category, request.Unit)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve inventory item")
		}
		ctx = s.logg.WithItemID(ctx, item.ID.String())

		if err := invRepo.AddQuantity(ctx, item.ID, pledge.Quantity); err != nil {
			// an admin delete can land between resolve and increment;
			// aborting keeps the movement log free of orphaned rows
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "inventory item removed during intake")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply pledge quantity")
		}

		notes := fmt.Sprintf("Pledge ID: %s", pledge.ID)
		movement := &models.InventoryMovement{
			InventoryID:       item.ID,
			Quantity:          pledge.Quantity,
			MovementType:      enums.MovementTypeIn,
			Reason:            FulfillmentReason,
			SourceDestination: pledge.DonorName,
			Notes:             &notes,
			MovedBy:           input.ReceivedBy,
		}
		if err := movRepo.Append(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append intake movement")
		}
		return nil
	})
	if err != nil {
		// the pledge stays Received; the reconciliation job repairs the ledger
		s.logg.Error(ctx, "pledge claimed but ledger update failed", err)
		s.metrics.IncMismatch()
		return nil, err
	}

	s.verifyFulfilledCounter(ctx, request.ID, priorFulfilled, pledge.Quantity)

	balance := 0
	if reloaded, err := s.inventory.FindByID(ctx, item.ID); err == nil {
		balance = reloaded.Quantity
	}

	s.metrics.IncOutcome(StatusFulfilled)
	s.logg.Info(ctx, "pledge fulfilled")
	return &Result{
		Status:     StatusFulfilled,
		Pledge:     pledges.ToDTO(*pledge),
		NewBalance: balance,
	}, nil
}

func (s *service) loadPledge(ctx context.Context, id uuid.UUID) (*models.DonationPledge, error) {
	pledge, err := s.pledges.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pledge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pledge")
	}
	return pledge, nil
}

// shortCircuitTerminal resolves calls against pledges that already reached a
// terminal status: received is reported as success, cancelled as rejection.
func (s *service) shortCircuitTerminal(ctx context.Context, pledge *models.DonationPledge) (*Result, error) {
	switch pledge.Status {
	case enums.PledgeStatusReceived:
		s.metrics.IncOutcome(StatusAlreadyFulfilled)
		return &Result{
			Status: StatusAlreadyFulfilled,
			Pledge: pledges.ToDTO(*pledge),
		}, nil
	case enums.PledgeStatusCancelled:
		s.metrics.IncOutcome("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pledge was cancelled")
	default:
		return nil, nil
	}
}

// verifyFulfilledCounter checks that the request counter advanced by the
// pledge quantity and tops up any shortfall. Deployments that install the
// status trigger arrive here already consistent; deployments without it are
// corrected by the catch-up increment. A counter that stays short is reported,
// never swallowed.
func (s *service) verifyFulfilledCounter(ctx context.Context, requestID uuid.UUID, prior, qty int) {
	if s.cfg.VerifyDelay > 0 {
		time.Sleep(s.cfg.VerifyDelay)
	}

	expected := prior + qty
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		s.logg.Error(ctx, "verify fulfilled counter: reload request", err)
		s.metrics.IncMismatch()
		return
	}
	if request.QuantityFulfilled >= expected {
		return
	}

	shortfall := expected - request.QuantityFulfilled
	if err := s.requests.IncrementFulfilled(ctx, requestID, shortfall); err != nil {
		s.logg.Error(ctx, "verify fulfilled counter: catch-up increment", err)
		s.metrics.IncMismatch()
		return
	}

	request, err = s.requests.FindByID(ctx, requestID)
	if err != nil || request.QuantityFulfilled < expected {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"request_id": requestID.String(),
			"expected":   expected,
		})
		s.logg.Error(ctx, "fulfilled counter still short after catch-up", err)
		s.metrics.IncMismatch()
	}
}

