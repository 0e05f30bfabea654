package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/internal/movements"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/metrics"
)

// AuditBalancesJobParams configure the ledger audit job.
type AuditBalancesJobParams struct {
	Logger    *logger.Logger
	Inventory inventory.Repository
	Movements movements.Repository
	Metrics   *metrics.FulfillmentMetrics
}

// NewAuditBalancesJob builds the job that replays the movement log per item
// and reports cached balances that disagree with it. The log stays the source
// of truth; the job surfaces drift instead of silently rewriting balances.
func NewAuditBalancesJob(params AuditBalancesJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Movements == nil {
		return nil, fmt.Errorf("movements repository required")
	}
	return &auditBalancesJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		movements: params.Movements,
		metrics:   params.Metrics,
	}, nil
}

type auditBalancesJob struct {
	logg      *logger.Logger
	inventory inventory.Repository
	movements movements.Repository
	metrics   *metrics.FulfillmentMetrics
}

func (j *auditBalancesJob) Name() string { return "audit-balances" }

func (j *auditBalancesJob) Run(ctx context.Context) error {
	balances, err := j.inventory.AllBalances(ctx)
	if err != nil {
		return fmt.Errorf("load balances: %w", err)
	}

	var errs error
	drifted := 0
	for _, balance := range balances {
		net, err := j.movements.NetBalance(ctx, balance.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("item %s: %w", balance.ID, err))
			continue
		}
		if net == balance.Quantity {
			continue
		}

		drifted++
		j.metrics.IncMismatch()
		itemCtx := j.logg.WithFields(ctx, map[string]any{
			"item_id":   balance.ID.String(),
			"item_name": balance.ItemName,
			"category":  balance.Category,
			"cached":    balance.Quantity,
			"replayed":  net,
		})
		j.logg.Warn(itemCtx, "cached balance disagrees with movement log")
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"items_checked": len(balances),
		"items_drifted": drifted,
	})
	j.logg.Info(logCtx, "balance audit complete")
	return errs
}
