package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/internal/pledges"
	"github.com/orphancare/platform-backend/internal/requests"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/metrics"
)

const reconcileCASAttempts = 4

// ReconcileFulfillmentJobParams configure the counter reconciliation job.
type ReconcileFulfillmentJobParams struct {
	Logger   *logger.Logger
	Pledges  pledges.Repository
	Requests requests.Repository
	Metrics  *metrics.FulfillmentMetrics
}

// NewReconcileFulfillmentJob builds the job that repairs fulfilled counters
// which drifted below the received pledge totals, e.g. after a crash between
// the pledge claim and the counter verification.
func NewReconcileFulfillmentJob(params ReconcileFulfillmentJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pledges == nil {
		return nil, fmt.Errorf("pledges repository required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	return &reconcileFulfillmentJob{
		logg:     params.Logger,
		pledges:  params.Pledges,
		requests: params.Requests,
		metrics:  params.Metrics,
	}, nil
}

type reconcileFulfillmentJob struct {
	logg     *logger.Logger
	pledges  pledges.Repository
	requests requests.Repository
	metrics  *metrics.FulfillmentMetrics
}

func (j *reconcileFulfillmentJob) Name() string { return "reconcile-fulfillment" }

func (j *reconcileFulfillmentJob) Run(ctx context.Context) error {
	totals, err := j.pledges.SumReceivedByRequest(ctx)
	if err != nil {
		return fmt.Errorf("sum received pledges: %w", err)
	}

	var errs error
	repaired := 0
	for requestID, total := range totals {
		fixed, err := j.reconcileRequest(ctx, requestID, total)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("request %s: %w", requestID, err))
			continue
		}
		if fixed {
			repaired++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"requests_checked":  len(totals),
		"requests_repaired": repaired,
	})
	j.logg.Info(logCtx, "fulfillment reconciliation complete")
	return errs
}

// reconcileRequest lifts the counter up to the received total. The counter
// never moves down: over-counting is left for operators to review.
func (j *reconcileFulfillmentJob) reconcileRequest(ctx context.Context, requestID uuid.UUID, total int) (bool, error) {
	fixed := false
	backoff := retry.WithMaxRetries(reconcileCASAttempts, retry.NewExponential(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		request, err := j.requests.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if request.QuantityFulfilled >= total {
			return nil
		}

		applied, err := j.requests.CASFulfilled(ctx, requestID, request.QuantityFulfilled, total)
		if err != nil {
			return err
		}
		if !applied {
			// another writer moved the counter; re-read and retry
			return retry.RetryableError(fmt.Errorf("fulfilled counter moved concurrently"))
		}
		fixed = true
		return nil
	})
	if err != nil {
		j.metrics.IncMismatch()
		return false, err
	}
	return fixed, nil
}
