package controllers

import (
	"net/http"

	"github.com/orphancare/platform-backend/api/responses"
	"github.com/orphancare/platform-backend/api/validators"
	"github.com/orphancare/platform-backend/internal/fulfillment"
	"github.com/orphancare/platform-backend/internal/pledges"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// PledgeCreate records a donor's promise against an open request.
func PledgeCreate(svc pledges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		var payload pledges.CreatePledgeInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledge, err := svc.CreatePledge(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pledge)
	}
}

func PledgeGet(svc pledges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "pledgeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledge, err := svc.GetPledge(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pledge)
	}
}

// PledgeListByRequest returns the pledges made against one request.
func PledgeListByRequest(svc pledges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		requestID, err := validators.ParsePathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListByRequest(r.Context(), requestID, r.URL.Query().Get("cursor"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PledgeCancel withdraws a pending pledge. Cancelling twice is a no-op.
func PledgeCancel(svc pledges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "pledgeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledge, err := svc.CancelPledge(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pledge)
	}
}

type pledgeFulfillRequest struct {
	ReceivedBy string `json:"received_by,omitempty" validate:"max=200"`
}

// PledgeFulfill converts a pending pledge into inventory. Replays return the
// same shape with status "already_fulfilled" instead of an error.
func PledgeFulfill(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fulfillment service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "pledgeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload pledgeFulfillRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Fulfill(r.Context(), fulfillment.FulfillInput{
			PledgeID:   id,
			ReceivedBy: payload.ReceivedBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
