package controllers

import (
	"net/http"

	"github.com/orphancare/platform-backend/api/responses"
	"github.com/orphancare/platform-backend/api/validators"
	"github.com/orphancare/platform-backend/internal/movements"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/pagination"
)

// MovementRecord applies a manual stock movement and logs it atomically.
func MovementRecord(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movements service unavailable"))
			return
		}

		var payload movements.RecordMovementInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movement, err := svc.Record(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, movement)
	}
}

// MovementListByItem returns the movement log for one inventory item.
func MovementListByItem(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movements service unavailable"))
			return
		}

		itemID, err := validators.ParsePathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListByItem(r.Context(), itemID, r.URL.Query().Get("cursor"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
