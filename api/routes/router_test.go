package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orphancare/platform-backend/internal/donations"
	"github.com/orphancare/platform-backend/internal/fulfillment"
	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/internal/movements"
	"github.com/orphancare/platform-backend/internal/pledges"
	"github.com/orphancare/platform-backend/internal/requests"
	"github.com/orphancare/platform-backend/pkg/config"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubInventoryService struct{}

func (stubInventoryService) CreateItem(context.Context, inventory.CreateItemInput) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{}, nil
}

func (stubInventoryService) GetItem(context.Context, uuid.UUID) (*inventory.ItemDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}

func (stubInventoryService) ListItems(context.Context, inventory.ListFilters, string, int) (inventory.ItemsPageDTO, error) {
	return inventory.ItemsPageDTO{Items: []inventory.ItemDTO{}}, nil
}

func (stubInventoryService) UpdateItem(context.Context, uuid.UUID, inventory.UpdateItemInput) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{}, nil
}

func (stubInventoryService) DeleteItem(context.Context, uuid.UUID) error { return nil }

func (stubInventoryService) Stats(context.Context) (inventory.StatsDTO, error) {
	return inventory.StatsDTO{TotalItems: 3, TotalQuantity: 40, LowStockItems: 1}, nil
}

type stubMovementService struct{}

func (stubMovementService) Record(context.Context, movements.RecordMovementInput) (*movements.MovementDTO, error) {
	return &movements.MovementDTO{}, nil
}

func (stubMovementService) ListByItem(context.Context, uuid.UUID, string, int) (movements.MovementsPageDTO, error) {
	return movements.MovementsPageDTO{Movements: []movements.MovementDTO{}}, nil
}

type stubRequestService struct{}

func (stubRequestService) CreateRequest(context.Context, requests.CreateRequestInput) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{}, nil
}

func (stubRequestService) GetRequest(context.Context, uuid.UUID) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{}, nil
}

func (stubRequestService) ListRequests(context.Context, requests.ListFilters, string, int) (requests.RequestsPageDTO, error) {
	return requests.RequestsPageDTO{Requests: []requests.RequestDTO{}}, nil
}

func (stubRequestService) UpdateRequest(context.Context, uuid.UUID, requests.UpdateRequestInput) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{}, nil
}

func (stubRequestService) DeactivateRequest(context.Context, uuid.UUID) error { return nil }

type stubPledgeService struct{}

func (stubPledgeService) CreatePledge(context.Context, pledges.CreatePledgeInput) (*pledges.PledgeDTO, error) {
	return &pledges.PledgeDTO{}, nil
}

func (stubPledgeService) GetPledge(context.Context, uuid.UUID) (*pledges.PledgeDTO, error) {
	return &pledges.PledgeDTO{}, nil
}

func (stubPledgeService) ListByRequest(context.Context, uuid.UUID, string, int) (pledges.PledgesPageDTO, error) {
	return pledges.PledgesPageDTO{Pledges: []pledges.PledgeDTO{}}, nil
}

func (stubPledgeService) CancelPledge(context.Context, uuid.UUID) (*pledges.PledgeDTO, error) {
	return &pledges.PledgeDTO{}, nil
}

type stubFulfillmentService struct{}

func (stubFulfillmentService) Fulfill(context.Context, fulfillment.FulfillInput) (*fulfillment.Result, error) {
	return &fulfillment.Result{Status: fulfillment.StatusFulfilled}, nil
}

type stubDonationService struct{}

func (stubDonationService) CreateDonation(context.Context, donations.CreateDonationInput) (*donations.DonationDTO, error) {
	return &donations.DonationDTO{}, nil
}

func (stubDonationService) GetDonation(context.Context, uuid.UUID) (*donations.DonationDTO, error) {
	return &donations.DonationDTO{}, nil
}

func (stubDonationService) ListDonations(context.Context, string, int) (donations.DonationsPageDTO, error) {
	return donations.DonationsPageDTO{Donations: []donations.DonationDTO{}}, nil
}

func (stubDonationService) Summary(context.Context) (donations.SummaryDTO, error) {
	return donations.SummaryDTO{TotalMonetary: decimal.NewFromInt(150)}, nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(cfg, logg, stubPinger{}, nil, Services{
		Inventory:   stubInventoryService{},
		Movements:   stubMovementService{},
		Requests:    stubRequestService{},
		Pledges:     stubPledgeService{},
		Fulfillment: stubFulfillmentService{},
		Donations:   stubDonationService{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-OrphanCare-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-OrphanCare-Env"))
	}
}

func TestRouterInventoryStats(t *testing.T) {
	router := testRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/stats", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	stats, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload %v", body.Data)
	}
	if stats["total_items"] != float64(3) {
		t.Fatalf("unexpected stats payload %v", stats)
	}
}

func TestRouterRejectsMalformedUUID(t *testing.T) {
	router := testRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/pledges/not-a-uuid", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %s", body.Error.Code)
	}
}

func TestRouterMapsNotFound(t *testing.T) {
	router := testRouter(t)
	resp := httptest.NewRecorder()
	target := "/api/v1/inventory/" + uuid.NewString()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
