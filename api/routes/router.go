package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orphancare/platform-backend/api/controllers"
	"github.com/orphancare/platform-backend/api/middleware"
	"github.com/orphancare/platform-backend/internal/donations"
	"github.com/orphancare/platform-backend/internal/fulfillment"
	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/internal/movements"
	"github.com/orphancare/platform-backend/internal/pledges"
	"github.com/orphancare/platform-backend/internal/requests"
	"github.com/orphancare/platform-backend/pkg/config"
	"github.com/orphancare/platform-backend/pkg/db"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/redis"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Inventory   inventory.Service
	Movements   movements.Service
	Requests    requests.Service
	Pledges     pledges.Service
	Fulfillment fulfillment.Service
	Donations   donations.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(svcs.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(svcs.Inventory, logg))
			r.Get("/stats", controllers.InventoryStats(svcs.Inventory, logg))
			r.Get("/{itemId}", controllers.InventoryGet(svcs.Inventory, logg))
			r.Put("/{itemId}", controllers.InventoryUpdate(svcs.Inventory, logg))
			r.Delete("/{itemId}", controllers.InventoryDelete(svcs.Inventory, logg))
			r.Get("/{itemId}/movements", controllers.MovementListByItem(svcs.Movements, logg))
		})

		r.Post("/movements", controllers.MovementRecord(svcs.Movements, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.RequestList(svcs.Requests, logg))
			r.Post("/", controllers.RequestCreate(svcs.Requests, logg))
			r.Get("/{requestId}", controllers.RequestGet(svcs.Requests, logg))
			r.Put("/{requestId}", controllers.RequestUpdate(svcs.Requests, logg))
			r.Delete("/{requestId}", controllers.RequestDeactivate(svcs.Requests, logg))
			r.Get("/{requestId}/pledges", controllers.PledgeListByRequest(svcs.Pledges, logg))
		})

		r.Route("/pledges", func(r chi.Router) {
			r.Post("/", controllers.PledgeCreate(svcs.Pledges, logg))
			r.Get("/{pledgeId}", controllers.PledgeGet(svcs.Pledges, logg))
			r.Post("/{pledgeId}/cancel", controllers.PledgeCancel(svcs.Pledges, logg))
			r.Post("/{pledgeId}/fulfill", controllers.PledgeFulfill(svcs.Fulfillment, logg))
		})

		r.Route("/donations", func(r chi.Router) {
			r.Get("/", controllers.DonationList(svcs.Donations, logg))
			r.Post("/", controllers.DonationCreate(svcs.Donations, logg))
			r.Get("/summary", controllers.DonationSummary(svcs.Donations, logg))
			r.Get("/{donationId}", controllers.DonationGet(svcs.Donations, logg))
		})
	})

	return r
}
