package admin

import (
	"log"

	adminapp "github.com/culturatlas/culturatlas-services/api/internal/admin/application"
	"github.com/go-chi/chi/v5"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger            *log.Logger
	siteService       adminapp.SiteService
	evaluationService adminapp.EvaluationQueryService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger            *log.Logger
	SiteService       adminapp.SiteService
	EvaluationService adminapp.EvaluationQueryService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:            cfg.Logger,
		siteService:       cfg.SiteService,
		evaluationService: cfg.EvaluationService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sites", h.siteSearchHandler())
	r.Get("/sites/{id}", h.siteDetailHandler())
	r.Post("/sites", h.siteCreateHandler())
	r.Patch("/sites/{id}", h.siteUpdateHandler())
	r.Delete("/sites/{id}", h.siteDeleteHandler())
	r.Get("/evaluations", h.evaluationListHandler())
	r.Get("/evaluations/{id}", h.evaluationDetailHandler())
	r.Get("/failed-notifications", h.failedNotificationListHandler())
	r.Delete("/failed-notifications/{id}", h.failedNotificationDismissHandler())
}
