package public

import (
	"log"
	"net/http"
	"time"

	catalogapp "github.com/culturatlas/culturatlas-services/api/internal/catalog/application"
	mongodoc "github.com/culturatlas/culturatlas-services/api/internal/infrastructure/mongo"
	studyapp "github.com/culturatlas/culturatlas-services/api/internal/study/application"
	"github.com/go-chi/chi/v5"
)

// Handler は Public API のエンドポイント群をアプリケーションサービスへ接続する。
type Handler struct {
	logger               *log.Logger
	catalog              catalogapp.CatalogQueryService
	personas             catalogapp.PersonaService
	visits               studyapp.VisitService
	evaluations          studyapp.EvaluationService
	study                studyapp.StudyService
	wishlist             *mongodoc.WishlistRepository
	notifications        *mongodoc.NotificationRepository
	location             *time.Location
	wishlistCookieSecret []byte
	wishlistCookieSecure bool
	httpClient           *http.Client
	webhookEndpoint      string
	login                LoginConfig
}

// LoginConfig carries the demo-credential token issuing settings.
// 本番の認証はゲートウェイ側の JWT に委ねており、ここはデモ環境専用。
type LoginConfig struct {
	Username string
	Password string
	Secret   []byte
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// Config provides dependencies for Handler.
type Config struct {
	Logger               *log.Logger
	CatalogQueries       catalogapp.CatalogQueryService
	PersonaService       catalogapp.PersonaService
	VisitService         studyapp.VisitService
	EvaluationService    studyapp.EvaluationService
	StudyService         studyapp.StudyService
	Wishlist             *mongodoc.WishlistRepository
	Notifications        *mongodoc.NotificationRepository
	Location             *time.Location
	WishlistCookieSecret []byte
	WishlistCookieSecure bool
	HTTPClient           *http.Client
	WebhookEndpoint      string
	Login                LoginConfig
}

// NewHandler constructs the public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	login := cfg.Login
	if login.TokenTTL <= 0 {
		login.TokenTTL = 24 * time.Hour
	}
	return &Handler{
		logger:               cfg.Logger,
		catalog:              cfg.CatalogQueries,
		personas:             cfg.PersonaService,
		visits:               cfg.VisitService,
		evaluations:          cfg.EvaluationService,
		study:                cfg.StudyService,
		wishlist:             cfg.Wishlist,
		notifications:        cfg.Notifications,
		location:             location,
		wishlistCookieSecret: cfg.WishlistCookieSecret,
		wishlistCookieSecure: cfg.WishlistCookieSecure,
		httpClient:           httpClient,
		webhookEndpoint:      cfg.WebhookEndpoint,
		login:                login,
	}
}

// Register mounts public routes onto router. Routes that act on user-owned
// resources go through authMiddleware; the catalog stays anonymous.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/sites", h.siteListHandler())
	r.Get("/sites/{id}", h.siteDetailHandler())
	r.Get("/sites/persona-counts", h.personaMatchCountsHandler())
	r.Get("/personas/definitions", h.personaDefinitionsHandler())
	r.Post("/sites/{id}/wishlist", h.wishlistToggleHandler())

	r.Post("/auth/login", h.loginHandler())
	r.With(authMiddleware).Get("/auth/verify", h.verifyHandler())

	r.With(authMiddleware).Get("/me/personas", h.myPersonasHandler())
	r.With(authMiddleware).Put("/me/personas", h.replacePersonasHandler())
	r.With(authMiddleware).Get("/me/recommendations", h.recommendationsHandler())

	r.With(authMiddleware).Post("/visits", h.visitCreateHandler())
	r.With(authMiddleware).Get("/visits", h.visitListHandler())
	r.With(authMiddleware).Post("/visits/{id}/complete", h.visitCompleteHandler())
	r.With(authMiddleware).Post("/visits/{id}/cancel", h.visitCancelHandler())
	r.With(authMiddleware).Get("/visits/{id}/evaluations", h.visitEvaluationListHandler())

	r.With(authMiddleware).Post("/evaluations", h.evaluationCreateHandler())
	r.With(authMiddleware).Get("/evaluations", h.evaluationListHandler())

	r.With(authMiddleware).Post("/study/enroll", h.studyEnrollHandler())
	r.With(authMiddleware).Get("/study/participant", h.studyParticipantHandler())
	r.With(authMiddleware).Get("/study/analytics", h.studyAnalyticsHandler())
	r.With(authMiddleware).Get("/study/analytics/export", h.studyExportHandler())
}
