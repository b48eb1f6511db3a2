package application

import (
	"context"

	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
)

// SiteRepository exposes admin operations on heritage sites.
type SiteRepository interface {
	Find(ctx context.Context, filter SiteFilter, paging Paging) ([]admindomain.Site, error)
	FindByID(ctx context.Context, id string) (*admindomain.Site, error)
	Create(ctx context.Context, site *admindomain.Site) error
	Update(ctx context.Context, site *admindomain.Site) error
	Delete(ctx context.Context, id string) error
}

// EvaluationRepository exposes read-only access to submitted evaluations.
type EvaluationRepository interface {
	Find(ctx context.Context, filter EvaluationFilter, paging Paging) ([]admindomain.Evaluation, error)
	FindByID(ctx context.Context, id string) (*admindomain.Evaluation, error)
}

// NotificationRepository allows reviewing failed webhook deliveries.
type NotificationRepository interface {
	List(ctx context.Context, paging Paging) ([]admindomain.FailedNotification, error)
	Delete(ctx context.Context, id string) error
}

// SiteFilter expresses admin search criteria.
type SiteFilter struct {
	Category string
	Country  string
	Keyword  string
	Limit    int
}

// EvaluationFilter expresses admin search criteria.
type EvaluationFilter struct {
	SiteID  string
	VisitID string
	Phase   string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// SiteService describes admin catalog use-cases.
type SiteService interface {
	List(ctx context.Context, filter SiteFilter, paging Paging) ([]admindomain.Site, error)
	Detail(ctx context.Context, id string) (*admindomain.Site, error)
	Create(ctx context.Context, cmd UpsertSiteCommand) (*admindomain.Site, error)
	Update(ctx context.Context, id string, cmd UpsertSiteCommand) (*admindomain.Site, error)
	Delete(ctx context.Context, id string) error
}

// EvaluationQueryService describes the read-only evaluation views.
type EvaluationQueryService interface {
	List(ctx context.Context, filter EvaluationFilter, paging Paging) ([]admindomain.Evaluation, error)
	Detail(ctx context.Context, id string) (*admindomain.Evaluation, error)
	FailedNotifications(ctx context.Context, paging Paging) ([]admindomain.FailedNotification, error)
	DismissNotification(ctx context.Context, id string) error
}

// UpsertSiteCommand contains inputs for creating/updating heritage sites.
type UpsertSiteCommand struct {
	Name            string
	Description     string
	Category        string
	Country         string
	City            string
	Latitude        float64
	Longitude       float64
	Rating          float64
	DurationMinutes int
	PersonaIDs      []string
	Tags            []string
	OfficialURL     string
	PhotoURLs       []string
}
