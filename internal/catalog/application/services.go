package application

import (
	"context"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/catalog/domain"
)

// SiteRepository abstracts read access to the heritage-site catalog.
// SiteRepository は Public コンテキストでサイトを読み取るためのポート。
type SiteRepository interface {
	Find(ctx context.Context, filter SiteFilter, paging Paging) ([]domain.HeritageSite, error)
	FindByID(ctx context.Context, id string) (*domain.HeritageSite, error)
}

// UserPersonaRepository stores onboarding persona results per user.
// 再診断時はセットごと置き換える。マージはしない。
type UserPersonaRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.UserPersona, error)
	ReplaceForUser(ctx context.Context, userID string, personas []domain.UserPersona) error
}

// SiteFilter expresses search criteria for heritage sites.
type SiteFilter struct {
	Category string
	Country  string
	Keyword  string
	Tags     []string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// RecommendationQuery drives one ranked catalog lookup.
type RecommendationQuery struct {
	Filter           SiteFilter
	PersonaIDs       []string
	ActivePersonaIDs []string
	Limit            int
}

// CatalogQueryService describes catalog read use-cases.
// CatalogQueryService はスコアリング済みカタログ参照ユースケースを提供するリーダーモデル。
type CatalogQueryService interface {
	Ranked(ctx context.Context, query RecommendationQuery) ([]domain.ScoredSite, error)
	Detail(ctx context.Context, id string) (*domain.HeritageSite, error)
	MatchCounts(ctx context.Context) (map[string]int, error)
}

// PersonaService handles the user-owned persona set.
type PersonaService interface {
	PersonasForUser(ctx context.Context, userID string) ([]domain.UserPersona, error)
	ReplacePersonas(ctx context.Context, userID string, personas []domain.UserPersona) ([]domain.UserPersona, error)
	Definitions() []domain.PersonaDefinition
}

// NewCatalogQueryService wires the scoring engine onto the site repository.
func NewCatalogQueryService(repo SiteRepository, catalog domain.PersonaCatalog) CatalogQueryService {
	return &catalogQueryService{repo: repo, catalog: catalog}
}

type catalogQueryService struct {
	repo    SiteRepository
	catalog domain.PersonaCatalog
}

// Ranked はサイトを取得してスコアリングし、アクティブフィルタを適用して返す。
// ペルソナ未保持のユーザーには評価点フォールバックがそのまま効く。
func (s *catalogQueryService) Ranked(ctx context.Context, query RecommendationQuery) ([]domain.ScoredSite, error) {
	sites, err := s.repo.Find(ctx, query.Filter, Paging{})
	if err != nil {
		return nil, err
	}

	ranked := s.catalog.RankSites(sites, query.PersonaIDs, 0)
	ranked = domain.FilterByPersonas(ranked, query.ActivePersonaIDs)
	if query.Limit > 0 && len(ranked) > query.Limit {
		ranked = ranked[:query.Limit]
	}
	return ranked, nil
}

func (s *catalogQueryService) Detail(ctx context.Context, id string) (*domain.HeritageSite, error) {
	return s.repo.FindByID(ctx, id)
}

// MatchCounts はフィルタチップのバッジ数をカタログ全件から再計算する。
func (s *catalogQueryService) MatchCounts(ctx context.Context) (map[string]int, error) {
	sites, err := s.repo.Find(ctx, SiteFilter{}, Paging{})
	if err != nil {
		return nil, err
	}
	return s.catalog.CountMatchesPerPersona(sites), nil
}

// NewPersonaService creates the persona use-case service.
func NewPersonaService(repo UserPersonaRepository, catalog domain.PersonaCatalog) PersonaService {
	return &personaService{repo: repo, catalog: catalog}
}

type personaService struct {
	repo    UserPersonaRepository
	catalog domain.PersonaCatalog
}

func (s *personaService) PersonasForUser(ctx context.Context, userID string) ([]domain.UserPersona, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ReplacePersonas はオンボーディング結果で保持セットを丸ごと置き換える。
// 保持できる「トップペルソナ」は最大2件。
func (s *personaService) ReplacePersonas(ctx context.Context, userID string, personas []domain.UserPersona) ([]domain.UserPersona, error) {
	if len(personas) > 2 {
		personas = personas[:2]
	}
	now := time.Now().UTC()
	for i := range personas {
		if personas[i].CompletedAt == nil {
			completedAt := now
			personas[i].CompletedAt = &completedAt
		}
	}
	if err := s.repo.ReplaceForUser(ctx, userID, personas); err != nil {
		return nil, err
	}
	return personas, nil
}

func (s *personaService) Definitions() []domain.PersonaDefinition {
	return s.catalog.Definitions()
}
