package application

import (
	"context"
	"errors"
	"time"

	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
)

const maxSitePhotos = 10

// siteService implements SiteService.
type siteService struct {
	repo SiteRepository
}

func NewSiteService(repo SiteRepository) SiteService {
	return &siteService{repo: repo}
}

func (s *siteService) List(ctx context.Context, filter SiteFilter, paging Paging) ([]admindomain.Site, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *siteService) Detail(ctx context.Context, id string) (*admindomain.Site, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *siteService) Create(ctx context.Context, cmd UpsertSiteCommand) (*admindomain.Site, error) {
	site, err := buildSiteFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now
	if err := s.repo.Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) Update(ctx context.Context, id string, cmd UpsertSiteCommand) (*admindomain.Site, error) {
	site, err := buildSiteFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	site.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildSiteFromCommand(id string, cmd UpsertSiteCommand) (*admindomain.Site, error) {
	if cmd.Name == "" {
		return nil, errors.New("name must not be empty")
	}
	category, err := admindomain.NewCategory(cmd.Category)
	if err != nil {
		return nil, err
	}
	country, err := admindomain.NewCountry(cmd.Country)
	if err != nil {
		return nil, err
	}
	coords, err := admindomain.NewCoordinates(cmd.Latitude, cmd.Longitude)
	if err != nil {
		return nil, err
	}
	rating, err := admindomain.NewRating(cmd.Rating)
	if err != nil {
		return nil, err
	}
	duration, err := admindomain.NewDurationMinutes(cmd.DurationMinutes)
	if err != nil {
		return nil, err
	}
	personas, err := admindomain.NewPersonaIDList(cmd.PersonaIDs)
	if err != nil {
		return nil, err
	}
	tags, err := admindomain.NewTagList(cmd.Tags)
	if err != nil {
		return nil, err
	}
	officialURL, err := admindomain.NewURL(cmd.OfficialURL)
	if err != nil {
		return nil, err
	}
	photos, err := admindomain.NewPhotoURLList(cmd.PhotoURLs, maxSitePhotos)
	if err != nil {
		return nil, err
	}

	return &admindomain.Site{
		ID:              id,
		Name:            cmd.Name,
		Description:     cmd.Description,
		Category:        category,
		Country:         country,
		City:            cmd.City,
		Coordinates:     coords,
		Rating:          rating,
		DurationMinutes: duration,
		PersonaIDs:      personas,
		Tags:            tags,
		OfficialURL:     officialURL,
		PhotoURLs:       photos,
	}, nil
}
