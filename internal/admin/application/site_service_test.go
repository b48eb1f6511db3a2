package application

import (
	"context"
	"testing"

	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSiteRepo struct {
	created *admindomain.Site
	updated *admindomain.Site
}

func (r *memSiteRepo) Find(context.Context, SiteFilter, Paging) ([]admindomain.Site, error) {
	return nil, nil
}

func (r *memSiteRepo) FindByID(context.Context, string) (*admindomain.Site, error) {
	return nil, nil
}

func (r *memSiteRepo) Create(_ context.Context, site *admindomain.Site) error {
	r.created = site
	return nil
}

func (r *memSiteRepo) Update(_ context.Context, site *admindomain.Site) error {
	r.updated = site
	return nil
}

func (r *memSiteRepo) Delete(context.Context, string) error {
	return nil
}

func validCommand() UpsertSiteCommand {
	return UpsertSiteCommand{
		Name:            "Alhambra",
		Description:     "Nasrid palace and fortress complex",
		Category:        "palace",
		Country:         "Spain",
		City:            "Granada",
		Latitude:        37.176,
		Longitude:       -3.588,
		Rating:          4.8,
		DurationMinutes: 180,
		PersonaIDs:      []string{"architecture-enthusiast", "historian"},
		Tags:            []string{"unesco", "guided_tours"},
		OfficialURL:     "https://www.alhambra-patronato.es",
		PhotoURLs:       []string{"https://img.example.com/alhambra.jpg"},
	}
}

func TestSiteService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid command builds the aggregate with canonical values", func(t *testing.T) {
		repo := &memSiteRepo{}
		svc := NewSiteService(repo)

		site, err := svc.Create(ctx, validCommand())
		require.NoError(t, err)
		assert.Equal(t, admindomain.Category("palace"), site.Category)
		assert.Equal(t, []string{"architecture-enthusiast", "historian"}, site.PersonaIDs.Strings())
		assert.False(t, site.CreatedAt.IsZero())
		require.NotNil(t, repo.created)
	})

	t.Run("category aliases are canonicalized", func(t *testing.T) {
		svc := NewSiteService(&memSiteRepo{})
		cmd := validCommand()
		cmd.Category = "Castle"

		site, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, admindomain.Category("fortress"), site.Category)
	})

	t.Run("rating is rounded to half steps", func(t *testing.T) {
		svc := NewSiteService(&memSiteRepo{})
		cmd := validCommand()
		cmd.Rating = 4.3

		site, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 4.5, site.Rating.Float64())
	})

	t.Run("rejects unknown persona and tag", func(t *testing.T) {
		svc := NewSiteService(&memSiteRepo{})

		cmd := validCommand()
		cmd.PersonaIDs = []string{"time-traveler"}
		_, err := svc.Create(ctx, cmd)
		assert.Error(t, err)

		cmd = validCommand()
		cmd.Tags = []string{"haunted"}
		_, err = svc.Create(ctx, cmd)
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range coordinates and rating", func(t *testing.T) {
		svc := NewSiteService(&memSiteRepo{})

		cmd := validCommand()
		cmd.Latitude = 91
		_, err := svc.Create(ctx, cmd)
		assert.Error(t, err)

		cmd = validCommand()
		cmd.Rating = 5.5
		_, err = svc.Create(ctx, cmd)
		assert.Error(t, err)
	})
}
