package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/culturatlas/culturatlas-services/api/internal/catalog/application"
	"github.com/culturatlas/culturatlas-services/api/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SiteRepository implements application.SiteRepository using MongoDB.
type SiteRepository struct {
	collection *mongo.Collection
}

// NewSiteRepository creates a new Mongo-backed site repository.
func NewSiteRepository(db *mongo.Database, collectionName string) *SiteRepository {
	return &SiteRepository{collection: db.Collection(collectionName)}
}

// Find はカテゴリ/国/キーワード/タグの複合条件を Mongo クエリへ落とし込んでサイト一覧を返す。
// スコアリングとソートはドメイン側の責務なのでここでは行わない。
func (r *SiteRepository) Find(ctx context.Context, filter application.SiteFilter, paging application.Paging) ([]domain.HeritageSite, error) {
	mongoFilter := bson.M{}
	if filter.Category != "" {
		mongoFilter["category"] = strings.TrimSpace(filter.Category)
	}
	if filter.Country != "" {
		mongoFilter["country"] = strings.TrimSpace(filter.Country)
	}
	if len(filter.Tags) > 0 {
		mongoFilter["tags"] = bson.M{"$all": filter.Tags}
	}
	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Keyword), Options: "i"}
		mongoFilter["$or"] = []bson.M{
			{"name": pattern},
			{"city": pattern},
			{"description": pattern},
		}
	}

	cursor, err := r.collection.Find(ctx, mongoFilter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sites := make([]domain.HeritageSite, 0)
	for cursor.Next(ctx) {
		var doc SiteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		sites = append(sites, mapSiteDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// FindByID returns a single site by its identifier.
func (r *SiteRepository) FindByID(ctx context.Context, id string) (*domain.HeritageSite, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var doc SiteDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	site := mapSiteDocument(doc)
	return &site, nil
}

func mapSiteDocument(doc SiteDocument) domain.HeritageSite {
	createdAt := zeroTimeIfNil(doc.CreatedAt)
	updatedAt := zeroTimeIfNil(doc.UpdatedAt)

	stats := domain.SiteStats{
		EvaluationCount: doc.Stats.EvaluationCount,
		AvgSentiment:    doc.Stats.AvgSentiment,
		WishlistCount:   doc.Stats.WishlistCount,
		LastEvaluatedAt: doc.Stats.LastEvaluatedAt,
	}

	return domain.HeritageSite{
		ID:              doc.ID.Hex(),
		Name:            doc.Name,
		Description:     doc.Description,
		Category:        doc.Category,
		Rating:          doc.Rating,
		DurationMinutes: doc.DurationMinutes,
		Coordinates:     domain.Coordinates{Lat: doc.Coordinates.Lat, Lng: doc.Coordinates.Lng},
		PersonaIDs:      append([]string{}, doc.PersonaIDs...),
		Country:         doc.Country,
		City:            doc.City,
		Tags:            append([]string{}, doc.Tags...),
		PhotoURLs:       append([]string{}, doc.PhotoURLs...),
		Stats:           stats,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}
