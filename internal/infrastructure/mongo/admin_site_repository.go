package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/admin/application"
	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminSiteRepository は管理者向けサイト集約の Mongo 実装。
type AdminSiteRepository struct {
	collection *mongo.Collection
}

// NewAdminSiteRepository は MongoDB コレクションを束縛した AdminSiteRepository を生成する。
func NewAdminSiteRepository(db *mongo.Database, collection string) *AdminSiteRepository {
	return &AdminSiteRepository{collection: db.Collection(collection)}
}

// Find は曖昧検索とページングをサポートした管理者用のサイト一覧を返す。
func (r *AdminSiteRepository) Find(ctx context.Context, filter application.SiteFilter, paging application.Paging) ([]admindomain.Site, error) {
	mongoFilter := bson.M{}
	clauses := make([]bson.M, 0)
	if filter.Category != "" {
		clauses = append(clauses, bson.M{"category": filter.Category})
	}
	if filter.Country != "" {
		clauses = append(clauses, bson.M{"country": filter.Country})
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"city": regex},
		}})
	}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = paging.Limit
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	opts := options.Find().SetSort(bson.D{{Key: "stats.evaluationCount", Value: -1}, {Key: "name", Value: 1}})
	opts.SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sites := make([]admindomain.Site, 0)
	for cursor.Next(ctx) {
		var doc SiteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		site, err := mapAdminSite(doc)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// FindByID は 16 進 ObjectID を受け取り単一サイトを VO 化して返す。
func (r *AdminSiteRepository) FindByID(ctx context.Context, id string) (*admindomain.Site, error) {
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
	site, err := mapAdminSite(doc)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// Create はサイト名+都市の重複チェックを行った上で Site を新規作成する。
func (r *AdminSiteRepository) Create(ctx context.Context, site *admindomain.Site) error {
	filter := bson.M{
		"name": strings.TrimSpace(site.Name),
		"city": strings.TrimSpace(site.City),
	}
	if err := r.collection.FindOne(ctx, filter).Err(); err == nil {
		return errors.New("site already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	payload, err := buildSiteDocument(site, true)
	if err != nil {
		return err
	}
	id := primitive.NewObjectID()
	payload["_id"] = id
	if _, err := r.collection.InsertOne(ctx, payload); err != nil {
		return err
	}
	site.ID = id.Hex()
	return nil
}

// Update は Site の ObjectID を用いて差し替えを行い、値オブジェクト経由で整形したデータのみを保存する。
func (r *AdminSiteRepository) Update(ctx context.Context, site *admindomain.Site) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(site.ID))
	if err != nil {
		return err
	}
	update, err := buildSiteDocument(site, false)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the site document.
func (r *AdminSiteRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// mapAdminSite は Mongo ドキュメントを Admin ドメインの Site に変換する。
func mapAdminSite(doc SiteDocument) (admindomain.Site, error) {
	category, err := admindomain.NewCategory(doc.Category)
	if err != nil {
		return admindomain.Site{}, err
	}
	country, err := admindomain.NewCountry(doc.Country)
	if err != nil {
		return admindomain.Site{}, err
	}
	coords, err := admindomain.NewCoordinates(doc.Coordinates.Lat, doc.Coordinates.Lng)
	if err != nil {
		return admindomain.Site{}, err
	}
	rating, err := admindomain.NewRating(doc.Rating)
	if err != nil {
		return admindomain.Site{}, err
	}
	duration, err := admindomain.NewDurationMinutes(doc.DurationMinutes)
	if err != nil {
		return admindomain.Site{}, err
	}
	personas, err := admindomain.NewPersonaIDList(doc.PersonaIDs)
	if err != nil {
		return admindomain.Site{}, err
	}
	tags, err := admindomain.NewTagList(doc.Tags)
	if err != nil {
		return admindomain.Site{}, err
	}
	officialURL, err := admindomain.NewURL(doc.OfficialURL)
	if err != nil {
		return admindomain.Site{}, err
	}
	photos, err := admindomain.NewPhotoURLList(doc.PhotoURLs, 0)
	if err != nil {
		return admindomain.Site{}, err
	}

	site := admindomain.Site{
		ID:              doc.ID.Hex(),
		Name:            doc.Name,
		Description:     doc.Description,
		Category:        category,
		Country:         country,
		City:            doc.City,
		Coordinates:     coords,
		Rating:          rating,
		DurationMinutes: duration,
		PersonaIDs:      personas,
		Tags:            tags,
		OfficialURL:     officialURL,
		PhotoURLs:       photos,
		EvaluationCount: doc.Stats.EvaluationCount,
		LastEvaluatedAt: doc.Stats.LastEvaluatedAt,
	}
	if doc.CreatedAt != nil {
		site.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		site.UpdatedAt = *doc.UpdatedAt
	}
	return site, nil
}

// buildSiteDocument は Site の値オブジェクト群を Mongo 用 BSON に展開する。
func buildSiteDocument(site *admindomain.Site, includeCreated bool) (bson.M, error) {
	if site == nil {
		return nil, fmt.Errorf("site payload is nil")
	}
	payload := bson.M{
		"name":            site.Name,
		"description":     site.Description,
		"category":        site.Category.String(),
		"country":         site.Country.String(),
		"city":            site.City,
		"coordinates":     CoordinatesDocument{Lat: site.Coordinates.Lat, Lng: site.Coordinates.Lng},
		"rating":          site.Rating.Float64(),
		"durationMinutes": site.DurationMinutes.Int(),
		"personaIds":      site.PersonaIDs.Strings(),
		"tags":            site.Tags.Strings(),
		"officialURL":     site.OfficialURL.String(),
		"photoURLs":       site.PhotoURLs.Strings(),
		"updatedAt":       time.Now().UTC(),
	}
	if includeCreated {
		payload["stats"] = SiteStatsDocument{}
		payload["createdAt"] = time.Now().UTC()
	}
	return payload, nil
}
