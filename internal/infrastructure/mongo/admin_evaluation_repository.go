package mongo

import (
	"context"
	"errors"
	"strings"

	"github.com/culturatlas/culturatlas-services/api/internal/admin/application"
	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminEvaluationRepository は管理者向けの評価閲覧リポジトリ。読み取り専用。
type AdminEvaluationRepository struct {
	evaluations *mongo.Collection
	sites       *mongo.Collection
}

// NewAdminEvaluationRepository は評価・サイトのコレクションを束縛したリポジトリを構築する。
func NewAdminEvaluationRepository(db *mongo.Database, evaluationCollection, siteCollection string) *AdminEvaluationRepository {
	return &AdminEvaluationRepository{
		evaluations: db.Collection(evaluationCollection),
		sites:       db.Collection(siteCollection),
	}
}

// Find はサイト/訪問/フェーズの複合条件で評価一覧を返し、サイト名を突き合わせる。
func (r *AdminEvaluationRepository) Find(ctx context.Context, filter application.EvaluationFilter, paging application.Paging) ([]admindomain.Evaluation, error) {
	mongoFilter := bson.M{}
	if filter.SiteID != "" {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.SiteID))
		if err != nil {
			return nil, err
		}
		mongoFilter["siteId"] = id
	}
	if filter.VisitID != "" {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.VisitID))
		if err != nil {
			return nil, err
		}
		mongoFilter["visitId"] = id
	}
	if filter.Phase != "" {
		mongoFilter["phase"] = strings.TrimSpace(filter.Phase)
	}

	limit := paging.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.evaluations.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]EvaluationDocument, 0)
	siteSet := make(map[primitive.ObjectID]struct{})
	for cursor.Next(ctx) {
		var doc EvaluationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		siteSet[doc.SiteID] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	siteNames, err := r.loadSiteNames(ctx, siteSet)
	if err != nil {
		return nil, err
	}

	evaluations := make([]admindomain.Evaluation, 0, len(docs))
	for _, doc := range docs {
		evaluations = append(evaluations, mapAdminEvaluation(doc, siteNames[doc.SiteID]))
	}
	return evaluations, nil
}

// FindByID は評価 ID から単一エントリを取得する。
func (r *AdminEvaluationRepository) FindByID(ctx context.Context, id string) (*admindomain.Evaluation, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var doc EvaluationDocument
	if err := r.evaluations.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	siteName := ""
	var site SiteDocument
	if err := r.sites.FindOne(ctx, bson.M{"_id": doc.SiteID}).Decode(&site); err == nil {
		siteName = site.Name
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	evaluation := mapAdminEvaluation(doc, siteName)
	return &evaluation, nil
}

// loadSiteNames は ID 群を一括取得してサイト名のマップへ変換する。
func (r *AdminEvaluationRepository) loadSiteNames(ctx context.Context, ids map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]string, error) {
	result := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	idList := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})
	cursor, err := r.sites.Find(ctx, bson.M{"_id": bson.M{"$in": idList}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID   primitive.ObjectID `bson:"_id"`
			Name string             `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result[doc.ID] = doc.Name
	}
	return result, cursor.Err()
}

func mapAdminEvaluation(doc EvaluationDocument, siteName string) admindomain.Evaluation {
	return admindomain.Evaluation{
		ID:            doc.ID.Hex(),
		VisitID:       doc.VisitID.Hex(),
		SiteID:        doc.SiteID.Hex(),
		SiteName:      siteName,
		UserID:        doc.UserID,
		Phase:         doc.Phase,
		Feeling:       doc.Feeling,
		Behavior:      doc.Behavior,
		EmotionWheel:  doc.EmotionWheel,
		UEQSResponses: doc.UEQSResponses,
		Comments:      doc.Comments,
		CreatedAt:     doc.CreatedAt,
	}
}
