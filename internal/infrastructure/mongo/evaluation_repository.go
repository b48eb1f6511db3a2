package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/study/application"
	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EvaluationRepository implements application.EvaluationRepository using MongoDB.
// 日記エントリは追記専用で、挿入のたびにサイト統計を再集計する。
type EvaluationRepository struct {
	evaluations *mongo.Collection
	sites       *mongo.Collection
}

// NewEvaluationRepository creates a new Mongo-backed evaluation repository.
func NewEvaluationRepository(db *mongo.Database, evaluationCollection, siteCollection string) *EvaluationRepository {
	return &EvaluationRepository{
		evaluations: db.Collection(evaluationCollection),
		sites:       db.Collection(siteCollection),
	}
}

// FindByUser はユーザーの日記エントリを提出順で返す。
func (r *EvaluationRepository) FindByUser(ctx context.Context, userID string) ([]domain.EvaluationEntry, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindByVisit returns all entries submitted for a single visit.
func (r *EvaluationRepository) FindByVisit(ctx context.Context, visitID string) ([]domain.EvaluationEntry, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(visitID))
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"visitId": objectID})
}

// FindByVisitAndPhase は重複提出の検出に使う。(visitId, phase) の組は一意。
func (r *EvaluationRepository) FindByVisitAndPhase(ctx context.Context, visitID string, phase domain.EvaluationPhase) (*domain.EvaluationEntry, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(visitID))
	if err != nil {
		return nil, application.ErrNotFound
	}
	var doc EvaluationDocument
	filter := bson.M{"visitId": objectID, "phase": string(phase)}
	if err := r.evaluations.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	entry := mapEvaluationDocument(doc)
	return &entry, nil
}

// Create はエントリを挿入し、対象サイトの統計を再集計する。
func (r *EvaluationRepository) Create(ctx context.Context, entry *domain.EvaluationEntry) error {
	visitID, err := primitive.ObjectIDFromHex(strings.TrimSpace(entry.VisitID))
	if err != nil {
		return err
	}
	siteID, err := primitive.ObjectIDFromHex(strings.TrimSpace(entry.SiteID))
	if err != nil {
		return err
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	doc := EvaluationDocument{
		ID:            primitive.NewObjectID(),
		VisitID:       visitID,
		SiteID:        siteID,
		UserID:        entry.UserID,
		Phase:         string(entry.Phase),
		Feeling:       entry.Responses.Feeling,
		Behavior:      entry.Responses.Behavior,
		EmotionWheel:  entry.EmotionWheel,
		UEQSResponses: entry.UEQSResponses,
		Comments:      entry.Comments,
		Sentiment:     sentimentOf(entry.EmotionWheel),
		CreatedAt:     createdAt,
	}

	if _, err := r.evaluations.InsertOne(ctx, doc); err != nil {
		return err
	}

	entry.ID = doc.ID.Hex()
	entry.CreatedAt = doc.CreatedAt
	return r.recalculateSiteStats(ctx, siteID)
}

func (r *EvaluationRepository) find(ctx context.Context, filter bson.M) ([]domain.EvaluationEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.evaluations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]domain.EvaluationEntry, 0)
	for cursor.Next(ctx) {
		var doc EvaluationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, mapEvaluationDocument(doc))
	}
	return entries, cursor.Err()
}

// recalculateSiteStats は対象サイトの日記エントリを集計し、件数や平均感情値を Site に反映する。
func (r *EvaluationRepository) recalculateSiteStats(ctx context.Context, siteID primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"siteId": siteID}}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"evaluationCount": bson.M{"$sum": 1},
			"avgSentiment":    bson.M{"$avg": "$sentiment"},
			"lastEvaluatedAt": bson.M{"$max": "$createdAt"},
		}}},
	}

	cursor, err := r.evaluations.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	update := bson.M{
		"stats.evaluationCount": 0,
		"stats.avgSentiment":    nil,
		"stats.lastEvaluatedAt": nil,
		"updatedAt":             time.Now().UTC(),
	}

	if cursor.Next(ctx) {
		var agg struct {
			EvaluationCount int        `bson:"evaluationCount"`
			AvgSentiment    *float64   `bson:"avgSentiment"`
			LastEvaluatedAt *time.Time `bson:"lastEvaluatedAt"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return err
		}
		update["stats.evaluationCount"] = agg.EvaluationCount
		update["stats.avgSentiment"] = agg.AvgSentiment
		update["stats.lastEvaluatedAt"] = agg.LastEvaluatedAt
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	_, err = r.sites.UpdateByID(ctx, siteID, bson.M{"$set": update})
	return err
}

// sentimentOf は感情ホイール回答の平均強度を返す。無回答は nil のまま集計から外す。
func sentimentOf(emotions map[string]int) *float64 {
	if len(emotions) == 0 {
		return nil
	}
	total := 0
	for _, intensity := range emotions {
		total += intensity
	}
	avg := float64(total) / float64(len(emotions))
	return &avg
}

func mapEvaluationDocument(doc EvaluationDocument) domain.EvaluationEntry {
	return domain.EvaluationEntry{
		ID:      doc.ID.Hex(),
		VisitID: doc.VisitID.Hex(),
		SiteID:  doc.SiteID.Hex(),
		UserID:  doc.UserID,
		Phase:   domain.EvaluationPhase(doc.Phase),
		Responses: domain.QuestionResponses{
			Feeling:  doc.Feeling,
			Behavior: doc.Behavior,
		},
		EmotionWheel:  doc.EmotionWheel,
		UEQSResponses: doc.UEQSResponses,
		Comments:      doc.Comments,
		CreatedAt:     doc.CreatedAt,
	}
}
