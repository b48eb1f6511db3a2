package mongo

import (
	"context"
	"errors"
	"strings"

	"github.com/culturatlas/culturatlas-services/api/internal/study/application"
	"github.com/culturatlas/culturatlas-services/api/internal/study/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VisitRepository implements application.VisitRepository using MongoDB.
type VisitRepository struct {
	collection *mongo.Collection
}

// NewVisitRepository creates a new Mongo-backed visit repository.
func NewVisitRepository(db *mongo.Database, collectionName string) *VisitRepository {
	return &VisitRepository{collection: db.Collection(collectionName)}
}

// FindByUser は訪問予定をスケジュール日の新しい順で返す。
func (r *VisitRepository) FindByUser(ctx context.Context, userID string) ([]domain.ScheduledVisit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "visitDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	visits := make([]domain.ScheduledVisit, 0)
	for cursor.Next(ctx) {
		var doc VisitDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		visits = append(visits, mapVisitDocument(doc))
	}
	return visits, cursor.Err()
}

// FindByID returns a single visit by its identifier.
func (r *VisitRepository) FindByID(ctx context.Context, id string) (*domain.ScheduledVisit, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrNotFound
	}
	var doc VisitDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	visit := mapVisitDocument(doc)
	return &visit, nil
}

// Create は訪問を挿入し、採番した ID をドメインモデルへ書き戻す。
func (r *VisitRepository) Create(ctx context.Context, visit *domain.ScheduledVisit) error {
	doc, err := buildVisitDocument(visit)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	visit.ID = doc.ID.Hex()
	return nil
}

// Update は訪問ドキュメントを丸ごと差し替える。
func (r *VisitRepository) Update(ctx context.Context, visit *domain.ScheduledVisit) error {
	doc, err := buildVisitDocument(visit)
	if err != nil {
		return err
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func buildVisitDocument(visit *domain.ScheduledVisit) (VisitDocument, error) {
	id := primitive.NewObjectID()
	if visit.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(strings.TrimSpace(visit.ID))
		if err != nil {
			return VisitDocument{}, err
		}
		id = parsed
	}
	siteID, err := primitive.ObjectIDFromHex(strings.TrimSpace(visit.DestinationID))
	if err != nil {
		return VisitDocument{}, err
	}

	var phases map[string]PhaseProgressDocument
	if len(visit.StudyPhases) > 0 {
		phases = make(map[string]PhaseProgressDocument, len(visit.StudyPhases))
		for phase, progress := range visit.StudyPhases {
			phases[string(phase)] = PhaseProgressDocument{
				Completed:    progress.Completed,
				CompletedAt:  progress.CompletedAt,
				EvaluationID: progress.EvaluationID,
			}
		}
	}

	var nextPhase *string
	if visit.NextPendingPhase != nil {
		value := string(*visit.NextPendingPhase)
		nextPhase = &value
	}

	return VisitDocument{
		ID:               id,
		UserID:           visit.UserID,
		SiteID:           siteID,
		SiteName:         visit.DestinationName,
		Country:          visit.Country,
		City:             visit.City,
		VisitDate:        visit.VisitDate,
		DateScheduled:    visit.DateScheduled,
		Status:           string(visit.Status),
		EnrolledInStudy:  visit.EnrolledInStudy,
		StudyPhases:      phases,
		NextPendingPhase: nextPhase,
	}, nil
}

func mapVisitDocument(doc VisitDocument) domain.ScheduledVisit {
	phases := make(map[domain.EvaluationPhase]domain.PhaseProgress, len(doc.StudyPhases))
	for phase, progress := range doc.StudyPhases {
		phases[domain.EvaluationPhase(phase)] = domain.PhaseProgress{
			Completed:    progress.Completed,
			CompletedAt:  progress.CompletedAt,
			EvaluationID: progress.EvaluationID,
		}
	}

	var nextPhase *domain.EvaluationPhase
	if doc.NextPendingPhase != nil {
		value := domain.EvaluationPhase(*doc.NextPendingPhase)
		nextPhase = &value
	}

	return domain.ScheduledVisit{
		ID:               doc.ID.Hex(),
		UserID:           doc.UserID,
		DestinationID:    doc.SiteID.Hex(),
		DestinationName:  doc.SiteName,
		Country:          doc.Country,
		City:             doc.City,
		VisitDate:        doc.VisitDate,
		DateScheduled:    doc.DateScheduled,
		Status:           domain.VisitStatus(doc.Status),
		EnrolledInStudy:  doc.EnrolledInStudy,
		StudyPhases:      phases,
		NextPendingPhase: nextPhase,
	}
}
