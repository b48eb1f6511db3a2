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
)

// ParticipantRepository implements application.ParticipantRepository using MongoDB.
type ParticipantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new Mongo-backed participant repository.
func NewParticipantRepository(db *mongo.Database, collectionName string) *ParticipantRepository {
	return &ParticipantRepository{collection: db.Collection(collectionName)}
}

// FindByUser はユーザーの参加登録レコードを返す。
func (r *ParticipantRepository) FindByUser(ctx context.Context, userID string) (*domain.StudyParticipant, error) {
	var doc ParticipantDocument
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	participant := mapParticipantDocument(doc)
	return &participant, nil
}

// Create は参加登録を挿入し、採番した ID をドメインモデルへ書き戻す。
func (r *ParticipantRepository) Create(ctx context.Context, participant *domain.StudyParticipant) error {
	doc := ParticipantDocument{
		ID:              primitive.NewObjectID(),
		UserID:          participant.UserID,
		EnrolledAt:      participant.EnrolledAt,
		ConsentGiven:    participant.ConsentGiven,
		AgeGroup:        participant.AgeGroup,
		Gender:          participant.Gender,
		Nationality:     participant.Nationality,
		EducationLevel:  participant.EducationLevel,
		ACUX:            buildACUXDocument(participant.ACUX),
		CompletedPhases: participant.CompletedPhases,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	participant.ID = doc.ID.Hex()
	return nil
}

// Update は完了フェーズ台帳などの可変フィールドのみを更新する。
// 同意と ACUX は登録時に固定されるため書き換えない。
func (r *ParticipantRepository) Update(ctx context.Context, participant *domain.StudyParticipant) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(participant.ID))
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"ageGroup":        participant.AgeGroup,
		"gender":          participant.Gender,
		"nationality":     participant.Nationality,
		"educationLevel":  participant.EducationLevel,
		"completedPhases": participant.CompletedPhases,
	}}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func buildACUXDocument(acux *domain.ACUXPersonality) *ACUXDocument {
	if acux == nil {
		return nil
	}
	return &ACUXDocument{
		Aesthetic:    acux.Aesthetic,
		Cognitive:    acux.Cognitive,
		Behavioral:   acux.Behavioral,
		Affective:    acux.Affective,
		DominantType: acux.DominantType,
	}
}

func mapParticipantDocument(doc ParticipantDocument) domain.StudyParticipant {
	var acux *domain.ACUXPersonality
	if doc.ACUX != nil {
		acux = &domain.ACUXPersonality{
			Aesthetic:    doc.ACUX.Aesthetic,
			Cognitive:    doc.ACUX.Cognitive,
			Behavioral:   doc.ACUX.Behavioral,
			Affective:    doc.ACUX.Affective,
			DominantType: doc.ACUX.DominantType,
		}
	}

	return domain.StudyParticipant{
		ID:              doc.ID.Hex(),
		UserID:          doc.UserID,
		EnrolledAt:      doc.EnrolledAt,
		ConsentGiven:    doc.ConsentGiven,
		AgeGroup:        doc.AgeGroup,
		Gender:          doc.Gender,
		Nationality:     doc.Nationality,
		EducationLevel:  doc.EducationLevel,
		ACUX:            acux,
		CompletedPhases: doc.CompletedPhases,
	}
}
