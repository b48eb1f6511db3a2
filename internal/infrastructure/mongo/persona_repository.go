package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserPersonaRepository implements application.UserPersonaRepository using MongoDB.
// 1 ユーザー 1 ドキュメントで、再診断時は ReplaceOne upsert で全置換する。
type UserPersonaRepository struct {
	collection *mongo.Collection
}

// NewUserPersonaRepository creates a new Mongo-backed persona repository.
func NewUserPersonaRepository(db *mongo.Database, collectionName string) *UserPersonaRepository {
	return &UserPersonaRepository{collection: db.Collection(collectionName)}
}

// FindByUser はユーザーの保持ペルソナを返す。未診断は空スライス。
func (r *UserPersonaRepository) FindByUser(ctx context.Context, userID string) ([]domain.UserPersona, error) {
	var doc UserPersonaDocument
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.UserPersona{}, nil
		}
		return nil, err
	}

	personas := make([]domain.UserPersona, 0, len(doc.Personas))
	for _, item := range doc.Personas {
		personas = append(personas, domain.UserPersona{
			ID:          item.PersonaID,
			Title:       item.Title,
			Description: item.Description,
			Traits:      append([]string{}, item.Traits...),
			Likes:       append([]string{}, item.Likes...),
			Dislikes:    append([]string{}, item.Dislikes...),
			Icon:        item.Icon,
			Value:       item.Value,
			CompletedAt: item.CompletedAt,
		})
	}
	return personas, nil
}

// ReplaceForUser は診断結果でドキュメントを丸ごと差し替える。
func (r *UserPersonaRepository) ReplaceForUser(ctx context.Context, userID string, personas []domain.UserPersona) error {
	items := make([]UserPersonaItemDocument, 0, len(personas))
	for _, p := range personas {
		items = append(items, UserPersonaItemDocument{
			PersonaID:   p.ID,
			Title:       p.Title,
			Description: p.Description,
			Traits:      p.Traits,
			Likes:       p.Likes,
			Dislikes:    p.Dislikes,
			Icon:        p.Icon,
			Value:       p.Value,
			CompletedAt: p.CompletedAt,
		})
	}

	// _id を含めない置換ドキュメントにして、既存 _id の書き換えエラーを避ける。
	replacement := bson.M{
		"userId":    userID,
		"personas":  items,
		"updatedAt": time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"userId": userID}, replacement, opts)
	return err
}
