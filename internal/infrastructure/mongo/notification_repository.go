package mongo

import (
	"context"
	"strings"
	"time"

	"github.com/culturatlas/culturatlas-services/api/internal/admin/application"
	admindomain "github.com/culturatlas/culturatlas-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository は研究 Webhook の配送失敗レコードを永続化する。
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database, collectionName string) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection(collectionName)}
}

// RecordFailure はリトライを使い切った配送のペイロードを保存する。
func (r *NotificationRepository) RecordFailure(ctx context.Context, endpoint, rawPayload, lastError string) error {
	doc := FailedNotificationDocument{
		ID:          primitive.NewObjectID(),
		Endpoint:    endpoint,
		RawPayload:  rawPayload,
		LastError:   lastError,
		AttemptedAt: time.Now().UTC(),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// List は失敗レコードを新しい順で返す。
func (r *NotificationRepository) List(ctx context.Context, paging application.Paging) ([]admindomain.FailedNotification, error) {
	limit := paging.Limit
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "attemptedAt", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := make([]admindomain.FailedNotification, 0)
	for cursor.Next(ctx) {
		var doc FailedNotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		notifications = append(notifications, admindomain.FailedNotification{
			ID:          doc.ID.Hex(),
			Endpoint:    doc.Endpoint,
			RawPayload:  doc.RawPayload,
			LastError:   doc.LastError,
			AttemptedAt: doc.AttemptedAt,
		})
	}
	return notifications, cursor.Err()
}

// Delete は確認済みの失敗レコードを破棄する。
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
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
