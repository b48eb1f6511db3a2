package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WishlistRepository はサイトごとの「行きたい」トグルを訪問者単位で永続化する。
type WishlistRepository struct {
	votes *mongo.Collection
	sites *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database, voteCollection, siteCollection string) *WishlistRepository {
	return &WishlistRepository{
		votes: db.Collection(voteCollection),
		sites: db.Collection(siteCollection),
	}
}

// Toggle は希望状態を適用し、実際に変化があった場合のみサイトのカウンタを増減する。
// 戻り値は更新後の wishlistCount。
func (r *WishlistRepository) Toggle(ctx context.Context, siteID, visitorID string, desiredState bool) (int, error) {
	siteObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(siteID))
	if err != nil {
		return 0, err
	}

	changed, err := r.upsertVote(ctx, siteObjID, visitorID, desiredState)
	if err != nil {
		return 0, err
	}

	if !changed {
		var doc SiteDocument
		if err := r.sites.FindOne(ctx, bson.M{"_id": siteObjID}).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		return doc.Stats.WishlistCount, nil
	}

	delta := 1
	if !desiredState {
		delta = -1
	}
	update := bson.M{"$inc": bson.M{"stats.wishlistCount": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated SiteDocument
	if err := r.sites.FindOneAndUpdate(ctx, bson.M{"_id": siteObjID}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return updated.Stats.WishlistCount, nil
}

// IsWishlisted は訪問者が対象サイトを登録済みかを返す。
func (r *WishlistRepository) IsWishlisted(ctx context.Context, siteID, visitorID string) (bool, error) {
	siteObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(siteID))
	if err != nil {
		return false, err
	}
	err = r.votes.FindOne(ctx, bson.M{"siteId": siteObjID, "visitorId": visitorID}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// upsertVote applies the desired vote state. Returns true if state changed.
func (r *WishlistRepository) upsertVote(ctx context.Context, siteID primitive.ObjectID, visitorID string, desiredState bool) (bool, error) {
	filter := bson.M{"siteId": siteID, "visitorId": visitorID}

	if desiredState {
		update := bson.M{
			"$setOnInsert": bson.M{
				"createdAt": time.Now().UTC(),
			},
		}
		opts := options.Update().SetUpsert(true)
		result, err := r.votes.UpdateOne(ctx, filter, update, opts)
		if err != nil {
			return false, err
		}
		return result.UpsertedCount > 0, nil
	}

	result, err := r.votes.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
