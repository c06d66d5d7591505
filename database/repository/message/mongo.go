package messageRepo

import (
	"context"

	"marche/database/repository"
	"marche/models"
	"marche/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoMessageRepo struct {
	coll *mongo.Collection
}

func NewMongoMessageRepo(db *mongo.Database) MessageRepository {
	repo := &mongoMessageRepo{coll: db.Collection("messages")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("session_created_idx")},
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "isRead", Value: 1}}, Options: options.Index().SetName("receiver_unread_idx")},
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}}, Options: options.Index().SetName("pair_idx")},
	}); err != nil {
		utils.GetLogger().Warn("message indexes", zap.Error(err))
	}
	return repo
}

var byCreated = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

func (r *mongoMessageRepo) Create(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, msg)
	return repository.MapError(err, "failed to store message in session %s", msg.SessionID)
}

func (r *mongoMessageRepo) ListBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	out, err := repository.FindAll[models.ChatMessage](ctx, r.coll, bson.M{"sessionId": sessionID}, byCreated)
	return out, repository.MapError(err, "failed to list session %s", sessionID)
}

func (r *mongoMessageRepo) MarkRead(ctx context.Context, sessionID, receiverID string) (int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"sessionId": sessionID, "receiverId": receiverID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return 0, repository.MapError(err, "failed to mark session %s read", sessionID)
	}
	return res.ModifiedCount, nil
}

func (r *mongoMessageRepo) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"receiverId": receiverID, "isRead": false})
	return n, repository.MapError(err, "failed to count unread for %s", receiverID)
}

func (r *mongoMessageRepo) ListBetween(ctx context.Context, userID, otherUserID string) ([]models.ChatMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": userID, "receiverId": otherUserID},
		bson.M{"senderId": otherUserID, "receiverId": userID},
	}}
	out, err := repository.FindAll[models.ChatMessage](ctx, r.coll, filter, byCreated)
	return out, repository.MapError(err, "failed to list messages between %s and %s", userID, otherUserID)
}
