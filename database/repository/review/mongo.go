package reviewRepo

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

type mongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	repo := &mongoReviewRepo{coll: db.Collection("reviews")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "targetKey", Value: 1}}, Options: options.Index().SetUnique(true).SetName("author_target_unique")},
		{Keys: bson.D{{Key: "targetKey", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("target_created_idx")},
	}); err != nil {
		utils.GetLogger().Warn("review indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, review)
	return repository.MapError(err, "failed to create review for %s", review.TargetKey)
}

func (r *mongoReviewRepo) ListByTarget(ctx context.Context, targetKey string) ([]models.Review, error) {
	out, err := repository.FindAll[models.Review](ctx, r.coll, bson.M{"targetKey": targetKey},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return out, repository.MapError(err, "failed to list reviews for %s", targetKey)
}
