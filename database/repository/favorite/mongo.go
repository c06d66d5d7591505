package favoriteRepo

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

type mongoFavoriteRepo struct {
	coll *mongo.Collection
}

func NewMongoFavoriteRepo(db *mongo.Database) FavoriteRepository {
	repo := &mongoFavoriteRepo{coll: db.Collection("favorites")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "providerId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("user_provider_unique")},
		{Keys: bson.D{{Key: "providerId", Value: 1}}, Options: options.Index().SetName("provider_idx")},
	}); err != nil {
		utils.GetLogger().Warn("favorite indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoFavoriteRepo) Add(ctx context.Context, fav *models.Favorite) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, fav)
	return repository.MapError(err, "failed to add favorite %s", fav.ProviderID)
}

func (r *mongoFavoriteRepo) Remove(ctx context.Context, userID, providerID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	out, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "providerId": providerID})
	if err != nil {
		return repository.MapError(err, "failed to remove favorite %s", providerID)
	}
	if out.DeletedCount == 0 {
		return repository.MapError(mongo.ErrNoDocuments, "favorite %s", providerID)
	}
	return nil
}

func (r *mongoFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	out, err := repository.FindAll[models.Favorite](ctx, r.coll, bson.M{"userId": userID})
	return out, repository.MapError(err, "failed to list favorites of %s", userID)
}
