package listingRepo

import (
	"context"
	"time"

	"marche/database/repository"
	"marche/models"
	"marche/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoListingRepo struct {
	coll *mongo.Collection
}

func NewMongoListingRepo(db *mongo.Database) ListingRepository {
	repo := &mongoListingRepo{coll: db.Collection("services")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "providerId", Value: 1}}, Options: options.Index().SetName("provider_idx")},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("category_status_idx")},
	}); err != nil {
		utils.GetLogger().Warn("service listing indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoListingRepo) Create(ctx context.Context, listing *models.ServiceListing) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, listing)
	return repository.MapError(err, "failed to create service %s", listing.Title)
}

func (r *mongoListingRepo) Update(ctx context.Context, listing *models.ServiceListing) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	listing.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": listing.ID}, listing)
	if err != nil {
		return repository.MapError(err, "failed to update service %s", listing.ID)
	}
	if res.MatchedCount == 0 {
		return repository.MapError(mongo.ErrNoDocuments, "service %s", listing.ID)
	}
	return nil
}

func (r *mongoListingRepo) GetByID(ctx context.Context, id string) (*models.ServiceListing, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var listing models.ServiceListing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&listing); err != nil {
		return nil, repository.MapError(err, "failed to fetch service %s", id)
	}
	return &listing, nil
}

func (r *mongoListingRepo) List(ctx context.Context) ([]models.ServiceListing, error) {
	out, err := repository.FindAll[models.ServiceListing](ctx, r.coll, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return out, repository.MapError(err, "failed to list services")
}
