package eventRepo

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

type mongoEventRepo struct {
	coll *mongo.Collection
}

func NewMongoEventRepo(db *mongo.Database) EventRepository {
	repo := &mongoEventRepo{coll: db.Collection("events")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}, Options: options.Index().SetName("date_start_idx")},
		{Keys: bson.D{{Key: "organizerId", Value: 1}}, Options: options.Index().SetName("organizer_idx")},
	}); err != nil {
		utils.GetLogger().Warn("event indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoEventRepo) Create(ctx context.Context, event *models.Event) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, event)
	return repository.MapError(err, "failed to create event %s", event.ID)
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var event models.Event
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&event); err != nil {
		return nil, repository.MapError(err, "failed to fetch event %s", id)
	}
	return &event, nil
}

func (r *mongoEventRepo) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	events, err := repository.FindAll[models.Event](ctx, r.coll, bson.M{}, opts)
	return events, repository.MapError(err, "failed to list events")
}
