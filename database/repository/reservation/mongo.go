package reservationRepo

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

type mongoReservationRepo struct {
	coll *mongo.Collection
}

func NewMongoReservationRepo(db *mongo.Database) ReservationRepository {
	repo := &mongoReservationRepo{coll: db.Collection("event_reservations")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "eventId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("user_event_unique")},
		{Keys: bson.D{{Key: "eventId", Value: 1}}, Options: options.Index().SetName("event_idx")},
	}); err != nil {
		utils.GetLogger().Warn("reservation indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoReservationRepo) Create(ctx context.Context, res *models.EventReservation) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, res)
	return repository.MapError(err, "failed to reserve event %s for user %s", res.EventID, res.UserID)
}

func (r *mongoReservationRepo) Get(ctx context.Context, userID, eventID string) (*models.EventReservation, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var res models.EventReservation
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID, "eventId": eventID}).Decode(&res); err != nil {
		return nil, repository.MapError(err, "failed to fetch reservation of %s for %s", userID, eventID)
	}
	return &res, nil
}

func (r *mongoReservationRepo) Delete(ctx context.Context, userID, eventID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	out, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "eventId": eventID})
	if err != nil {
		return repository.MapError(err, "failed to cancel reservation")
	}
	if out.DeletedCount == 0 {
		return repository.MapError(mongo.ErrNoDocuments, "reservation of %s for %s", userID, eventID)
	}
	return nil
}

func (r *mongoReservationRepo) ListByUser(ctx context.Context, userID string) ([]models.EventReservation, error) {
	out, err := repository.FindAll[models.EventReservation](ctx, r.coll, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return out, repository.MapError(err, "failed to list reservations for %s", userID)
}

func (r *mongoReservationRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, repository.MapError(err, "failed to count reservations for %s", eventID)
	}
	return int(n), nil
}

func (r *mongoReservationRepo) MarkCheckedIn(ctx context.Context, userID, eventID string, at time.Time) (*models.EventReservation, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"checkedIn": true, "checkedInAt": at}}
	var res models.EventReservation
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID, "eventId": eventID}, update, opts).Decode(&res); err != nil {
		return nil, repository.MapError(err, "failed to check in %s for %s", userID, eventID)
	}
	return &res, nil
}
