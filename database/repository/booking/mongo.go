package bookingRepo

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

type mongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := &mongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("booking indexes", zap.Error(err))
	}
	return repo
}

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *mongoBookingRepo) EnsureIndexes() error {
	return repository.EnsureIndexes(r.coll, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// First claim wins: the insert of a second booking for a slot fails here.
		{
			Keys:    bson.D{{Key: "timeSlotId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("timeslot_unique"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("user_idx"),
		},
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "providerId", Value: 1}},
			Options: options.Index().SetName("event_provider_idx"),
		},
	})
}

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, booking)
	return repository.MapError(err, "failed to book slot %s", booking.TimeSlotID)
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		return nil, repository.MapError(err, "failed to fetch booking %s", id)
	}
	return &b, nil
}

func (r *mongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return repository.MapError(err, "failed to delete booking %s", id)
	}
	if res.DeletedCount == 0 {
		return repository.MapError(mongo.ErrNoDocuments, "booking %s", id)
	}
	return nil
}

func (r *mongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	out, err := repository.FindAll[models.Booking](ctx, r.coll, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return out, repository.MapError(err, "failed to list bookings for user %s", userID)
}

func (r *mongoBookingRepo) ListByEventAndProvider(ctx context.Context, eventID, providerID string) ([]models.Booking, error) {
	out, err := repository.FindAll[models.Booking](ctx, r.coll, bson.M{"eventId": eventID, "providerId": providerID},
		options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
	return out, repository.MapError(err, "failed to list bookings for event %s provider %s", eventID, providerID)
}

func (r *mongoBookingRepo) BookedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error) {
	booked := make(map[string]bool)
	if len(slotIDs) == 0 {
		return booked, nil
	}
	opts := options.Find().SetProjection(bson.M{"timeSlotId": 1})
	out, err := repository.FindAll[models.Booking](ctx, r.coll, bson.M{"timeSlotId": bson.M{"$in": slotIDs}}, opts)
	if err != nil {
		return nil, repository.MapError(err, "failed to check booked slots")
	}
	for _, b := range out {
		booked[b.TimeSlotID] = true
	}
	return booked, nil
}
