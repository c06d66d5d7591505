package registrationRepo

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

type mongoRegistrationRepo struct {
	coll *mongo.Collection
}

func NewMongoRegistrationRepo(db *mongo.Database) RegistrationRepository {
	repo := &mongoRegistrationRepo{coll: db.Collection("registrations")}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("registration indexes", zap.Error(err))
	}
	return repo
}

// EnsureIndexes creates the necessary indexes on the registrations collection.
func (r *mongoRegistrationRepo) EnsureIndexes() error {
	return repository.EnsureIndexes(r.coll, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One registration per provider per event.
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "providerId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("event_provider_unique"),
		},
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("event_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}},
			Options: options.Index().SetName("provider_idx"),
		},
	})
}

func (r *mongoRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, reg)
	return repository.MapError(err, "failed to create registration for event %s provider %s", reg.EventID, reg.ProviderID)
}

func (r *mongoRegistrationRepo) Update(ctx context.Context, reg *models.Registration, expected models.RegistrationStatus) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	reg.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":               reg.Status,
		"offeringKind":         reg.OfferingKind,
		"products":             reg.Products,
		"timeSlots":            reg.TimeSlots,
		"onlineBookingEnabled": reg.OnlineBookingEnabled,
		"notes":                reg.Notes,
		"updatedAt":            reg.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": reg.ID, "status": expected}, update)
	if err != nil {
		return repository.MapError(err, "failed to update registration %s", reg.ID)
	}
	if res.MatchedCount == 0 {
		return repository.MapError(mongo.ErrNoDocuments, "registration %s in status %s", reg.ID, expected)
	}
	return nil
}

func (r *mongoRegistrationRepo) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoRegistrationRepo) GetByEventAndProvider(ctx context.Context, eventID, providerID string) (*models.Registration, error) {
	return r.findOne(ctx, bson.M{"eventId": eventID, "providerId": providerID})
}

func (r *mongoRegistrationRepo) findOne(ctx context.Context, filter bson.M) (*models.Registration, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var reg models.Registration
	if err := r.coll.FindOne(ctx, filter).Decode(&reg); err != nil {
		return nil, repository.MapError(err, "failed to fetch registration %v", filter)
	}
	return &reg, nil
}

func (r *mongoRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	regs, err := repository.FindAll[models.Registration](ctx, r.coll, bson.M{"eventId": eventID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	return regs, repository.MapError(err, "failed to list registrations for event %s", eventID)
}

func (r *mongoRegistrationRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Registration, error) {
	regs, err := repository.FindAll[models.Registration](ctx, r.coll, bson.M{"providerId": providerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return regs, repository.MapError(err, "failed to list registrations for provider %s", providerID)
}

func (r *mongoRegistrationRepo) UpdateStatus(ctx context.Context, id string, from, to models.RegistrationStatus) (*models.Registration, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}

	var reg models.Registration
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, update, opts).Decode(&reg); err != nil {
		return nil, repository.MapError(err, "failed to move registration %s from %s to %s", id, from, to)
	}
	return &reg, nil
}

func (r *mongoRegistrationRepo) CountByEventAndStatus(ctx context.Context, eventID string, status models.RegistrationStatus) (int, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"eventId": eventID, "status": status})
	if err != nil {
		return 0, repository.MapError(err, "failed to count registrations for event %s", eventID)
	}
	return int(n), nil
}
