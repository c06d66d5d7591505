package orderRepo

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

type mongoOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) OrderRepository {
	repo := &mongoOrderRepo{coll: db.Collection("service_orders")}
	if err := repository.EnsureIndexes(repo.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		// Sparse: closed orders drop activeKey and no longer participate.
		{Keys: bson.D{{Key: "activeKey", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true).SetName("active_order_unique")},
		{Keys: bson.D{{Key: "buyerId", Value: 1}}, Options: options.Index().SetName("buyer_idx")},
		{Keys: bson.D{{Key: "providerId", Value: 1}}, Options: options.Index().SetName("provider_idx")},
	}); err != nil {
		utils.GetLogger().Warn("order indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *models.ServiceOrder) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.ActiveKey = models.OrderActiveKey(order.ServiceID, order.BuyerID)
	_, err := r.coll.InsertOne(ctx, order)
	return repository.MapError(err, "failed to create order for service %s", order.ServiceID)
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var order models.ServiceOrder
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order); err != nil {
		return nil, repository.MapError(err, "failed to fetch order %s", id)
	}
	return &order, nil
}

func (r *mongoOrderRepo) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.ServiceOrder, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	if to.Terminal() {
		update["$unset"] = bson.M{"activeKey": ""}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.ServiceOrder
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, update, opts).Decode(&order); err != nil {
		return nil, repository.MapError(err, "failed to move order %s from %s to %s", id, from, to)
	}
	return &order, nil
}

func (r *mongoOrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]models.ServiceOrder, error) {
	out, err := repository.FindAll[models.ServiceOrder](ctx, r.coll, bson.M{"buyerId": buyerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return out, repository.MapError(err, "failed to list orders of buyer %s", buyerID)
}

func (r *mongoOrderRepo) ListByProvider(ctx context.Context, providerID string) ([]models.ServiceOrder, error) {
	out, err := repository.FindAll[models.ServiceOrder](ctx, r.coll, bson.M{"providerId": providerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return out, repository.MapError(err, "failed to list orders of provider %s", providerID)
}

func (r *mongoOrderRepo) HasCompleted(ctx context.Context, serviceID, buyerID string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"serviceId": serviceID, "buyerId": buyerID, "status": models.OrderCompleted},
		options.Count().SetLimit(1))
	if err != nil {
		return false, repository.MapError(err, "failed to check completed orders")
	}
	return n > 0, nil
}
