// Package repository holds helpers shared by the Mongo-backed repositories.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marche/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OpTimeout bounds every single repository round trip.
const OpTimeout = 5 * time.Second

// IndexTimeout bounds index creation at startup.
const IndexTimeout = 10 * time.Second

// WithTimeout derives the per-operation context.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, OpTimeout)
}

// MapError translates driver errors to the utils sentinels and adds context.
func MapError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", msg, utils.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", msg, utils.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// EnsureIndexes creates the given indexes on coll.
func EnsureIndexes(coll *mongo.Collection, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), IndexTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", coll.Name(), err)
	}
	return nil
}

// FindAll runs a query and decodes every document into T.
func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := WithTimeout(ctx)
	defer cancel()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
