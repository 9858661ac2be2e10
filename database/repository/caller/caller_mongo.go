package callerRepo

import (
	"context"
	"fmt"
	"time"

	"mentorline/database"
	"mentorline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCallerRepo implements CallerRepository using MongoDB.
type MongoCallerRepo struct {
	coll *mongo.Collection
}

// NewMongoCallerRepo creates a new instance of CallerRepository using MongoDB.
func NewMongoCallerRepo() CallerRepository {
	repo := &MongoCallerRepo{coll: database.Collection("callers")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCallerRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "identity", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoCallerRepo) GetByIdentity(identity string) (*models.Caller, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var caller models.Caller
	if err := r.coll.FindOne(ctx, bson.M{"identity": identity}).Decode(&caller); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch caller %s: %w", identity, err)
	}
	return &caller, nil
}

func (r *MongoCallerRepo) GetOrCreate(identity, name string) (*models.Caller, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"identity": identity}
	update := bson.M{
		"$setOnInsert": bson.M{
			"identity":  identity,
			"name":      name,
			"active":    true,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var caller models.Caller
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&caller); err != nil {
		return nil, fmt.Errorf("failed to get-or-create caller %s: %w", identity, err)
	}
	return &caller, nil
}

func (r *MongoCallerRepo) Update(caller *models.Caller) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	caller.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"identity": caller.Identity}, bson.M{"$set": caller})
	if err != nil {
		return fmt.Errorf("failed to update caller %s: %w", caller.Identity, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("caller %s not found", caller.Identity)
	}
	return nil
}

func (r *MongoCallerRepo) List(skip, limit int) ([]models.Caller, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit)).SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list callers: %w", err)
	}
	defer cursor.Close(ctx)

	var callers []models.Caller
	if err := cursor.All(ctx, &callers); err != nil {
		return nil, fmt.Errorf("failed to decode callers: %w", err)
	}
	return callers, nil
}

func (r *MongoCallerRepo) Delete(identity string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"identity": identity})
	if err != nil {
		return false, fmt.Errorf("failed to delete caller %s: %w", identity, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoCallerRepo) Count() (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count callers: %w", err)
	}
	return int(n), nil
}
