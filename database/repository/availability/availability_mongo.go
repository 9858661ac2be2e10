package availabilityRepo

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

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo creates a new instance of AvailabilityRepository using MongoDB.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	repo := &MongoAvailabilityRepo{coll: database.Collection("availability")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAvailabilityRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "mentorId", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) Add(window *models.AvailabilityWindow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	window.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, window); err != nil {
		return fmt.Errorf("failed to add availability window: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) Remove(windowID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": windowID})
	if err != nil {
		return false, fmt.Errorf("failed to remove availability window %s: %w", windowID, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoAvailabilityRepo) ListForMentor(mentorID, startDate, endDate string) ([]models.AvailabilityWindow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"mentorId": mentorID}
	dateFilter := bson.M{}
	if startDate != "" {
		dateFilter["$gte"] = startDate
	}
	if endDate != "" {
		dateFilter["$lte"] = endDate
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability for mentor %s: %w", mentorID, err)
	}
	defer cursor.Close(ctx)

	var windows []models.AvailabilityWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode availability windows: %w", err)
	}
	return windows, nil
}
