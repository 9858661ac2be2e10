package mentorRepo

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

// MongoMentorRepo implements MentorRepository using MongoDB.
type MongoMentorRepo struct {
	coll *mongo.Collection
}

// NewMongoMentorRepo creates a new instance of MentorRepository using MongoDB.
func NewMongoMentorRepo() MentorRepository {
	repo := &MongoMentorRepo{coll: database.Collection("mentors")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoMentorRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoMentorRepo) GetByID(id string) (*models.Mentor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var mentor models.Mentor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&mentor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch mentor %s: %w", id, err)
	}
	return &mentor, nil
}

func (r *MongoMentorRepo) GetByEmail(email string) (*models.Mentor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var mentor models.Mentor
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mentor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch mentor by email %s: %w", email, err)
	}
	return &mentor, nil
}

func (r *MongoMentorRepo) List(activeOnly bool) ([]models.Mentor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	defer cursor.Close(ctx)

	var mentors []models.Mentor
	if err := cursor.All(ctx, &mentors); err != nil {
		return nil, fmt.Errorf("failed to decode mentors: %w", err)
	}
	return mentors, nil
}

func (r *MongoMentorRepo) Create(mentor *models.Mentor) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	mentor.CreatedAt = now
	mentor.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, mentor); err != nil {
		return fmt.Errorf("failed to create mentor: %w", err)
	}
	return nil
}

func (r *MongoMentorRepo) Update(mentor *models.Mentor) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	mentor.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": mentor.ID}, bson.M{"$set": mentor})
	if err != nil {
		return fmt.Errorf("failed to update mentor %s: %w", mentor.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("mentor %s not found", mentor.ID)
	}
	return nil
}

func (r *MongoMentorRepo) Delete(id string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete mentor %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoMentorRepo) CountActive() (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count mentors: %w", err)
	}
	return int(n), nil
}
