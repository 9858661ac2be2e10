package adminRepo

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

// MongoAdminRepo implements AdminRepository using MongoDB.
type MongoAdminRepo struct {
	coll *mongo.Collection
}

// NewMongoAdminRepo creates a new instance of AdminRepository using MongoDB.
func NewMongoAdminRepo() AdminRepository {
	repo := &MongoAdminRepo{coll: database.Collection("admins")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAdminRepo) ensureIndexes() error {
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

func (r *MongoAdminRepo) Create(admin *models.Admin) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("admin with email %s already exists", admin.Email)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *MongoAdminRepo) GetByID(id string) (*models.Admin, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&admin); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch admin %s: %w", id, err)
	}
	return &admin, nil
}

func (r *MongoAdminRepo) GetByEmail(email string) (*models.Admin, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch admin by email: %w", err)
	}
	return &admin, nil
}

func (r *MongoAdminRepo) UpdateLastLogin(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"lastLogin": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update last login for admin %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("admin %s not found", id)
	}
	return nil
}
