package sessionRepo

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

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a new instance of SessionRepository using MongoDB.
func NewMongoSessionRepo() SessionRepository {
	repo := &MongoSessionRepo{coll: database.Collection("sessions")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "callerIdentity", Value: 1}, {Key: "startedAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "lastActivityAt", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoSessionRepo) Create(session *models.ConversationSession) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepo) Get(id string) (*models.ConversationSession, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var session models.ConversationSession
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return &session, nil
}

func (r *MongoSessionRepo) Update(session *models.ConversationSession) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": session.ID}, bson.M{"$set": session})
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", session.ID)
	}
	return nil
}

func (r *MongoSessionRepo) AppendAction(sessionID string, entry models.ActionEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"actionLog": entry},
		"$set":  bson.M{"lastActivityAt": entry.Timestamp},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to append action to session %s: %w", sessionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

func (r *MongoSessionRepo) AddUsage(sessionID string, delta models.UsageDelta) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{
			"meters.speechSeconds":    delta.SpeechSeconds,
			"meters.synthesizedChars": delta.SynthesizedChars,
			"meters.llmInputTokens":   delta.LLMInputTokens,
			"meters.llmOutputTokens":  delta.LLMOutputTokens,
		},
		"$set": bson.M{"lastActivityAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to add usage to session %s: %w", sessionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

func (r *MongoSessionRepo) ListForCaller(identity string, limit int) ([]models.ConversationSession, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{"callerIdentity": identity}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for %s: %w", identity, err)
	}
	defer cursor.Close(ctx)

	var sessions []models.ConversationSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *MongoSessionRepo) ListAll(status models.SessionStatus, skip, limit int) ([]models.ConversationSession, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.ConversationSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *MongoSessionRepo) AbandonStale(cutoff time.Time) (int, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	// The status filter makes the sweep safe to run concurrently with
	// end_conversation: a session completed in between simply no longer matches.
	filter := bson.M{
		"status":         string(models.SessionActive),
		"lastActivityAt": bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{
		"status":  string(models.SessionAbandoned),
		"endedAt": time.Now(),
	}}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to abandon stale sessions: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *MongoSessionRepo) CountByStatus() (map[models.SessionStatus]int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.SessionStatus]int)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode status count: %w", err)
		}
		counts[models.SessionStatus(row.ID)] = row.Count
	}
	return counts, cursor.Err()
}

func (r *MongoSessionRepo) TotalCost() (float64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "cost", Value: bson.D{{Key: "$ne", Value: nil}}}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$cost.total"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum session costs: %w", err)
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var row struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return 0, fmt.Errorf("failed to decode cost total: %w", err)
		}
		return row.Total, nil
	}
	return 0, cursor.Err()
}
