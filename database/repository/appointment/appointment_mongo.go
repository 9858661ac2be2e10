package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
//
// Atomicity of the check-then-write comes from a partial unique index on
// (mentorId, date, time) restricted to active statuses: concurrent writers
// race on the index, and the loser's duplicate-key error is mapped to
// ErrSlotTaken. No read-then-write window exists.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	repo := &MongoAppointmentRepo{coll: database.Collection("appointments")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	activeFilter := bson.M{
		"status":   bson.M{"$in": bson.A{string(models.AppointmentPending), string(models.AppointmentBooked)}},
		"mentorId": bson.M{"$exists": true},
	}
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "mentorId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(activeFilter),
		},
		{Keys: bson.D{{Key: "callerIdentity", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func activeStatusFilter() bson.M {
	return bson.M{"$in": bson.A{string(models.AppointmentPending), string(models.AppointmentBooked)}}
}

func (r *MongoAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) IsSlotTaken(mentorID, date, timeStr string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"mentorId": mentorID,
		"date":     date,
		"time":     timeStr,
		"status":   activeStatusFilter(),
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slot %s %s %s: %w", mentorID, date, timeStr, err)
	}
	return n > 0, nil
}

func (r *MongoAppointmentRepo) InsertIfSlotFree(ctx context.Context, appt *models.Appointment) error {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := r.coll.InsertOne(opCtx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) RescheduleIfSlotFree(ctx context.Context, apptID, newDate, newTime string) (*models.Appointment, error) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": apptID, "status": activeStatusFilter()}
	update := bson.M{"$set": bson.M{
		"date":      newDate,
		"time":      newTime,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	err := r.coll.FindOneAndUpdate(opCtx, filter, update, opts).Decode(&appt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		// The partial unique index rejects the move when the target slot is
		// held, leaving the source document unchanged.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to reschedule appointment %s: %w", apptID, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) Update(appt *models.Appointment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	appt.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": appt.ID}, bson.M{"$set": appt})
	if err != nil {
		return fmt.Errorf("failed to update appointment %s: %w", appt.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", appt.ID)
	}
	return nil
}

func (r *MongoAppointmentRepo) FindActiveBySlot(callerIdentity, date, timeStr string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"callerIdentity": callerIdentity,
		"date":           date,
		"time":           timeStr,
		"status":         activeStatusFilter(),
	}
	var appt models.Appointment
	if err := r.coll.FindOne(ctx, filter).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find appointment for %s at %s %s: %w", callerIdentity, date, timeStr, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) find(filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func statusesToFilter(statuses []models.AppointmentStatus) bson.M {
	vals := bson.A{}
	for _, s := range statuses {
		vals = append(vals, string(s))
	}
	return bson.M{"$in": vals}
}

func (r *MongoAppointmentRepo) ListForCaller(identity string, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	filter := bson.M{"callerIdentity": identity}
	if len(statuses) > 0 {
		filter["status"] = statusesToFilter(statuses)
	}
	return r.find(filter)
}

func (r *MongoAppointmentRepo) ListForMentor(mentorID string, statuses []models.AppointmentStatus, startDate, endDate string) ([]models.Appointment, error) {
	filter := bson.M{"mentorId": mentorID}
	if len(statuses) > 0 {
		filter["status"] = statusesToFilter(statuses)
	}
	addDateRange(filter, startDate, endDate)
	return r.find(filter)
}

func (r *MongoAppointmentRepo) ListAll(f Filter) ([]models.Appointment, error) {
	filter := bson.M{}
	if len(f.Statuses) > 0 {
		filter["status"] = statusesToFilter(f.Statuses)
	}
	if f.MentorID != "" {
		filter["mentorId"] = f.MentorID
	}
	addDateRange(filter, f.StartDate, f.EndDate)
	return r.find(filter)
}

func addDateRange(filter bson.M, startDate, endDate string) {
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
}

func (r *MongoAppointmentRepo) CountByStatus() (map[models.AppointmentStatus]int, error) {
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
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.AppointmentStatus]int)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode status count: %w", err)
		}
		counts[models.AppointmentStatus(row.ID)] = row.Count
	}
	return counts, cursor.Err()
}
