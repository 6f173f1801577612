package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// newestFirst is the dashboard order: start time, then id, both descending.
var newestFirst = bson.D{{Key: "startTime", Value: -1}, {Key: "_id", Value: -1}}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID.IsZero() || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.StartTime.IsZero() {
		workout.StartTime = now
	}

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List returns all workouts, newest first.
func (r *mongoWorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// GetByUserID retrieves the workouts of one user, newest first.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	findOptions := options.Find().SetSort(newestFirst)
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, bson.M{"userId": userID}, findOptions)
}

// CountByUserSince counts the user's workouts that started at or after since.
func (r *mongoWorkoutRepository) CountByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId":    userID,
		"startTime": bson.M{"$gte": since.UTC()},
	})
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update overwrites the editable fields of a workout. The owner never changes.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID.IsZero() {
		return errors.New("workout ID is required for update")
	}
	workout.UpdatedAt = time.Now().UTC()

	updateDoc := bson.M{
		"$set": bson.M{
			"name":        workout.Name,
			"description": workout.Description,
			"type":        workout.Type,
			"duration":    workout.Duration,
			"startTime":   workout.StartTime,
			"updatedAt":   workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout by id.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Dashboard: recent workouts of a user.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startTime", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
