package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const goalCollectionName = "goals"

// caseInsensitive compares strings ignoring case. Diacritics still count.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a new Goal repository.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Create inserts a new goal.
func (r *mongoGoalRepository) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	if goal.UserID.IsZero() || strings.TrimSpace(goal.Title) == "" {
		return primitive.NilObjectID, errors.New("goal requires userId and title")
	}
	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted goal ID")
	}
	return insertedID, nil
}

// GetByID retrieves a goal by id.
func (r *mongoGoalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// List returns all goals in creation order.
func (r *mongoGoalRepository) List(ctx context.Context) ([]domain.Goal, error) {
	return r.find(ctx, bson.M{})
}

// GetByUserID returns the user's goals in creation order, which is the order
// reconciliation visits them in.
func (r *mongoGoalRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoGoalRepository) find(ctx context.Context, filter bson.M) ([]domain.Goal, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	goals := []domain.Goal{}
	if err = cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// ExistsActiveByTitle runs a case-insensitive lookup through the collation of the
// user/status/title index.
func (r *mongoGoalRepository) ExistsActiveByTitle(ctx context.Context, userID primitive.ObjectID, title string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"userId": userID,
		"status": domain.GoalActive,
		"title":  strings.TrimSpace(title),
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetCollation(caseInsensitive).SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoGoalRepository) CountByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.GoalStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "status": status})
}

// Update writes every mutable field of the goal.
func (r *mongoGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if goal.ID.IsZero() {
		return errors.New("goal ID is required for update")
	}
	goal.UpdatedAt = time.Now().UTC()

	updateDoc := bson.M{
		"$set": bson.M{
			"title":        goal.Title,
			"description":  goal.Description,
			"category":     goal.Category,
			"status":       goal.Status,
			"targetValue":  goal.TargetValue,
			"currentValue": goal.CurrentValue,
			"unit":         goal.Unit,
			"startDate":    goal.StartDate,
			"targetDate":   goal.TargetDate,
			"updatedAt":    goal.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": goal.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a goal by id.
func (r *mongoGoalRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGoalIndexes creates necessary indexes. Call during startup.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			// Backs the duplicate active title check.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetCollation(caseInsensitive),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
